package broker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"tableside/internal/shared/config"
	"tableside/internal/shared/logger"
)

// newPahoClient builds the underlying MQTT client. Swapped for a fake in
// tests.
var newPahoClient = func(opts *mqtt.ClientOptions) mqtt.Client {
	return mqtt.NewClient(opts)
}

// MQTTClient is a resilient MQTT connector. Subscriptions are not durable
// across reconnects, so the full topic set is re-issued inside the
// on-connect callback after every successful (re)connect.
type MQTTClient struct {
	log            *logger.Logger
	logCtx         context.Context // survives the caller's request context across reconnects
	topics         []string
	handler        Handler
	publishTimeout time.Duration

	cli mqtt.Client

	mu        sync.RWMutex
	connected bool
	closed    bool
}

var _ Bus = (*MQTTClient)(nil)

// DialMQTT connects to the broker with a fresh random client id and an
// indefinite fixed-interval reconnect policy. A failed or timed-out initial
// connect is not fatal: the retry loop keeps dialing until Close.
func DialMQTT(ctx context.Context, cfg *config.Config, log *logger.Logger, subs []string, handler Handler) (*MQTTClient, error) {
	if cfg.Broker.URL == "" {
		return nil, errors.New("broker: url is not configured")
	}

	client := &MQTTClient{
		log:            log,
		logCtx:         context.WithoutCancel(ctx),
		topics:         append([]string(nil), subs...),
		handler:        handler,
		publishTimeout: cfg.Broker.PublishTimeout.Std(),
	}

	clientID := "tableside-" + uuid.NewString()[:8]
	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker.URL).
		SetClientID(clientID).
		SetCleanSession(true).
		SetConnectTimeout(cfg.Broker.ConnectTimeout.Std()).
		SetAutoReconnect(true).
		SetMaxReconnectInterval(cfg.Broker.ReconnectInterval.Std()).
		SetConnectRetry(true).
		SetConnectRetryInterval(cfg.Broker.ReconnectInterval.Std()).
		SetOnConnectHandler(client.onConnect).
		SetConnectionLostHandler(client.onConnectionLost)

	client.cli = newPahoClient(opts)

	// Kick off the connect. The token is only waited on for the bounded
	// initial timeout; afterwards the retry loop owns the outcome.
	token := client.cli.Connect()
	if token.WaitTimeout(cfg.Broker.ConnectTimeout.Std()) {
		if err := token.Error(); err != nil {
			log.Error(client.logCtx, "broker_connect_failed", "Initial MQTT connect failed; retrying in background", err)
		}
	} else {
		log.Warn(client.logCtx, "broker_connect_pending",
			"MQTT connect did not complete within timeout; retrying in background",
			map[string]any{"url": cfg.Broker.URL, "client_id": clientID})
	}

	return client, nil
}

// onConnect runs after every successful connect, including reconnects, and
// re-issues the full subscription set.
func (client *MQTTClient) onConnect(cli mqtt.Client) {
	client.mu.Lock()
	client.connected = true
	client.mu.Unlock()

	client.log.Info(client.logCtx, "broker_connected", "Connected to MQTT broker", map[string]any{"topics": client.topics})

	for _, topic := range client.topics {
		token := cli.Subscribe(topic, 0, client.route)
		token.Wait()
		if err := token.Error(); err != nil {
			// One failed topic must not abort the rest of the batch. The
			// next reconnect cycle retries the whole set.
			client.log.Error(client.logCtx, "broker_subscribe_failed",
				fmt.Sprintf("Failed to subscribe to %s", topic), err)
			continue
		}
		client.log.Debug(client.logCtx, "broker_subscribed", "Subscribed to topic", map[string]any{"topic": topic})
	}
}

// onConnectionLost flips the connected flag; paho's retry loop handles the
// rest.
func (client *MQTTClient) onConnectionLost(_ mqtt.Client, err error) {
	client.mu.Lock()
	client.connected = false
	client.mu.Unlock()

	client.log.Error(client.logCtx, "broker_connection_lost", "MQTT connection lost", err)
}

// route forwards an inbound transport message to the owning handler.
func (client *MQTTClient) route(_ mqtt.Client, m mqtt.Message) {
	if client.handler == nil {
		return
	}
	client.handler(Message{
		Topic:      m.Topic(),
		Payload:    m.Payload(),
		ReceivedAt: time.Now().UTC(),
	})
}

// Publish sends a payload at QoS 0. No queueing, no retry: while
// disconnected it fails fast without touching the network.
func (client *MQTTClient) Publish(ctx context.Context, topic string, payload []byte) error {
	if !client.Connected() {
		return ErrNotConnected
	}

	token := client.cli.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(client.publishTimeout) {
		return fmt.Errorf("broker: publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("broker: publish to %s: %w", topic, err)
	}
	return nil
}

// Connected reports whether the transport link is currently up.
func (client *MQTTClient) Connected() bool {
	client.mu.RLock()
	defer client.mu.RUnlock()
	return client.connected
}

// Close unsubscribes all topics if connected, then disconnects gracefully.
// Safe to call repeatedly and safe when the connection never succeeded.
func (client *MQTTClient) Close() {
	client.mu.Lock()
	if client.closed {
		client.mu.Unlock()
		return
	}
	client.closed = true
	wasConnected := client.connected
	client.connected = false
	client.mu.Unlock()

	if wasConnected && len(client.topics) > 0 {
		token := client.cli.Unsubscribe(client.topics...)
		token.WaitTimeout(2 * time.Second)
	}

	// quiesce in milliseconds; waits for in-flight work before dropping
	client.cli.Disconnect(250)

	client.log.Info(client.logCtx, "broker_closed", "MQTT connection closed", nil)
}
