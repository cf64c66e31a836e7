// Package broker owns the connection to the publish/subscribe transport
// that carries order events between the order service, the staff dashboard,
// the kitchen display, and customer notification watchers.
//
// Delivery is best-effort fan-out at QoS 0: a message reaches the
// subscribers connected at the moment of publishing and nobody else. There
// is no persistence, no redelivery, and no ordering across topics.
package broker

import (
	"context"
	"errors"
	"time"

	"tableside/internal/shared/config"
	"tableside/internal/shared/logger"
)

// ErrNotConnected is returned by Publish when no broker connection is
// currently established. Publishes are never queued for retry.
var ErrNotConnected = errors.New("broker: not connected")

// Message is one inbound event as seen by a subscriber. The timestamp is
// assigned on arrival, not by the broker.
type Message struct {
	Topic      string
	Payload    []byte
	ReceivedAt time.Time
}

// Handler receives inbound messages. It is invoked on the transport's
// schedule and must not block for long.
type Handler func(msg Message)

// Bus is one logical connection to the broker, exclusively owned by the
// context that dialed it. The subscribed topic set is fixed for the life of
// the connection; changing it means closing and dialing again.
type Bus interface {
	// Publish sends a raw payload to a topic, fire-and-forget. Fails fast
	// with ErrNotConnected while the connection is down.
	Publish(ctx context.Context, topic string, payload []byte) error

	// Connected reports the current transport state.
	Connected() bool

	// Close unsubscribes and tears the connection down. Idempotent, and
	// safe to call even if the connection never succeeded.
	Close()
}

// Dial opens a connection per the configured broker mode, subscribed to the
// given topic filters. handler may be nil for publish-only connections.
func Dial(ctx context.Context, cfg *config.Config, log *logger.Logger, subs []string, handler Handler) (Bus, error) {
	switch cfg.Broker.Mode {
	case config.BrokerModeMQTT:
		return DialMQTT(ctx, cfg, log, subs, handler)
	case config.BrokerModeMemory:
		return DefaultHub.Connect(subs, handler), nil
	default:
		return nil, errors.New("broker: unsupported mode " + cfg.Broker.Mode)
	}
}
