package broker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"tableside/internal/shared/logger"
	"tableside/internal/topics"
)

// ErrWildcardPublish is returned when a publish targets a topic containing
// the subscribe-only wildcard segment.
var ErrWildcardPublish = errors.New("broker: cannot publish to a wildcard topic")

// Publisher serializes domain events and sends them over a Bus. It is
// advisory with respect to the system-of-record write that precedes it:
// failures are logged and reported, never retried or queued.
type Publisher struct {
	bus Bus
	log *logger.Logger
}

// NewPublisher wraps a Bus with event serialization.
func NewPublisher(bus Bus, log *logger.Logger) *Publisher {
	return &Publisher{bus: bus, log: log}
}

// Publish serializes event to JSON (strings pass through as-is) and sends
// it to topic. An empty serialized payload is a no-op. Fails with
// ErrNotConnected while the connection is down; the caller decides whether
// to degrade gracefully.
func (p *Publisher) Publish(ctx context.Context, topic string, event any) error {
	if strings.Contains(topic, topics.Wildcard) {
		return ErrWildcardPublish
	}
	if strings.HasSuffix(topic, "/") {
		return fmt.Errorf("broker: topic %q is missing its recipient segment", topic)
	}

	payload, err := encodePayload(event)
	if err != nil {
		return fmt.Errorf("broker: encode event for %s: %w", topic, err)
	}
	if len(strings.TrimSpace(string(payload))) == 0 {
		return nil
	}

	if err := p.bus.Publish(ctx, topic, payload); err != nil {
		p.log.Error(ctx, "event_publish_failed", fmt.Sprintf("Failed to publish to %s", topic), err)
		return err
	}

	p.log.Debug(ctx, "event_published", "Published event", map[string]any{
		"topic": topic,
		"bytes": len(payload),
	})
	return nil
}

// Connected reports whether the underlying connection is up.
func (p *Publisher) Connected() bool { return p.bus.Connected() }

// encodePayload turns an event into its UTF-8 JSON wire form.
func encodePayload(event any) ([]byte, error) {
	switch v := event.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return json.Marshal(v)
	}
}
