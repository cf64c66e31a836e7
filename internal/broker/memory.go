package broker

import (
	"context"
	"sync"
	"time"

	"tableside/internal/topics"
)

// Hub is an in-process broker used when every mode runs inside one binary,
// and as the transport double in tests. Semantics mirror the real broker at
// QoS 0: fan-out to currently-connected subscribers only, wildcard filters
// applied per subscription, nothing buffered for absentees.
type Hub struct {
	mu    sync.RWMutex
	conns map[*memoryConn]struct{}
}

// DefaultHub is the process-wide hub used by the "memory" broker mode.
var DefaultHub = NewHub()

// NewHub creates an empty in-process broker.
func NewHub() *Hub {
	return &Hub{conns: make(map[*memoryConn]struct{})}
}

// Connect attaches a new logical connection subscribed to the given topic
// filters. handler may be nil for publish-only connections.
func (h *Hub) Connect(subs []string, handler Handler) Bus {
	conn := &memoryConn{
		hub:     h,
		filters: append([]string(nil), subs...),
		handler: handler,
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	return conn
}

// deliver fans a message out to every connection with a matching filter.
// Each connection receives the message at most once even when several of
// its filters match.
func (h *Hub) deliver(topic string, payload []byte) {
	h.mu.RLock()
	targets := make([]*memoryConn, 0, len(h.conns))
	for conn := range h.conns {
		targets = append(targets, conn)
	}
	h.mu.RUnlock()

	now := time.Now().UTC()
	for _, conn := range targets {
		if conn.handler == nil {
			continue
		}
		for _, filter := range conn.filters {
			if topics.Matches(filter, topic) {
				// payload copy keeps subscribers from aliasing each other
				body := append([]byte(nil), payload...)
				conn.handler(Message{Topic: topic, Payload: body, ReceivedAt: now})
				break
			}
		}
	}
}

type memoryConn struct {
	hub     *Hub
	filters []string
	handler Handler

	mu     sync.RWMutex
	closed bool
}

var _ Bus = (*memoryConn)(nil)

func (c *memoryConn) Publish(_ context.Context, topic string, payload []byte) error {
	if !c.Connected() {
		return ErrNotConnected
	}
	c.hub.deliver(topic, payload)
	return nil
}

func (c *memoryConn) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.closed
}

func (c *memoryConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.mu.Unlock()

	c.hub.mu.Lock()
	delete(c.hub.conns, c)
	c.hub.mu.Unlock()
}
