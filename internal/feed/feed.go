// Package feed maintains a console's live view of the order event stream:
// one broker connection, an append-only local buffer of everything that
// arrived on it, and a publish capability on the same connection for
// client-initiated events.
package feed

import (
	"context"
	"sync"

	"tableside/internal/broker"
	"tableside/internal/shared/logger"
)

// DialFunc opens a broker connection subscribed to the given topic filters.
type DialFunc func(subs []string, handler broker.Handler) (broker.Bus, error)

// Feed owns one subscription set and its local event buffer. The buffer is
// append-only and scoped to the feed's lifetime; messages are never mutated
// after arrival. Consumers fold new entries through Unprocessed, which
// hands every message out exactly once, in arrival order.
type Feed struct {
	dial DialFunc
	log  *logger.Logger

	mu     sync.Mutex
	bus    broker.Bus
	pub    *broker.Publisher
	buffer []broker.Message
	cursor int

	wake chan struct{}
}

// New creates a feed with no active subscription.
func New(dial DialFunc, log *logger.Logger) *Feed {
	return &Feed{
		dial: dial,
		log:  log,
		wake: make(chan struct{}, 1),
	}
}

// Subscribe replaces the current topic set. The existing connection, if
// any, is torn down and a fresh one dialed; subscription state is never
// patched in place. The buffer and cursor survive reconfiguration.
func (f *Feed) Subscribe(topicSet ...string) error {
	f.mu.Lock()
	old := f.bus
	f.bus = nil
	f.pub = nil
	f.mu.Unlock()

	if old != nil {
		old.Close()
	}

	bus, err := f.dial(topicSet, f.append)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.bus = bus
	f.pub = broker.NewPublisher(bus, f.log)
	f.mu.Unlock()
	return nil
}

// append runs synchronously inside the transport's message callback, so a
// message observed by the connection is in the buffer before anything else
// gets to run.
func (f *Feed) append(msg broker.Message) {
	f.mu.Lock()
	f.buffer = append(f.buffer, msg)
	f.mu.Unlock()

	select {
	case f.wake <- struct{}{}:
	default:
	}
}

// Unprocessed returns every buffered message not yet handed out and
// advances the cursor past them. Two messages arriving back-to-back are
// both returned; none are skipped.
func (f *Feed) Unprocessed() []broker.Message {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cursor >= len(f.buffer) {
		return nil
	}
	out := make([]broker.Message, len(f.buffer)-f.cursor)
	copy(out, f.buffer[f.cursor:])
	f.cursor = len(f.buffer)
	return out
}

// Messages returns a snapshot of the full buffer, oldest first.
func (f *Feed) Messages() []broker.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]broker.Message, len(f.buffer))
	copy(out, f.buffer)
	return out
}

// Wake signals when new messages have been appended since the last drain.
func (f *Feed) Wake() <-chan struct{} { return f.wake }

// Publish emits a client-initiated event on the feed's own connection.
func (f *Feed) Publish(ctx context.Context, topic string, event any) error {
	f.mu.Lock()
	pub := f.pub
	f.mu.Unlock()

	if pub == nil {
		return broker.ErrNotConnected
	}
	return pub.Publish(ctx, topic, event)
}

// Connected reports the state of the underlying connection.
func (f *Feed) Connected() bool {
	f.mu.Lock()
	bus := f.bus
	f.mu.Unlock()
	return bus != nil && bus.Connected()
}

// Close tears down the connection. The buffer remains readable.
func (f *Feed) Close() {
	f.mu.Lock()
	bus := f.bus
	f.bus = nil
	f.pub = nil
	f.mu.Unlock()

	if bus != nil {
		bus.Close()
	}
}
