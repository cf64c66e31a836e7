package view

import (
	"context"
	"encoding/json"
	"fmt"

	"tableside/internal/broker"
	"tableside/internal/shared/contracts"
	"tableside/internal/shared/logger"
	"tableside/internal/topics"
)

// NotificationSink receives accept/completed events, which surface as
// notification records rather than entries of the order list.
type NotificationSink func(n contracts.NotificationEvent)

// Reducer folds buffered messages into a materialized order list. It reads
// the buffer forward exactly once and never mutates a buffered message.
// Out-of-order arrivals across topics are expected and never an error: a
// cancel for an order that was never inserted is a no-op, a ready event for
// an order already removed simply re-inserts it.
type Reducer struct {
	list   *OrderList
	notify NotificationSink
	log    *logger.Logger
}

// NewReducer builds a reducer over the given list. sink may be nil when the
// view has no notification surface.
func NewReducer(list *OrderList, sink NotificationSink, log *logger.Logger) *Reducer {
	return &Reducer{list: list, notify: sink, log: log}
}

// ApplyAll folds a batch of messages in arrival order.
func (r *Reducer) ApplyAll(msgs []broker.Message) {
	for _, msg := range msgs {
		r.Apply(msg)
	}
}

// Apply folds a single message. Malformed payloads are logged and dropped;
// they never stop future message processing.
func (r *Reducer) Apply(msg broker.Message) {
	switch topics.CategoryOf(msg.Topic) {
	case topics.CategoryCheckout:
		var event contracts.OrderEvent
		if !r.decode(msg, &event) {
			return
		}
		r.list.InsertHead(event)

	case topics.CategoryCancel:
		var event contracts.CancelEvent
		if !r.decode(msg, &event) {
			return
		}
		r.list.Remove(event.CanonicalID())

	case topics.CategoryKitchenOrder, topics.CategoryKitchenReady:
		var event contracts.OrderEvent
		if !r.decode(msg, &event) {
			return
		}
		// InsertTail normalizes orderId -> id before the dedup comparison.
		r.list.InsertTail(event)

	case topics.CategoryAccept:
		var event contracts.NotificationEvent
		if !r.decode(msg, &event) {
			return
		}
		if r.notify != nil {
			r.notify(event)
		}

	case topics.CategoryCompleted:
		var event contracts.CompletedEvent
		if !r.decode(msg, &event) {
			return
		}
		if r.notify != nil {
			r.notify(contracts.NotificationEvent{
				Title:   "Order",
				Type:    "order",
				Content: fmt.Sprintf("Order %s is ready for pickup", shortID(event.OrderID)),
				Time:    event.CompletedAt.Format("2006-01-02 15:04:05"),
				Status:  event.Status,
				OrderID: event.OrderID,
			})
		}

	default:
		r.log.Debug(context.Background(), "event_ignored", "Message on unrecognized topic", map[string]any{"topic": msg.Topic})
	}
}

// decode parses a payload, logging and dropping malformed JSON.
func (r *Reducer) decode(msg broker.Message, into any) bool {
	if err := json.Unmarshal(msg.Payload, into); err != nil {
		r.log.Error(context.Background(), "event_decode_failed",
			fmt.Sprintf("Dropping malformed payload on %s", msg.Topic), err)
		return false
	}
	return true
}

// shortID trims an order UUID for human-readable rendering.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
