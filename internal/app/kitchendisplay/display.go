// Package kitchendisplay drives the kitchen console: a queue of accepted
// orders fed by the kitchen topic, plus the mark-ready action.
package kitchendisplay

import (
	"context"
	"fmt"
	"io"

	"tableside/internal/domain/orders"
	"tableside/internal/feed"
	"tableside/internal/ports"
	"tableside/internal/shared/contracts"
	"tableside/internal/shared/logger"
	"tableside/internal/topics"
	"tableside/internal/view"
)

// Display is one kitchen station's queue.
type Display struct {
	station string
	feed    *feed.Feed
	queue   *view.OrderList
	reducer *view.Reducer
	actions ports.OrderActions
	logger  *logger.Logger
	out     io.Writer
}

// New wires a display for the given station name.
func New(station string, f *feed.Feed, acts ports.OrderActions, log *logger.Logger, out io.Writer) *Display {
	queue := view.NewOrderList()
	return &Display{
		station: station,
		feed:    f,
		queue:   queue,
		reducer: view.NewReducer(queue, nil, log),
		actions: acts,
		logger:  log,
		out:     out,
	}
}

// Start seeds the queue with orders already in preparation and subscribes
// to the kitchen topic.
func (d *Display) Start(ctx context.Context) error {
	preparing, err := d.actions.ListByStatus(ctx, orders.StatusPreparing)
	if err != nil {
		d.logger.Error(ctx, "queue_seed_failed", "Could not fetch preparing orders; starting from events only", err)
	} else {
		seed := make([]contracts.OrderEvent, 0, len(preparing))
		for i := range preparing {
			seed = append(seed, contracts.FromOrder(&preparing[i]))
		}
		d.queue.Seed(seed)
	}

	return d.feed.Subscribe(topics.KitchenOrder())
}

// Run folds inbound events until the context ends.
func (d *Display) Run(ctx context.Context) {
	d.render()
	for {
		select {
		case <-ctx.Done():
			d.feed.Close()
			return
		case <-d.feed.Wake():
			if msgs := d.feed.Unprocessed(); len(msgs) > 0 {
				d.reducer.ApplyAll(msgs)
				d.render()
			}
		}
	}
}

// Ready moves an order to READY and announces it to the staff member who
// accepted it.
func (d *Display) Ready(ctx context.Context, orderID string) error {
	order, err := d.actions.UpdateStatus(ctx, orderID, orders.StatusReady, d.station)
	if err != nil {
		return err
	}
	d.queue.Remove(orderID)

	if order.ProcessedBy == nil || *order.ProcessedBy == "" {
		d.logger.Error(ctx, "ready_publish_skipped", "Order has no accepting staff member to address",
			fmt.Errorf("order %s has no processed_by", orderID))
		return nil
	}

	// ready consumers historically key this payload by orderId
	event := contracts.FromOrder(order)
	event.OrderID = event.ID
	event.ID = ""

	if err := d.feed.Publish(ctx, topics.KitchenReady(*order.ProcessedBy), event); err != nil {
		d.logger.Error(ctx, "ready_publish_failed", "Staff will pick the order up on their next fetch", err)
	}

	fmt.Fprintf(d.out, "Order %s is ready for pickup\n", shortID(orderID))
	return nil
}

// Queue exposes the materialized list for rendering and tests.
func (d *Display) Queue() *view.OrderList { return d.queue }

// render prints the current queue.
func (d *Display) render() {
	snapshot := d.queue.Snapshot()
	fmt.Fprintf(d.out, "--- kitchen queue (%d) ---\n", len(snapshot))
	for _, o := range snapshot {
		fmt.Fprintf(d.out, "  %s  %d items  %s\n", shortID(o.ID), len(o.Items), o.Customer.Name)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
