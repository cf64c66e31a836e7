// Package staffdashboard drives the staff console: a live board of pending
// orders fed by the checkout and cancel topics, plus the accept and
// complete actions.
package staffdashboard

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"tableside/internal/domain/orders"
	"tableside/internal/feed"
	"tableside/internal/ports"
	"tableside/internal/shared/contracts"
	"tableside/internal/shared/logger"
	"tableside/internal/topics"
	"tableside/internal/view"
)

// Dashboard is one staff member's view of the order board.
type Dashboard struct {
	staffID string
	feed    *feed.Feed
	board   *view.OrderList
	reducer *view.Reducer
	actions ports.OrderActions
	logger  *logger.Logger
	out     io.Writer
}

// New wires a dashboard for the given staff member.
func New(staffID string, f *feed.Feed, acts ports.OrderActions, log *logger.Logger, out io.Writer) *Dashboard {
	board := view.NewOrderList()
	return &Dashboard{
		staffID: staffID,
		feed:    f,
		board:   board,
		reducer: view.NewReducer(board, nil, log),
		actions: acts,
		logger:  log,
		out:     out,
	}
}

// Start seeds the board from the system of record and opens the event
// subscription. A failed seed degrades to an empty board that fills from
// events; it does not abort the console.
func (d *Dashboard) Start(ctx context.Context) error {
	pending, err := d.actions.ListByStatus(ctx, orders.StatusPending)
	if err != nil {
		d.logger.Error(ctx, "board_seed_failed", "Could not fetch pending orders; starting from events only", err)
	} else {
		seed := make([]contracts.OrderEvent, 0, len(pending))
		for i := range pending {
			seed = append(seed, contracts.FromOrder(&pending[i]))
		}
		d.board.Seed(seed)
	}

	// the ready topic is addressed to this staff member so completed
	// kitchen work lands back on their board
	return d.feed.Subscribe(
		topics.OrderCheckout(),
		topics.CustomerCancel(topics.Wildcard),
		topics.KitchenReady(d.staffID),
	)
}

// Run folds inbound events until the context ends.
func (d *Dashboard) Run(ctx context.Context) {
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

// Accept moves a pending order to PREPARING, records the customer
// notification, and announces both the acceptance and the kitchen ticket
// on this console's connection.
func (d *Dashboard) Accept(ctx context.Context, orderID string) error {
	order, err := d.actions.UpdateStatus(ctx, orderID, orders.StatusPreparing, d.staffID)
	if err != nil {
		if errors.Is(err, orders.ErrStatusConflict) {
			d.logger.Info(ctx, "accept_lost_race", "Order was already taken by another staff member", map[string]any{"order_id": orderID})
		}
		return err
	}
	d.board.Remove(orderID)

	message := fmt.Sprintf("Order %s is being prepared", shortID(orderID))
	note := contracts.NotificationEvent{
		Title:   "Order",
		Type:    "order",
		Content: message,
		Read:    false,
		Time:    time.Now().UTC().Format("2006-01-02 15:04:05"),
		Status:  string(orders.StatusPreparing),
		OrderID: orderID,
	}
	if n, err := d.actions.CreateNotification(ctx, order.CustomerID, orderID, message); err != nil {
		d.logger.Error(ctx, "notification_create_failed", "Acceptance stored but notification row was not created", err)
	} else {
		note.ID = n.ID
	}

	if err := d.feed.Publish(ctx, topics.AcceptCustomerOrder(order.CustomerID), note); err != nil {
		d.logger.Error(ctx, "accept_publish_failed", "Customer will not see the acceptance until they refresh", err)
	}
	if err := d.feed.Publish(ctx, topics.KitchenOrder(), contracts.FromOrder(order)); err != nil {
		d.logger.Error(ctx, "kitchen_publish_failed", "Kitchen will pick the order up on its next fetch", err)
	}

	fmt.Fprintf(d.out, "Accepted order %s for %s\n", shortID(orderID), order.CustomerName)
	return nil
}

// Complete closes out a ready order and announces completion to the
// customer.
func (d *Dashboard) Complete(ctx context.Context, orderID string) error {
	order, err := d.actions.UpdateStatus(ctx, orderID, orders.StatusCompleted, d.staffID)
	if err != nil {
		return err
	}
	d.board.Remove(orderID)

	completedAt := time.Now().UTC()
	if order.CompletedAt != nil {
		completedAt = *order.CompletedAt
	}
	if err := d.feed.Publish(ctx, topics.StaffCompleted(order.CustomerID), contracts.NewCompleted(orderID, completedAt)); err != nil {
		d.logger.Error(ctx, "completed_publish_failed", "Customer will not see the completion until they refresh", err)
	}

	fmt.Fprintf(d.out, "Completed order %s\n", shortID(orderID))
	return nil
}

// Board exposes the materialized list for rendering and tests.
func (d *Dashboard) Board() *view.OrderList { return d.board }

// render prints the current board.
func (d *Dashboard) render() {
	snapshot := d.board.Snapshot()
	fmt.Fprintf(d.out, "--- order board (%d) ---\n", len(snapshot))
	for _, o := range snapshot {
		fmt.Fprintf(d.out, "  %s  %-9s  $%.2f  %s\n", shortID(o.ID), o.Status, o.TotalAmount, o.Customer.Name)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
