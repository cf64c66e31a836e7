// Package notificationwatcher renders one customer's live notifications:
// acceptance events and completion events addressed to their id.
package notificationwatcher

import (
	"context"
	"fmt"
	"io"

	"tableside/internal/feed"
	"tableside/internal/ports"
	"tableside/internal/shared/contracts"
	"tableside/internal/shared/logger"
	"tableside/internal/topics"
	"tableside/internal/view"
)

// Watcher tails the notification topics for one customer.
type Watcher struct {
	customerID string
	feed       *feed.Feed
	inbox      *view.NotificationLog
	reducer    *view.Reducer
	actions    ports.OrderActions
	logger     *logger.Logger
	out        io.Writer
}

// New wires a watcher for the given customer id.
func New(customerID string, f *feed.Feed, acts ports.OrderActions, log *logger.Logger, out io.Writer) *Watcher {
	inbox := view.NewNotificationLog()
	w := &Watcher{
		customerID: customerID,
		feed:       f,
		inbox:      inbox,
		actions:    acts,
		logger:     log,
		out:        out,
	}
	// notification events bypass the order list and land in the inbox
	w.reducer = view.NewReducer(view.NewOrderList(), w.receive, log)
	return w
}

// Start subscribes to both per-customer topics.
func (w *Watcher) Start(ctx context.Context) error {
	return w.feed.Subscribe(
		topics.AcceptCustomerOrder(w.customerID),
		topics.StaffCompleted(w.customerID),
	)
}

// Run folds inbound events until the context ends.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.feed.Close()
			return
		case <-w.feed.Wake():
			w.reducer.ApplyAll(w.feed.Unprocessed())
		}
	}
}

// receive records one notification and prints a human-readable line.
func (w *Watcher) receive(n contracts.NotificationEvent) {
	w.inbox.Append(n)
	fmt.Fprintf(w.out, "Notification for order %s: %s (status %s, %d unread)\n",
		shortID(n.OrderID), n.Content, n.Status, w.inbox.Unread())
}

// MarkAllRead flags the stored inbox as read, then clears the local unread
// counter. The local view stays unread when the write fails.
func (w *Watcher) MarkAllRead(ctx context.Context) error {
	if err := w.actions.MarkNotificationsRead(ctx, w.customerID); err != nil {
		w.logger.Error(ctx, "mark_read_failed", "Could not mark stored notifications read", err)
		return err
	}
	w.inbox.MarkAllRead()
	fmt.Fprintln(w.out, "All notifications marked read")
	return nil
}

// Inbox exposes the notification log for rendering and tests.
func (w *Watcher) Inbox() *view.NotificationLog { return w.inbox }

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
