// Package actions provides the order-actions capability consoles use:
// a local implementation for processes collocated with the system of
// record, and a remote one speaking the order-service HTTP API. Callers
// select one by deployment context instead of falling back inline.
package actions

import (
	"context"

	"tableside/internal/domain/notifications"
	"tableside/internal/domain/orders"
	"tableside/internal/ports"
)

// Local performs order actions through the in-process application services.
type Local struct {
	orders ports.OrderService
	notifs ports.NotificationService
}

var _ ports.OrderActions = (*Local)(nil)

// NewLocal wraps the in-process services.
func NewLocal(orderSvc ports.OrderService, notifSvc ports.NotificationService) *Local {
	return &Local{orders: orderSvc, notifs: notifSvc}
}

func (l *Local) PlaceOrder(ctx context.Context, cmd ports.PlaceOrderCommand) (*orders.Order, error) {
	return l.orders.PlaceOrder(ctx, cmd)
}

func (l *Local) UpdateStatus(ctx context.Context, orderID string, next orders.OrderStatus, changedBy string) (*orders.Order, error) {
	return l.orders.UpdateStatus(ctx, orderID, next, changedBy)
}

func (l *Local) GetOrder(ctx context.Context, orderID string) (*orders.Order, error) {
	return l.orders.GetOrder(ctx, orderID)
}

func (l *Local) ListByStatus(ctx context.Context, status orders.OrderStatus) ([]orders.Order, error) {
	return l.orders.ListByStatus(ctx, status)
}

func (l *Local) CreateNotification(ctx context.Context, userID, orderID, message string) (*notifications.Notification, error) {
	return l.notifs.Notify(ctx, userID, orderID, message)
}

func (l *Local) MarkNotificationsRead(ctx context.Context, userID string) error {
	return l.notifs.MarkAllRead(ctx, userID)
}
