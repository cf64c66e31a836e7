package ports

import (
	"context"

	"tableside/internal/domain/notifications"
	"tableside/internal/domain/orders"
)

// OrderActions is the capability a console needs to act on orders. Two
// implementations exist: a local one wrapping the application services
// in-process (when the console is collocated with the system of record)
// and a remote one calling the order-service HTTP API. The console picks
// by deployment context instead of falling back inline at each call site.
type OrderActions interface {
	PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*orders.Order, error)
	UpdateStatus(ctx context.Context, orderID string, next orders.OrderStatus, changedBy string) (*orders.Order, error)
	GetOrder(ctx context.Context, orderID string) (*orders.Order, error)
	ListByStatus(ctx context.Context, status orders.OrderStatus) ([]orders.Order, error)
	CreateNotification(ctx context.Context, userID, orderID, message string) (*notifications.Notification, error)
	MarkNotificationsRead(ctx context.Context, userID string) error
}
