package ports

import (
	"context"

	"tableside/internal/domain/menu"
	"tableside/internal/domain/notifications"
	"tableside/internal/domain/orders"
	"tableside/internal/domain/users"
)

// OrderService handles the ordering flow: validate → price from menu →
// tx insert → publish checkout event.
type OrderService interface {
	PlaceOrder(ctx context.Context, cmd PlaceOrderCommand) (*orders.Order, error)
	UpdateStatus(ctx context.Context, orderID string, next orders.OrderStatus, changedBy string) (*orders.Order, error)
	GetOrder(ctx context.Context, orderID string) (*orders.Order, error)
	ListByStatus(ctx context.Context, status orders.OrderStatus) ([]orders.Order, error)
	ListCustomerOrders(ctx context.Context, customerID string) ([]orders.Order, error)
}

// PlaceOrderCommand is the input for placing a new order.
type PlaceOrderCommand struct {
	CustomerID   string
	CustomerName string
	Items        []OrderItemInput
}

// OrderItemInput is one requested line of a new order.
type OrderItemInput struct {
	MenuItemID     string
	Quantity       int
	SpecialRequest *string
}

// MenuService manages the menu catalogue.
type MenuService interface {
	CreateItem(ctx context.Context, item *menu.Item) error
	GetItem(ctx context.Context, id string) (*menu.Item, error)
	ListItems(ctx context.Context, onlyAvailable bool) ([]menu.Item, error)
	UpdateItem(ctx context.Context, item *menu.Item) error
	DeleteItem(ctx context.Context, id string) error
}

// UserService manages accounts and the role administration surface.
type UserService interface {
	Register(ctx context.Context, u *users.User) error
	GetUser(ctx context.Context, id string) (*users.User, error)
	ListUsers(ctx context.Context) ([]users.User, error)
	UpdateRole(ctx context.Context, id string, role users.Role) (*users.User, error)
}

// NotificationService manages per-user notification inboxes.
type NotificationService interface {
	Notify(ctx context.Context, userID, orderID, message string) (*notifications.Notification, error)
	ListForUser(ctx context.Context, userID string) ([]notifications.Notification, error)
	MarkAllRead(ctx context.Context, userID string) error
	Delete(ctx context.Context, id string) error
}
