package ports

import (
	"context"

	"tableside/internal/domain/menu"
	"tableside/internal/domain/notifications"
	"tableside/internal/domain/orders"
	"tableside/internal/domain/users"
)

// UnitOfWork wraps a function in a DB transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OrderRepository coordinates orders + items. Status updates are
// compare-and-swap on the current status: the system-of-record write is the
// only serialization point for concurrent state transitions.
type OrderRepository interface {
	CreateOrder(ctx context.Context, o *orders.Order) error
	GetByID(ctx context.Context, id string) (*orders.Order, error)
	ListByStatus(ctx context.Context, status orders.OrderStatus) ([]orders.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]orders.Order, error)
	UpdateStatusCAS(ctx context.Context, id string, expected, next orders.OrderStatus, changedBy string) (applied bool, err error)
}

// MenuRepository controls the menu catalogue.
type MenuRepository interface {
	CreateItem(ctx context.Context, item *menu.Item) error
	GetItem(ctx context.Context, id string) (*menu.Item, error)
	GetItemsByIDs(ctx context.Context, ids []string) ([]menu.Item, error)
	ListItems(ctx context.Context, onlyAvailable bool) ([]menu.Item, error)
	UpdateItem(ctx context.Context, item *menu.Item) error
	DeleteItem(ctx context.Context, id string) error
}

// UserRepository controls user accounts and their roles.
type UserRepository interface {
	Create(ctx context.Context, u *users.User) error
	GetByID(ctx context.Context, id string) (*users.User, error)
	List(ctx context.Context) ([]users.User, error)
	UpdateRole(ctx context.Context, id string, role users.Role) error
}

// NotificationRepository controls per-user notification inboxes.
type NotificationRepository interface {
	Create(ctx context.Context, n *notifications.Notification) error
	ListByUser(ctx context.Context, userID string) ([]notifications.Notification, error)
	Delete(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}
