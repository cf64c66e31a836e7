package orders

import (
	"errors"
	"time"
)

// Domain-level sentinel errors, discriminated at the HTTP boundary.
var (
	ErrNotFound       = errors.New("order not found")
	ErrStatusConflict = errors.New("order status changed concurrently")
)

// OrderItem represents a single item in an order. The menu item name and
// unit price are snapshotted at order time so later menu edits do not
// rewrite history.
type OrderItem struct {
	ID             string
	OrderID        string
	MenuItemID     string
	Name           string
	Quantity       int
	UnitPrice      Money // per-unit in cents
	SpecialRequest *string
}

// Order represents a customer's order.
type Order struct {
	ID           string // UUID
	CustomerID   string
	CustomerName string
	Status       OrderStatus
	TotalAmount  Money
	Items        []OrderItem
	ProcessedBy  *string // staff member who accepted the order
	CreatedAt    time.Time
	UpdatedAt    time.Time
	CompletedAt  *time.Time
}

// SetTotalAmount recomputes total from items.
func (order *Order) SetTotalAmount() {
	var sum Money
	for _, it := range order.Items {
		sum += Money(it.Quantity) * it.UnitPrice
	}
	order.TotalAmount = sum
}
