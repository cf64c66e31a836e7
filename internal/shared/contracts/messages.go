// Package contracts holds the JSON wire shapes carried on the order event
// topics. Field names are a bit-exact contract with every dashboard on the
// broker; change them and remote consumers stop correlating events.
package contracts

import "time"

// CustomerRef identifies the customer on an order event.
type CustomerRef struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// MenuItemRef is the menu item snapshot embedded in an order item.
type MenuItemRef struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"` // unit price in dollars
}

// OrderItemEvent is one line of an order as published on the wire.
type OrderItemEvent struct {
	ID             string      `json:"id,omitempty"`
	Quantity       int         `json:"quantity"`
	SpecialRequest *string     `json:"specialRequest,omitempty"`
	MenuItem       MenuItemRef `json:"menuItem"`
}

// OrderEvent is published on the checkout, kitchen order, and kitchen ready
// topics. Some producers key the order by "orderId" instead of "id";
// consumers must normalize before comparing identifiers.
type OrderEvent struct {
	ID          string           `json:"id"`
	OrderID     string           `json:"orderId,omitempty"`
	CustomerID  string           `json:"customerId,omitempty"`
	PreparerID  string           `json:"preparerId,omitempty"`
	Status      string           `json:"status,omitempty"`
	TotalAmount float64          `json:"totalAmount"`
	CreatedAt   time.Time        `json:"createdAt"`
	Customer    CustomerRef      `json:"customer"`
	Items       []OrderItemEvent `json:"items"`
}

// Normalize folds the alternate identifier field into the canonical one.
func (e *OrderEvent) Normalize() {
	if e.ID == "" {
		e.ID = e.OrderID
	}
}

// CancelEvent is published on the cancel topic for one order.
type CancelEvent struct {
	OrderID string `json:"orderId"`
	ID      string `json:"id,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

// CanonicalID returns the order identifier regardless of which field the
// producer used.
func (e CancelEvent) CanonicalID() string {
	if e.OrderID != "" {
		return e.OrderID
	}
	return e.ID
}

// NotificationEvent is published on the per-customer accept topic.
type NotificationEvent struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	Type    string `json:"type,omitempty"`
	Content string `json:"content"`
	Read    bool   `json:"read"`
	Time    string `json:"time"`
	Status  string `json:"status"`
	OrderID string `json:"orderId"`
}

// CompletedEvent is published on the per-customer completed topic.
type CompletedEvent struct {
	OrderID     string    `json:"orderId"`
	Status      string    `json:"status"`
	CompletedAt time.Time `json:"completedAt"`
}
