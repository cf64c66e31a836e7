// Package notifications holds the per-user notification records created
// when an order changes state.
package notifications

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a notification does not exist.
var ErrNotFound = errors.New("notification not found")

// Notification is one row of a user's notification inbox. The broker event
// mirrors it; the row is the system of record.
type Notification struct {
	ID        string // UUID
	UserID    string
	OrderID   string
	Message   string
	IsRead    bool
	CreatedAt time.Time
}
