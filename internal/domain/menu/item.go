// Package menu holds the menu catalogue the ordering flow prices against.
package menu

import (
	"errors"
	"time"

	"tableside/internal/domain/orders"
)

// ErrNotFound is returned when a menu item does not exist.
var ErrNotFound = errors.New("menu item not found")

// Item is one entry of the menu.
type Item struct {
	ID          string // UUID
	Name        string
	Description string
	Price       orders.Money // in cents
	ImageURL    *string
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
