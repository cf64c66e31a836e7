// Package view folds the local event buffer into the materialized lists a
// console renders.
package view

import (
	"sync"

	"tableside/internal/shared/contracts"
)

// OrderList is an ordered sequence of order events keyed by order id.
// Identifier uniqueness is an invariant of this list, not of the transport:
// duplicate and replayed events collapse here.
type OrderList struct {
	mu     sync.RWMutex
	orders []contracts.OrderEvent
}

// NewOrderList creates an empty list.
func NewOrderList() *OrderList {
	return &OrderList{}
}

// Seed replaces the list contents with an initial fetch from the system of
// record, deduplicating by id.
func (l *OrderList) Seed(orders []contracts.OrderEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.orders = l.orders[:0]
	seen := make(map[string]bool, len(orders))
	for _, o := range orders {
		o.Normalize()
		if o.ID == "" || seen[o.ID] {
			continue
		}
		seen[o.ID] = true
		l.orders = append(l.orders, o)
	}
}

// InsertHead prepends the order unless its id is already present.
func (l *OrderList) InsertHead(o contracts.OrderEvent) bool {
	o.Normalize()
	l.mu.Lock()
	defer l.mu.Unlock()

	if o.ID == "" || l.indexOf(o.ID) >= 0 {
		return false
	}
	l.orders = append([]contracts.OrderEvent{o}, l.orders...)
	return true
}

// InsertTail appends the order unless its id is already present.
func (l *OrderList) InsertTail(o contracts.OrderEvent) bool {
	o.Normalize()
	l.mu.Lock()
	defer l.mu.Unlock()

	if o.ID == "" || l.indexOf(o.ID) >= 0 {
		return false
	}
	l.orders = append(l.orders, o)
	return true
}

// Remove deletes the order with the given id. Absence is not an error.
func (l *OrderList) Remove(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return false
	}
	l.orders = append(l.orders[:i], l.orders[i+1:]...)
	return true
}

// Has reports whether an order with the given id is present.
func (l *OrderList) Has(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.indexOf(id) >= 0
}

// Len returns the number of orders in the list.
func (l *OrderList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.orders)
}

// Snapshot returns a copy of the list, head first.
func (l *OrderList) Snapshot() []contracts.OrderEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]contracts.OrderEvent, len(l.orders))
	copy(out, l.orders)
	return out
}

// indexOf must be called with the lock held.
func (l *OrderList) indexOf(id string) int {
	for i := range l.orders {
		if l.orders[i].ID == id {
			return i
		}
	}
	return -1
}
