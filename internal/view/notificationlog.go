package view

import (
	"sync"

	"tableside/internal/shared/contracts"
)

// NotificationLog collects the notification-style events a view surfaces
// outside its order list. Append-only for the life of the view.
type NotificationLog struct {
	mu      sync.RWMutex
	entries []contracts.NotificationEvent
}

// NewNotificationLog creates an empty log.
func NewNotificationLog() *NotificationLog {
	return &NotificationLog{}
}

// Append records one notification. Usable directly as a NotificationSink.
func (nl *NotificationLog) Append(n contracts.NotificationEvent) {
	nl.mu.Lock()
	defer nl.mu.Unlock()
	nl.entries = append(nl.entries, n)
}

// Unread counts entries not yet marked read.
func (nl *NotificationLog) Unread() int {
	nl.mu.RLock()
	defer nl.mu.RUnlock()

	count := 0
	for i := range nl.entries {
		if !nl.entries[i].Read {
			count++
		}
	}
	return count
}

// MarkAllRead flags every entry as read.
func (nl *NotificationLog) MarkAllRead() {
	nl.mu.Lock()
	defer nl.mu.Unlock()
	for i := range nl.entries {
		nl.entries[i].Read = true
	}
}

// Snapshot returns a copy of all entries, oldest first.
func (nl *NotificationLog) Snapshot() []contracts.NotificationEvent {
	nl.mu.RLock()
	defer nl.mu.RUnlock()
	out := make([]contracts.NotificationEvent, len(nl.entries))
	copy(out, nl.entries)
	return out
}
