package postgres

import (
	"context"

	"tableside/internal/domain/notifications"
	"tableside/internal/ports"
)

// NotificationsRepo implements persistence for notification inboxes.
type NotificationsRepo struct{}

// NewNotificationsRepo constructs a new NotificationsRepo.
func NewNotificationsRepo() ports.NotificationRepository {
	return &NotificationsRepo{}
}

// Create inserts a notification row.
func (r *NotificationsRepo) Create(ctx context.Context, n *notifications.Notification) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
		INSERT INTO notifications (id, user_id, order_id, message, is_read)
		VALUES ($1, $2, $3, $4, false)
		RETURNING created_at
	`, n.ID, n.UserID, n.OrderID, n.Message).Scan(&n.CreatedAt)
}

// ListByUser returns a user's notifications, newest first.
func (r *NotificationsRepo) ListByUser(ctx context.Context, userID string) ([]notifications.Notification, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, user_id, order_id, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []notifications.Notification
	for rows.Next() {
		var n notifications.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.OrderID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// Delete removes a notification.
func (r *NotificationsRepo) Delete(ctx context.Context, id string) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return notifications.ErrNotFound
	}
	return nil
}

// MarkAllRead flags every notification of a user as read.
func (r *NotificationsRepo) MarkAllRead(ctx context.Context, userID string) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE notifications SET is_read = true WHERE user_id = $1`, userID)
	return err
}
