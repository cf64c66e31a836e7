package orderservice

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"tableside/internal/domain/notifications"
	"tableside/internal/ports"
	"tableside/internal/shared/logger"
)

// NotificationService implements ports.NotificationService. Rows are the
// system of record; the broker event mirroring a new notification is
// emitted by the caller that created it.
type NotificationService struct {
	uow    ports.UnitOfWork
	repo   ports.NotificationRepository
	logger *logger.Logger
}

var _ ports.NotificationService = (*NotificationService)(nil)

// NewNotificationService creates the notification inbox service.
func NewNotificationService(uow ports.UnitOfWork, repo ports.NotificationRepository, log *logger.Logger) *NotificationService {
	return &NotificationService{uow: uow, repo: repo, logger: log}
}

// Notify stores a notification for a user about an order.
func (s *NotificationService) Notify(ctx context.Context, userID, orderID, message string) (*notifications.Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("user_id is required")
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, errors.New("order_id is required")
	}

	n := &notifications.Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		OrderID: orderID,
		Message: message,
	}
	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, n)
	})
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ListForUser returns a user's inbox, newest first.
func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]notifications.Notification, error) {
	var out []notifications.Notification
	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = s.repo.ListByUser(txCtx, userID)
		return err
	})
	return out, err
}

// MarkAllRead flags a user's whole inbox as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return s.repo.MarkAllRead(txCtx, userID)
	})
}

// Delete removes one notification.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return s.repo.Delete(txCtx, id)
	})
}
