package orderservice

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"tableside/internal/domain/menu"
	"tableside/internal/ports"
	"tableside/internal/shared/logger"
)

// MenuService implements ports.MenuService.
type MenuService struct {
	uow    ports.UnitOfWork
	repo   ports.MenuRepository
	logger *logger.Logger
}

var _ ports.MenuService = (*MenuService)(nil)

// NewMenuService creates the menu catalogue service.
func NewMenuService(uow ports.UnitOfWork, repo ports.MenuRepository, log *logger.Logger) *MenuService {
	return &MenuService{uow: uow, repo: repo, logger: log}
}

func (s *MenuService) CreateItem(ctx context.Context, item *menu.Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	item.ID = uuid.NewString()
	return s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return s.repo.CreateItem(txCtx, item)
	})
}

func (s *MenuService) GetItem(ctx context.Context, id string) (*menu.Item, error) {
	var out *menu.Item
	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = s.repo.GetItem(txCtx, id)
		return err
	})
	return out, err
}

func (s *MenuService) ListItems(ctx context.Context, onlyAvailable bool) ([]menu.Item, error) {
	var out []menu.Item
	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = s.repo.ListItems(txCtx, onlyAvailable)
		return err
	})
	return out, err
}

func (s *MenuService) UpdateItem(ctx context.Context, item *menu.Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	return s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return s.repo.UpdateItem(txCtx, item)
	})
}

func (s *MenuService) DeleteItem(ctx context.Context, id string) error {
	return s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return s.repo.DeleteItem(txCtx, id)
	})
}

func validateItem(item *menu.Item) error {
	item.Name = strings.TrimSpace(item.Name)
	if len(item.Name) < 1 || len(item.Name) > 100 {
		return errors.New("menu item name must be 1-100 characters long")
	}
	if item.Price < 0 {
		return errors.New("menu item price must not be negative")
	}
	return nil
}
