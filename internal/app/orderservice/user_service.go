package orderservice

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"tableside/internal/domain/users"
	"tableside/internal/ports"
	"tableside/internal/shared/logger"
)

// UserService implements ports.UserService. New accounts start as
// customers; role promotion is a separate administrative call.
type UserService struct {
	uow    ports.UnitOfWork
	repo   ports.UserRepository
	logger *logger.Logger
}

var _ ports.UserService = (*UserService)(nil)

// NewUserService creates the account service.
func NewUserService(uow ports.UnitOfWork, repo ports.UserRepository, log *logger.Logger) *UserService {
	return &UserService{uow: uow, repo: repo, logger: log}
}

// Register stores a new account.
func (s *UserService) Register(ctx context.Context, u *users.User) error {
	u.Name = strings.TrimSpace(u.Name)
	if len(u.Name) < 1 || len(u.Name) > 100 {
		return errors.New("user name must be 1-100 characters long")
	}
	u.Email = strings.TrimSpace(u.Email)
	if u.Email == "" || !strings.Contains(u.Email, "@") {
		return errors.New("a valid email is required")
	}
	if u.Role == "" {
		u.Role = users.RoleCustomer
	}
	if _, ok := users.ParseRole(string(u.Role)); !ok {
		return errors.New("unknown role " + string(u.Role))
	}

	u.ID = uuid.NewString()
	return s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		return s.repo.Create(txCtx, u)
	})
}

func (s *UserService) GetUser(ctx context.Context, id string) (*users.User, error) {
	var out *users.User
	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = s.repo.GetByID(txCtx, id)
		return err
	})
	return out, err
}

func (s *UserService) ListUsers(ctx context.Context) ([]users.User, error) {
	var out []users.User
	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		var err error
		out, err = s.repo.List(txCtx)
		return err
	})
	return out, err
}

// UpdateRole changes a user's role and returns the updated account.
func (s *UserService) UpdateRole(ctx context.Context, id string, role users.Role) (*users.User, error) {
	if _, ok := users.ParseRole(string(role)); !ok {
		return nil, errors.New("unknown role " + string(role))
	}

	var out *users.User
	err := s.uow.WithinTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.UpdateRole(txCtx, id, role); err != nil {
			return err
		}
		var err error
		out, err = s.repo.GetByID(txCtx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user_role_updated", "User role changed",
		map[string]any{"user_id": id, "role": string(role)})
	return out, nil
}
