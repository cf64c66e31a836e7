package orderservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableside/internal/domain/users"
	"tableside/internal/ports"
	"tableside/internal/shared/logger"
)

type memUsersRepo struct {
	byID map[string]*users.User
}

var _ ports.UserRepository = (*memUsersRepo)(nil)

func newMemUsersRepo() *memUsersRepo {
	return &memUsersRepo{byID: map[string]*users.User{}}
}

func (r *memUsersRepo) Create(_ context.Context, u *users.User) error {
	u.CreatedAt = time.Now().UTC()
	cp := *u
	r.byID[u.ID] = &cp
	return nil
}

func (r *memUsersRepo) GetByID(_ context.Context, id string) (*users.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, users.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUsersRepo) List(_ context.Context) ([]users.User, error) {
	out := make([]users.User, 0, len(r.byID))
	for _, u := range r.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (r *memUsersRepo) UpdateRole(_ context.Context, id string, role users.Role) error {
	u, ok := r.byID[id]
	if !ok {
		return users.ErrNotFound
	}
	u.Role = role
	return nil
}

func newUserService() (*UserService, *memUsersRepo) {
	repo := newMemUsersRepo()
	return NewUserService(passthroughUOW{}, repo, logger.NewLogger("test")), repo
}

func TestRegisterDefaultsToCustomer(t *testing.T) {
	svc, _ := newUserService()

	u := &users.User{Name: "Ann", Email: "ann@example.com"}
	require.NoError(t, svc.Register(context.Background(), u))

	assert.NotEmpty(t, u.ID)
	assert.Equal(t, users.RoleCustomer, u.Role)
	assert.False(t, u.CreatedAt.IsZero())
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	cases := []struct {
		name string
		u    users.User
	}{
		{"blank name", users.User{Name: "   ", Email: "a@b.c"}},
		{"missing email", users.User{Name: "Ann"}},
		{"email without at sign", users.User{Name: "Ann", Email: "ann.example.com"}},
		{"unknown role", users.User{Name: "Ann", Email: "a@b.c", Role: "ADMIN"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := tc.u
			assert.Error(t, svc.Register(ctx, &u))
		})
	}
}

func TestUpdateRole(t *testing.T) {
	svc, _ := newUserService()
	ctx := context.Background()

	u := &users.User{Name: "Ann", Email: "ann@example.com"}
	require.NoError(t, svc.Register(ctx, u))

	updated, err := svc.UpdateRole(ctx, u.ID, users.RoleStaff)
	require.NoError(t, err)
	assert.Equal(t, users.RoleStaff, updated.Role)

	got, err := svc.GetUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, users.RoleStaff, got.Role)
}

func TestUpdateRoleRejectsUnknownRole(t *testing.T) {
	svc, _ := newUserService()

	_, err := svc.UpdateRole(context.Background(), "u-1", "OWNER")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown role")
}

func TestUpdateRoleUnknownUser(t *testing.T) {
	svc, _ := newUserService()

	_, err := svc.UpdateRole(context.Background(), "ghost", users.RoleChef)
	require.ErrorIs(t, err, users.ErrNotFound)
}

func TestParseRoleIsCaseSensitive(t *testing.T) {
	_, ok := users.ParseRole("staff")
	assert.False(t, ok)

	role, ok := users.ParseRole("CHEF")
	assert.True(t, ok)
	assert.Equal(t, users.RoleChef, role)
}
