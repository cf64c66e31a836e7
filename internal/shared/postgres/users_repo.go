package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"tableside/internal/domain/users"
	"tableside/internal/ports"
)

// UsersRepo implements persistence for user accounts.
type UsersRepo struct{}

// NewUsersRepo constructs a new UsersRepo.
func NewUsersRepo() ports.UserRepository {
	return &UsersRepo{}
}

// Create inserts a user row.
func (r *UsersRepo) Create(ctx context.Context, u *users.User) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
		INSERT INTO users (id, name, email, role)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, u.ID, u.Name, u.Email, u.Role).Scan(&u.CreatedAt)
}

// GetByID retrieves one user.
func (r *UsersRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var u users.User
	err = tx.QueryRow(ctx, `
		SELECT id, name, email, role, created_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, users.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// List returns every user, oldest account first.
func (r *UsersRepo) List(ctx context.Context) ([]users.User, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, name, email, role, created_at
		FROM users
		ORDER BY created_at ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []users.User
	for rows.Next() {
		var u users.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdateRole changes one user's role.
func (r *UsersRepo) UpdateRole(ctx context.Context, id string, role users.Role) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `UPDATE users SET role = $2 WHERE id = $1`, id, role)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return users.ErrNotFound
	}
	return nil
}
