package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"tableside/internal/domain/menu"
	"tableside/internal/ports"
)

// MenuRepo implements persistence for menu items.
type MenuRepo struct{}

// NewMenuRepo constructs a new MenuRepo.
func NewMenuRepo() ports.MenuRepository {
	return &MenuRepo{}
}

// CreateItem inserts a menu item.
func (r *MenuRepo) CreateItem(ctx context.Context, item *menu.Item) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
		INSERT INTO menu_items (id, name, description, price, image_url, is_available)
		VALUES ($1, $2, $3, $4::numeric/100, $5, $6)
		RETURNING created_at, updated_at
	`, item.ID, item.Name, item.Description, int64(item.Price), item.ImageURL, item.IsAvailable,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
}

// GetItem fetches one menu item by id.
func (r *MenuRepo) GetItem(ctx context.Context, id string) (*menu.Item, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var item menu.Item
	err = tx.QueryRow(ctx, `
		SELECT id, name, description, (price*100)::bigint, image_url, is_available, created_at, updated_at
		FROM menu_items
		WHERE id = $1
	`, id).Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.ImageURL, &item.IsAvailable, &item.CreatedAt, &item.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, menu.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// GetItemsByIDs fetches the menu items the order pricing needs in one query.
func (r *MenuRepo) GetItemsByIDs(ctx context.Context, ids []string) ([]menu.Item, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id, name, description, (price*100)::bigint, image_url, is_available, created_at, updated_at
		FROM menu_items
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

// ListItems returns the catalogue, optionally only available entries.
func (r *MenuRepo) ListItems(ctx context.Context, onlyAvailable bool) ([]menu.Item, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT id, name, description, (price*100)::bigint, image_url, is_available, created_at, updated_at
		FROM menu_items
		ORDER BY name ASC`
	if onlyAvailable {
		query = `
		SELECT id, name, description, (price*100)::bigint, image_url, is_available, created_at, updated_at
		FROM menu_items
		WHERE is_available
		ORDER BY name ASC`
	}

	rows, err := tx.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanItems(rows)
}

// UpdateItem rewrites a menu item.
func (r *MenuRepo) UpdateItem(ctx context.Context, item *menu.Item) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
		UPDATE menu_items
		SET name = $2, description = $3, price = $4::numeric/100, image_url = $5, is_available = $6, updated_at = now()
		WHERE id = $1
	`, item.ID, item.Name, item.Description, int64(item.Price), item.ImageURL, item.IsAvailable)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

// DeleteItem removes a menu item.
func (r *MenuRepo) DeleteItem(ctx context.Context, id string) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return menu.ErrNotFound
	}
	return nil
}

func scanItems(rows pgx.Rows) ([]menu.Item, error) {
	var out []menu.Item
	for rows.Next() {
		var item menu.Item
		err := rows.Scan(&item.ID, &item.Name, &item.Description, &item.Price, &item.ImageURL, &item.IsAvailable, &item.CreatedAt, &item.UpdatedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
