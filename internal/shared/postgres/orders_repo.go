package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"tableside/internal/domain/orders"
	"tableside/internal/ports"
)

// OrdersRepo implements persistence for orders using pgx and SQL.
type OrdersRepo struct{}

// NewOrdersRepo constructs a new OrdersRepo.
func NewOrdersRepo() ports.OrderRepository {
	return &OrdersRepo{}
}

// CreateOrder inserts the order header, its items, and an initial PENDING
// status log entry.
func (r *OrdersRepo) CreateOrder(ctx context.Context, order *orders.Order) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	// total_amount is NUMERIC(10,2) in DB; we send integer cents and divide by 100 in SQL.
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, customer_id, customer_name, status, total_amount)
		VALUES ($1, $2, $3, 'PENDING', $4::numeric/100)
		RETURNING created_at, updated_at, status`,
		order.ID,
		order.CustomerID,
		order.CustomerName,
		int64(order.TotalAmount),
	).Scan(&order.CreatedAt, &order.UpdatedAt, &order.Status)
	if err != nil {
		return err
	}

	for i := range order.Items {
		it := &order.Items[i]
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items (id, order_id, menu_item_id, name, quantity, unit_price, special_request)
			VALUES ($1, $2, $3, $4, $5, $6::numeric/100, $7)
		`,
			it.ID,
			order.ID,
			it.MenuItemID,
			it.Name,
			it.Quantity,
			int64(it.UnitPrice),
			it.SpecialRequest,
		)
		if err != nil {
			return err
		}
		it.OrderID = order.ID
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, 'PENDING', 'system', $2)
	`, order.ID, time.Now().UTC())
	return err
}

// GetByID retrieves an order with its items and current status.
func (r *OrdersRepo) GetByID(ctx context.Context, id string) (*orders.Order, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var order orders.Order
	err = tx.QueryRow(ctx, `
		SELECT id, customer_id, customer_name, status, (total_amount*100)::bigint, processed_by, created_at, updated_at, completed_at
		FROM orders
		WHERE id = $1
	`, id).Scan(
		&order.ID, &order.CustomerID, &order.CustomerName, &order.Status,
		&order.TotalAmount, &order.ProcessedBy, &order.CreatedAt, &order.UpdatedAt, &order.CompletedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, orders.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, tx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByStatus returns orders in one status, oldest first, with items.
func (r *OrdersRepo) ListByStatus(ctx context.Context, status orders.OrderStatus) ([]orders.Order, error) {
	return r.list(ctx, `
		SELECT id, customer_id, customer_name, status, (total_amount*100)::bigint, processed_by, created_at, updated_at, completed_at
		FROM orders
		WHERE status = $1
		ORDER BY created_at ASC
	`, string(status))
}

// ListByCustomer returns a customer's orders, newest first, with items.
func (r *OrdersRepo) ListByCustomer(ctx context.Context, customerID string) ([]orders.Order, error) {
	return r.list(ctx, `
		SELECT id, customer_id, customer_name, status, (total_amount*100)::bigint, processed_by, created_at, updated_at, completed_at
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`, customerID)
}

// UpdateStatusCAS updates the order status only when the current status
// still matches the expected one, and appends a status log row. Accepting
// staff are recorded in processed_by; completion stamps completed_at.
func (r *OrdersRepo) UpdateStatusCAS(ctx context.Context, id string, expected, next orders.OrderStatus, changedBy string) (bool, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return false, err
	}

	var updated bool
	err = tx.QueryRow(ctx, `
		UPDATE orders
		SET status = $1,
		    updated_at = now(),
		    processed_by = CASE WHEN $1 = 'PREPARING' THEN $4 ELSE processed_by END,
		    completed_at = CASE WHEN $1 = 'COMPLETED' THEN now() ELSE completed_at END
		WHERE id = $2 AND status = $3
		RETURNING true
	`, next, id, expected, changedBy).Scan(&updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, now())
	`, id, next, changedBy)
	return true, err
}

// --- internals ---

func (r *OrdersRepo) list(ctx context.Context, query string, arg any) ([]orders.Order, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []orders.Order
	for rows.Next() {
		var order orders.Order
		err = rows.Scan(
			&order.ID, &order.CustomerID, &order.CustomerName, &order.Status,
			&order.TotalAmount, &order.ProcessedBy, &order.CreatedAt, &order.UpdatedAt, &order.CompletedAt,
		)
		if err != nil {
			return nil, err
		}
		out = append(out, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if err := r.loadItems(ctx, tx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *OrdersRepo) loadItems(ctx context.Context, tx pgx.Tx, order *orders.Order) error {
	rows, err := tx.Query(ctx, `
		SELECT id, menu_item_id, name, quantity, (unit_price*100)::bigint, special_request
		FROM order_items
		WHERE order_id = $1
	`, order.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var item orders.OrderItem
		err = rows.Scan(&item.ID, &item.MenuItemID, &item.Name, &item.Quantity, &item.UnitPrice, &item.SpecialRequest)
		if err != nil {
			return err
		}
		item.OrderID = order.ID
		order.Items = append(order.Items, item)
	}
	return rows.Err()
}
