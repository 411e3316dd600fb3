package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minicart/fulfillment/internal/domain/order"
)

type OrderStore struct {
	pool *pgxpool.Pool
}

func NewOrderStore(pool *pgxpool.Pool) *OrderStore {
	return &OrderStore{pool: pool}
}

// Insert stores the order and all its items in a single transaction: either
// the whole order commits or nothing does.
func (s *OrderStore) Insert(ctx context.Context, o *order.Order) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, `INSERT INTO orders(id, created_at, status) VALUES($1, $2, $3)`,
		o.ID, o.CreatedAt, string(o.Status))
	if isUniqueViolation(err) {
		return order.ErrConflict
	}
	if err != nil {
		return err
	}
	for i, it := range o.Items {
		_, err = tx.Exec(ctx, `INSERT INTO order_items(order_id, position, product_id, quantity)
            VALUES($1, $2, $3, $4)`,
			o.ID, i, it.ProductID, it.Quantity)
		if err != nil {
			return err
		}
	}
	return tx.Commit(ctx)
}

func (s *OrderStore) Get(ctx context.Context, id string) (*order.Order, error) {
	var o order.Order
	err := s.pool.QueryRow(ctx, `SELECT id, created_at, status FROM orders WHERE id = $1`, id).
		Scan(&o.ID, &o.CreatedAt, &o.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, order.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := s.loadItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (s *OrderStore) List(ctx context.Context) ([]*order.Order, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, created_at, status FROM orders ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*order.Order
	for rows.Next() {
		var o order.Order
		if err := rows.Scan(&o.ID, &o.CreatedAt, &o.Status); err != nil {
			return nil, err
		}
		out = append(out, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range out {
		items, err := s.loadItems(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		o.Items = items
	}
	return out, nil
}

func (s *OrderStore) loadItems(ctx context.Context, orderID string) ([]order.Item, error) {
	rows, err := s.pool.Query(ctx, `SELECT product_id, quantity FROM order_items
        WHERE order_id = $1 ORDER BY position`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		it := order.Item{OrderID: orderID}
		if err := rows.Scan(&it.ProductID, &it.Quantity); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

var _ order.Repository = (*OrderStore)(nil)
