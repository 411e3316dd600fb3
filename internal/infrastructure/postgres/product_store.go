package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/minicart/fulfillment/internal/domain/product"
)

type ProductStore struct {
	pool *pgxpool.Pool
}

func NewProductStore(pool *pgxpool.Pool) *ProductStore {
	return &ProductStore{pool: pool}
}

func (s *ProductStore) Insert(ctx context.Context, p *product.Product) error {
	_, err := s.pool.Exec(ctx, `INSERT INTO products(id, name, description, price, quantity, updated_at)
        VALUES($1, $2, $3, $4, $5, $6)`,
		p.ID, p.Name, p.Description, p.Price, p.Quantity, p.UpdatedAt)
	if isUniqueViolation(err) {
		return product.ErrConflict
	}
	return err
}

func (s *ProductStore) Update(ctx context.Context, p *product.Product) error {
	tag, err := s.pool.Exec(ctx, `UPDATE products
        SET name = $2, description = $3, price = $4, quantity = $5, updated_at = $6
        WHERE id = $1`,
		p.ID, p.Name, p.Description, p.Price, p.Quantity, p.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return product.ErrNotFound
	}
	return nil
}

func (s *ProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	var p product.Product
	err := s.pool.QueryRow(ctx, `SELECT id, name, description, price, quantity, updated_at
        FROM products WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, product.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *ProductStore) List(ctx context.Context) ([]*product.Product, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, description, price, quantity, updated_at
        FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*product.Product
	for rows.Next() {
		var p product.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Quantity, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ product.Repository = (*ProductStore)(nil)
