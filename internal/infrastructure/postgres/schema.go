// Package postgres provides pgx-backed product and order stores.
package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// EnsureSchema creates the required tables if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS products (
  id          text PRIMARY KEY,
  name        text NOT NULL,
  description text NOT NULL DEFAULT '',
  price       double precision NOT NULL,
  quantity    integer NOT NULL CHECK (quantity >= 0),
  updated_at  timestamptz NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
  id         text PRIMARY KEY,
  created_at timestamptz NOT NULL,
  status     text NOT NULL
);

CREATE TABLE IF NOT EXISTS order_items (
  order_id   text NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
  position   integer NOT NULL,
  product_id text NOT NULL,
  quantity   integer NOT NULL CHECK (quantity > 0),
  PRIMARY KEY (order_id, position)
);
`)
	return err
}
