package postgres

import "context"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id            TEXT PRIMARY KEY,
		email         TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role          TEXT NOT NULL,
		created_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS foods (
		id        TEXT PRIMARY KEY,
		name      TEXT NOT NULL,
		price     BIGINT NOT NULL,
		available BOOLEAN NOT NULL DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		id      TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		cart_id  TEXT NOT NULL REFERENCES carts(id),
		food_id  TEXT NOT NULL REFERENCES foods(id),
		quantity INT NOT NULL CHECK (quantity > 0),
		PRIMARY KEY (cart_id, food_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id              TEXT PRIMARY KEY,
		user_id         TEXT NOT NULL,
		idempotency_key TEXT NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS order_item_snapshots (
		order_id   TEXT NOT NULL REFERENCES orders(id),
		food_id    TEXT NOT NULL,
		food_name  TEXT NOT NULL,
		unit_price BIGINT NOT NULL,
		quantity   INT NOT NULL CHECK (quantity > 0)
	)`,
	`CREATE TABLE IF NOT EXISTS order_events (
		id         TEXT PRIMARY KEY,
		order_id   TEXT NOT NULL REFERENCES orders(id),
		event_type TEXT NOT NULL,
		caused_by  TEXT NOT NULL,
		payment_id TEXT,
		payload    JSONB NOT NULL,
		sequence   INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL,
		UNIQUE (order_id, sequence)
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id         TEXT PRIMARY KEY,
		order_id   TEXT NOT NULL REFERENCES orders(id),
		provider   TEXT NOT NULL,
		amount     BIGINT NOT NULL,
		status     TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS idempotency_keys (
		key          TEXT PRIMARY KEY,
		request_hash TEXT NOT NULL,
		order_id     TEXT NOT NULL REFERENCES orders(id),
		created_at   TIMESTAMPTZ NOT NULL
	)`,
}

// EnsureSchema creates the tables if they do not exist. The unique index on
// idempotency_keys.key is the concurrency primitive the checkout relies on.
func (d *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
