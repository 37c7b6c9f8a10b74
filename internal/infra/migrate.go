package infra

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS customers (
        id TEXT PRIMARY KEY,
        name TEXT NOT NULL,
        phone TEXT NOT NULL,
        status TEXT NOT NULL DEFAULT 'pending_verification',
        credit_limit NUMERIC(14,2) NOT NULL DEFAULT 100000,
        balance_due NUMERIC(14,2) NOT NULL DEFAULT 0 CHECK (balance_due >= 0),
        min_due NUMERIC(14,2) NOT NULL DEFAULT 0,
        due_date DATE,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );`,
	`CREATE UNIQUE INDEX IF NOT EXISTS customers_phone_unique_idx ON customers (phone);`,
	`CREATE TABLE IF NOT EXISTS transactions (
        seq BIGSERIAL UNIQUE,
        id TEXT PRIMARY KEY,
        customer_id TEXT NOT NULL REFERENCES customers(id),
        merchant TEXT NOT NULL,
        category TEXT NOT NULL,
        amount NUMERIC(14,2) NOT NULL,
        txn_date TIMESTAMPTZ NOT NULL DEFAULT NOW()
    );`,
	`CREATE INDEX IF NOT EXISTS transactions_customer_date_idx ON transactions (customer_id, txn_date DESC);`,
	`CREATE TABLE IF NOT EXISTS cards (
        id TEXT PRIMARY KEY,
        customer_id TEXT NOT NULL REFERENCES customers(id),
        card_number TEXT NOT NULL UNIQUE,
        status TEXT NOT NULL DEFAULT 'active',
        delivery_status TEXT NOT NULL DEFAULT 'delivered',
        tracking_id TEXT
    );`,
	`CREATE INDEX IF NOT EXISTS cards_customer_idx ON cards (customer_id);`,
}

// Migrate creates the tables used by the Postgres stores. Statements are idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}
