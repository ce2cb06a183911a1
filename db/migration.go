package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

func RunMigrations(pool *pgxpool.Pool) error {
	schema := `
CREATE TABLE IF NOT EXISTS receipts (
	account_id UUID NOT NULL,
	id UUID NOT NULL,
	thumbnail_url TEXT,
	property_id UUID,
	property_name TEXT,
	expense_id UUID,
	created_at TIMESTAMPTZ DEFAULT NOW(),
	PRIMARY KEY (account_id, id)
);
CREATE INDEX IF NOT EXISTS receipts_account_created_idx
	ON receipts (account_id, created_at, id);
`
	_, err := pool.Exec(context.Background(), schema)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
