package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto"`,
	`CREATE TABLE IF NOT EXISTS letters (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		content TEXT NOT NULL DEFAULT '',
		mood TEXT NOT NULL DEFAULT '',
		delivery_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		reactions JSONB NOT NULL DEFAULT '{"fire": 0}'::jsonb
	)`,
	`CREATE INDEX IF NOT EXISTS idx_letters_delivery_at ON letters(delivery_at DESC)`,
}

// EnsureSchema creates the letters table and its index when absent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
