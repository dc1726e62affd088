package postgres

import (
	"context"
	"fmt"
)

// Migrate creates the schema if it does not exist yet. Statements are
// idempotent so running at every startup is safe.
func (db *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			phone_number VARCHAR(10) NOT NULL UNIQUE,
			name TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			role VARCHAR(16) NOT NULL DEFAULT 'USER',
			balance DECIMAL(19,4) NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS investments (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			plan_code VARCHAR(16) NOT NULL DEFAULT '',
			principal DECIMAL(19,4) NOT NULL,
			current_value DECIMAL(19,4) NOT NULL,
			annual_rate_percent DECIMAL(8,4) NOT NULL,
			lock_in_months INT NOT NULL DEFAULT 0,
			opened_at TIMESTAMPTZ NOT NULL,
			last_accrual_at TIMESTAMPTZ NOT NULL,
			status VARCHAR(16) NOT NULL,
			version BIGINT NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_investments_user_id ON investments(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_investments_status ON investments(status)`,
		`CREATE TABLE IF NOT EXISTS ledger_entries (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id),
			kind VARCHAR(32) NOT NULL,
			amount DECIMAL(19,4) NOT NULL,
			investment_id UUID REFERENCES investments(id),
			description TEXT NOT NULL DEFAULT '',
			status VARCHAR(16) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_entries_user_created ON ledger_entries(user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS plans (
			id UUID PRIMARY KEY,
			code VARCHAR(16) NOT NULL UNIQUE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			annual_rate_percent DECIMAL(8,4) NOT NULL,
			min_amount DECIMAL(19,4) NOT NULL,
			max_amount DECIMAL(19,4) NOT NULL,
			lock_in_months INT NOT NULL DEFAULT 0,
			risk VARCHAR(16) NOT NULL,
			tax_benefit BOOLEAN NOT NULL DEFAULT FALSE
		)`,
		`CREATE TABLE IF NOT EXISTS lessons (
			id UUID PRIMARY KEY,
			title TEXT NOT NULL,
			summary TEXT NOT NULL DEFAULT '',
			category VARCHAR(32) NOT NULL DEFAULT '',
			display_order INT NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS lesson_progress (
			user_id UUID NOT NULL REFERENCES users(id),
			lesson_id UUID NOT NULL REFERENCES lessons(id),
			completed BOOLEAN NOT NULL DEFAULT FALSE,
			last_accessed TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (user_id, lesson_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
