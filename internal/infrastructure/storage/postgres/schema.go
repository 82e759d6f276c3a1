package postgres

import (
	"context"
	"fmt"
)

// normalizedNameExpr is the SQL counterpart of events.NormalizeCompanyName:
// lowercased, trimmed, inner whitespace collapsed to single spaces. Lookups
// and the uniqueness index must use the same expression.
const normalizedNameExpr = `regexp_replace(lower(btrim(name)), '\s+', ' ', 'g')`

// schema is the bootstrap DDL. Statements are idempotent so the server can
// run them on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS companies (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		tax_id     TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`DROP INDEX IF EXISTS companies_name_key`,
	`CREATE UNIQUE INDEX IF NOT EXISTS companies_norm_name_key ON companies (` + normalizedNameExpr + `)`,

	`CREATE TABLE IF NOT EXISTS exchange_events (
		id              BIGSERIAL PRIMARY KEY,
		company         TEXT NOT NULL,
		tax_id          TEXT NOT NULL DEFAULT '',
		product         TEXT NOT NULL,
		document_number TEXT NOT NULL DEFAULT '',
		issue_date      DATE,
		raw_date        TEXT NOT NULL DEFAULT '',
		qty_delivered   NUMERIC NOT NULL DEFAULT 0,
		qty_returned    NUMERIC NOT NULL DEFAULT 0,
		stock_before    NUMERIC NOT NULL DEFAULT 0,
		stock_after     NUMERIC NOT NULL DEFAULT 0,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS exchange_events_series_idx
		ON exchange_events (company, product, issue_date)`,
	`CREATE INDEX IF NOT EXISTS exchange_events_date_idx
		ON exchange_events (issue_date)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	return nil
}
