package postgres

import (
	"context"
	"fmt"
	"log/slog"
)

// schemaStatements are idempotent and applied in order on start-up.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS books (
        id BIGSERIAL PRIMARY KEY,
        title VARCHAR(255) NOT NULL,
        author VARCHAR(255) NOT NULL,
        isbn VARCHAR(32) NOT NULL CONSTRAINT uq_books_isbn UNIQUE,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE TABLE IF NOT EXISTS loans (
        id BIGSERIAL PRIMARY KEY,
        customer VARCHAR(100) NOT NULL,
        customer_email VARCHAR(255) NOT NULL,
        book_id BIGINT NOT NULL REFERENCES books (id),
        loan_date DATE NOT NULL,
        returned BOOLEAN,
        created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
        updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
    )`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_loans_book_outstanding ON loans (book_id) WHERE returned IS NOT TRUE`,
	`CREATE INDEX IF NOT EXISTS ix_loans_loan_date ON loans (loan_date)`,
	`CREATE INDEX IF NOT EXISTS ix_loans_customer ON loans (customer)`,
}

func ApplySchema(ctx context.Context, db DBPool, logger *slog.Logger) error {
	logger = logger.With("component", "schema")
	for i, stmt := range schemaStatements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			logger.ErrorContext(ctx, "Failed to apply schema statement", "index", i, "error", err)
			return fmt.Errorf("failed to apply schema statement %d: %w", i, err)
		}
	}
	logger.InfoContext(ctx, "Database schema is up to date", "statements", len(schemaStatements))
	return nil
}
