package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager exposes explicit database transactions for callers that
// need several writes to commit or roll back together.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback is safe to defer; it ignores transactions that were already committed.
	Rollback(ctx context.Context, tx pgx.Tx) error
}
