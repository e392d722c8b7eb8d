package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager is implemented by the SQL repositories. Bid recording and
// ledger mutations each run in a single transaction.
type TransactionManager interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Commit(ctx context.Context, tx pgx.Tx) error
	// Rollback is a no-op on an already committed transaction.
	Rollback(ctx context.Context, tx pgx.Tx) error
	// InTx runs fn in a transaction that is committed only if fn returns nil.
	InTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}
