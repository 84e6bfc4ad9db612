package sqldb

import "context"

// Tx Transaction
// Statements issued while a transaction is active must be prepared on the
// transaction itself so they join its scope.
type Tx interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	Prepare(ctx context.Context, query string) (PreparedStmt, error)
}
