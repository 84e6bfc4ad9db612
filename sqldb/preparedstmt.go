package sqldb

import "context"

// PreparedStmt is a compiled query bound to the current connection.
// Single-use: bind, execute, read, Close.
type PreparedStmt interface {
	Query(ctx context.Context, args ...any) (Rows, error)
	Exec(ctx context.Context, args ...any) (Result, error)
	Close() error
}
