package sqldb

import (
	"context"
)

// Client is a dialect-specific database client owning one logical connection.
// Implementations live under sqldb/impls and register themselves with
// RegisterFactory in their init().
type Client interface {
	// Open establishes the connection and verifies it (ping).
	// Calling Open on an already-open client is a no-op.
	Open(ctx context.Context) error
	// Close releases the connection. Safe to call when already closed.
	Close() error
	Ping(ctx context.Context) error

	Prepare(ctx context.Context, query string) (PreparedStmt, error)
	BeginTx(ctx context.Context) (Tx, error)

	// PlaceholderPrefix - '?' for mysql, '$' for pgsql (ordinal)
	PlaceholderPrefix() byte
	// QuoteIdentifier wraps an already-sanitized identifier in the
	// dialect's quoting character.
	QuoteIdentifier(name string) string

	GetConf() *Conf
	GetDSN() string
}
