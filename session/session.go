// Package session implements a single-connection database session: it owns
// one logical connection, funnels every operation through one
// build-parameters -> prepare -> bind -> execute path, and absorbs lost
// connections with a bounded reconnect retry.
//
// A Session is not safe for concurrent use; serialize access externally.
package session

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/zeptools/gw-dbsession/faillog"
	"github.com/zeptools/gw-dbsession/sqldb"
)

var (
	ErrNoFields       = errors.New("session: no fields")
	ErrNoRowsAffected = errors.New("session: no rows affected")
	ErrNoTransaction  = errors.New("session: no transaction is active")
	ErrTxOpen         = errors.New("session: a transaction is already active")
)

// maxReconnects bounds consecutive reconnect attempts within one logical
// call chain; the counter resets on any successful execution.
const maxReconnects = 3

const connectTimeout = 5 * time.Second

type Session struct {
	client sqldb.Client
	sink   faillog.Sink

	tx       sqldb.Tx // nil when no transaction is active
	alive    bool
	retries  int
	rowCount int64
	affected int64
}

// New builds the dialect client from conf, connects, and returns the
// session. A failed connection attempt aborts construction.
func New(conf *sqldb.Conf, sink faillog.Sink) (*Session, error) {
	client, err := sqldb.New(conf.Type, conf)
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err = client.Open(ctx); err != nil {
		return nil, fmt.Errorf("session: connect failed: %w", err)
	}
	return NewWithClient(client, sink), nil
}

// NewWithClient wraps an already-open client. Injection seam for tests and
// custom dialects.
func NewWithClient(client sqldb.Client, sink faillog.Sink) *Session {
	if sink == nil {
		sink = faillog.Discard{}
	}
	return &Session{client: client, sink: sink, alive: true}
}

// Close rolls back any open transaction and releases the connection.
// Idempotent.
func (s *Session) Close() error {
	if s.tx != nil {
		_ = s.tx.Rollback(context.Background())
		s.tx = nil
	}
	s.alive = false
	return s.client.Close()
}

// Reconnect closes and reopens the connection. On failure the session is
// left without a connection (logged, not raised to data operations):
// subsequent operations degrade to no-ops returning empty results.
func (s *Session) Reconnect(ctx context.Context) error {
	if err := s.Close(); err != nil {
		log.Printf("[ERROR] session: close during reconnect: %v", err)
	}
	if err := s.client.Open(ctx); err != nil {
		log.Printf("[ERROR] session: reconnect failed: %v", err)
		return err
	}
	s.alive = true
	return nil
}

// Connected reports whether the session currently holds a connection.
func (s *Session) Connected() bool {
	return s.alive
}

// InTransaction reports whether a transaction is active.
func (s *Session) InTransaction() bool {
	return s.tx != nil
}

// Begin starts a transaction. Driver errors are logged and returned,
// never retried: in-transaction state is unrecoverable across a reconnect.
func (s *Session) Begin(ctx context.Context) error {
	if !s.alive {
		return sqldb.ErrNoConnection
	}
	if s.tx != nil {
		return ErrTxOpen
	}
	tx, err := s.client.BeginTx(ctx)
	if err != nil {
		s.logFailure(err, "BEGIN", nil)
		return err
	}
	s.tx = tx
	return nil
}

// Commit commits the active transaction, or returns ErrNoTransaction
// without touching the driver.
func (s *Session) Commit(ctx context.Context) error {
	if s.tx == nil {
		return ErrNoTransaction
	}
	err := s.tx.Commit(ctx)
	s.tx = nil
	if err != nil {
		s.logFailure(err, "COMMIT", nil)
		return err
	}
	return nil
}

// Rollback rolls back the active transaction, or returns ErrNoTransaction
// without touching the driver.
func (s *Session) Rollback(ctx context.Context) error {
	if s.tx == nil {
		return ErrNoTransaction
	}
	err := s.tx.Rollback(ctx)
	s.tx = nil
	if err != nil {
		s.logFailure(err, "ROLLBACK", nil)
		return err
	}
	return nil
}

// RowCount returns the row count recorded by the last read operation.
func (s *Session) RowCount() int64 {
	return s.rowCount
}

// AffectedCount returns the affected-row count recorded by the last write
// operation.
func (s *Session) AffectedCount() int64 {
	return s.affected
}

// logFailure appends the error, query text, and serialized parameters to
// the failure sink. Every driver error passes through here before it is
// recovered or surfaced.
func (s *Session) logFailure(err error, query string, params Params) {
	entry := faillog.Entry{
		Time:   time.Now(),
		Msg:    err.Error(),
		Query:  query,
		Params: serializeParams(params),
	}
	if aerr := s.sink.Append(entry); aerr != nil {
		log.Printf("[ERROR] session: faillog append failed: %v", aerr)
	}
}

func serializeParams(params Params) string {
	if len(params) == 0 {
		return "{}"
	}
	raw, err := json.Marshal(params)
	if err != nil {
		return fmt.Sprintf("%v", params)
	}
	return string(raw)
}
