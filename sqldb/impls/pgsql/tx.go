package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/zeptools/gw-dbsession/sqldb"
)

type Tx struct {
	tx     pgx.Tx
	client *Client // statement naming stays with the owning connection
}

// Ensure pgsql.Tx implements sqldb.Tx
var _ sqldb.Tx = (*Tx)(nil)

func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *Tx) Prepare(ctx context.Context, query string) (sqldb.PreparedStmt, error) {
	name := t.client.nextStmtName()
	if _, err := t.tx.Prepare(ctx, name, query); err != nil {
		return nil, err
	}
	return &PreparedStmt{conn: t.client.conn, runner: t.tx, stmtName: name}, nil
}
