package session

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/zeptools/gw-dbsession/sqldb"
)

// Row is one result row. Owned by the caller once returned.
type Row map[string]any

type stmtKind uint8

const (
	stmtOther stmtKind = iota
	stmtRead           // select, show
	stmtWrite          // insert, update, delete
)

func stmtKindOf(query string) stmtKind {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return stmtOther
	}
	switch strings.ToLower(fields[0]) {
	case "select", "show":
		return stmtRead
	case "insert", "update", "delete":
		return stmtWrite
	}
	return stmtOther
}

// outcome carries whatever a single execution produced. executed is false
// only on the degraded no-connection path.
type outcome struct {
	rows     []Row
	cols     []string
	affected int64
	lastID   int64
	executed bool
}

// execute is the single path every operation funnels through:
// build parameters, rewrite placeholders, prepare, bind, execute, and
// absorb lost connections with a bounded reconnect retry.
func (s *Session) execute(ctx context.Context, query string, params Params) (*outcome, error) {
	if !s.alive {
		openCtx, cancel := context.WithTimeout(ctx, connectTimeout)
		err := s.client.Open(openCtx)
		cancel()
		if err != nil {
			log.Printf("[ERROR] session: no connection: %v", err)
			return &outcome{}, nil
		}
		s.alive = true
	}

	expanded, flat := buildParams(query, params)

	var driverSQL string
	var args []any
	if positionalOnly(flat) {
		// positional: the query already carries dialect placeholders
		driverSQL = expanded
		ordered, err := positionalArgs(flat)
		if err != nil {
			return nil, err
		}
		args = ordered
	} else {
		rewritten, names := sqldb.RewriteNamed(expanded, s.client.PlaceholderPrefix())
		driverSQL = rewritten
		args = make([]any, len(names))
		for i, name := range names {
			v, ok := flat[name]
			if !ok {
				return nil, fmt.Errorf("session: missing parameter %q in %q", name, query)
			}
			args[i] = v.Arg()
		}
	}

	kind := stmtKindOf(query)

	// bounded retry loop; recursion in spirit, a loop in practice
	for {
		out, err := s.runOnce(ctx, driverSQL, args, kind)
		if err == nil {
			s.retries = 0
			return out, nil
		}
		s.logFailure(err, query, flat)
		if s.retries < maxReconnects && sqldb.IsLostConn(err) && s.tx == nil {
			s.retries++
			if rerr := s.Reconnect(ctx); rerr != nil {
				// degraded: no connection left, data ops become no-ops
				return &outcome{}, nil
			}
			continue
		}
		return nil, err
	}
}

// runOnce prepares, binds, and executes a single statement attempt.
// Statements are prepared on the active transaction when one is open.
func (s *Session) runOnce(ctx context.Context, driverSQL string, args []any, kind stmtKind) (*outcome, error) {
	var stmt sqldb.PreparedStmt
	var err error
	if s.tx != nil {
		stmt, err = s.tx.Prepare(ctx, driverSQL)
	} else {
		stmt, err = s.client.Prepare(ctx, driverSQL)
	}
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	switch kind {
	case stmtRead:
		rows, err := stmt.Query(ctx, args...)
		if err != nil {
			return nil, err
		}
		defer rows.Close()
		cols, err := rows.Columns()
		if err != nil {
			return nil, err
		}
		var collected []Row
		for rows.Next() {
			cells := make([]any, len(cols))
			ptrs := make([]any, len(cols))
			for i := range cells {
				ptrs[i] = &cells[i]
			}
			if err = rows.Scan(ptrs...); err != nil {
				return nil, err
			}
			row := make(Row, len(cols))
			for i, col := range cols {
				row[col] = normalizeCell(cells[i])
			}
			collected = append(collected, row)
		}
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return &outcome{rows: collected, cols: cols, executed: true}, nil
	case stmtWrite:
		result, err := stmt.Exec(ctx, args...)
		if err != nil {
			return nil, err
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, err
		}
		lastID, _ := result.LastInsertId() // unsupported on some dialects
		return &outcome{affected: affected, lastID: lastID, executed: true}, nil
	default:
		if _, err = stmt.Exec(ctx, args...); err != nil {
			return nil, err
		}
		return &outcome{executed: true}, nil
	}
}

// normalizeCell keeps row values caller-friendly: raw byte cells (mysql
// text results) come back as strings.
func normalizeCell(v any) any {
	if raw, ok := v.([]byte); ok {
		return string(raw)
	}
	return v
}
