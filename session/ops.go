package session

import (
	"context"
	"sort"
	"strings"

	"github.com/zeptools/gw-dbsession/sqldb"
)

// QueryOutcome is what Query returns: Rows for select/show statements,
// Affected for insert/update/delete, both zero for anything else.
type QueryOutcome struct {
	Rows     []Row
	Affected int64
}

// Query executes an arbitrary statement and classifies the result by the
// query's first keyword.
func (s *Session) Query(ctx context.Context, query string, params Params) (*QueryOutcome, error) {
	out, err := s.execute(ctx, query, params)
	if err != nil {
		return nil, err
	}
	if !out.executed {
		return &QueryOutcome{}, nil
	}
	switch stmtKindOf(query) {
	case stmtRead:
		s.rowCount = int64(len(out.rows))
		return &QueryOutcome{Rows: out.rows}, nil
	case stmtWrite:
		s.affected = out.affected
		return &QueryOutcome{Affected: out.affected}, nil
	default:
		return &QueryOutcome{}, nil
	}
}

// RowOne returns the first result row, or nil when there is none.
func (s *Session) RowOne(ctx context.Context, query string, params Params) (Row, error) {
	out, err := s.execute(ctx, query, params)
	if err != nil {
		return nil, err
	}
	s.rowCount = int64(len(out.rows))
	if len(out.rows) == 0 {
		return nil, nil
	}
	return out.rows[0], nil
}

// Column returns the first column of every result row as a flat slice.
func (s *Session) Column(ctx context.Context, query string, params Params) ([]any, error) {
	out, err := s.execute(ctx, query, params)
	if err != nil {
		return nil, err
	}
	s.rowCount = int64(len(out.rows))
	if len(out.cols) == 0 {
		return nil, nil
	}
	first := out.cols[0]
	column := make([]any, len(out.rows))
	for i, row := range out.rows {
		column[i] = row[first]
	}
	return column, nil
}

// Single returns the first row's first column. ok is false when the result
// set is empty (or the session is connectionless).
func (s *Session) Single(ctx context.Context, query string, params Params) (any, bool, error) {
	out, err := s.execute(ctx, query, params)
	if err != nil {
		return nil, false, err
	}
	s.rowCount = int64(len(out.rows))
	if len(out.rows) == 0 || len(out.cols) == 0 {
		return nil, false, nil
	}
	return out.rows[0][out.cols[0]], true, nil
}

// Insert builds and executes `INSERT INTO table (col, ...) VALUES (:col, ...)`
// from the field mapping. Identifiers are sanitized; the table name is
// additionally quoted. Returns the generated identifier.
func (s *Session) Insert(ctx context.Context, table string, fields Params) (int64, error) {
	if len(fields) == 0 {
		return 0, ErrNoFields
	}
	quoted, err := s.quotedTable(table)
	if err != nil {
		return 0, err
	}
	cols, params, err := sanitizedFields(fields, "")
	if err != nil {
		return 0, err
	}
	query := "INSERT INTO " + quoted +
		" (" + strings.Join(cols, ", ") + ")" +
		" VALUES (:" + strings.Join(cols, ", :") + ")"
	out, err := s.execute(ctx, query, params)
	if err != nil {
		return 0, err
	}
	s.affected = out.affected
	if !out.executed || out.affected == 0 {
		return 0, ErrNoRowsAffected
	}
	return out.lastID, nil
}

// Update builds and executes `UPDATE table SET col = :set_col, ... WHERE
// whereClause`. SET values bind under a `set_` prefix so they cannot
// collide with WHERE placeholders of the same base name. Returns the
// affected-row count.
func (s *Session) Update(ctx context.Context, table string, fields Params, whereClause string, whereParams Params) (int64, error) {
	if len(fields) == 0 {
		return 0, ErrNoFields
	}
	quoted, err := s.quotedTable(table)
	if err != nil {
		return 0, err
	}
	cols, params, err := sanitizedFields(fields, "set_")
	if err != nil {
		return 0, err
	}
	for k, v := range whereParams {
		params[k] = v
	}
	sets := make([]string, len(cols))
	for i, col := range cols {
		sets[i] = col + " = :set_" + col
	}
	query := "UPDATE " + quoted +
		" SET " + strings.Join(sets, ", ") +
		" WHERE " + whereClause
	out, err := s.execute(ctx, query, params)
	if err != nil {
		return 0, err
	}
	s.affected = out.affected
	return out.affected, nil
}

// Delete builds and executes `DELETE FROM table WHERE whereClause`.
// Returns the affected-row count.
func (s *Session) Delete(ctx context.Context, table string, whereClause string, whereParams Params) (int64, error) {
	quoted, err := s.quotedTable(table)
	if err != nil {
		return 0, err
	}
	query := "DELETE FROM " + quoted + " WHERE " + whereClause
	out, err := s.execute(ctx, query, whereParams)
	if err != nil {
		return 0, err
	}
	s.affected = out.affected
	return out.affected, nil
}

func (s *Session) quotedTable(table string) (string, error) {
	clean, err := sqldb.SanitizeIdentifier(table)
	if err != nil {
		return "", err
	}
	return s.client.QuoteIdentifier(clean), nil
}

// sanitizedFields sanitizes column names and rebinds values under the
// (optionally prefixed) sanitized names. Columns come back sorted so the
// generated SQL is deterministic.
func sanitizedFields(fields Params, prefix string) ([]string, Params, error) {
	cols := make([]string, 0, len(fields))
	params := make(Params, len(fields))
	for name, v := range fields {
		col, err := sqldb.SanitizeIdentifier(name)
		if err != nil {
			return nil, nil, err
		}
		cols = append(cols, col)
		params[prefix+col] = v
	}
	sort.Strings(cols)
	return cols, params, nil
}
