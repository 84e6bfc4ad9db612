package sqldb

import (
	"database/sql/driver"
	"errors"
	"strings"
)

var (
	ErrNoRows            = errors.New("sqldb: no rows in result set")
	ErrNoConnection      = errors.New("sqldb: no open connection")
	ErrInvalidIdentifier = errors.New("sqldb: invalid SQL identifier")
)

// Lost-connection error messages across drivers. MySQL reports an idle
// timeout as "server has gone away" (go-sql-driver surfaces it as
// "invalid connection"); pgx reports "conn closed".
var lostConnMarkers = []string{
	"server has gone away",
	"invalid connection",
	"broken pipe",
	"connection reset by peer",
	"conn closed",
	"unexpected EOF",
}

// IsLostConn reports whether err indicates the backing connection dropped.
// Sentinel match first, message substring second.
func IsLostConn(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) {
		return true
	}
	msg := err.Error()
	for _, marker := range lostConnMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
