package sqldb_test

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zeptools/gw-dbsession/sqldb"
)

func TestIsLostConn(t *testing.T) {
	lost := []error{
		driver.ErrBadConn,
		fmt.Errorf("exec failed: %w", driver.ErrBadConn),
		errors.New("Error 2006: MySQL server has gone away"),
		errors.New("invalid connection"),
		errors.New("write tcp 127.0.0.1:3306: broken pipe"),
		errors.New("read: connection reset by peer"),
		errors.New("conn closed"),
		errors.New("unexpected EOF"),
	}
	for _, err := range lost {
		assert.True(t, sqldb.IsLostConn(err), "%v", err)
	}

	kept := []error{
		nil,
		errors.New("Error 1062: Duplicate entry"),
		errors.New("syntax error at or near SELECT"),
		errors.New("deadlock found when trying to get lock"),
	}
	for _, err := range kept {
		assert.False(t, sqldb.IsLostConn(err), "%v", err)
	}
}
