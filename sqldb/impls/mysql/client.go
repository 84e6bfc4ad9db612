package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/go-sql-driver/mysql" // side-effect
	"github.com/zeptools/gw-dbsession/sqldb"
)

func init() {
	sqldb.RegisterFactory("mysql", func(conf *sqldb.Conf) (sqldb.Client, error) {
		return &Client{Conf: conf}, nil
	})
}

type Client struct {
	Conf *sqldb.Conf

	// db fields are implementation details, not exported
	db  *sql.DB
	dsn string
}

// Ensure mysql.Client implements sqldb.Client interface
var _ sqldb.Client = (*Client)(nil)

// FromDB wraps an already-open handle. Injection seam for tests and for
// callers managing the handle themselves.
func FromDB(db *sql.DB, conf *sqldb.Conf) *Client {
	return &Client{Conf: conf, db: db}
}

func (c *Client) Open(ctx context.Context) error {
	if c.db != nil {
		return nil
	}
	if c.dsn == "" {
		if c.Conf.DSN != "" {
			c.dsn = c.Conf.DSN
		} else {
			c.dsn = fmt.Sprintf(
				"%s:%s@tcp(%s:%d)/%s?parseTime=true&loc=%s&sql_mode=ANSI_QUOTES",
				c.Conf.User,
				c.Conf.PW,
				c.Conf.Host,
				c.Conf.Port,
				c.Conf.DB,
				c.Conf.TZ,
			)
		}
	}
	db, err := sql.Open("mysql", c.dsn)
	if err != nil {
		return err
	}
	db.SetConnMaxLifetime(time.Minute * 3)
	// The session owns exactly one logical connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return err
	}
	c.db = db
	log.Println("[INFO] mysql client opened")
	return nil
}

func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	if err != nil {
		return err
	}
	log.Println("[INFO] mysql client closed")
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	if c.db == nil {
		return sqldb.ErrNoConnection
	}
	return c.db.PingContext(ctx)
}

func (c *Client) Prepare(ctx context.Context, query string) (sqldb.PreparedStmt, error) {
	if c.db == nil {
		return nil, sqldb.ErrNoConnection
	}
	stmt, err := c.db.PrepareContext(ctx, query)
	if err != nil {
		return nil, err
	}
	return &PreparedStmt{stmt: stmt}, nil
}

func (c *Client) BeginTx(ctx context.Context) (sqldb.Tx, error) {
	if c.db == nil {
		return nil, sqldb.ErrNoConnection
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

func (c *Client) PlaceholderPrefix() byte {
	return sqldb.PlaceholderPrefixForDBType["mysql"]
}

func (c *Client) QuoteIdentifier(name string) string {
	return "`" + name + "`"
}

func (c *Client) GetConf() *sqldb.Conf {
	return c.Conf
}

func (c *Client) GetDSN() string {
	return c.dsn
}
