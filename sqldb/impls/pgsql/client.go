package pgsql

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/zeptools/gw-dbsession/sqldb"
)

func init() {
	sqldb.RegisterFactory("pgsql", func(conf *sqldb.Conf) (sqldb.Client, error) {
		return &Client{Conf: conf}, nil
	})
}

// Client holds a single pgx connection. No pooling here: the session owns
// exactly one logical connection and replaces it wholesale on reconnect.
type Client struct {
	Conf *sqldb.Conf

	conn    *pgx.Conn
	dsn     string
	stmtSeq int // server-side prepared statement naming
}

// Ensure pgsql.Client implements sqldb.Client interface
var _ sqldb.Client = (*Client)(nil)

func (c *Client) Open(ctx context.Context) error {
	if c.conn != nil {
		return nil
	}
	if c.dsn == "" {
		if c.Conf.DSN != "" {
			c.dsn = c.Conf.DSN
		} else {
			// NOTE: sslmode=disable is often used for local dev, adjust as needed.
			c.dsn = fmt.Sprintf(
				"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
				c.Conf.Host,
				c.Conf.Port,
				c.Conf.User,
				c.Conf.PW,
				c.Conf.DB,
				c.Conf.TZ,
			)
		}
	}
	conn, err := pgx.Connect(ctx, c.dsn)
	if err != nil {
		return fmt.Errorf("failed to connect pgx conn: %w", err)
	}
	if err = conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	c.conn = conn
	log.Println("[INFO] pgsql client opened")
	return nil
}

func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close(context.Background())
	c.conn = nil
	if err != nil {
		return err
	}
	log.Println("[INFO] pgsql client closed")
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	if c.conn == nil {
		return sqldb.ErrNoConnection
	}
	return c.conn.Ping(ctx)
}

func (c *Client) Prepare(ctx context.Context, query string) (sqldb.PreparedStmt, error) {
	if c.conn == nil {
		return nil, sqldb.ErrNoConnection
	}
	name := c.nextStmtName()
	if _, err := c.conn.Prepare(ctx, name, query); err != nil {
		return nil, err
	}
	return &PreparedStmt{conn: c.conn, runner: c.conn, stmtName: name}, nil
}

func (c *Client) BeginTx(ctx context.Context) (sqldb.Tx, error) {
	if c.conn == nil {
		return nil, sqldb.ErrNoConnection
	}
	tx, err := c.conn.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction failed: %w", err)
	}
	return &Tx{tx: tx, client: c}, nil
}

func (c *Client) PlaceholderPrefix() byte {
	return sqldb.PlaceholderPrefixForDBType["pgsql"]
}

func (c *Client) QuoteIdentifier(name string) string {
	return `"` + name + `"`
}

func (c *Client) GetConf() *sqldb.Conf {
	return c.Conf
}

func (c *Client) GetDSN() string {
	return c.dsn
}

func (c *Client) nextStmtName() string {
	c.stmtSeq++
	return "gwstmt_" + strconv.Itoa(c.stmtSeq)
}
