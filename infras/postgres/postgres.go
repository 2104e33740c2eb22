package postgres

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"stayfinder/config"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	maxIdleConnections = 10
	maxOpenConnections = 10
)

var errNotConnected = errors.New("database connection not established")

// Connection holds the read replica and primary pools. Reads go to Read, every write to Write.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

func New(cfg *config.Config) *Connection {
	pg := cfg.DB.Postgres

	return &Connection{
		Read:  connect("read", DSN(pg.Prefix, pg.Read), pg.MaxRetry, pg.RetryWaitTime),
		Write: connect("write", DSN(pg.Prefix, pg.Write), pg.MaxRetry, pg.RetryWaitTime),
	}
}

// DSN renders a lib/pq connection URL. prefix is prepended to the database name so
// test runs can share a server with the real schema.
func DSN(prefix string, node config.PostgresNode) string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(node.Username, node.Password),
		Host:     net.JoinHostPort(node.Host, node.Port),
		Path:     "/" + prefix + node.Name,
		RawQuery: "sslmode=" + node.SSLMode,
	}

	return dsn.String()
}

// Ping checks both pools, used by the health endpoint.
func (c *Connection) Ping(ctx context.Context) error {
	for name, db := range map[string]*sqlx.DB{"read": c.Read, "write": c.Write} {
		if db == nil {
			return fmt.Errorf("%s: %w", name, errNotConnected)
		}

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("failed to ping %s database: %w", name, err)
		}
	}

	return nil
}

func (c *Connection) Close() {
	for _, db := range []*sqlx.DB{c.Read, c.Write} {
		if db == nil {
			continue
		}

		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close database connection")
		}
	}
}

// connect retries until the server accepts the connection. It gives up with a nil pool;
// Ping then reports the outage.
func connect(name, dsn string, attempts, waitSeconds int) *sqlx.DB {
	for attempt := 1; attempt <= max(attempts, 1); attempt++ {
		db, err := sqlx.Connect("postgres", dsn)
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)

			log.Info().Str("name", name).Msg("Connected to database")

			return db
		}

		log.Error().Err(err).Str("name", name).Int("attempt", attempt).Msg("Failed connecting to database, retrying")

		time.Sleep(time.Duration(waitSeconds) * time.Second)
	}

	log.Error().Str("name", name).Int("attempts", attempts).Msg("Giving up connecting to database")

	return nil
}
