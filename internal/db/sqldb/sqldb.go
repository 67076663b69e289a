// Package sqldb opens the relational catalog connection.
package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" driver
)

// Supported catalog drivers.
const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config holds catalog connection parameters.
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
	ConnMaxLife  time.Duration
}

// Open connects and pings the catalog database.
func Open(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	dsn := cfg.DSN
	switch cfg.Driver {
	case DriverMySQL:
		mc, err := mysql.ParseDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse mysql dsn: %w", err)
		}
		mc.ParseTime = true
		if mc.Params == nil {
			mc.Params = map[string]string{}
		}
		if _, ok := mc.Params["charset"]; !ok {
			mc.Params["charset"] = "utf8mb4"
		}
		dsn = mc.FormatDSN()
	case DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported catalog driver %q", cfg.Driver)
	}

	conn, err := sqlx.ConnectContext(ctx, cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", cfg.Driver, err)
	}

	if cfg.Driver == DriverSQLite {
		// in-memory databases are per connection
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
		return conn, nil
	}

	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLife > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLife)
	}
	return conn, nil
}
