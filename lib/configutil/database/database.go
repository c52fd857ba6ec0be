package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

const (
	DriverSqlite   = "sqlite"
	DriverLibsql   = "libsql"
	DriverPostgres = "pgx"
)

// Struct is the database section of a config file.
//
// sqlite takes a file path (":memory:" or empty for an in-memory database),
// libsql takes a "libsql://" url with an optional authToken query and pgx
// takes a postgres connection string.
type Struct struct {
	Driver string `json:"driver"`
	DSN    string `json:"dsn"`
}

func (config Struct) driver() string {
	if config.Driver == "" {
		return DriverSqlite
	}
	return strings.ToLower(config.Driver)
}

func (config Struct) OpenDB(ctx context.Context) (*sqlx.DB, error) {
	switch config.driver() {
	case DriverSqlite:
		return openSqlite(ctx, config.DSN)
	case DriverLibsql, DriverPostgres:
		if config.DSN == "" {
			return nil, fmt.Errorf("%s: a dsn was not specified", config.driver())
		}
		db, err := sqlx.Open(config.driver(), config.DSN)
		if err != nil {
			return nil, err
		}
		err = db.PingContext(ctx)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", config.driver(), err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("unknown database driver '%s'", config.Driver)
	}
}

func openSqlite(ctx context.Context, path string) (*sqlx.DB, error) {
	if path == "" {
		path = ":memory:"
	}
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0755)
		if err != nil {
			return nil, err
		}
	}

	db, err := sqlx.Open(DriverSqlite, path)
	if err != nil {
		return nil, err
	}
	// see this stackoverflow post for information on why the following
	// lines exist: https://stackoverflow.com/questions/35804884/sqlite-concurrent-writing-performance
	// an in-memory database also only lives as long as its single connection.
	db.SetMaxOpenConns(1)
	if path != ":memory:" {
		_, err = db.ExecContext(ctx, "PRAGMA journal_mode=WAL")
		if err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}
