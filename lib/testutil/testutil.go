package testutil

import (
	"context"
	"strings"
	"testing"
	"tenderbot/lib/telemetry"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

type ServiceParams struct {
	Name string
	// DbSchema holds the statements creating the tables, if unspecified it will
	// skip setting up the schema.
	DbSchema []string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	DB *sqlx.DB
}

// SetupService opens a sqlite database with the given schema and enables
// debug logging. The database is closed when the test finishes.
func SetupService(t testing.TB, params ServiceParams) ServiceResult {
	t.Helper()
	telemetry.InitSlog(testing.Verbose())

	dbpath := ":memory:"
	if params.DbPath != "" {
		dbpath = params.DbPath
	}
	db, err := sqlx.Open("sqlite", dbpath)
	if err != nil {
		t.Fatal(err)
	}
	// every connection to ":memory:" is a different database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		db.Close()
	})

	for _, stmt := range params.DbSchema {
		_, err = db.ExecContext(context.Background(), stmt)
		if err != nil && !strings.Contains(err.Error(), "already exists") {
			t.Fatalf("%s: %s", params.Name, err)
		}
	}

	return ServiceResult{DB: db}
}
