package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenSqlite(t *testing.T) {
	ctx := context.Background()

	for _, config := range []Struct{
		{},
		{Driver: "SQLITE", DSN: ":memory:"},
		{Driver: DriverSqlite, DSN: filepath.Join(t.TempDir(), "nested", "tenderbot.db")},
	} {
		db, err := config.OpenDB(ctx)
		require.NoError(t, err, config)
		require.Equal(t, DriverSqlite, db.DriverName())

		_, err = db.ExecContext(ctx, "create table t (v integer)")
		require.NoError(t, err)
		_, err = db.ExecContext(ctx, db.Rebind("insert into t (v) values (?)"), 7)
		require.NoError(t, err)

		var v int
		require.NoError(t, db.GetContext(ctx, &v, "select v from t"))
		require.Equal(t, 7, v)
		require.NoError(t, db.Close())
	}
}

func TestOpenRequiresDSN(t *testing.T) {
	for _, driver := range []string{DriverLibsql, DriverPostgres} {
		_, err := Struct{Driver: driver}.OpenDB(context.Background())
		require.ErrorContains(t, err, "dsn")
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Struct{Driver: "oracle"}.OpenDB(context.Background())
	require.ErrorContains(t, err, "unknown database driver")
}
