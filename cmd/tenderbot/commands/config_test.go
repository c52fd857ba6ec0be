package commands

import (
	"os"
	"path/filepath"
	"testing"
	"tenderbot/internal/scrapers/zakupki"
	"tenderbot/lib/configutil/database"

	"github.com/stretchr/testify/require"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	require.Equal(t, database.Struct{Driver: database.DriverSqlite, DSN: "tenderbot.db"}, cfg.Database)
	require.Equal(t, 30, cfg.Fetch.TimeoutSeconds)
	require.Equal(t, 4, cfg.Workers)
	require.Zero(t, cfg.Fetch.CacheTTL())

	cfg = Config{Database: database.Struct{Driver: database.DriverPostgres, DSN: "postgres://localhost/tenders"}, Workers: 9}.withDefaults()
	require.Equal(t, "postgres://localhost/tenders", cfg.Database.DSN)
	require.Equal(t, 9, cfg.Workers)
}

func TestConfigQueries(t *testing.T) {
	cfg := Config{Searches: []SearchConfig{
		{Query: "бумага", From: "01.03.2020", To: "31.03.2020", Pages: 2},
		{Query: "мебель"},
	}}
	require.Equal(t, []zakupki.SearchQuery{
		{Text: "бумага", From: "01.03.2020", To: "31.03.2020", Page: 1},
		{Text: "бумага", From: "01.03.2020", To: "31.03.2020", Page: 2},
		{Text: "мебель", Page: 1},
	}, cfg.Queries())
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json5")
	err := os.WriteFile(path, []byte(`{
		database: { driver: "sqlite", dsn: "tenders.db" },
		fetch: { cache_ttl_minutes: 60 },
		searches: [ { query: "бумага", pages: 3 } ],
		cron: "0 */6 * * *",
		notify: { server: "smtp.example.com", port: 587, to: ["sales@example.com"] },
	}`), 0644)
	require.NoError(t, err)

	cfg, err := readConfig(path)
	require.NoError(t, err)
	require.Equal(t, "tenders.db", cfg.Database.DSN)
	require.Equal(t, 60, cfg.Fetch.CacheTTLMinutes)
	require.Equal(t, 30, cfg.Fetch.TimeoutSeconds)
	require.Len(t, cfg.Queries(), 3)
	require.Equal(t, "0 */6 * * *", cfg.Cron)
	require.True(t, cfg.Notify.Enabled())

	_, err = readConfig(filepath.Join(dir, "missing.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
