package commands

import (
	"fmt"
	"tenderbot/internal/notify"
	"tenderbot/internal/scrapers/zakupki"
	"tenderbot/lib/configutil"
	"tenderbot/lib/configutil/database"
	"time"
)

const defaultConfigName = "config.json5"

type FetchConfig struct {
	TimeoutSeconds  int    `json:"timeout_seconds"`
	CacheTTLMinutes int    `json:"cache_ttl_minutes"`
	CacheDir        string `json:"cache_dir"`
	// DumpDir receives every http response when set.
	DumpDir string `json:"dump_dir"`
}

func (c FetchConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

func (c FetchConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLMinutes) * time.Minute
}

type SearchConfig struct {
	Query  string `json:"query"`
	From   string `json:"from"`
	To     string `json:"to"`
	Filter string `json:"filter"`
	Pages  int    `json:"pages"`
}

type Config struct {
	Database database.Struct `json:"database"`
	Fetch    FetchConfig     `json:"fetch"`
	Workers  int             `json:"workers"`
	Searches []SearchConfig  `json:"searches"`
	Cron     string          `json:"cron"`
	Notify   notify.Config   `json:"notify"`
}

func (c Config) withDefaults() Config {
	if c.Database.Driver == "" {
		c.Database.Driver = database.DriverSqlite
	}
	if c.Database.Driver == database.DriverSqlite && c.Database.DSN == "" {
		c.Database.DSN = "tenderbot.db"
	}
	if c.Fetch.TimeoutSeconds <= 0 {
		c.Fetch.TimeoutSeconds = 30
	}
	if c.Workers <= 0 {
		c.Workers = 4
	}
	return c
}

// Queries expands every configured search into its result pages.
func (c Config) Queries() []zakupki.SearchQuery {
	var out []zakupki.SearchQuery
	for _, search := range c.Searches {
		out = append(out, zakupki.Pages(zakupki.SearchQuery{
			Text:   search.Query,
			From:   search.From,
			To:     search.To,
			Filter: search.Filter,
		}, search.Pages)...)
	}
	return out
}

func readConfig(path string) (Config, error) {
	var (
		cfg Config
		err error
	)
	if path != "" {
		cfg, err = configutil.ReadConfig[Config](path)
	} else {
		cfg, err = configutil.ReadRecursively[Config](defaultConfigName)
	}
	if err != nil {
		if path == "" {
			path = defaultConfigName
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	return cfg.withDefaults(), nil
}
