package commands

import (
	"context"
	"errors"
	"log/slog"
	"tenderbot/internal/components/chrono"
	"tenderbot/internal/components/telemetry"
	"tenderbot/internal/scrapers/zakupki"
	"tenderbot/internal/store"
	"tenderbot/lib/restyutil"

	"github.com/dgraph-io/badger/v4"
	"github.com/jmoiron/sqlx"
)

// environment holds everything a scrape needs, built once per command.
type environment struct {
	config    Config
	clock     chrono.API
	tel       telemetry.API
	fetcher   zakupki.Fetcher
	assembler zakupki.Assembler
	store     store.Store

	db    *sqlx.DB
	cache *badger.DB
}

func newTelemetry() telemetry.API {
	return telemetry.NewScopedAPI("tenderbot", telemetry.NewSlogAPI(slog.Default()))
}

func openStore(ctx context.Context, cfg Config, tel telemetry.API) (store.Store, *sqlx.DB, error) {
	conn, err := cfg.Database.OpenDB(ctx)
	if err != nil {
		return store.Store{}, nil, err
	}
	s, err := store.Open(ctx, conn, store.DefaultOptions(), tel)
	if err != nil {
		conn.Close()
		return store.Store{}, nil, err
	}
	return s, conn, nil
}

func setup(ctx context.Context, cfg Config) (*environment, error) {
	clock, err := chrono.NewStandardImpl()
	if err != nil {
		return nil, err
	}
	tel := newTelemetry()

	opts := zakupki.ClientOptions{Timeout: cfg.Fetch.Timeout()}
	if cfg.Fetch.DumpDir != "" {
		output, err := restyutil.NewFilesystemOutput(cfg.Fetch.DumpDir)
		if err != nil {
			return nil, err
		}
		opts.Dump = output
	}

	env := &environment{
		config: cfg,
		clock:  clock,
		tel:    tel,
	}
	env.fetcher = zakupki.NewClient(opts, tel)

	if cfg.Fetch.CacheTTL() > 0 {
		env.cache, err = zakupki.OpenBadger(cfg.Fetch.CacheDir)
		if err != nil {
			return nil, err
		}
		cache := zakupki.NewPageCache(env.cache, cfg.Fetch.CacheTTL(), clock)
		env.fetcher = zakupki.NewCachedFetcher(env.fetcher, cache, tel)
	}
	env.assembler = zakupki.NewAssembler(env.fetcher, clock, tel)

	env.store, env.db, err = openStore(ctx, cfg, tel)
	if err != nil {
		env.Close()
		return nil, err
	}
	return env, nil
}

func (e *environment) Close() error {
	var errs []error
	if e.db != nil {
		errs = append(errs, e.db.Close())
	}
	if e.cache != nil {
		errs = append(errs, e.cache.Close())
	}
	return errors.Join(errs...)
}
