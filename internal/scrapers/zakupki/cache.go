package zakupki

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"net/url"
	"tenderbot/internal/components/assert"
	"tenderbot/internal/components/chrono"
	"tenderbot/internal/components/telemetry"
	"time"

	"github.com/PuerkitoBio/purell"
	"github.com/dgraph-io/badger/v4"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const report_cache = "cache.fetch"

var errPageNotFound = badger.ErrKeyNotFound

type cachedPage struct {
	Contents  string
	ExpiresAt int64
}

// PageCache keeps fetched pages in badger for a fixed time, keyed by their
// normalized url so that equivalent links share an entry.
type PageCache struct {
	db    *badger.DB
	ttl   time.Duration
	clock chrono.API
}

func NewPageCache(db *badger.DB, ttl time.Duration, clock chrono.API) PageCache {
	assert.NotNil(db)
	assert.NotNil(clock)
	return PageCache{db: db, ttl: ttl, clock: clock}
}

// OpenBadger opens the badger database backing a PageCache, an empty `dir`
// keeps it in memory.
func OpenBadger(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	return badger.Open(opts)
}

func (c PageCache) key(link string) (string, error) {
	parsed, err := url.Parse(link)
	if err != nil {
		return "", err
	}
	return purell.NormalizeURL(
		parsed,
		purell.FlagsSafe|
			purell.FlagsUsuallySafeNonGreedy|
			purell.FlagRemoveDirectoryIndex|
			purell.FlagRemoveFragment|
			purell.FlagSortQuery,
	), nil
}

func (c PageCache) get(ctx context.Context, link string) (string, error) {
	_, span := tracer.Start(ctx, "cache.get")
	defer span.End()

	key, err := c.key(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return "", err
	}
	span.SetAttributes(attribute.String("cache_key", key))

	var serialized []byte
	err = c.db.View(func(tx *badger.Txn) error {
		item, err := tx.Get([]byte(key))
		if err != nil {
			return err
		}
		serialized, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to read item from badger")
		}
		return "", err
	}

	var page cachedPage
	err = gob.NewDecoder(bytes.NewReader(serialized)).Decode(&page)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to deserialize cached item")
		return "", err
	}

	if c.clock.Now().Unix() >= page.ExpiresAt {
		err = c.db.Update(func(tx *badger.Txn) error {
			return tx.Delete([]byte(key))
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to delete expired key")
		}
		return "", errPageNotFound
	}

	return page.Contents, nil
}

func (c PageCache) set(ctx context.Context, link, contents string) error {
	_, span := tracer.Start(ctx, "cache.set")
	defer span.End()

	key, err := c.key(link)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to create cache key")
		return err
	}

	serialized := bytes.NewBuffer(nil)
	err = gob.NewEncoder(serialized).Encode(cachedPage{
		Contents:  contents,
		ExpiresAt: c.clock.Now().Add(c.ttl).Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to serialize page")
		return err
	}

	err = c.db.Update(func(tx *badger.Txn) error {
		return tx.Set([]byte(key), serialized.Bytes())
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to set badger item")
		return err
	}
	return nil
}

// CachedFetcher serves pages from a PageCache and falls back to another
// Fetcher on a miss. Cache failures never fail a fetch.
type CachedFetcher struct {
	inner Fetcher
	cache PageCache
	tel   telemetry.API
}

func NewCachedFetcher(inner Fetcher, cache PageCache, tel telemetry.API) CachedFetcher {
	assert.NotNil(inner)
	assert.NotNil(tel)
	return CachedFetcher{inner: inner, cache: cache, tel: tel}
}

func (f CachedFetcher) Fetch(ctx context.Context, link string) (string, error) {
	contents, err := f.cache.get(ctx, link)
	if err == nil {
		f.tel.ReportDebug(report_cache, "hit", link)
		return contents, nil
	}
	if !errors.Is(err, errPageNotFound) {
		f.tel.ReportWarning(report_cache, err, link)
	}

	contents, err = f.inner.Fetch(ctx, link)
	if err != nil {
		return "", err
	}
	err = f.cache.set(ctx, link, contents)
	if err != nil {
		f.tel.ReportWarning(report_cache, err, link)
	}
	return contents, nil
}
