package store

import (
	"context"
	"fmt"
	"tenderbot/internal/components/assert"
	"tenderbot/internal/components/db"
	"tenderbot/internal/components/telemetry"
	"tenderbot/internal/scrapers/zakupki"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("tenderbot.internal.store")

const (
	report_store_persist = "store.persist"
	report_store_retry   = "store.persist-retry"
)

// Options configure how failed writes are retried.
type Options struct {
	// MaxRetries is the amount of retries after the first attempt.
	MaxRetries      uint64
	InitialInterval time.Duration
}

func DefaultOptions() Options {
	return Options{
		MaxRetries:      4,
		InitialInterval: 500 * time.Millisecond,
	}
}

// Store writes assembled records to the listing table, it implements
// zakupki.Sink.
type Store struct {
	qry    *db.Queries
	makeTx db.MakeTx
	opts   Options
	tel    telemetry.API
}

// Open creates the missing tables and returns a Store over conn.
func Open(ctx context.Context, conn *sqlx.DB, opts Options, tel telemetry.API) (Store, error) {
	assert.NotNil(conn)
	assert.NotNil(tel)

	err := db.Migrate(ctx, conn)
	if err != nil {
		return Store{}, err
	}
	return Store{
		qry:    db.New(conn),
		makeTx: db.NewMakeTx(conn),
		opts:   opts,
		tel:    tel,
	}, nil
}

func (s Store) policy(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if s.opts.InitialInterval > 0 {
		exp.InitialInterval = s.opts.InitialInterval
	}
	return backoff.WithContext(backoff.WithMaxRetries(exp, s.opts.MaxRetries), ctx)
}

func (s Store) insert(ctx context.Context, row db.Listing) error {
	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		return err
	}
	defer discard()

	err = tx.InsertListing(ctx, row)
	if err != nil {
		return err
	}
	return commit()
}

// Persist writes a record, retrying with exponential backoff. Writing the
// same record twice within a run keeps the first row.
func (s Store) Persist(ctx context.Context, record zakupki.Record) error {
	ctx, span := tracer.Start(ctx, "Store.Persist")
	defer span.End()
	span.SetAttributes(attribute.Int64("listing.id", record.ID))

	row := ToRow(record)
	operation := func() error {
		err := s.insert(ctx, row)
		if err != nil && ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		s.tel.ReportWarning(report_store_retry, err, record.ID, wait.String())
	}

	err := backoff.RetryNotify(operation, s.policy(ctx), notify)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		s.tel.ReportBroken(report_store_persist, err, record.ID, record.URL)
		return fmt.Errorf("persist listing %d: %w", record.ID, err)
	}
	return nil
}

// Get returns the record of a listing captured during a run.
func (s Store) Get(ctx context.Context, runID string, id int64) (zakupki.Record, error) {
	row, err := s.qry.GetListing(ctx, runID, id)
	if err != nil {
		return zakupki.Record{}, fmt.Errorf("get listing %d of run %s: %w", id, runID, err)
	}
	return FromRow(row), nil
}

// List returns at most `limit` records of a run in capture order.
func (s Store) List(ctx context.Context, runID string, limit int) ([]zakupki.Record, error) {
	rows, err := s.qry.ListListings(ctx, db.ListListingsParams{
		RunID: runID,
		Limit: limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list run %s: %w", runID, err)
	}
	records := make([]zakupki.Record, len(rows))
	for i, row := range rows {
		records[i] = FromRow(row)
	}
	return records, nil
}

// Runs returns the most recent runs first.
func (s Store) Runs(ctx context.Context, limit int) ([]db.RunSummary, error) {
	return s.qry.ListRuns(ctx, limit)
}

func (s Store) DeleteRun(ctx context.Context, runID string) (int64, error) {
	return s.qry.DeleteRun(ctx, runID)
}
