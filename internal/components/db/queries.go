package db

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// DBTX is satisfied by both *sqlx.DB and *sqlx.Tx.
type DBTX interface {
	sqlx.ExtContext
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

const insertListing = `insert into listing (
    run_id, id, law, url, price, type, description, init_date, platform, platform_url,
    tender_deposit, contract_deposit, warranty_deposit, author_name, author_inn, author_ogrn,
    address, author_manager, author_email, author_phone, start_date, end_date, timezone,
    result_date, requirements, docs, comment, time
) values (
    :run_id, :id, :law, :url, :price, :type, :description, :init_date, :platform, :platform_url,
    :tender_deposit, :contract_deposit, :warranty_deposit, :author_name, :author_inn, :author_ogrn,
    :address, :author_manager, :author_email, :author_phone, :start_date, :end_date, :timezone,
    :result_date, :requirements, :docs, :comment, :time
) on conflict do nothing`

// InsertListing writes a row, writing the same (run_id, id, url) twice is a
// no-op so that retried writes are safe.
func (q *Queries) InsertListing(ctx context.Context, arg Listing) error {
	_, err := sqlx.NamedExecContext(ctx, q.db, insertListing, arg)
	return err
}

const getListing = `select * from listing where run_id = ? and id = ? order by url limit 1`

func (q *Queries) GetListing(ctx context.Context, runID string, id int64) (Listing, error) {
	var row Listing
	err := sqlx.GetContext(ctx, q.db, &row, q.db.Rebind(getListing), runID, id)
	return row, err
}

const listListings = `select * from listing where run_id = ? order by time, id, url limit ?`

type ListListingsParams struct {
	RunID string
	Limit int
}

func (q *Queries) ListListings(ctx context.Context, arg ListListingsParams) ([]Listing, error) {
	var rows []Listing
	err := sqlx.SelectContext(ctx, q.db, &rows, q.db.Rebind(listListings), arg.RunID, arg.Limit)
	return rows, err
}

const listRuns = `select
    run_id,
    count(*) as listings,
    sum(case when comment <> '' then 1 else 0 end) as incomplete,
    min(time) as started_at
from listing
group by run_id
order by started_at desc
limit ?`

func (q *Queries) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	var rows []RunSummary
	err := sqlx.SelectContext(ctx, q.db, &rows, q.db.Rebind(listRuns), limit)
	return rows, err
}

const deleteRun = `delete from listing where run_id = ?`

func (q *Queries) DeleteRun(ctx context.Context, runID string) (int64, error) {
	res, err := q.db.ExecContext(ctx, q.db.Rebind(deleteRun), runID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
