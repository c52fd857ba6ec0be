package zakupki

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"tenderbot/internal/components/assert"
	"tenderbot/internal/components/telemetry"

	"github.com/PuerkitoBio/goquery"
	"github.com/mazen160/go-random"
	"golang.org/x/sync/errgroup"
)

const (
	report_scraper_search  = "scraper.search"
	report_scraper_persist = "scraper.persist"
	report_scraper_listing = "scraper.listing"
)

// Sink receives finished records. Persist may be called concurrently and in
// any order.
type Sink interface {
	Persist(ctx context.Context, record Record) error
}

// Summary counts what happened during one run.
type Summary struct {
	RunID string
	// Pages is the amount of search pages fetched successfully.
	Pages    int
	Listings int
	// Incomplete is the amount of records with a non-empty missing-field note.
	Incomplete int
	Persisted  int
	Failed     int
}

// NewRunID creates the random identifier stored on every record of a run.
func NewRunID() (string, error) {
	id, err := random.String(16)
	if err != nil {
		return "", fmt.Errorf("generate run id: %w", err)
	}
	return strings.ToLower(id), nil
}

// Scraper runs searches, assembles every listing found and hands the records
// to a Sink with at most `workers` listings in flight.
type Scraper struct {
	fetcher   Fetcher
	assembler Assembler
	sink      Sink
	workers   int
	tel       telemetry.API
}

func NewScraper(fetcher Fetcher, assembler Assembler, sink Sink, workers int, tel telemetry.API) Scraper {
	assert.NotNil(fetcher)
	assert.NotNil(sink)
	assert.NotNil(tel)
	if workers < 1 {
		workers = 1
	}
	return Scraper{
		fetcher:   fetcher,
		assembler: assembler,
		sink:      sink,
		workers:   workers,
		tel:       tel,
	}
}

// Run processes the given search pages. A search page that cannot be fetched
// is skipped and its error is returned joined with the others once every
// other page was processed, records that fail to persist are only counted.
func (s Scraper) Run(ctx context.Context, runID string, queries []SearchQuery) (Summary, error) {
	ctx, span := tracer.Start(ctx, "Scraper.Run")
	defer span.End()

	summary := Summary{RunID: runID}
	var lock sync.Mutex
	var errs []error

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)

	for _, query := range queries {
		if groupCtx.Err() != nil {
			break
		}

		page, err := s.searchPage(groupCtx, query)
		if err != nil {
			s.tel.ReportBroken(report_scraper_search, err, query.URL())
			errs = append(errs, err)
			continue
		}

		cards := SearchCards(page.Selection)
		lock.Lock()
		summary.Pages++
		summary.Listings += len(cards)
		lock.Unlock()
		s.tel.ReportCount(report_scraper_listing, int64(len(cards)))

		for _, card := range cards {
			group.Go(func() error {
				record, note := s.assembler.Assemble(groupCtx, card)
				record.RunID = runID

				err := s.sink.Persist(groupCtx, record)

				lock.Lock()
				defer lock.Unlock()
				if note != "" {
					summary.Incomplete++
				}
				if err != nil {
					s.tel.ReportBroken(report_scraper_persist, err, record.ID, record.URL)
					summary.Failed++
					return nil
				}
				summary.Persisted++
				return nil
			})
		}
	}

	err := group.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		errs = append(errs, err)
	}
	return summary, errors.Join(errs...)
}

func (s Scraper) searchPage(ctx context.Context, query SearchQuery) (*goquery.Document, error) {
	html, err := s.fetcher.Fetch(ctx, query.URL())
	if err != nil {
		return nil, fmt.Errorf("search '%s' page %d: %w", query.Text, query.Page, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("search '%s' page %d: %w", query.Text, query.Page, err)
	}
	return doc, nil
}

// Pages expands a query into its first `count` result pages.
func Pages(query SearchQuery, count int) []SearchQuery {
	if count < 1 {
		count = 1
	}
	pages := make([]SearchQuery, count)
	for i := range pages {
		pages[i] = query
		pages[i].Page = i + 1
	}
	return pages
}
