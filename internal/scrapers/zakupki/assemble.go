package zakupki

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"tenderbot/internal/components/assert"
	"tenderbot/internal/components/chrono"
	"tenderbot/internal/components/telemetry"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("tenderbot.internal.scrapers.zakupki")

const (
	report_assembler_stage     = "assembler.stage"
	report_assembler_detail    = "assembler.detail"
	report_assembler_documents = "assembler.documents"
	report_assembler_missing   = "assembler.missing-fields"
)

// Fetcher returns the html of a page.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Stage is the progress of a record through assembly, stages are only ever
// entered in increasing order but some may be skipped.
type Stage int

const (
	StageCreated Stage = iota
	StageListFieldsPopulated
	StageDetailFetched
	StageDetailFieldsPopulated
	StageDocumentsFetched
	StageFinalized
)

func (s Stage) String() string {
	switch s {
	case StageCreated:
		return "created"
	case StageListFieldsPopulated:
		return "list-fields-populated"
	case StageDetailFetched:
		return "detail-fetched"
	case StageDetailFieldsPopulated:
		return "detail-fields-populated"
	case StageDocumentsFetched:
		return "documents-fetched"
	case StageFinalized:
		return "finalized"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Assembler builds one Record per listing card, fetching the detail page and
// the documents sub-page when they are reachable.
type Assembler struct {
	extractor Extractor
	fetcher   Fetcher
	clock     chrono.API
	tel       telemetry.API
}

func NewAssembler(fetcher Fetcher, clock chrono.API, tel telemetry.API) Assembler {
	assert.NotNil(fetcher)
	assert.NotNil(clock)
	assert.NotNil(tel)
	return Assembler{
		extractor: NewExtractor(tel),
		fetcher:   fetcher,
		clock:     clock,
		tel:       tel,
	}
}

// assembly is the state of a single record, it is never shared between
// listings.
type assembly struct {
	stage  Stage
	record Record
	note   *Note
	tel    telemetry.API
}

func (s *assembly) advance(to Stage) {
	assert.True(to > s.stage, "assembly stages only move forward")
	s.tel.ReportDebug(report_assembler_stage, s.record.ID, s.stage.String(), to.String())
	s.stage = to
}

func (a Assembler) fetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	html, err := a.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// Assemble builds the record of a search results card. It never fails, every
// field that could not be populated is left at its default and described in
// the returned missing-field note, which is also stored on the record.
func (a Assembler) Assemble(ctx context.Context, card *goquery.Selection) (Record, string) {
	ctx, span := tracer.Start(ctx, "Assemble")
	defer span.End()

	state := &assembly{
		stage: StageCreated,
		record: Record{
			CapturedAt: a.clock.Now(),
			Detail:     EmptyDetail(),
		},
		note: NewNote(),
		tel:  a.tel,
	}

	state.record.Listing = a.extractor.ExtractListing(card, state.note)
	state.advance(StageListFieldsPopulated)
	span.SetAttributes(
		attribute.Int64("id", state.record.ID),
		attribute.String("url", state.record.URL),
	)

	detail, err := a.detailPage(ctx, state.record.URL)
	if err != nil {
		a.tel.ReportWarning(report_assembler_detail, err, state.record.ID, state.record.URL)
		span.RecordError(err)
		span.SetStatus(codes.Error, "detail page unavailable")

		for _, line := range detailFieldNotes {
			state.note.Write(line)
		}
		state.note.Write(missingDocs)
		return a.finalize(state)
	}
	state.advance(StageDetailFetched)

	state.record.Detail = a.extractor.ExtractDetail(detail.Selection, state.record.Price, state.note)
	state.advance(StageDetailFieldsPopulated)

	docs, err := a.documentsPage(ctx, state.record.URL)
	if err != nil {
		a.tel.ReportWarning(report_assembler_documents, err, state.record.ID, state.record.URL)
		state.note.Write(missingDocs)
		return a.finalize(state)
	}
	state.advance(StageDocumentsFetched)

	links, ok := a.extractor.ExtractDocumentLinks(docs.Selection)
	if !ok {
		state.note.Write(missingDocs)
	}
	state.record.Docs = links

	return a.finalize(state)
}

func (a Assembler) detailPage(ctx context.Context, detailURL string) (*goquery.Document, error) {
	if detailURL == "" {
		return nil, errors.New("listing has no detail url")
	}
	doc, err := a.fetchDocument(ctx, detailURL)
	if err != nil {
		return nil, fmt.Errorf("fetch detail page: %w", err)
	}
	return doc, nil
}

func (a Assembler) documentsPage(ctx context.Context, detailURL string) (*goquery.Document, error) {
	docsURL, err := PartURL(detailURL, PartDocuments)
	if err != nil {
		return nil, err
	}
	doc, err := a.fetchDocument(ctx, docsURL)
	if err != nil {
		return nil, fmt.Errorf("fetch documents page: %w", err)
	}
	return doc, nil
}

func (a Assembler) finalize(state *assembly) (Record, string) {
	state.record.Note = state.note.String()
	state.advance(StageFinalized)
	if state.note.Len() > 0 {
		a.tel.ReportCount(report_assembler_missing, int64(state.note.Len()))
	}
	return state.record, state.record.Note
}
