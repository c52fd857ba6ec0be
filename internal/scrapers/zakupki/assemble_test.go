package zakupki

import (
	"context"
	"sort"
	"strings"
	"testing"
	"tenderbot/internal/components/chrono"
	"tenderbot/internal/components/telemetry"
	"tenderbot/internal/normalize"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

var capturedAt = time.Date(2020, time.March, 12, 9, 30, 0, 0, time.UTC)

func stages(rec *telemetry.Recorder) []string {
	var out []string
	for _, report := range rec.Find(telemetry.REPORT_DEBUG, report_assembler_stage) {
		out = append(out, report.Params[2].(string))
	}
	return out
}

func TestAssemble(t *testing.T) {
	rec := telemetry.NewRecorder()
	fetcher := newFakeFetcher(map[string]string{
		firstDetailURL:    fixture(t, "detail_span.html"),
		firstDocumentsURL: fixture(t, "documents_rows.html"),
	})
	assembler := NewAssembler(fetcher, chrono.FixedImpl{At: capturedAt}, rec)

	record, note := assembler.Assemble(context.Background(), searchCard(t, 0))

	expectedDetail := EmptyDetail()
	expectedDetail.Type = "Запрос котировок"
	expectedDetail.Description = "Поставка бумаги для офисной техники"
	expectedDetail.InitDate = "2020-03-10"
	expectedDetail.Platform = "РТС-тендер"
	expectedDetail.PlatformURL = "http://www.rts-tender.ru"
	expectedDetail.TenderDeposit = normalize.FromMinor(500000)
	expectedDetail.ContractDeposit = normalize.FromMinor(1000000)
	expectedDetail.WarrantyDeposit = normalize.FromMinor(12346)
	expectedDetail.AuthorName = "ГБУ «Школа № 1»"
	expectedDetail.Address = "г. Москва, ул. Ленина, д. 1"
	expectedDetail.AuthorManager = "Иванов Иван Иванович"
	expectedDetail.AuthorEmail = "zakaz@school1.ru"
	expectedDetail.AuthorPhone = "+7 (495) 123-45-67"
	expectedDetail.StartDate = "2020-03-11"
	expectedDetail.EndDate = "2020-03-20"
	expectedDetail.Timezone = "МСК+4"
	expectedDetail.ResultDate = "2020-03-25"
	expectedDetail.Requirements = "Преимущества:\n\nНе установлены\n\nТребования к участникам:\n\nЕдиные требования к участникам\n\nОграничения и запреты:\n\nНе установлены\n"

	expected := Record{
		Listing: Listing{
			ID:    12345,
			Law:   "44-ФЗ",
			URL:   firstDetailURL,
			Price: normalize.FromMinor(123456),
		},
		Detail: expectedDetail,
		Docs: "https://zakupki.gov.ru/44fz/filestore/public/1.0/download/priz/file.html?uid=A1\n" +
			"https://zakupki.gov.ru/44fz/filestore/public/1.0/download/priz/file.html?uid=B2",
		Note:       NoteHeader + "\n" + missingAuthorINN + "\n" + missingAuthorOGRN,
		CapturedAt: capturedAt,
	}

	diff := cmp.Diff(expected, record)
	if diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, record.Note, note)
	require.Equal(t, []string{
		StageListFieldsPopulated.String(),
		StageDetailFetched.String(),
		StageDetailFieldsPopulated.String(),
		StageDocumentsFetched.String(),
		StageFinalized.String(),
	}, stages(rec))
}

func TestAssembleIsIdempotent(t *testing.T) {
	pages := map[string]string{
		firstDetailURL:    fixture(t, "detail_table.html"),
		firstDocumentsURL: fixture(t, "documents_table.html"),
	}

	first, firstNote := NewAssembler(newFakeFetcher(pages), chrono.FixedImpl{At: capturedAt}, telemetry.NewRecorder()).
		Assemble(context.Background(), searchCard(t, 0))
	second, secondNote := NewAssembler(newFakeFetcher(pages), chrono.FixedImpl{At: capturedAt.Add(time.Hour)}, telemetry.NewRecorder()).
		Assemble(context.Background(), searchCard(t, 0))

	diff := cmp.Diff(first, second, cmpopts.IgnoreFields(Record{}, "CapturedAt"), cmpopts.EquateNaNs())
	if diff != "" {
		t.Fatal(diff)
	}
	require.Equal(t, firstNote, secondNote)
	require.NotEqual(t, first.CapturedAt, second.CapturedAt)
}

func TestAssembleWithoutDetailPage(t *testing.T) {
	rec := telemetry.NewRecorder()
	assembler := NewAssembler(newFakeFetcher(nil), chrono.FixedImpl{At: capturedAt}, rec)

	record, note := assembler.Assemble(context.Background(), searchCard(t, 0))

	require.Equal(t, int64(12345), record.ID)
	require.Equal(t, firstDetailURL, record.URL)
	require.Equal(t, 1234.56, record.Price.Float64())
	require.Equal(t, capturedAt, record.CapturedAt)
	require.Empty(t, cmp.Diff(EmptyDetail(), record.Detail))
	require.Equal(t, "", record.Docs)

	expectedLines := append(append([]string{}, detailFieldNotes...), missingDocs)
	require.Equal(t, NoteHeader+"\n"+strings.Join(expectedLines, "\n"), note)
	for _, line := range expectedLines {
		require.Equal(t, 1, strings.Count(note, line), line)
	}

	require.Equal(t, []string{StageListFieldsPopulated.String(), StageFinalized.String()}, stages(rec))
	require.Len(t, rec.Find(telemetry.REPORT_WARNING, report_assembler_detail), 1)
}

func TestAssembleWithoutDocumentsPage(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		firstDetailURL: fixture(t, "detail_table.html"),
	})
	assembler := NewAssembler(fetcher, chrono.FixedImpl{At: capturedAt}, telemetry.NewRecorder())

	record, note := assembler.Assemble(context.Background(), searchCard(t, 0))
	require.Equal(t, "Запрос котировок", record.Type)
	require.Equal(t, "", record.Docs)
	require.True(t, strings.HasSuffix(note, "\n"+missingDocs))
	require.Equal(t, 1, fetcher.Calls(firstDocumentsURL))
}

func TestAssembleUnknownDocumentsLayout(t *testing.T) {
	fetcher := newFakeFetcher(map[string]string{
		firstDetailURL:    fixture(t, "detail_table.html"),
		firstDocumentsURL: "<html><body><p>Документы отсутствуют</p></body></html>",
	})
	record, note := NewAssembler(fetcher, chrono.FixedImpl{At: capturedAt}, telemetry.NewRecorder()).
		Assemble(context.Background(), searchCard(t, 0))
	require.Equal(t, "", record.Docs)
	require.True(t, strings.HasSuffix(note, "\n"+missingDocs))
}

func TestScraperRun(t *testing.T) {
	query := SearchQuery{Text: "бумага", From: "01.03.2020", To: "31.03.2020", Page: 1}
	fetcher := newFakeFetcher(map[string]string{
		query.URL():       fixture(t, "search.html"),
		firstDetailURL:    fixture(t, "detail_span.html"),
		firstDocumentsURL: fixture(t, "documents_rows.html"),
	})
	rec := telemetry.NewRecorder()
	sink := &memorySink{fail: map[int64]bool{32009000001: true}}
	assembler := NewAssembler(fetcher, chrono.FixedImpl{At: capturedAt}, rec)
	scraper := NewScraper(fetcher, assembler, sink, 2, rec)

	runID, err := NewRunID()
	require.NoError(t, err)
	require.Len(t, runID, 16)

	unreachable := SearchQuery{Text: "бумага", Page: 2}
	summary, err := scraper.Run(context.Background(), runID, []SearchQuery{query, unreachable})
	require.Error(t, err, "unreachable search pages are reported")

	require.Equal(t, Summary{
		RunID:      runID,
		Pages:      1,
		Listings:   3,
		Incomplete: 3,
		Persisted:  2,
		Failed:     1,
	}, summary)

	require.Len(t, sink.records, 2)
	sort.Slice(sink.records, func(i, j int) bool {
		return sink.records[i].ID > sink.records[j].ID
	})
	require.Equal(t, int64(12345), sink.records[0].ID)
	require.Equal(t, int64(0), sink.records[1].ID)
	for _, record := range sink.records {
		require.Equal(t, runID, record.RunID)
	}
	require.Len(t, rec.Find(telemetry.REPORT_BROKEN, report_scraper_persist), 1)
	require.Len(t, rec.Find(telemetry.REPORT_BROKEN, report_scraper_search), 1)
}
