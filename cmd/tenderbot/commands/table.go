package commands

import (
	"os"
	"tenderbot/internal/components/db"
	"tenderbot/internal/scrapers/zakupki"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func renderSummary(summary zakupki.Summary) {
	t := newTable()
	t.AppendHeader(table.Row{"Run", "Pages", "Listings", "Incomplete", "Persisted", "Failed"})
	t.AppendRow(table.Row{
		summary.RunID,
		summary.Pages,
		summary.Listings,
		summary.Incomplete,
		summary.Persisted,
		summary.Failed,
	})
	t.Render()
}

func renderRuns(runs []db.RunSummary) {
	t := newTable()
	t.AppendHeader(table.Row{"Run", "Started", "Listings", "Incomplete"})
	for _, run := range runs {
		t.AppendRow(table.Row{
			run.RunID,
			time.Unix(run.StartedAt, 0).Format(time.DateTime),
			run.Listings,
			run.Incomplete,
		})
	}
	t.Render()
}

func renderRecords(records []zakupki.Record) {
	t := newTable()
	t.AppendHeader(table.Row{"ID", "Law", "Type", "Price", "End date", "Missing"})
	for _, record := range records {
		missing := ""
		if record.Note != "" {
			missing = "yes"
		}
		t.AppendRow(table.Row{
			record.ID,
			record.Law,
			record.Type,
			record.Price.String(),
			record.EndDate,
			missing,
		})
	}
	t.Render()
}

func renderRecord(record zakupki.Record) {
	t := newTable()
	t.AppendHeader(table.Row{"Field", "Value"})
	t.AppendRows([]table.Row{
		{"id", record.ID},
		{"law", record.Law},
		{"url", record.URL},
		{"price", record.Price.String()},
		{"type", record.Type},
		{"description", record.Description},
		{"init_date", record.InitDate},
		{"platform", record.Platform},
		{"platform_url", record.PlatformURL},
		{"tender_deposit", record.TenderDeposit.String()},
		{"contract_deposit", record.ContractDeposit.String()},
		{"warranty_deposit", record.WarrantyDeposit.String()},
		{"author_name", record.AuthorName},
		{"author_inn", record.AuthorINN},
		{"author_ogrn", record.AuthorOGRN},
		{"address", record.Address},
		{"author_manager", record.AuthorManager},
		{"author_email", record.AuthorEmail},
		{"author_phone", record.AuthorPhone},
		{"start_date", record.StartDate},
		{"end_date", record.EndDate},
		{"timezone", record.Timezone},
		{"result_date", record.ResultDate},
		{"requirements", record.Requirements},
		{"docs", record.Docs},
		{"comment", record.Note},
	})
	if !record.CapturedAt.IsZero() {
		t.AppendRow(table.Row{"time", record.CapturedAt.Format(time.DateTime)})
	}
	t.Render()
}
