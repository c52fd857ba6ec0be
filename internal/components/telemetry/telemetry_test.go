package telemetry

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScopedAPI(t *testing.T) {
	rec := NewRecorder()
	scoped := NewScopedAPI("zakupki", NewScopedAPI("extract", rec))

	scoped.ReportBroken("client.fetch", "boom")
	scoped.ReportWarning("detail.type", "field")
	scoped.ReportDebug("stage", 1)
	scoped.ReportCount("records", 3)

	reports := rec.Reports()
	require.Len(t, reports, 4)
	require.Equal(t, "extract: zakupki: client.fetch", reports[0].Id)
	require.Equal(t, []any{"boom"}, reports[0].Params)
	require.Equal(t, REPORT_WARNING, reports[1].Kind)
	require.Equal(t, "extract: zakupki: stage", reports[2].Id)
	require.Equal(t, int64(3), reports[3].Count)

	require.Len(t, rec.Find(REPORT_WARNING, "detail.type"), 1)
	require.Empty(t, rec.Find(REPORT_BROKEN, "detail.type"))
}
