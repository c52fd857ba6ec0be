package chrono

import (
	"errors"
	"testing"
	"tenderbot/internal/components/telemetry"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNextRuns(t *testing.T) {
	moscow, err := time.LoadLocation("Europe/Moscow")
	if err != nil {
		t.Skip("tzdata unavailable")
	}
	from := time.Date(2020, time.March, 12, 7, 15, 0, 0, moscow)

	runs, err := NextRuns("0 */6 * * *", from, 3)
	require.NoError(t, err)
	expected := []time.Time{
		time.Date(2020, time.March, 12, 12, 0, 0, 0, moscow),
		time.Date(2020, time.March, 12, 18, 0, 0, 0, moscow),
		time.Date(2020, time.March, 13, 0, 0, 0, 0, moscow),
	}
	require.Len(t, runs, len(expected))
	for i := range expected {
		require.True(t, expected[i].Equal(runs[i]), "run %d: %s", i, runs[i])
	}

	_, err = NextRuns("every day", from, 1)
	require.ErrorContains(t, err, "every day")
}

func TestStandardCronRejectsInvalidSpec(t *testing.T) {
	rec := telemetry.NewRecorder()
	cron := NewStandardCron(FixedImpl{At: time.Unix(0, 0).UTC()}, rec)
	defer cron.Stop()

	require.Error(t, cron.Cron("61 * * * *", func() {}))
	require.NoError(t, cron.Cron("@hourly", func() {}))
}

func TestCronLogger(t *testing.T) {
	rec := telemetry.NewRecorder()
	logger := cronLogger{tel: rec}

	logger.Info("schedule", "entry", 1, "next", "12:00")
	logger.Error(errors.New("boom"), "panic", "entry", 1)

	debug := rec.Find(telemetry.REPORT_DEBUG, "cron: schedule entry=1 next=12:00")
	require.Len(t, debug, 1)
	broken := rec.Find(telemetry.REPORT_BROKEN, report_cron)
	require.Len(t, broken, 1)
	require.EqualError(t, broken[0].Params[0].(error), "panic entry=1: boom")
}
