package chrono

import (
	"context"
	"fmt"
	"strings"
	"tenderbot/internal/components/telemetry"
	"time"

	"github.com/robfig/cron/v3"
)

const report_cron = "cron"

// CronAPI is the interface that anything depending on things to happen on a cron job should use.
type CronAPI interface {
	Cron(spec string, callback func()) error
	// Stop stops the scheduler, the returned context is done once running jobs finish.
	Stop() context.Context
}

// NextRuns returns the next `n` activations of a standard 5 field cron spec
// after `from`.
func NextRuns(spec string, from time.Time, n int) ([]time.Time, error) {
	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse cron spec '%s': %w", spec, err)
	}
	out := make([]time.Time, 0, n)
	next := from
	for i := 0; i < n; i++ {
		next = schedule.Next(next)
		out = append(out, next)
	}
	return out, nil
}

// StandardCron is the standard implementation of CronAPI using `github.com/robfig/cron/v3`,
// specs are evaluated in the timezone of the clock it was created with.
type StandardCron struct {
	cron *cron.Cron
}

func NewStandardCron(clock API, tel telemetry.API) StandardCron {
	cronner := cron.New(
		cron.WithLogger(cronLogger{tel: tel}),
		cron.WithLocation(clock.Location()),
		cron.WithChain(cron.Recover(cronLogger{tel: tel})),
	)
	cronner.Start()
	return StandardCron{cron: cronner}
}

func (s StandardCron) Cron(spec string, callback func()) error {
	_, err := s.cron.AddFunc(spec, callback)
	if err != nil {
		return fmt.Errorf("parse cron spec '%s': %w", spec, err)
	}
	return nil
}

func (s StandardCron) Stop() context.Context {
	return s.cron.Stop()
}

// cronLogger forwards the scheduler's logs to telemetry.
type cronLogger struct {
	tel telemetry.API
}

func (cronLogger) format(msg string, keysAndValues []any) string {
	var out strings.Builder
	out.WriteString(msg)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&out, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	return out.String()
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.tel.ReportDebug(l.format("cron: "+msg, keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.tel.ReportBroken(report_cron, fmt.Errorf("%s: %w", l.format(msg, keysAndValues), err))
}
