package commands

import (
	"context"
	"log/slog"
	"sync"
	"tenderbot/internal/components/chrono"
	"tenderbot/lib/serviceutil"
	"tenderbot/lib/telemetry"

	"github.com/spf13/cobra"
)

const report_daemon_overlap = "daemon.overlap"

func init() {
	rootCmd.AddCommand(daemonCmd)
}

// scheduleRuns registers a run on `spec`, a run that is due while the
// previous one is still going is skipped.
func scheduleRuns(ctx context.Context, cron chrono.CronAPI, spec string, env *environment) error {
	var running sync.Mutex
	return cron.Cron(spec, func() {
		if !running.TryLock() {
			env.tel.ReportWarning(report_daemon_overlap, "previous run still in progress, skipping")
			return
		}
		defer running.Unlock()

		_, err := runOnce(ctx, env)
		if err != nil {
			slog.Error("run finished with errors", "err", err)
		}
	})
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Runs the configured searches on the configured cron schedule until interrupted.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := readConfig(*configPath)
		if err != nil {
			serviceutil.Fatal("failed to read config", err)
		}
		if cfg.Cron == "" {
			serviceutil.Fatal("no cron schedule configured", nil)
		}
		if len(cfg.Searches) == 0 {
			serviceutil.Fatal("no searches configured", nil)
		}

		otel, err := telemetry.SetupFromEnv(ctx, "tenderbot")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer otel.Shutdown(context.Background())
		telemetry.InstrumentPerfStats(ctx)

		env, err := setup(ctx, cfg)
		if err != nil {
			serviceutil.Fatal("failed to initialize", err)
		}
		defer env.Close()

		cron := chrono.NewStandardCron(env.clock, env.tel)
		err = scheduleRuns(ctx, cron, cfg.Cron, env)
		if err != nil {
			serviceutil.Fatal("invalid cron schedule", err)
		}
		next, err := chrono.NextRuns(cfg.Cron, env.clock.Now(), 1)
		if err == nil {
			slog.Info("daemon started", "cron", cfg.Cron, "searches", len(cfg.Searches), "next_run", next[0])
		}

		<-ctx.Done()
		slog.Info("waiting for the current run to finish")
		<-cron.Stop().Done()
	},
}
