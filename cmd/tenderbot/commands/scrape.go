package commands

import (
	"context"
	"log/slog"
	"tenderbot/internal/notify"
	"tenderbot/internal/scrapers/zakupki"
	"tenderbot/lib/serviceutil"
	"tenderbot/lib/telemetry"
	"time"

	"github.com/spf13/cobra"
)

var (
	scrapeQuery   *string
	scrapeFrom    *string
	scrapeTo      *string
	scrapeFilter  *string
	scrapePages   *int
	scrapeWorkers *int
	scrapeDumpDir *string
)

func init() {
	scrapeQuery = scrapeCmd.Flags().String("query", "", "Search for this text instead of the searches in the config.")
	scrapeFrom = scrapeCmd.Flags().String("from", "", "Only listings published on or after this date (dd.mm.yyyy), used with --query.")
	scrapeTo = scrapeCmd.Flags().String("to", "", "Only listings published on or before this date (dd.mm.yyyy), used with --query.")
	scrapeFilter = scrapeCmd.Flags().String("filter", zakupki.DefaultFilter, "The date filter the bounds apply to, used with --query.")
	scrapePages = scrapeCmd.Flags().Int("pages", 1, "The amount of result pages to scrape, used with --query.")
	scrapeWorkers = scrapeCmd.Flags().Int("workers", 0, "The amount of listings processed concurrently, overrides the config.")
	scrapeDumpDir = scrapeCmd.Flags().String("dump-dir", "", "Write every http response to this directory.")
	rootCmd.AddCommand(scrapeCmd)
}

func applyScrapeFlags(cfg Config) Config {
	if *scrapeQuery != "" {
		cfg.Searches = []SearchConfig{{
			Query:  *scrapeQuery,
			From:   *scrapeFrom,
			To:     *scrapeTo,
			Filter: *scrapeFilter,
			Pages:  *scrapePages,
		}}
	}
	if *scrapeWorkers > 0 {
		cfg.Workers = *scrapeWorkers
	}
	if *scrapeDumpDir != "" {
		cfg.Fetch.DumpDir = *scrapeDumpDir
	}
	return cfg
}

// runOnce performs one scrape run over every configured search, prints
// its summary and e-mails it when notifications are configured.
func runOnce(ctx context.Context, env *environment) (zakupki.Summary, error) {
	runID, err := zakupki.NewRunID()
	if err != nil {
		return zakupki.Summary{}, err
	}

	queries := env.config.Queries()
	slog.Info("starting run", "run_id", runID, "pages", len(queries), "workers", env.config.Workers)

	scraper := zakupki.NewScraper(env.fetcher, env.assembler, env.store, env.config.Workers, env.tel)
	start := time.Now()
	summary, runErr := scraper.Run(ctx, runID, queries)
	slog.Info("finished run", "run_id", runID, "seconds", time.Since(start).Seconds())
	renderSummary(summary)

	notifier := notify.NewNotifier(env.config.Notify, env.tel)
	err = notifier.SendSummary(ctx, summary, runErr)
	if err != nil {
		slog.Warn("failed to send summary", "err", err)
	}
	return summary, runErr
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape [--query <text> [--from <date>] [--to <date>] [--pages <n>]]",
	Short: "Runs the configured searches once and writes every listing found to the database.",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		cfg, err := readConfig(*configPath)
		if err != nil && *scrapeQuery == "" {
			serviceutil.Fatal("failed to read config", err)
		}
		if err != nil {
			cfg = Config{}.withDefaults()
		}
		cfg = applyScrapeFlags(cfg)
		if len(cfg.Searches) == 0 {
			serviceutil.Fatal("nothing to scrape, configure searches or pass --query", nil)
		}

		otel, err := telemetry.SetupFromEnv(ctx, "tenderbot")
		if err != nil {
			serviceutil.Fatal("failed to setup telemetry", err)
		}
		defer otel.Shutdown(context.Background())

		env, err := setup(ctx, cfg)
		if err != nil {
			serviceutil.Fatal("failed to initialize", err)
		}
		defer env.Close()

		_, err = runOnce(ctx, env)
		if err != nil {
			slog.Error("run finished with errors", "err", err)
		}
	},
}
