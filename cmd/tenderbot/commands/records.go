package commands

import (
	"context"
	"fmt"
	"strconv"
	"tenderbot/internal/store"
	"tenderbot/lib/serviceutil"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var recordsLimit *int

func init() {
	recordsLimit = recordsCmd.PersistentFlags().Int("limit", 50, "The maximum amount of rows to print.")

	recordsCmd.AddCommand(recordsRunsCmd)
	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsShowCmd)
	recordsCmd.AddCommand(recordsDeleteCmd)
	rootCmd.AddCommand(recordsCmd)
}

func mustStore(ctx context.Context) (store.Store, *sqlx.DB) {
	cfg, err := readConfig(*configPath)
	if err != nil {
		serviceutil.Fatal("failed to read config", err)
	}
	s, conn, err := openStore(ctx, cfg, newTelemetry())
	if err != nil {
		serviceutil.Fatal("failed to open database", err)
	}
	return s, conn
}

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Browse the listings written by previous runs.",
}

var recordsRunsCmd = &cobra.Command{
	Use:   "runs [--limit <n>]",
	Short: "List the most recent runs.",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		s, conn := mustStore(cmd.Context())
		defer conn.Close()

		runs, err := s.Runs(cmd.Context(), *recordsLimit)
		if err != nil {
			serviceutil.Fatal("failed to list runs", err)
		}
		renderRuns(runs)
	},
}

var recordsListCmd = &cobra.Command{
	Use:   "list <run id> [--limit <n>]",
	Short: "List the listings captured during a run.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, conn := mustStore(cmd.Context())
		defer conn.Close()

		records, err := s.List(cmd.Context(), args[0], *recordsLimit)
		if err != nil {
			serviceutil.Fatal("failed to list records", err)
		}
		renderRecords(records)
	},
}

var recordsShowCmd = &cobra.Command{
	Use:   "show <run id> <listing id>",
	Short: "Print every field of a listing captured during a run.",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			serviceutil.Fatal("invalid listing id", err)
		}

		s, conn := mustStore(cmd.Context())
		defer conn.Close()

		record, err := s.Get(cmd.Context(), args[0], id)
		if err != nil {
			serviceutil.Fatal("failed to get record", err)
		}
		renderRecord(record)
	},
}

var recordsDeleteCmd = &cobra.Command{
	Use:   "delete <run id>",
	Short: "Delete every listing captured during a run.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		s, conn := mustStore(cmd.Context())
		defer conn.Close()

		removed, err := s.DeleteRun(cmd.Context(), args[0])
		if err != nil {
			serviceutil.Fatal("failed to delete run", err)
		}
		fmt.Printf("deleted %d listings of run %s\n", removed, args[0])
	},
}
