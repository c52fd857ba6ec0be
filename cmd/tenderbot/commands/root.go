package commands

import (
	"context"
	"fmt"
	"os"
	"tenderbot/lib/telemetry"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool
)

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "", "The config file to read, by default config.json5 is searched for upwards from the working directory.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug messages.")
}

var rootCmd = &cobra.Command{
	Use:   "tenderbot",
	Short: "tenderbot scrapes procurement notices from zakupki.gov.ru into a database.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		telemetry.InitSlog(*verbose)
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
