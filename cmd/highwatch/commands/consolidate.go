package commands

import (
	"errors"
	"fmt"
	"os"

	"highwatch/cmd/highwatch/globals"
	"highwatch/internal/components/serviceutil"
	"highwatch/internal/consolidate"

	"github.com/spf13/cobra"
)

var (
	consolidateDailyDir  *string
	consolidateWeeklyDir *string
	consolidateDays      *int
)

func init() {
	consolidateDailyDir = consolidateCmd.Flags().String("daily-dir", "", "The directory holding the daily tables, overrides consolidate.daily_dir.")
	consolidateWeeklyDir = consolidateCmd.Flags().String("weekly-dir", "", "The directory the weekly table is written to, overrides consolidate.weekly_dir.")
	consolidateDays = consolidateCmd.Flags().Int("days", -1, "Only merge tables dated within the last N days, 0 merges every table.")
	rootCmd.AddCommand(consolidateCmd)
}

var consolidateCmd = &cobra.Command{
	Use:   "consolidate [--daily-dir <dir>] [--weekly-dir <dir>] [--days N]",
	Short: "Concatenates the daily tables into weekly_consolidated_<YYYY-MM-DD>.csv.",
	Run: func(cmd *cobra.Command, args []string) {
		g := globals.Get(cmd.Context())

		cfg := g.Config.Consolidate
		if *consolidateDailyDir != "" {
			cfg.DailyDir = *consolidateDailyDir
		}
		if *consolidateWeeklyDir != "" {
			cfg.WeeklyDir = *consolidateWeeklyDir
		}
		if *consolidateDays >= 0 {
			cfg.Days = *consolidateDays
		}

		result, err := consolidate.New(cfg, g.Time, g.Tel).Consolidate(cmd.Context())
		if errors.Is(err, consolidate.ErrNothingToDo) {
			fmt.Fprintf(os.Stdout, "Nothing to do: no readable daily tables in %s\n", cfg.DailyDir)
			return
		}
		if err != nil {
			serviceutil.Fatal(exitOther, "failed to consolidate", err)
		}

		for _, skipped := range result.Skipped {
			fmt.Fprintf(os.Stderr, "Skipped unreadable file: %s\n", skipped)
		}
		fmt.Fprintf(os.Stdout, "Saved weekly consolidated file: %s (%d rows from %d files)\n", result.Path, result.Rows, len(result.Files))
	},
}
