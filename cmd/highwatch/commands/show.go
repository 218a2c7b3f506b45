package commands

import (
	"os"

	"highwatch/cmd/highwatch/utils"
	"highwatch/internal/components/serviceutil"
	"highwatch/internal/table"

	"github.com/spf13/cobra"
)

var showLimit *int

func init() {
	showLimit = showCmd.Flags().IntP("limit", "n", 20, "The maximum amount of rows to print, 0 prints all of them.")
	rootCmd.AddCommand(showCmd)
}

var showCmd = &cobra.Command{
	Use:   "show <path/to/table.csv> [--limit N]",
	Short: "Pretty-prints a daily or weekly table.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		tbl, err := table.ReadFile(args[0])
		if err != nil {
			serviceutil.Fatal(exitOther, "failed to read table", err)
		}
		utils.RenderTable(os.Stdout, tbl, *showLimit)
	},
}
