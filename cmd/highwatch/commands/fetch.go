package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"highwatch/cmd/highwatch/globals"
	"highwatch/internal/components/serviceutil"
	"highwatch/internal/components/telemetry"
	"highwatch/internal/config"
	"highwatch/internal/fetcher"

	"github.com/spf13/cobra"
)

var (
	fetchEndpoint    *string
	fetchOutDir      *string
	fetchMaxAttempts *int
	fetchDumpHttp    *string
	fetchBrowser     *bool
)

func init() {
	fetchEndpoint = fetchCmd.Flags().String("endpoint", "", "The data endpoint, overrides fetch.endpoint.")
	fetchOutDir = fetchCmd.Flags().String("out", "", "The directory daily tables are written to, overrides fetch.output_dir.")
	fetchMaxAttempts = fetchCmd.Flags().Int("max-attempts", 0, "How many times the data request is tried, overrides fetch.max_attempts.")
	fetchDumpHttp = fetchCmd.Flags().String("dump-http", "", "Write every http request and response of the run into this directory.")
	fetchBrowser = fetchCmd.Flags().Bool("browser", false, "Warm up the session in headless chrome before the plain http warm-up.")
	rootCmd.AddCommand(fetchCmd)
}

func applyFetchFlags(cfg config.Fetch) (config.Fetch, error) {
	return cfg.Override(config.Fetch{
		Endpoint:    *fetchEndpoint,
		OutputDir:   *fetchOutDir,
		MaxAttempts: *fetchMaxAttempts,
		BrowserWarmup: config.BrowserWarmup{
			Enabled: *fetchBrowser,
		},
	})
}

var fetchCmd = &cobra.Command{
	Use:   "fetch [--endpoint <url>] [--out <dir>] [--dump-http <dir>]",
	Short: "Fetches today's listing and writes it to <out>/<prefix>_<YYYY-MM-DD>.csv.",
	Run: func(cmd *cobra.Command, args []string) {
		g := globals.Get(cmd.Context())
		cfg, err := applyFetchFlags(g.Config.Fetch)
		if err != nil {
			serviceutil.Fatal(exitConfig, "failed to apply flags", err)
		}

		var opts []fetcher.Option
		if *fetchDumpHttp != "" {
			out, err := telemetry.NewFilesystemOutput(*fetchDumpHttp)
			if err != nil {
				serviceutil.Fatal(exitOther, "failed to prepare http dump directory", err)
			}
			opts = append(opts, fetcher.WithMessageOutput(out))
		}

		f := fetcher.New(cfg, g.Time, g.Tel, opts...)

		t1 := time.Now()
		result, err := f.Run(cmd.Context())
		t2 := time.Now()

		if err != nil {
			reportFetchFailure(err)
			shutdownOtel(cmd.Context())
			os.Exit(fetchExitCode(err))
		}

		fmt.Fprintf(os.Stdout, "Saved: %s (%d rows, %d columns, %.1fs)\n", result.Path, result.Rows, len(result.Columns), t2.Sub(t1).Seconds())
	},
}

func reportFetchFailure(err error) {
	fmt.Fprintln(os.Stderr, "ERROR:", err)

	var exhausted *fetcher.ExhaustedError
	if errors.As(err, &exhausted) {
		fmt.Fprintln(os.Stderr, exhausted.Diagnostics())
		return
	}

	var payloadErr *fetcher.PayloadError
	if errors.As(err, &payloadErr) {
		fmt.Fprintln(os.Stderr, "response snippet:")
		fmt.Fprintln(os.Stderr, payloadErr.Snippet)
	}
}
