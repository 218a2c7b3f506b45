package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"highwatch/cmd/highwatch/globals"
	"highwatch/internal/components/chrono"
	"highwatch/internal/components/serviceutil"
	"highwatch/internal/components/telemetry"
	"highwatch/internal/config"

	"github.com/spf13/cobra"
)

var (
	configPath *string
	verbose    *bool
	otelState  telemetry.Otel
)

func init() {
	configPath = rootCmd.PersistentFlags().String("config", "", "Path to the config file, defaults to the nearest highwatch.json5 up from the working directory.")
	verbose = rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log debug information, including every http request.")
}

var rootCmd = &cobra.Command{
	Use:   "highwatch",
	Short: "highwatch fetches the daily 52-week-high listing and consolidates it weekly.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if *verbose {
			level = slog.LevelDebug
		}
		tel := telemetry.API(telemetry.NewSlogAPI(level))

		cfg, err := config.Load(*configPath)
		if err != nil {
			serviceutil.Fatal(exitConfig, "failed to read config", err)
		}

		clock, err := chrono.NewStandardImpl(cfg.Timezone)
		if err != nil {
			serviceutil.Fatal(exitConfig, "failed to load timezone", err)
		}

		if cfg.Telemetry.Enabled() {
			otelState, err = telemetry.SetupOtel(cmd.Context(), "highwatch", cfg.Telemetry)
			if err != nil {
				slog.Warn("failed to set up otel, continuing without it", "err", err)
			}
			metered, err := telemetry.NewMeteredAPI("highwatch", tel)
			if err == nil {
				tel = metered
			}
		}

		cmd.SetContext(globals.Set(cmd.Context(), &globals.Value{
			Config: cfg,
			Time:   clock,
			Tel:    tel,
		}))
	},
}

func shutdownOtel(ctx context.Context) {
	err := otelState.Shutdown(ctx)
	if err != nil {
		slog.Warn("failed to flush otel", "err", err)
	}
}

func ExecuteContext(ctx context.Context) {
	err := rootCmd.ExecuteContext(ctx)
	shutdownOtel(context.Background())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitOther)
	}
}
