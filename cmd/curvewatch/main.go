// curvewatch — Daily US Treasury Yield Curve Analysis
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/seenimoa/curvewatch/internal/config"
	"github.com/seenimoa/curvewatch/internal/logger"
	"github.com/seenimoa/curvewatch/internal/pipeline"
	"github.com/seenimoa/curvewatch/internal/providers/fred"
	"github.com/seenimoa/curvewatch/pkg/models"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "curvewatch",
	Short: "Daily US Treasury yield curve analysis",
	Long: `curvewatch fetches US Treasury constant-maturity yields from FRED,
computes rolling statistics and key spreads, prints the daily report,
archives dated CSV snapshots, and renders a four-panel chart document
with an optional static PNG.

A bare run needs nothing but a FRED API key:

  export FRED_API_KEY=...   # free at https://fred.stlouisfed.org
  curvewatch`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is optional; a missing file is fine.
		_ = godotenv.Load()

		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		applyFlagOverrides(cmd)
		if err := cfg.Validate(); err != nil {
			return err
		}

		if err := logger.Default().Configure(
			cfg.Logging.Level, cfg.Logging.Format,
			cfg.Logging.Output, cfg.Logging.MaxAgeDays,
		); err != nil {
			return fmt.Errorf("failed to configure logging: %w", err)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		provider := fred.New(cfg.FRED, logger.Default())
		runner := pipeline.New(cfg, provider, os.Stdout, logger.Default())
		return runner.Run(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: search ./curvewatch.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.Flags().Int("window", 90, "trailing window size in observations")
	rootCmd.Flags().Int("years", 2, "lookback horizon in years")
	rootCmd.Flags().String("output-dir", ".", "artifact output directory")
	rootCmd.Flags().Bool("no-static", false, "skip the static PNG export")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(seriesCmd)
}

// applyFlagOverrides lets explicit flags win over config file values.
func applyFlagOverrides(cmd *cobra.Command) {
	flags := cmd.Flags()
	if flags.Changed("window") {
		cfg.Pipeline.Window, _ = flags.GetInt("window")
	}
	if flags.Changed("years") {
		cfg.Pipeline.LookbackYears, _ = flags.GetInt("years")
	}
	if flags.Changed("output-dir") {
		cfg.Pipeline.OutputDir, _ = flags.GetString("output-dir")
	}
	if flags.Changed("no-static") {
		cfg.Pipeline.NoStatic, _ = flags.GetBool("no-static")
	}
	if lvl, _ := flags.GetString("log-level"); lvl != "" {
		cfg.Logging.Level = lvl
	}
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("curvewatch %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Series Command ---

var seriesCmd = &cobra.Command{
	Use:   "series",
	Short: "Show the configured FRED series and their metadata",
	Long: `Show the maturity → FRED series mapping the daily run fetches.
With an API key configured, each series is enriched with live metadata
(title, units, frequency, last update).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  curvewatch — FRED Series")
		fmt.Println("═══════════════════════════════════════")

		for _, k := range config.CheckAPIKeys(cfg) {
			status := "❌ not set"
			if k.IsSet {
				status = fmt.Sprintf("✅ set (%s: %s)", k.Source, k.Masked)
			}
			fmt.Printf("  %-14s %s\n", k.Name+":", status)
		}
		fmt.Println()

		provider := fred.New(cfg.FRED, logger.Default())
		for _, m := range models.CanonicalMaturities {
			id := models.TreasurySeries[m]
			if !provider.HasAPIKey() {
				fmt.Printf("  %3s  %s\n", m, id)
				continue
			}
			info, err := provider.SeriesInfo(cmd.Context(), id)
			if err != nil {
				fmt.Printf("  %3s  %-7s metadata unavailable: %v\n", m, id, err)
				continue
			}
			fmt.Printf("  %3s  %-7s %s — %s, %s (updated %s)\n",
				m, id, info.Title, info.Units, info.Frequency, info.LastUpdated)
		}
		return nil
	},
}
