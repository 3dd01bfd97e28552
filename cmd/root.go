package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/readycatholic/readycatholic/internal/update"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagConfig    string
	flagOutput    string
	flagPerSource int
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "readycatholic",
	Short: "Catholic news digest generator",
	Long: "readycatholic collects headlines from Catholic RSS feeds, sorts them into\n" +
		"newspaper sections, and writes a single-page HTML digest.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
	RunE: runGenerate,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "log format (text or json)")
	rootCmd.PersistentFlags().StringVar(&flagOutput, "output", "", "path of the HTML file to write")
	rootCmd.PersistentFlags().IntVar(&flagPerSource, "per-source", -1, "max entries taken per source (overrides config)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(sourcesCmd)
}

func setupLogging() {
	var handler slog.Handler
	if flagLogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, nil)
	} else {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}
	slog.SetDefault(slog.New(handler))
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("readycatholic %s (commit: %s, built: %s)\n", version, commit, date)
		if latest := update.NewChecker().Available(cmd.Context(), version); latest != "" {
			fmt.Printf("Update available: v%s\n", latest)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}
