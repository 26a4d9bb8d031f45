// package main is the entry point for the pr-compliance pipeline
package main

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	extractcmd "github.com/scytale/pr-compliance/cmd/extract"
	loadcmd "github.com/scytale/pr-compliance/cmd/load"
	reportcmd "github.com/scytale/pr-compliance/cmd/report"
	runcmd "github.com/scytale/pr-compliance/cmd/run"
	transformcmd "github.com/scytale/pr-compliance/cmd/transform"
	"github.com/scytale/pr-compliance/internal/config"
)

func main() {
	var configFile string
	var logLevel string
	var logFormat string

	rootCmd := &cobra.Command{
		Use:   "pr-compliance",
		Short: "An ETL pipeline for auditing pull request compliance on GitHub",
		Long: `pr-compliance extracts merged pull requests from every repository of a
GitHub account, evaluates each one against code review and status check rules,
and publishes the results as parquet datasets, reports, and an optional
Snowflake table.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			setupLogger(logLevel, logFormat)
			// A missing .env file is fine; the environment may already be set
			if err := godotenv.Load(); err == nil {
				slog.Debug("Loaded environment from .env")
			}
		},
	}

	// Add global flags
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "pr-compliance.yaml", "Configuration file path")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "l", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&logFormat, "log-format", "f", "text", "Log format (text, json)")

	// Create commands with access to the global config file
	rootCmd.AddCommand(extractcmd.NewExtractCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(transformcmd.NewTransformCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(loadcmd.NewLoadCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(reportcmd.NewReportCmd(&configFile, config.LoadConfig))
	rootCmd.AddCommand(runcmd.NewRunCmd(&configFile, config.LoadConfig))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupLogger(level, format string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	} else {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	}

	slog.SetDefault(slog.New(handler))
}
