package report

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/scytale/pr-compliance/cmd"
	"github.com/scytale/pr-compliance/internal/artifact"
	"github.com/scytale/pr-compliance/internal/commands"
	"github.com/scytale/pr-compliance/internal/report"
)

// ReportCommand encapsulates the report command with common functionality
type ReportCommand struct {
	commands.BaseCommand
	Input  string
	Output string
	Format string
}

// NewReportCmd creates and returns the report command
func NewReportCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	reportCmd := &ReportCommand{}

	command := &cobra.Command{
		Use:   "report",
		Short: "Render a compliance report from transformed records",
		Long: `Read a compliance parquet file and render the run's results, including
per-repository statistics and the list of non-compliant pull requests, as an
HTML page or a JSON document.`,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			reportCmd.ConfigFile = globalConfigFile
			reportCmd.LoadConfig = loadConfig
			if err := reportCmd.Init(); err != nil {
				return err
			}

			return reportCmd.Run()
		},
	}

	command.Flags().StringVarP(&reportCmd.Input, "input", "i", "", "Compliance parquet to report on, defaults to the most recent")
	command.Flags().StringVarP(&reportCmd.Output, "output", "o", "", "Report file to write, defaults to compliance_report.<format>")
	// -f is taken by the global --log-format flag
	command.Flags().StringVar(&reportCmd.Format, "format", "html", "Report format (html, json)")

	return command
}

// Run executes the report command
func (rc *ReportCommand) Run() error {
	if rc.Format != "html" && rc.Format != "json" {
		return fmt.Errorf("unsupported report format %q, use html or json", rc.Format)
	}

	input := rc.Input
	if input == "" {
		latest, err := artifact.LatestCompliance(rc.Config.ProcessedDir)
		if err != nil {
			return err
		}
		input = latest
	}

	records, err := artifact.ReadCompliance(input)
	if err != nil {
		return err
	}

	output := rc.Output
	if output == "" {
		output = "compliance_report." + rc.Format
	}

	built := report.Build(records)
	if rc.Format == "json" {
		err = report.WriteJSON(output, built)
	} else {
		err = report.WriteHTML(output, built)
	}
	if err != nil {
		return err
	}

	slog.Info("Report written", "path", output, "format", rc.Format)
	return nil
}
