package transform

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/scytale/pr-compliance/cmd"
	"github.com/scytale/pr-compliance/internal/artifact"
	"github.com/scytale/pr-compliance/internal/commands"
	"github.com/scytale/pr-compliance/internal/transform"
)

// TransformCommand encapsulates the transform command with common functionality
type TransformCommand struct {
	commands.BaseCommand
	Input string
}

// NewTransformCmd creates and returns the transform command
func NewTransformCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	transformCmd := &TransformCommand{}

	command := &cobra.Command{
		Use:   "transform",
		Short: "Apply the compliance rules to a raw snapshot",
		Long: `Read a raw PR snapshot, evaluate the code review and status check rules
for every pull request, and write the resulting compliance records as a
timestamped parquet file.`,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			transformCmd.ConfigFile = globalConfigFile
			transformCmd.LoadConfig = loadConfig
			if err := transformCmd.Init(); err != nil {
				return err
			}

			return transformCmd.Run()
		},
	}

	command.Flags().StringVarP(&transformCmd.Input, "input", "i", "", "Raw snapshot to transform, defaults to the most recent")

	return command
}

// Run executes the transform command
func (tc *TransformCommand) Run() error {
	input := tc.Input
	if input == "" {
		latest, err := artifact.LatestRaw(tc.Config.RawDir)
		if err != nil {
			return err
		}
		input = latest
	}

	raw, err := artifact.ReadRaw(input)
	if err != nil {
		return err
	}

	records := transform.Transform(raw)
	transform.Summarize(records).Log()

	path, err := artifact.WriteCompliance(tc.Config.ProcessedDir, records)
	if err != nil {
		return err
	}

	slog.Info("Compliance records written", "path", path)
	return nil
}
