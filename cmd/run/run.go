package run

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/scytale/pr-compliance/cmd"
	"github.com/scytale/pr-compliance/internal/artifact"
	"github.com/scytale/pr-compliance/internal/commands"
	"github.com/scytale/pr-compliance/internal/extract"
	"github.com/scytale/pr-compliance/internal/pipeline"
	"github.com/scytale/pr-compliance/internal/transform"
	"github.com/scytale/pr-compliance/internal/warehouse"
)

// RunCommand encapsulates the run command with common functionality
type RunCommand struct {
	commands.BaseCommand
}

// NewRunCmd creates and returns the run command
func NewRunCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	runCmd := &RunCommand{}

	command := &cobra.Command{
		Use:   "run",
		Short: "Run the full extract, transform, and load pipeline",
		Long: `Run the three pipeline stages in order, threading each stage's artifact
into the next. Every stage has its own timeout and is retried on failure per
the stage configuration.`,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			runCmd.ConfigFile = globalConfigFile
			runCmd.LoadConfig = loadConfig
			if err := runCmd.Init(); err != nil {
				return err
			}

			return runCmd.Run(cobraCmd)
		},
	}

	return command
}

// Run executes the run command
func (rc *RunCommand) Run(cobraCmd *cobra.Command) error {
	ctx := cobraCmd.Context()
	stages := rc.Config.Stages

	err := pipeline.Execute(ctx, []pipeline.Stage{
		{
			Name:       "extract",
			Timeout:    time.Duration(stages.ExtractTimeoutMinutes) * time.Minute,
			Retries:    stages.Retries,
			RetryDelay: time.Duration(stages.RetryDelayMinutes) * time.Minute,
			Run:        rc.extractStage,
		},
		{
			Name:       "transform",
			Timeout:    time.Duration(stages.TransformTimeoutMinutes) * time.Minute,
			Retries:    stages.Retries,
			RetryDelay: time.Duration(stages.RetryDelayMinutes) * time.Minute,
			Run:        rc.transformStage,
		},
		{
			Name:       "load",
			Timeout:    time.Duration(stages.LoadTimeoutMinutes) * time.Minute,
			Retries:    stages.Retries,
			RetryDelay: time.Duration(stages.RetryDelayMinutes) * time.Minute,
			Run:        rc.loadStage,
		},
	})
	if err != nil {
		return err
	}

	slog.Info("Pipeline complete")
	return nil
}

func (rc *RunCommand) extractStage(ctx context.Context, _ string) (string, error) {
	client := rc.GitHubClient(ctx)
	return extract.New(client, rc.Config).ExtractAll(ctx)
}

func (rc *RunCommand) transformStage(_ context.Context, input string) (string, error) {
	raw, err := artifact.ReadRaw(input)
	if err != nil {
		return "", err
	}

	records := transform.Transform(raw)
	transform.Summarize(records).Log()

	return artifact.WriteCompliance(rc.Config.ProcessedDir, records)
}

func (rc *RunCommand) loadStage(ctx context.Context, input string) (string, error) {
	records, err := artifact.ReadCompliance(input)
	if err != nil {
		return "", err
	}

	path, err := artifact.WriteFinal(rc.Config.ProcessedDir, records, input)
	if err != nil {
		return "", err
	}

	loaded, err := artifact.ReadFinal(path)
	if err != nil {
		return "", err
	}
	if err := warehouse.NewLoader(rc.Config.Snowflake).Load(ctx, loaded); err != nil {
		return "", err
	}

	return path, nil
}
