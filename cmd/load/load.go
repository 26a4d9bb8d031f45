package load

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/scytale/pr-compliance/cmd"
	"github.com/scytale/pr-compliance/internal/artifact"
	"github.com/scytale/pr-compliance/internal/commands"
	"github.com/scytale/pr-compliance/internal/warehouse"
)

// LoadCommand encapsulates the load command with common functionality
type LoadCommand struct {
	commands.BaseCommand
	Input string
}

// NewLoadCmd creates and returns the load command
func NewLoadCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	loadCmd := &LoadCommand{}

	command := &cobra.Command{
		Use:   "load",
		Short: "Publish compliance records as the final dataset",
		Long: `Read a compliance parquet file, annotate every record with load
provenance, write the final curated parquet, and, when the Snowflake sink is
enabled, load the records into the warehouse table.`,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			loadCmd.ConfigFile = globalConfigFile
			loadCmd.LoadConfig = loadConfig
			if err := loadCmd.Init(); err != nil {
				return err
			}

			return loadCmd.Run(cobraCmd)
		},
	}

	command.Flags().StringVarP(&loadCmd.Input, "input", "i", "", "Compliance parquet to load, defaults to the most recent")

	return command
}

// Run executes the load command
func (lc *LoadCommand) Run(cobraCmd *cobra.Command) error {
	input := lc.Input
	if input == "" {
		latest, err := artifact.LatestCompliance(lc.Config.ProcessedDir)
		if err != nil {
			return err
		}
		input = latest
	}

	records, err := artifact.ReadCompliance(input)
	if err != nil {
		return err
	}

	path, err := artifact.WriteFinal(lc.Config.ProcessedDir, records, input)
	if err != nil {
		return err
	}
	slog.Info("Final dataset written", "path", path)

	loaded, err := artifact.ReadFinal(path)
	if err != nil {
		return err
	}
	return warehouse.NewLoader(lc.Config.Snowflake).Load(cobraCmd.Context(), loaded)
}
