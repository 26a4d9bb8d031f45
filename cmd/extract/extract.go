package extract

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/scytale/pr-compliance/cmd"
	"github.com/scytale/pr-compliance/internal/commands"
	"github.com/scytale/pr-compliance/internal/extract"
)

// ExtractCommand encapsulates the extract command with common functionality
type ExtractCommand struct {
	commands.BaseCommand
}

// NewExtractCmd creates and returns the extract command
func NewExtractCmd(globalConfigFile *string, loadConfig func(string) (*cmd.Config, error)) *cobra.Command {
	extractCmd := &ExtractCommand{}

	command := &cobra.Command{
		Use:   "extract",
		Short: "Fetch merged PRs from GitHub and write the raw snapshot",
		Long: `Fetch every merged pull request of every repository owned by the
configured account, including reviews, status checks, and commits, and write
the batch as a timestamped raw JSON snapshot.

Set GITHUB_TOKEN for authenticated access; without it extraction runs against
the much smaller unauthenticated rate limit.`,
		SilenceUsage: true,
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			extractCmd.ConfigFile = globalConfigFile
			extractCmd.LoadConfig = loadConfig
			if err := extractCmd.Init(); err != nil {
				return err
			}

			return extractCmd.Run(cobraCmd)
		},
	}

	return command
}

// Run executes the extract command
func (ec *ExtractCommand) Run(cobraCmd *cobra.Command) error {
	ctx := cobraCmd.Context()
	client := ec.GitHubClient(ctx)

	path, err := extract.New(client, ec.Config).ExtractAll(ctx)
	if err != nil {
		return err
	}

	slog.Info("Raw snapshot written", "path", path)
	return nil
}
