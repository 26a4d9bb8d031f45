// Package commands provides the shared setup every pipeline subcommand runs
// through before doing its work.
package commands

import (
	"context"

	"github.com/scytale/pr-compliance/cmd"
	appconfig "github.com/scytale/pr-compliance/internal/config"
	"github.com/scytale/pr-compliance/internal/github"
)

// BaseCommand provides common fields and initialization for all commands
type BaseCommand struct {
	ConfigFile *string
	LoadConfig func(string) (*cmd.Config, error)
	Config     *cmd.Config
}

// Init loads the run configuration
func (bc *BaseCommand) Init() error {
	config, err := bc.LoadConfig(*bc.ConfigFile)
	if err != nil {
		return err
	}
	bc.Config = config
	return nil
}

// GitHubClient builds the API client from the loaded configuration and the
// GITHUB_TOKEN environment variable. An empty token is allowed for public
// data, at the cost of a much smaller rate limit quota.
func (bc *BaseCommand) GitHubClient(ctx context.Context) *github.Client {
	return github.NewFromConfig(ctx, appconfig.Token(), bc.Config)
}
