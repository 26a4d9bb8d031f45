// Package config provides functions for loading and saving pr-compliance
// configuration files and environment overrides.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/scytale/pr-compliance/cmd"
)

// LoadConfig loads the configuration from the specified file. A missing file
// is not an error; the defaults apply. Environment overrides are applied last.
func LoadConfig(filename string) (*cmd.Config, error) {
	config := cmd.DefaultConfig()

	data, err := os.ReadFile(filename) //nolint:gosec // Config filename is from command-line flag
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyEnv(config)
	return config, nil
}

// SaveConfig saves the configuration to the specified file
func SaveConfig(filename string, config *cmd.Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Token returns the GitHub API token from the environment. An empty token is
// allowed; extraction then runs against the unauthenticated rate limit.
func Token() string {
	token := os.Getenv("GITHUB_TOKEN")
	if token != "" && !strings.HasPrefix(token, "ghp_") && !strings.HasPrefix(token, "github_pat_") {
		// Classic and fine-grained tokens both have recognizable prefixes;
		// anything else still gets sent as-is
		slog.Debug("GITHUB_TOKEN does not look like a GitHub token")
	}
	return token
}

// applyEnv overlays environment variables onto the configuration. Environment
// values win over both defaults and the YAML file.
func applyEnv(config *cmd.Config) {
	if owner := os.Getenv("GITHUB_OWNER"); owner != "" {
		config.Owner = owner
	}
	if v := os.Getenv("SNOWFLAKE_ENABLED"); v != "" {
		if enabled, err := strconv.ParseBool(v); err == nil {
			config.Snowflake.Enabled = enabled
		}
	}
	if v := os.Getenv("SNOWFLAKE_ACCOUNT"); v != "" {
		config.Snowflake.Account = v
	}
	if v := os.Getenv("SNOWFLAKE_USER"); v != "" {
		config.Snowflake.User = v
	}
	if v := os.Getenv("SNOWFLAKE_PASSWORD"); v != "" {
		config.Snowflake.Password = v
	}
	if v := os.Getenv("SNOWFLAKE_WAREHOUSE"); v != "" {
		config.Snowflake.Warehouse = v
	}
	if v := os.Getenv("SNOWFLAKE_DATABASE"); v != "" {
		config.Snowflake.Database = v
	}
	if v := os.Getenv("SNOWFLAKE_SCHEMA"); v != "" {
		config.Snowflake.Schema = v
	}
	if v := os.Getenv("SNOWFLAKE_ROLE"); v != "" {
		config.Snowflake.Role = v
	}
	if v := os.Getenv("SNOWFLAKE_TABLE"); v != "" {
		config.Snowflake.Table = v
	}
}
