// Package configcmder provides the config command for managing persistent
// parley configuration stored in the .parley/ directory.
package configcmder

import (
	"github.com/spf13/cobra"
)

const configLongDesc string = `Manage persistent parley configuration.

Configuration is stored as config.toml in the .parley/ directory and provides
default values for command flags. CLI flags always take precedence over
config file values.

Keys use dotted notation matching the TOML section structure:
  storage.provider, storage.sqlite_path,
  bot.name, bot.default_response, bot.similarity_threshold, bot.read_only,
  corpus.path, corpus.names,
  logs.dir

Use subcommands to get, set, or list configuration values:
  parley config set <key> <value>    Set a configuration value
  parley config get <key>            Get a configuration value
  parley config list                 List all configuration values

Examples:
  parley config set bot.name Watson
  parley config set bot.similarity_threshold 0.75
  parley config get storage.sqlite_path
  parley config list`

const configShortDesc string = "Manage persistent parley configuration"

func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: configShortDesc,
		Long:  configLongDesc,
	}

	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
