// Package parleycmder
package parleycmder

import (
	"github.com/spf13/cobra"

	chatcmder "github.com/parleyhq/parley/cmd/parley/chat"
	configcmder "github.com/parleyhq/parley/cmd/parley/config"
	historycmder "github.com/parleyhq/parley/cmd/parley/history"
	initcmder "github.com/parleyhq/parley/cmd/parley/init"
	statuscmder "github.com/parleyhq/parley/cmd/parley/status"
	traincmder "github.com/parleyhq/parley/cmd/parley/train"
	versioncmder "github.com/parleyhq/parley/cmd/version"
)

const parleyLongDesc string = `Parley is a terminal chatbot that learns as you talk to it.

Chat in your terminal using:
  parley chat          Start an interactive session
  parley train         Train the bot from corpus files
  parley status        Show the statement store and effective settings
  parley history       Browse what the bot has learned

Settings resolve flag > PARLEY_* environment > config.toml > defaults.`

const parleyShortDesc string = "Parley - Terminal Chatbot"

func NewParleyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parley",
		Short: parleyShortDesc,
		Long:  parleyLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Path to a .parley/ directory overriding discovery")

	// Add subcommands
	cmd.AddCommand(chatcmder.NewChatCmd())
	cmd.AddCommand(traincmder.NewTrainCmd())
	cmd.AddCommand(statuscmder.NewStatusCmd())
	cmd.AddCommand(historycmder.NewHistoryCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(initcmder.NewInitCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
