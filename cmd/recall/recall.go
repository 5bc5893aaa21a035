// Package recallcmder
package recallcmder

import (
	"github.com/spf13/cobra"

	configcmder "github.com/recallhq/recall/cmd/recall/config"
	servecmder "github.com/recallhq/recall/cmd/recall/serve"
	versioncmder "github.com/recallhq/recall/cmd/version"
)

const recallLongDesc string = `Recall is the memory core for voice-call assistants.

It assembles what the assistant remembers about a user before each call and
mines finished transcripts for promises, goals, blockers, and progress.

Run services using:
  recall serve         Run the call lifecycle API and post-call workers

Manage configuration using:
  recall config        Get, set, and list configuration values`

const recallShortDesc string = "Recall - call memory for voice assistants"

func NewRecallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recall",
		Short: recallShortDesc,
		Long:  recallLongDesc,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug logging")
	cmd.PersistentFlags().String("config-dir", "", "Directory holding config.toml (default: ./.recall or ~/.recall)")

	// Add subcommands
	cmd.AddCommand(servecmder.NewServeCmd())
	cmd.AddCommand(configcmder.NewConfigCmd())
	cmd.AddCommand(versioncmder.NewVersionCmd())

	return cmd
}
