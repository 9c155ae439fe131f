package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "spreedly-bot",
		Short: "Chat bot for inspecting a Spreedly account",
		Long: `A chat bot that runs Spreedly commands and renders the responses as
Slack attachments, Discord embeds or terminal output.

Quick Start:
  spreedly-bot serve                        # Serve POST /commands
  spreedly-bot exec show gateway <token>    # Run one command locally
  spreedly-bot commands                     # List supported commands`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	root.AddCommand(newServeCmd(), newExecCmd(), newCommandsCmd())
	return root
}
