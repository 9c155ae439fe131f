package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spreedly-bot/internal/adapter/terminal"
	"spreedly-bot/internal/usecase"
)

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the commands the bot understands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := usecase.LoadCommandCatalog()
			if err != nil {
				return err
			}
			formatter := usecase.NewResponseFormatter(usecase.DefaultFormatterConfig(), catalog)
			fmt.Fprintln(cmd.OutOrStdout(), terminal.Render(formatter.Help()))
			return nil
		},
	}
}
