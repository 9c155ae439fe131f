package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"spreedly-bot/internal/adapter/terminal"
	"spreedly-bot/internal/di"
	"spreedly-bot/internal/domain/model"
	"spreedly-bot/internal/usecase"
)

func newExecCmd() *cobra.Command {
	var actor string

	cmd := &cobra.Command{
		Use:   "exec <command> [type] [token]",
		Short: "Run one command and print the formatted response",
		Example: `  spreedly-bot exec show gateway 7NTzsK8sQrDZgpU8w1Hq9LPLRtK
  spreedly-bot exec list gateways
  spreedly-bot exec tokenize test-card visa`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			handler, cleanup, err := di.InitializeCommandHandler()
			if err != nil {
				return fmt.Errorf("failed to initialize command handler: %w", err)
			}
			defer cleanup()

			payload := handler.Handle(cmd.Context(), usecase.CommandRequest{
				Text:      strings.Join(args, " "),
				Actor:     actor,
				RequestID: uuid.New().String(),
			})
			fmt.Fprintln(cmd.OutOrStdout(), terminal.Render(payload))

			if payload.Accent == model.AccentDanger {
				return fmt.Errorf("command %q failed", strings.Join(args, " "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&actor, "actor", defaultActor(), "Name recorded in the audit log")
	return cmd
}

func defaultActor() string {
	if user := os.Getenv("USER"); user != "" {
		return user
	}
	return "cli"
}
