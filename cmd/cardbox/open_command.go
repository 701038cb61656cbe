package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newOpenCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "open <card-id>",
		Short: "Ask connected viewers to focus a card",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.client().OpenCard(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("open card: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Requested focus for card '%s'.\n", args[0])
			return nil
		},
	}
}
