package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newNewCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "new [card-id]",
		Short: "Register a new card",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			message, err := ctx.client().NewCard(cmd.Context(), id)
			if err != nil {
				return fmt.Errorf("register card: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), message)
			return nil
		},
	}
}
