package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ctx.client().Status(cmd.Context())
			if err != nil {
				return fmt.Errorf("daemon status: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Running:     %s\n", yesNo(status.Running))
			fmt.Fprintf(out, "PID:         %d\n", status.PID)
			fmt.Fprintf(out, "Cards:       %d\n", status.Cards)
			fmt.Fprintf(out, "Subscribers: %d\n", status.Subscribers)
			fmt.Fprintf(out, "Row file:    %s\n", status.RowFile)
			fmt.Fprintf(out, "Lookup file: %s\n", status.LookupFile)
			fmt.Fprintf(out, "Lock file:   %s\n", status.LockFile)
			return nil
		},
	}
}
