package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCardsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cards",
		Short: "List all registered cards",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cards, err := ctx.client().Cards(cmd.Context())
			if err != nil {
				return fmt.Errorf("list cards: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(cards) == 0 {
				fmt.Fprintln(out, "No cards registered.")
				return nil
			}

			rows := make([][]string, 0, len(cards))
			for _, card := range cards {
				rows = append(rows, []string{card.ID, card.Name, card.URL})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"CARD", "NAME", "URL"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d card(s)\n", len(cards))
			return nil
		},
	}
}
