package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cardbox/internal/spotify"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	var mediaType string

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search the media catalog through the daemon",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !validMediaType(mediaType) {
				return fmt.Errorf("unknown media type %q (one of: %s)", mediaType, strings.Join(spotify.MediaTypes, ", "))
			}
			query := strings.Join(args, " ")
			results, err := ctx.client().Search(cmd.Context(), query, mediaType)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(results) == 0 {
				fmt.Fprintln(out, "No results.")
				return nil
			}

			rows := make([][]string, 0, len(results))
			for i, result := range results {
				rows = append(rows, []string{
					fmt.Sprintf("%d", i+1),
					result.AlbumArtist,
					result.AlbumName,
					result.AlbumURI,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"#", "ARTIST", "TITLE", "URI"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().StringVarP(&mediaType, "type", "t", spotify.TypeAlbum, "Media type to search for")
	return cmd
}

func validMediaType(value string) bool {
	for _, t := range spotify.MediaTypes {
		if t == value {
			return true
		}
	}
	return false
}
