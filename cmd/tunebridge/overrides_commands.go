package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tunebridge/internal/matchstore"
	"tunebridge/internal/textutil"
)

func newOverridesCommand(ctx *commandContext) *cobra.Command {
	overridesCmd := &cobra.Command{
		Use:   "overrides",
		Short: "Inspect and maintain the manual override store",
	}

	overridesCmd.AddCommand(newOverridesListCommand(ctx))
	overridesCmd.AddCommand(newOverridesRemoveCommand(ctx))

	return overridesCmd
}

func newOverridesListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List manual overrides",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, _, err := ctx.openStores()
			if err != nil {
				return err
			}

			entries := overrides.All()
			if jsonOutput {
				return writeJSON(cmd, entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No manual overrides")
				return nil
			}
			fmt.Fprintln(out, renderOverridesTable(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func newOverridesRemoveCommand(ctx *commandContext) *cobra.Command {
	var albumName string
	var artists []string

	cmd := &cobra.Command{
		Use:   "remove <track-name>",
		Short: "Remove the override for a track snapshot",
		Long: `Remove the manual override whose snapshot matches the given track name,
album, and artists. Matching is case-insensitive but order-sensitive for
artist lists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			overrides, _, err := ctx.openStores()
			if err != nil {
				return err
			}

			snapshot := matchstore.TrackSnapshot{
				Name:      args[0],
				AlbumName: albumName,
				Artists:   artists,
			}
			if !overrides.RemoveBySnapshot(snapshot) {
				return fmt.Errorf("no override for %q", args[0])
			}
			if err := overrides.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed override for %q\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&albumName, "album", "", "Album name of the override snapshot")
	cmd.Flags().StringArrayVar(&artists, "artist", nil, "Artist of the override snapshot (repeatable, order matters)")
	return cmd
}

func renderOverridesTable(entries []matchstore.OverrideEntry) string {
	headers := []string{"Name", "Album", "Artists", "Jellyfin Track"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft}

	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			entry.Track.Name,
			entry.Track.AlbumName,
			textutil.JoinNames(entry.Track.Artists),
			entry.JellyfinTrackID,
		})
	}
	return renderTable(headers, rows, aligns)
}
