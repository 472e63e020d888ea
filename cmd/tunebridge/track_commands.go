package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tunebridge/internal/matchstore"
	"tunebridge/internal/provider"
)

func newTrackCommand(ctx *commandContext) *cobra.Command {
	trackCmd := &cobra.Command{
		Use:   "track",
		Short: "Inspect and import cached provider tracks",
	}

	trackCmd.AddCommand(newTrackShowCommand(ctx))
	trackCmd.AddCommand(newTrackAddCommand(ctx))

	return trackCmd
}

func newTrackShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <provider-id> <provider-track-id>",
		Short: "Show a cached provider track and its recorded state",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer cache.Close()

			track, err := cache.GetTrackByKey(cmd.Context(), args[0], args[1])
			if errors.Is(err, provider.ErrNotFound) {
				return fmt.Errorf("provider track %s/%s is not in the local cache", args[0], args[1])
			}
			if err != nil {
				return err
			}

			payload := struct {
				Track    provider.Track            `json:"track"`
				Match    *provider.Match           `json:"match,omitempty"`
				Verified *matchstore.VerifiedMatch `json:"verified,omitempty"`
			}{Track: *track}

			if match, err := cache.GetMatch(cmd.Context(), track.ID); err == nil {
				payload.Match = match
			} else if !errors.Is(err, provider.ErrNotFound) {
				return err
			}

			if _, verified, err := ctx.openStores(); err == nil {
				if entry, ok := verified.GetByKey(args[0], args[1]); ok {
					payload.Verified = &entry
				}
			} else {
				return err
			}

			return writeJSON(cmd, payload)
		},
	}
}

func newTrackAddCommand(ctx *commandContext) *cobra.Command {
	var name string
	var albumName string
	var artists []string
	var albumArtists []string

	cmd := &cobra.Command{
		Use:   "add <provider-id> <provider-track-id>",
		Short: "Import or update a provider track in the local cache",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return errors.New("--name is required")
			}
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer cache.Close()

			id, err := cache.SaveTrack(cmd.Context(), provider.Track{
				ProviderID:      args[0],
				ProviderTrackID: args[1],
				Name:            name,
				AlbumName:       albumName,
				Artists:         artists,
				AlbumArtists:    albumArtists,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %s/%s as track #%d\n", args[0], args[1], id)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Track name")
	cmd.Flags().StringVar(&albumName, "album", "", "Album name")
	cmd.Flags().StringArrayVar(&artists, "artist", nil, "Artist (repeatable, order matters)")
	cmd.Flags().StringArrayVar(&albumArtists, "album-artist", nil, "Album artist (repeatable, order matters)")
	return cmd
}
