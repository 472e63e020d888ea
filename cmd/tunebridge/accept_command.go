package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tunebridge/internal/acceptance"
	"tunebridge/internal/logging"
	"tunebridge/internal/matching"
)

func newAcceptCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "accept <provider-id> <provider-track-id> <jellyfin-track-id> ...",
		Short: "Accept provider-to-library matches",
		Long: `Accept one or more matches between provider tracks and library items.
Arguments are given in groups of three; each group records one match in the
manual override store and the verified match ledger.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 || len(args)%3 != 0 {
				return fmt.Errorf("arguments must be triples of provider-id, provider-track-id, and jellyfin-track-id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			library, err := ctx.library()
			if err != nil {
				return err
			}
			cache, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer cache.Close()
			overrides, verified, err := ctx.openStores()
			if err != nil {
				return err
			}

			level, err := matching.ParseLevel(cfg.Matching.Level)
			if err != nil {
				return err
			}
			criteria, err := matching.ParseCriteriaList(cfg.Matching.Criteria)
			if err != nil {
				return err
			}

			requests := make([]acceptance.Request, 0, len(args)/3)
			for i := 0; i < len(args); i += 3 {
				requests = append(requests, acceptance.Request{
					ProviderID:      args[i],
					ProviderTrackID: args[i+1],
					JellyfinTrackID: args[i+2],
				})
			}

			workflow := acceptance.New(overrides, verified, cache, library, level, criteria, logging.NewNop())
			results, batchErr := workflow.AcceptBatch(cmd.Context(), requests)

			if jsonOutput {
				if err := writeJSON(cmd, struct {
					Results   []acceptance.Result `json:"results"`
					Persisted bool                `json:"persisted"`
				}{results, batchErr == nil}); err != nil {
					return err
				}
				return batchErr
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, result := range results {
				label := fmt.Sprintf("%s/%s -> %s", result.ProviderID, result.ProviderTrackID, result.JellyfinTrackID)
				if result.Accepted {
					fmt.Fprintln(out, renderStatusLine(label, statusOK, "accepted", colorize))
				} else {
					fmt.Fprintln(out, renderStatusLine(label, statusError, result.Reason, colorize))
				}
			}
			return batchErr
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of status lines")
	return cmd
}
