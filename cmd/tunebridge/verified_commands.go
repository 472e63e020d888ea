package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tunebridge/internal/matchstore"
)

func newVerifiedCommand(ctx *commandContext) *cobra.Command {
	verifiedCmd := &cobra.Command{
		Use:   "verified",
		Short: "Inspect and maintain the verified match ledger",
	}

	verifiedCmd.AddCommand(newVerifiedListCommand(ctx))
	verifiedCmd.AddCommand(newVerifiedRemoveCommand(ctx))
	verifiedCmd.AddCommand(newVerifiedClearCommand(ctx))

	return verifiedCmd
}

func newVerifiedListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var itemID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List verified matches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, verified, err := ctx.openStores()
			if err != nil {
				return err
			}

			matches := verified.All()
			if itemID != "" {
				matches = verified.GetByItem(itemID)
			}

			if jsonOutput {
				if matches == nil {
					matches = []matchstore.VerifiedMatch{}
				}
				return writeJSON(cmd, matches)
			}

			out := cmd.OutOrStdout()
			if len(matches) == 0 {
				fmt.Fprintln(out, "No verified matches")
				return nil
			}
			fmt.Fprintln(out, renderVerifiedTable(matches))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	cmd.Flags().StringVar(&itemID, "item", "", "Only show matches for the given Jellyfin track id")
	return cmd
}

func newVerifiedRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <provider-id> <provider-track-id>",
		Short: "Remove one verified match",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, verified, err := ctx.openStores()
			if err != nil {
				return err
			}
			if !verified.RemoveByKey(args[0], args[1]) {
				return fmt.Errorf("no verified match for %s/%s", args[0], args[1])
			}
			if err := verified.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed verified match for %s/%s\n", args[0], args[1])
			return nil
		},
	}
}

func newVerifiedClearCommand(ctx *commandContext) *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every verified match",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to clear the ledger without --yes")
			}
			_, verified, err := ctx.openStores()
			if err != nil {
				return err
			}
			count := verified.Count()
			verified.Clear()
			if err := verified.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d verified matches\n", count)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&confirmed, "yes", "y", false, "Confirm clearing the ledger")
	return cmd
}

func renderVerifiedTable(matches []matchstore.VerifiedMatch) string {
	headers := []string{"Provider", "Provider Track", "Jellyfin Track", "Level", "Criteria", "Manual", "Verified At"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft}

	rows := make([][]string, 0, len(matches))
	for _, match := range matches {
		rows = append(rows, []string{
			match.ProviderID,
			match.ProviderTrackID,
			match.JellyfinTrackID,
			string(match.Level),
			match.Criteria.String(),
			yesNo(match.IsManualMatch),
			match.VerifiedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return renderTable(headers, rows, aligns)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
