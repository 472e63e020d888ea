package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tunebridge/internal/logging"
	"tunebridge/internal/matching"
	"tunebridge/internal/provider"
	"tunebridge/internal/textutil"
)

func newCandidatesCommand(ctx *commandContext) *cobra.Command {
	var searchQuery string
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "candidates <provider-id> <provider-track-id>",
		Short: "Search the library for match candidates",
		Args:  cobra.ExactArgs(2),
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

			track, err := cache.GetTrackByKey(cmd.Context(), args[0], args[1])
			if errors.Is(err, provider.ErrNotFound) {
				return fmt.Errorf("provider track %s/%s is not in the local cache; import it with `tunebridge track add`", args[0], args[1])
			}
			if err != nil {
				return err
			}

			finder := matching.NewFinder(library, logging.NewNop(), cfg.Matching.SearchLimit, cfg.Matching.QueryLimit)
			candidates, situation := finder.FindCandidates(cmd.Context(), track.Metadata(), searchQuery)

			if jsonOutput {
				return writeJSON(cmd, struct {
					Track      provider.Track       `json:"track"`
					Candidates []matching.Candidate `json:"candidates"`
					Situation  matching.Situation   `json:"situation"`
				}{*track, candidates, situation})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Candidates for %q by %s (%s)\n",
				track.Name, textutil.JoinNames(track.Artists), situation)
			if len(candidates) == 0 {
				fmt.Fprintln(out, "No candidates found")
				return nil
			}
			fmt.Fprintln(out, renderCandidatesTable(candidates))
			return nil
		},
	}

	cmd.Flags().StringVarP(&searchQuery, "query", "q", "", "Override the library search query")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Emit JSON instead of a table")
	return cmd
}

func renderCandidatesTable(candidates []matching.Candidate) string {
	headers := []string{"#", "Item ID", "Name", "Album", "Artists", "Diffs", "Similarity"}
	aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight}

	rows := make([][]string, 0, len(candidates))
	for i, candidate := range candidates {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			candidate.Item.ID,
			candidate.Item.Name,
			candidate.Item.Album,
			textutil.JoinNames(candidate.Item.Artists),
			formatDifferences(candidate.Differences),
			fmt.Sprintf("%.2f", candidate.Similarity),
		})
	}
	return renderTable(headers, rows, aligns)
}

func formatDifferences(diffs []matching.Difference) string {
	if len(diffs) == 0 {
		return "none"
	}
	fields := make([]string, 0, len(diffs))
	for _, diff := range diffs {
		fields = append(fields, diff.Criterion.String())
	}
	return strings.Join(fields, ", ")
}
