// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ik5/crushr/library"
	"github.com/ik5/crushr/storage"
)

func newQueryCommand(ctx *commandContext) *cobra.Command {
	var q storage.TrackQuery
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "query [title]",
		Aliases: []string{"ls"},
		Short:   "List tracks whose title contains the given text",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				q.Title = args[0]
			}
			if q.ReadCursor < 0 || q.MaxResponse < 0 {
				return fmt.Errorf("--cursor and --max must not be negative")
			}

			return ctx.withLibrary(cmd, func(lib *library.Library) error {
				tracks, err := lib.Query(cmd.Context(), q)
				if err != nil {
					return err
				}
				if asJSON {
					if tracks == nil {
						tracks = []*storage.Track{}
					}
					return writeJSON(cmd, tracks)
				}

				out := cmd.OutOrStdout()
				if len(tracks) == 0 {
					fmt.Fprintln(out, "No tracks found")
					return nil
				}

				rows := make([][]string, 0, len(tracks))
				for _, t := range tracks {
					rows = append(rows, []string{t.ID, t.Title, formatDuration(t.Duration)})
				}
				fmt.Fprintln(out, renderTable(out,
					[]string{"ID", "Title", "Duration"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&q.ReadCursor, "cursor", 0, "Skip this many matches")
	cmd.Flags().IntVar(&q.MaxResponse, "max", 0, "Return at most this many tracks (0 for all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func formatDuration(d time.Duration) string {
	d = d.Round(time.Millisecond)
	m := int64(d / time.Minute)
	s := (d % time.Minute).Seconds()
	return fmt.Sprintf("%d:%06.3f", m, s)
}
