// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/crushr/library"
	"github.com/ik5/crushr/storage"
)

func newGetCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "get <track-id>",
		Short: "Show one track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(lib *library.Library) error {
				t, err := lib.GetTrack(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if asJSON {
					return writeJSON(cmd, t)
				}
				printTrack(cmd, t)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	return cmd
}

func printTrack(cmd *cobra.Command, t *storage.Track) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:       %s\n", t.ID)
	fmt.Fprintf(out, "Title:    %s\n", t.Title)
	fmt.Fprintf(out, "Duration: %s\n", formatDuration(t.Duration))
	fmt.Fprintf(out, "Source:   %s\n", t.Source)
	if t.ReleaseID != "" {
		fmt.Fprintf(out, "Release:  %s\n", t.ReleaseID)
	}
}
