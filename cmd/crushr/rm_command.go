// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ik5/crushr/library"
)

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <track-id>...",
		Short: "Delete tracks and their audio",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLibrary(cmd, func(lib *library.Library) error {
				var errs []error
				for _, id := range args {
					if err := lib.DeleteTrack(cmd.Context(), id); err != nil {
						errs = append(errs, fmt.Errorf("remove %s: %w", id, err))
						continue
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", id)
				}
				return errors.Join(errs...)
			})
		},
	}
}
