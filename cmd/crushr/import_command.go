// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ik5/crushr"
	"github.com/ik5/crushr/codec"
	"github.com/ik5/crushr/internal/tags"
	"github.com/ik5/crushr/library"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var title string
	var verify bool

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Decode audio files and store them in the library",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title = strings.TrimSpace(title)
			if title != "" && len(args) > 1 {
				return fmt.Errorf("--title applies to a single file, got %d", len(args))
			}

			return ctx.withLibrary(cmd, func(lib *library.Library) error {
				out := cmd.OutOrStdout()
				for _, path := range args {
					name := title
					if name == "" {
						name = tags.Read(path).Title
					}

					id, err := importFile(cmd, lib, path, name, codec.DecoderOptions{Verify: verify})
					if err != nil {
						return fmt.Errorf("import %s: %w", path, err)
					}
					fmt.Fprintf(out, "%s\t%s\n", id, name)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "Track title (defaults to the file's tags or name)")
	cmd.Flags().BoolVar(&verify, "verify", false, "Drop packets that decode to NaN or infinite samples")
	return cmd
}

func importFile(cmd *cobra.Command, lib *library.Library, path, title string, opts codec.DecoderOptions) (string, error) {
	s, err := crushr.OpenFile(path, opts)
	if err != nil {
		return "", err
	}
	defer s.Close()

	return lib.CreateAudio(cmd.Context(), s, title)
}
