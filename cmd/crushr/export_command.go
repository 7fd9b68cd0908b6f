// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/crushr"
	"github.com/ik5/crushr/audio"
	"github.com/ik5/crushr/codec"
	"github.com/ik5/crushr/formats/wav"
	"github.com/ik5/crushr/library"
)

const exportBufferSize = 4096

func newExportCommand(ctx *commandContext) *cobra.Command {
	var rate int
	var raw bool

	cmd := &cobra.Command{
		Use:   "export <track-id> <out.wav>",
		Short: "Write a track as 16-bit mono WAV, or its stored blob with --raw",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, target := args[0], args[1]
			if !raw && rate <= 0 {
				return fmt.Errorf("--rate must be positive, got %d", rate)
			}

			return ctx.withLibrary(cmd, func(lib *library.Library) error {
				if raw {
					data, err := lib.GetTrackSource(cmd.Context(), id)
					if err != nil {
						return err
					}
					if err := os.WriteFile(target, data, 0o644); err != nil {
						return fmt.Errorf("write %s: %w", target, err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", len(data), target)
					return nil
				}

				s, err := lib.OpenAudio(cmd.Context(), id)
				if err != nil {
					return err
				}
				defer s.Close()

				n, err := exportMono16(s, target, rate)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d samples at %d Hz to %s\n", n, rate, target)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&rate, "rate", "r", 16000, "Output sample rate in Hz")
	cmd.Flags().BoolVar(&raw, "raw", false, "Copy the stored blob unchanged")
	return cmd
}

func exportMono16(s *codec.Session, target string, rate int) (int, error) {
	pcm, outRate, err := crushr.ResampleToMono16(codec.NewSessionSource(s), rate, exportBufferSize)
	if err != nil {
		return 0, fmt.Errorf("resample: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", target, err)
	}

	bw := bufio.NewWriter(f)
	werr := wav.WriteWAV16(bw, audio.SignalSpec{Rate: outRate, Channels: 1}, pcm)
	if werr == nil {
		werr = bw.Flush()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(target)
		return 0, fmt.Errorf("write %s: %w", target, werr)
	}
	return len(pcm), nil
}
