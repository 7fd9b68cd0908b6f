// SPDX-License-Identifier: EPL-2.0

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/crushr/codec"
	"github.com/ik5/crushr/formats/wav"
	"github.com/ik5/crushr/library"
	"github.com/ik5/crushr/pipeline"
)

type filterOptions struct {
	gain     float64
	lowpass  float64
	clamp    bool
	encoding string
}

func newFilterCommand(ctx *commandContext) *cobra.Command {
	var opts filterOptions

	cmd := &cobra.Command{
		Use:   "filter <track-id> <out.wav>",
		Short: "Render a track through the transform pipeline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			enc := wav.Float32
			if opts.encoding != "" {
				if enc, err = wav.ParseEncoding(opts.encoding); err != nil {
					return err
				}
			}

			return ctx.withLibrary(cmd, func(lib *library.Library) error {
				s, err := lib.OpenAudio(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				defer s.Close()

				tc := pipeline.ContextFor(s.SignalSpec(), cfg.Pipeline.WindowSize, cfg.Pipeline.ChannelCapacity)
				stages, err := opts.stages(tc)
				if err != nil {
					return err
				}

				frames, err := renderFiltered(s, tc, stages, args[1], enc, ctx.logger)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d frames through %d stages to %s\n", frames, len(stages), args[1])
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&opts.gain, "gain", 1, "Linear gain applied first")
	cmd.Flags().Float64Var(&opts.lowpass, "lowpass", 0, "Low-pass cutoff in Hz (0 disables)")
	cmd.Flags().BoolVar(&opts.clamp, "clamp", true, "Clamp the result to [-1, 1]")
	cmd.Flags().StringVar(&opts.encoding, "encoding", "", "Output encoding: float32, pcm24 or pcm16")
	return cmd
}

func (o filterOptions) stages(tc pipeline.TransformContext) ([]pipeline.Pipe, error) {
	stages := []pipeline.Pipe{pipeline.AsPipe(pipeline.RejectNonFinite())}
	if o.gain != 1 {
		stages = append(stages, pipeline.AsPipe(pipeline.Gain(o.gain)))
	}
	if o.lowpass > 0 {
		lp, err := pipeline.NewLowPassCutoff(o.lowpass, tc.SampleRate)
		if err != nil {
			return nil, err
		}
		stages = append(stages, pipeline.AsPipe(lp))
	}
	if o.clamp {
		stages = append(stages, pipeline.AsPipe(pipeline.Clamp()))
	}
	return stages, nil
}

// renderFiltered streams s through the stages into a new WAV file at
// target and returns the number of frames written.
func renderFiltered(s *codec.Session, tc pipeline.TransformContext, stages []pipeline.Pipe, target string, enc wav.Encoding, logger *slog.Logger) (int64, error) {
	p, err := pipeline.New(tc, stages...)
	if err != nil {
		return 0, err
	}
	if logger != nil {
		p.WithLogger(logger)
	}

	f, err := os.Create(target)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", target, err)
	}

	w, err := wav.NewWriter(f, s.SignalSpec(), enc)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return 0, err
	}

	feed := pipeline.FromSession(s, tc.ChannelCapacity)
	sink := make(chan pipeline.Sample, tc.ChannelCapacity)
	run := p.Run(feed.C, sink)

	// Chunks hold whole frames; a failed write still drains the sink so
	// the stages can finish.
	chunk := make([]float64, 0, tc.WindowSize*max(tc.Channels, 1))
	var werr error
	for v := range sink {
		if werr != nil {
			continue
		}
		chunk = append(chunk, v)
		if len(chunk) == cap(chunk) {
			werr = w.Write(chunk)
			chunk = chunk[:0]
		}
	}
	if werr == nil && len(chunk) > 0 {
		werr = w.Write(chunk)
	}

	errs := []error{werr, feed.Err(), run.Err(), w.Close(), f.Close()}
	if err := errors.Join(errs...); err != nil {
		_ = os.Remove(target)
		return 0, fmt.Errorf("render %s: %w", target, err)
	}
	return w.Frames(), nil
}
