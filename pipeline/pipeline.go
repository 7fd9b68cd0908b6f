// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ik5/crushr/audio"
	"github.com/ik5/crushr/internal/logging"
)

// Sample is one interleaved, normalized sample.
type Sample = float64

var (
	ErrInvalidContext = errors.New("pipeline: invalid transform context")
	ErrNoStages       = errors.New("pipeline: no stages")
	// ErrSampleCount is returned by AsFilter when the wrapped pipe does not
	// emit exactly as many samples as it received.
	ErrSampleCount = errors.New("pipeline: pipe changed the sample count")
)

// TransformContext is shared read-only by every stage of a pipeline.
type TransformContext struct {
	// WindowSize is the largest window handed to a Filter.
	WindowSize int
	// ChannelCapacity bounds each queue between stages.
	ChannelCapacity int
	Channels        int
	SampleRate      int
}

// ContextFor returns a context describing spec.
func ContextFor(spec audio.SignalSpec, windowSize, capacity int) TransformContext {
	return TransformContext{
		WindowSize:      windowSize,
		ChannelCapacity: capacity,
		Channels:        spec.Channels,
		SampleRate:      spec.Rate,
	}
}

// Validate rejects non-positive window sizes and capacities and negative
// channel counts or rates.
func (c TransformContext) Validate() error {
	if c.WindowSize <= 0 || c.ChannelCapacity <= 0 {
		return fmt.Errorf("%w: window=%d capacity=%d", ErrInvalidContext, c.WindowSize, c.ChannelCapacity)
	}
	if c.Channels < 0 || c.SampleRate < 0 {
		return fmt.Errorf("%w: channels=%d rate=%d", ErrInvalidContext, c.Channels, c.SampleRate)
	}
	return nil
}

// channels returns Channels, treating an unset count as mono.
func (c TransformContext) channels() int {
	return max(c.Channels, 1)
}

// Pipe moves samples from in to out. It returns when in is closed or on
// failure; it must not close out.
type Pipe interface {
	Pipe(ctx *TransformContext, in <-chan Sample, out chan<- Sample) error
}

// Filter transforms a window of at most ctx.WindowSize samples in place.
type Filter interface {
	Transform(ctx *TransformContext, window []Sample) error
}

// PipeFunc adapts a function to Pipe.
type PipeFunc func(ctx *TransformContext, in <-chan Sample, out chan<- Sample) error

func (f PipeFunc) Pipe(ctx *TransformContext, in <-chan Sample, out chan<- Sample) error {
	return f(ctx, in, out)
}

// FilterFunc adapts a function to Filter.
type FilterFunc func(ctx *TransformContext, window []Sample) error

func (f FilterFunc) Transform(ctx *TransformContext, window []Sample) error {
	return f(ctx, window)
}

// Pipeline is a linear chain of stages. It holds no per-run state, so one
// Pipeline may be run several times, though stateful filters then carry
// their state between runs.
type Pipeline struct {
	ctx    TransformContext
	stages []Pipe
	logger *slog.Logger
}

// New validates ctx and returns a pipeline over stages.
func New(ctx TransformContext, stages ...Pipe) (*Pipeline, error) {
	if err := ctx.Validate(); err != nil {
		return nil, err
	}
	if len(stages) == 0 {
		return nil, ErrNoStages
	}
	return &Pipeline{
		ctx:    ctx,
		stages: append([]Pipe(nil), stages...),
		logger: logging.NewNop(),
	}, nil
}

// WithLogger sets the logger stage failures are reported to.
func (p *Pipeline) WithLogger(logger *slog.Logger) *Pipeline {
	p.logger = logging.NewComponentLogger(logger, "pipeline")
	return p
}

// Context returns the shared transform context.
func (p *Pipeline) Context() TransformContext { return p.ctx }

// Len returns the number of stages.
func (p *Pipeline) Len() int { return len(p.stages) }

// Run starts one goroutine per stage. The first stage reads src, the last
// writes sink, and stage i feeds stage i+1 through a queue holding at most
// ChannelCapacity samples. Each stage's output, sink included, is closed
// when the stage returns. A stage that fails keeps draining its input so
// the stages before it can finish.
func (p *Pipeline) Run(src <-chan Sample, sink chan<- Sample) *Run {
	n := len(p.stages)
	r := &Run{
		results: make([]error, n),
		done:    make(chan struct{}),
		pending: n,
	}
	ctx := p.ctx

	in := src
	for i, stage := range p.stages {
		out := sink
		var next chan Sample
		if i < n-1 {
			next = make(chan Sample, ctx.ChannelCapacity)
			out = next
		}

		go func(i int, stage Pipe, in <-chan Sample, out chan<- Sample) {
			err := runStage(&ctx, stage, in, out)
			close(out)
			if err != nil {
				p.logger.Debug("stage failed", logging.FieldStage, i, logging.Error(err))
				for range in {
				}
			}
			r.finish(i, err)
		}(i, stage, in, out)

		in = next
	}

	return r
}

func runStage(ctx *TransformContext, stage Pipe, in <-chan Sample, out chan<- Sample) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("stage panic: %v", rec)
		}
	}()
	return stage.Pipe(ctx, in, out)
}
