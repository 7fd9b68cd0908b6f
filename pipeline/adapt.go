// SPDX-License-Identifier: EPL-2.0

package pipeline

import "fmt"

type filterPipe struct {
	f Filter
}

// AsPipe runs f over windows read from the input queue. A window is
// complete when it holds WindowSize samples or when the queue is
// momentarily empty; an empty window waits for its first sample. Samples
// keep their order.
func AsPipe(f Filter) Pipe {
	if fp, ok := f.(pipeFilter); ok {
		return fp.p
	}
	return filterPipe{f: f}
}

func (a filterPipe) Pipe(ctx *TransformContext, in <-chan Sample, out chan<- Sample) error {
	window := make([]Sample, 0, ctx.WindowSize)

	for {
		v, ok := <-in
		if !ok {
			return nil
		}
		window = append(window[:0], v)

		closed := false
	fill:
		for len(window) < ctx.WindowSize {
			select {
			case v, ok := <-in:
				if !ok {
					closed = true
					break fill
				}
				window = append(window, v)
			default:
				break fill
			}
		}

		if err := a.f.Transform(ctx, window); err != nil {
			return err
		}
		for _, v := range window {
			out <- v
		}
		if closed {
			return nil
		}
	}
}

type pipeFilter struct {
	p Pipe
}

// AsFilter runs p over each window through private queues. p must emit as
// many samples as it receives, otherwise Transform fails with
// ErrSampleCount and leaves the window unspecified.
func AsFilter(p Pipe) Filter {
	if fp, ok := p.(filterPipe); ok {
		return fp.f
	}
	return pipeFilter{p: p}
}

func (a pipeFilter) Transform(ctx *TransformContext, window []Sample) error {
	in := make(chan Sample, len(window))
	for _, v := range window {
		in <- v
	}
	close(in)

	out := make(chan Sample, len(window))
	errc := make(chan error, 1)
	go func() {
		errc <- runStage(ctx, a.p, in, out)
		close(out)
	}()

	n := 0
	for v := range out {
		if n < len(window) {
			window[n] = v
		}
		n++
	}

	if err := <-errc; err != nil {
		return err
	}
	if n != len(window) {
		return fmt.Errorf("%w: got %d, want %d", ErrSampleCount, n, len(window))
	}
	return nil
}
