// SPDX-License-Identifier: EPL-2.0

// Package pipeline runs interleaved samples through a chain of concurrent
// stages connected by bounded channels.
//
// # Stages
//
// A stage is a Pipe, which reads its input channel and writes its output
// channel until the input is closed. A Filter transforms one window of
// samples in place and becomes a Pipe through AsPipe; AsFilter goes the
// other way. PipeFunc and FilterFunc adapt plain functions:
//
//	double := pipeline.FilterFunc(func(_ *pipeline.TransformContext, w []pipeline.Sample) error {
//	    for i := range w {
//	        w[i] *= 2
//	    }
//	    return nil
//	})
//
// The bundled filters are Identity, Gain, Clamp, RejectNonFinite and a
// one-pole LowPass.
//
// # Running a Pipeline
//
// A TransformContext fixes the window size, the queue capacity and the
// signal layout shared by every stage. ContextFor derives one from a
// signal spec:
//
//	p, err := pipeline.New(pipeline.TransformContext{
//	    WindowSize:      1024,
//	    ChannelCapacity: 4096,
//	    Channels:        2,
//	    SampleRate:      44100,
//	}, pipeline.AsPipe(pipeline.Gain(0.5)), pipeline.AsPipe(pipeline.Clamp()))
//	if err != nil {
//	    return err
//	}
//	sink := make(chan pipeline.Sample, 4096)
//	run := p.Run(src, sink)
//	out := pipeline.Collect(sink)
//	err = run.Err()
//
// FromSlice turns samples already in memory into a source. FromSession
// decodes a codec.Session on its own goroutine:
//
//	feed := pipeline.FromSession(s, 4096)
//	run := p.Run(feed.C, sink)
//	out := pipeline.Collect(sink)
//	if err := errors.Join(run.Err(), feed.Err()); err != nil {
//	    return err
//	}
//
// # Concurrency
//
// Every stage runs on its own goroutine and stage i feeds stage i+1 through
// a queue holding at most ChannelCapacity samples, so a slow stage holds
// back the ones before it. Samples keep their order through every stage.
// A Pipeline holds no per-run state and may be run again, though stateful
// filters such as LowPass carry their state between runs unless Reset.
//
// # Error Handling
//
// A stage that fails reports through its own result only: its output
// channel is closed, so the stages after it finish as if the input had
// ended, and it keeps draining its input so the stages before it finish
// too. A panicking stage is recovered and reported the same way:
//
//	for i, err := range run.Wait() {
//	    if err != nil {
//	        log.Printf("stage %d: %v", i, err)
//	    }
//	}
//
// Err joins the failed results with their stage index. Closing the source
// is the only way to stop a pipeline.
//
// # Window Semantics
//
// AsPipe hands a filter every sample already queued, up to WindowSize,
// rather than waiting for a full window, so the last window of a stream
// is usually short. AsFilter requires the wrapped pipe to emit exactly as
// many samples as it received and fails with ErrSampleCount otherwise.
package pipeline
