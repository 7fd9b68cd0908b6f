// SPDX-License-Identifier: EPL-2.0

// Package audio holds the sample level building blocks shared by decoding,
// storage and the transform pipeline.
//
// # Signals and buffers
//
// A SignalSpec carries the rate and channel count of a stream. Decoders
// fill a planar float64 Buffer normalized to [-1, 1]; callers that need a
// particular numeric representation copy it into a SampleBuffer:
//
//	dst := audio.NewSampleBuffer[int16](spec, 4096)
//	if err := dst.CopyFrom(buf); err != nil {
//	    return err
//	}
//
// Integer samples are scaled by 2^(bits-1) and clamped, so 1.0 saturates at
// the positive full-scale value.
//
// # Source interface
//
// Source is a pull based stream of interleaved float32 samples:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// Resampler and MonoMixer both implement Source and wrap another Source,
// so they chain:
//
//	mono := audio.NewMonoMixer(audio.NewResampler(src, 16000))
//
// ReadSamples returns io.EOF once the stream is drained.
package audio
