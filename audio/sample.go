// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/crushr/utils"
)

// Int24 is a signed 24-bit sample held in the low bits of an int32.
type Int24 int32

// Sample is the set of numeric representations a SampleBuffer can hold.
type Sample interface {
	uint8 | int16 | Int24 | int32 | float32 | float64
}

// SampleFormat names a Sample representation.
type SampleFormat int

const (
	FormatU8 SampleFormat = iota + 1
	FormatS16
	FormatS24
	FormatS32
	FormatF32
	FormatF64
)

var sampleFormatNames = map[SampleFormat]string{
	FormatU8:  "u8",
	FormatS16: "s16",
	FormatS24: "s24",
	FormatS32: "s32",
	FormatF32: "f32",
	FormatF64: "f64",
}

func (f SampleFormat) String() string {
	if name, ok := sampleFormatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("SampleFormat(%d)", int(f))
}

// BitDepth returns the number of significant bits per sample.
func (f SampleFormat) BitDepth() int {
	switch f {
	case FormatU8:
		return 8
	case FormatS16:
		return 16
	case FormatS24:
		return 24
	case FormatS32, FormatF32:
		return 32
	case FormatF64:
		return 64
	}
	return 0
}

// FormatOf reports the SampleFormat of T.
func FormatOf[T Sample]() SampleFormat {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return FormatU8
	case int16:
		return FormatS16
	case Int24:
		return FormatS24
	case int32:
		return FormatS32
	case float32:
		return FormatF32
	default:
		return FormatF64
	}
}

// FromFloat64 converts a normalized sample to T, clamping to full scale.
func FromFloat64[T Sample](x float64) T {
	var out any
	var zero T
	switch any(zero).(type) {
	case uint8:
		out = utils.Float64ToUint8(x)
	case int16:
		out = utils.Float64ToInt16(x)
	case Int24:
		out = Int24(utils.Float64ToInt24(x))
	case int32:
		out = utils.Float64ToInt32(x)
	case float32:
		out = float32(x)
	default:
		out = x
	}
	return out.(T)
}

// ToFloat64 converts v to a normalized float64.
func ToFloat64[T Sample](v T) float64 {
	switch s := any(v).(type) {
	case uint8:
		return utils.Uint8ToFloat64(s)
	case int16:
		return utils.Int16ToFloat64(s)
	case Int24:
		return utils.Int24ToFloat64(int32(s))
	case int32:
		return utils.Int32ToFloat64(s)
	case float32:
		return float64(s)
	case float64:
		return s
	}
	return 0
}

// SampleBuffer is a fixed-capacity window of interleaved samples.
type SampleBuffer[T Sample] struct {
	spec     SignalSpec
	capacity int
	samples  []T
	n        int
}

// NewSampleBuffer allocates a buffer holding up to capacity frames of spec.
func NewSampleBuffer[T Sample](spec SignalSpec, capacity int) *SampleBuffer[T] {
	return &SampleBuffer[T]{
		spec:     spec,
		capacity: capacity,
		samples:  make([]T, capacity*spec.Channels),
	}
}

func (b *SampleBuffer[T]) Spec() SignalSpec     { return b.spec }
func (b *SampleBuffer[T]) Capacity() int        { return b.capacity }
func (b *SampleBuffer[T]) Format() SampleFormat { return FormatOf[T]() }

// Len returns the number of valid interleaved samples.
func (b *SampleBuffer[T]) Len() int { return b.n }

// Frames returns the number of valid frames.
func (b *SampleBuffer[T]) Frames() int {
	if b.spec.Channels == 0 {
		return 0
	}
	return b.n / b.spec.Channels
}

// Samples returns the valid interleaved samples.
func (b *SampleBuffer[T]) Samples() []T { return b.samples[:b.n] }

func (b *SampleBuffer[T]) Clear() { b.n = 0 }

// CopyFrom replaces the contents with src, converting and interleaving.
func (b *SampleBuffer[T]) CopyFrom(src *Buffer) error {
	if src.Spec().Channels != b.spec.Channels {
		return fmt.Errorf("%w: %s vs %s", ErrSpecMismatch, src.Spec(), b.spec)
	}

	frames := src.Frames()
	if frames > b.capacity {
		return fmt.Errorf("%w: %d > %d", ErrCapacityExceeded, frames, b.capacity)
	}

	ch := b.spec.Channels
	for c := range ch {
		for f, v := range src.Plane(c) {
			b.samples[f*ch+c] = FromFloat64[T](v)
		}
	}
	b.n = frames * ch

	return nil
}

// AppendFloat64 converts normalized interleaved samples into the buffer and
// returns how many were taken. It stops at capacity or on a partial frame.
func (b *SampleBuffer[T]) AppendFloat64(src []float64) int {
	room := len(b.samples) - b.n
	take := min(room, len(src))
	take -= take % max(b.spec.Channels, 1)
	for i, v := range src[:take] {
		b.samples[b.n+i] = FromFloat64[T](v)
	}
	b.n += take
	return take
}

// Float64s converts the valid samples to normalized float64 into dst,
// growing it when needed.
func (b *SampleBuffer[T]) Float64s(dst []float64) []float64 {
	dst = dst[:0]
	for _, v := range b.samples[:b.n] {
		dst = append(dst, ToFloat64(v))
	}
	return dst
}
