// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Buffer holds decoded audio as planar float64 samples normalized to
// [-1, 1]. Decoders reuse one Buffer between packets, so its contents are
// only valid until the next decode.
type Buffer struct {
	spec   SignalSpec
	frames int
	planes [][]float64
}

// NewBuffer allocates room for capacity frames per channel.
func NewBuffer(spec SignalSpec, capacity int) *Buffer {
	planes := make([][]float64, spec.Channels)
	for c := range planes {
		planes[c] = make([]float64, capacity)
	}
	return &Buffer{spec: spec, planes: planes}
}

func (b *Buffer) Spec() SignalSpec { return b.spec }
func (b *Buffer) Frames() int      { return b.frames }
func (b *Buffer) Capacity() int {
	if len(b.planes) == 0 {
		return 0
	}
	return cap(b.planes[0])
}

// Plane returns the valid samples of channel ch.
func (b *Buffer) Plane(ch int) []float64 {
	return b.planes[ch][:b.frames]
}

// Resize sets the frame count, growing the planes when needed. Existing
// samples inside the new length are kept.
func (b *Buffer) Resize(frames int) {
	if frames > b.Capacity() {
		for c := range b.planes {
			grown := make([]float64, frames)
			copy(grown, b.planes[c][:b.frames])
			b.planes[c] = grown
		}
	}
	for c := range b.planes {
		b.planes[c] = b.planes[c][:cap(b.planes[c])]
	}
	b.frames = frames
}

// Clear drops all frames without releasing memory.
func (b *Buffer) Clear() { b.frames = 0 }

// CopyInterleaved writes the buffer into dst frame by frame and returns the
// number of values written.
func (b *Buffer) CopyInterleaved(dst []float64) (int, error) {
	n := b.frames * b.spec.Channels
	if len(dst) < n {
		return 0, fmt.Errorf("%w: need %d values, have %d", ErrCapacityExceeded, n, len(dst))
	}
	ch := b.spec.Channels
	for c, plane := range b.planes {
		for f, v := range plane[:b.frames] {
			dst[f*ch+c] = v
		}
	}
	return n, nil
}
