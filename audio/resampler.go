// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/crushr/utils"
)

// lowPassAlpha is the one-pole coefficient applied to incoming frames when
// the resampler decimates.
const lowPassAlpha = 0.5

// Resampler converts a Source to another sample rate using cubic
// interpolation over a four frame window. Channel count is preserved.
type Resampler struct {
	src      Source
	dstRate  int
	step     float64 // source frames consumed per output frame
	channels int

	// win holds frames t-1, t0, t+1, t+2; real marks frames read from src
	// as opposed to edge duplicates.
	win  [4][]float32
	real [4]bool
	pos  float64

	primed bool
	eof    bool

	lowPass bool
	state   []float32
}

// NewResampler wraps src so that it is read at dstRate.
func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	step := float64(src.SampleRate()) / float64(dstRate)

	r := &Resampler{
		src:      src,
		dstRate:  dstRate,
		step:     step,
		channels: channels,
		lowPass:  step > 1,
		state:    make([]float32, channels),
	}
	for i := range r.win {
		r.win[i] = make([]float32, channels)
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

// readFrame fills one frame from src. It reports false once src is drained.
func (r *Resampler) readFrame(dst []float32) (bool, error) {
	if r.eof {
		return false, nil
	}

	got := 0
	for got < len(dst) {
		n, err := r.src.ReadSamples(dst[got:])
		got += n
		if errors.Is(err, io.EOF) {
			r.eof = true
			break
		}
		if err != nil {
			return false, fmt.Errorf("%w", err)
		}
		if n == 0 {
			break
		}
	}

	if got < len(dst) {
		return false, nil
	}

	if r.lowPass {
		for c, v := range dst {
			dst[c] = lowPassAlpha*v + (1-lowPassAlpha)*r.state[c]
			r.state[c] = dst[c]
		}
	}

	return true, nil
}

func (r *Resampler) prime() error {
	r.primed = true

	ok, err := r.readFrame(r.win[1])
	if err != nil || !ok {
		return err
	}
	r.real[1] = true
	copy(r.state, r.win[1])
	copy(r.win[0], r.win[1])

	for i := 2; i < 4; i++ {
		if err := r.fill(i); err != nil {
			return err
		}
	}
	return nil
}

// fill loads slot i from src, duplicating slot i-1 past the end.
func (r *Resampler) fill(i int) error {
	ok, err := r.readFrame(r.win[i])
	if err != nil {
		return err
	}
	if !ok {
		copy(r.win[i], r.win[i-1])
	}
	r.real[i] = ok
	return nil
}

func (r *Resampler) advance() error {
	first := r.win[0]
	copy(r.win[:], r.win[1:])
	r.win[3] = first
	copy(r.real[:], r.real[1:])
	return r.fill(3)
}

// ReadSamples produces interleaved frames at the destination rate.
// len(dst) must be a multiple of Channels().
func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		if err := r.prime(); err != nil {
			return 0, err
		}
	}

	frames := len(dst) / r.channels
	written := 0

	for written < frames {
		for r.pos >= 1 {
			r.pos--
			if err := r.advance(); err != nil {
				return written * r.channels, err
			}
		}

		if !r.real[1] || (!r.real[2] && r.pos > 0) {
			if written == 0 {
				return 0, io.EOF
			}
			return written * r.channels, io.EOF
		}

		t := float32(r.pos)
		out := dst[written*r.channels : (written+1)*r.channels]
		for c := range out {
			out[c] = utils.CubicInterpolate(r.win[0][c], r.win[1][c], r.win[2][c], r.win[3][c], t)
		}

		written++
		r.pos += r.step
	}

	return written * r.channels, nil
}
