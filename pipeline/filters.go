// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"fmt"
	"math"

	"github.com/ik5/crushr/utils"
)

type identity struct{}

func (identity) Transform(*TransformContext, []Sample) error { return nil }

// Identity leaves samples untouched.
func Identity() Filter { return identity{} }

// Gain scales every sample by factor.
func Gain(factor float64) Filter {
	return FilterFunc(func(_ *TransformContext, window []Sample) error {
		for i := range window {
			window[i] *= factor
		}
		return nil
	})
}

// Clamp limits samples to [-1, 1]. NaN becomes 0.
func Clamp() Filter {
	return FilterFunc(func(_ *TransformContext, window []Sample) error {
		for i, v := range window {
			window[i] = utils.Clamp(v)
		}
		return nil
	})
}

// RejectNonFinite fails on the first NaN or infinite sample.
func RejectNonFinite() Filter {
	return FilterFunc(func(_ *TransformContext, window []Sample) error {
		for _, v := range window {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("non-finite sample %v", v)
			}
		}
		return nil
	})
}

// LowPass is a one-pole low-pass filter, y += alpha·(x - y), run
// separately on each channel of the interleaved stream. It keeps state
// between windows, so an instance belongs to one stream at a time.
type LowPass struct {
	alpha float64
	state []float64
	pos   int
}

// NewLowPass returns a filter with the given smoothing factor in (0, 1].
func NewLowPass(alpha float64) (*LowPass, error) {
	if alpha <= 0 || alpha > 1 || math.IsNaN(alpha) {
		return nil, fmt.Errorf("low-pass alpha %v outside (0, 1]", alpha)
	}
	return &LowPass{alpha: alpha}, nil
}

// NewLowPassCutoff derives alpha from a cutoff frequency at rate.
func NewLowPassCutoff(cutoff float64, rate int) (*LowPass, error) {
	if cutoff <= 0 || rate <= 0 {
		return nil, fmt.Errorf("low-pass cutoff %v Hz at %d Hz invalid", cutoff, rate)
	}
	dt := 1 / float64(rate)
	rc := 1 / (2 * math.Pi * cutoff)
	return NewLowPass(dt / (rc + dt))
}

func (f *LowPass) Transform(ctx *TransformContext, window []Sample) error {
	ch := ctx.channels()
	if len(f.state) != ch {
		f.state = make([]float64, ch)
		f.pos = 0
	}

	for i, x := range window {
		y := f.state[f.pos] + f.alpha*(x-f.state[f.pos])
		f.state[f.pos] = y
		window[i] = y
		f.pos = (f.pos + 1) % ch
	}
	return nil
}

// Reset clears the filter memory.
func (f *LowPass) Reset() {
	clear(f.state)
	f.pos = 0
}
