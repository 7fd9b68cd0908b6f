// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"time"
)

// DefaultSampleRate is used when a codec does not report its rate.
const DefaultSampleRate = 44100

// SignalSpec describes a PCM signal. It is immutable once derived.
type SignalSpec struct {
	Rate     int
	Channels int
}

// Validate reports ErrInvalidSpec when either field is not positive.
func (s SignalSpec) Validate() error {
	if s.Rate <= 0 || s.Channels <= 0 {
		return fmt.Errorf("%w: rate=%d channels=%d", ErrInvalidSpec, s.Rate, s.Channels)
	}
	return nil
}

// Duration converts a frame count at this rate to wall-clock time.
func (s SignalSpec) Duration(frames int64) time.Duration {
	if s.Rate <= 0 {
		return 0
	}
	return time.Duration(frames) * time.Second / time.Duration(s.Rate)
}

func (s SignalSpec) String() string {
	return fmt.Sprintf("%d Hz, %d ch", s.Rate, s.Channels)
}
