// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/crushr/audio"
)

// SessionSource exposes a Session as an audio.Source so it can feed the
// resampler and mono mixer.
type SessionSource struct {
	s       *Session
	pending []float64
	off     int
	done    error
}

func NewSessionSource(s *Session) *SessionSource {
	return &SessionSource{s: s}
}

func (src *SessionSource) SampleRate() int { return src.s.SignalSpec().Rate }
func (src *SessionSource) Channels() int   { return src.s.SignalSpec().Channels }
func (src *SessionSource) BufSize() int    { return 4096 }

func (src *SessionSource) Close() error {
	if err := src.s.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (src *SessionSource) fill() error {
	return src.s.ConsumeNext(func(b *audio.Buffer) error {
		n := b.Frames() * b.Spec().Channels
		if cap(src.pending) < n {
			src.pending = make([]float64, n)
		}
		src.pending = src.pending[:n]
		src.off = 0
		_, err := b.CopyInterleaved(src.pending)
		return err
	})
}

func (src *SessionSource) ReadSamples(dst []float32) (int, error) {
	ch := src.Channels()
	if len(dst)%ch != 0 {
		return 0, audio.ErrInvalidDstSize
	}

	n := 0
	for n < len(dst) {
		if src.off == len(src.pending) {
			if src.done != nil {
				break
			}
			if err := src.fill(); err != nil {
				src.done = err
				break
			}
			continue
		}
		c := copy32(dst[n:], src.pending[src.off:])
		n += c
		src.off += c
	}

	if src.off == len(src.pending) && src.done != nil {
		if errors.Is(src.done, io.EOF) {
			return n, io.EOF
		}
		if n > 0 {
			return n, nil
		}
		return 0, src.done
	}
	return n, nil
}

func copy32(dst []float32, src []float64) int {
	n := min(len(dst), len(src))
	for i, v := range src[:n] {
		dst[i] = float32(v)
	}
	return n
}
