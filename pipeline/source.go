// SPDX-License-Identifier: EPL-2.0

package pipeline

import (
	"github.com/ik5/crushr/audio"
	"github.com/ik5/crushr/codec"
)

// FromSlice returns a queue holding at most capacity samples that yields
// samples and is then closed.
func FromSlice(samples []Sample, capacity int) <-chan Sample {
	ch := make(chan Sample, capacity)
	go func() {
		defer close(ch)
		for _, v := range samples {
			ch <- v
		}
	}()
	return ch
}

// Collect drains ch until it is closed.
func Collect(ch <-chan Sample) []Sample {
	var out []Sample
	for v := range ch {
		out = append(out, v)
	}
	return out
}

// Feed streams a decode session into a queue.
type Feed struct {
	C    <-chan Sample
	done chan struct{}
	err  error
}

// FromSession decodes s on its own goroutine and sends its interleaved
// samples to Feed.C, which is closed at the end of the stream or on a
// decode failure. The caller must drain Feed.C.
func FromSession(s *codec.Session, capacity int) *Feed {
	ch := make(chan Sample, capacity)
	f := &Feed{C: ch, done: make(chan struct{})}

	go func() {
		defer close(f.done)
		defer close(ch)

		var interleaved []float64
		f.err = s.ForEach(func(b *audio.Buffer) error {
			n := b.Frames() * b.Spec().Channels
			if cap(interleaved) < n {
				interleaved = make([]float64, n)
			}
			interleaved = interleaved[:n]
			if _, err := b.CopyInterleaved(interleaved); err != nil {
				return err
			}
			for _, v := range interleaved {
				ch <- v
			}
			return nil
		})
	}()

	return f
}

// Err waits for decoding to stop and returns its failure, if any.
func (f *Feed) Err() error {
	<-f.done
	return f.err
}
