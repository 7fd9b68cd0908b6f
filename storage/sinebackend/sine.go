// SPDX-License-Identifier: EPL-2.0

// Package sinebackend serves a synthetic sine tone as a library track. It
// is useful for checking a deployment end to end without any real media.
package sinebackend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/ik5/crushr/audio"
	"github.com/ik5/crushr/formats/wav"
	"github.com/ik5/crushr/storage"
)

// Options describes the generated tone.
type Options struct {
	TrackID   string
	Title     string
	Frequency float64
	Amplitude float64
	Duration  time.Duration
}

// Spec is the signal of every generated blob.
var Spec = audio.SignalSpec{Rate: audio.DefaultSampleRate, Channels: 1}

// Backend answers for a single track id.
type Backend struct {
	opts  Options
	track storage.Track
}

var (
	_ storage.StructuredReader = (*Backend)(nil)
	_ storage.BlobReader       = (*Backend)(nil)
)

func New(opts Options) *Backend {
	if opts.Title == "" {
		opts.Title = fmt.Sprintf("Sine %g Hz", opts.Frequency)
	}
	return &Backend{
		opts: opts,
		track: storage.Track{
			ID:       opts.TrackID,
			Title:    opts.Title,
			Duration: opts.Duration,
			Source:   fmt.Sprintf("sine:%gHz", opts.Frequency),
		},
	}
}

func (b *Backend) Name() string { return "sine:" + b.opts.TrackID }

// Init rejects tones that cannot be generated.
func (b *Backend) Init(context.Context) error {
	if err := b.track.Validate(); err != nil {
		return err
	}
	if b.opts.Frequency <= 0 || b.opts.Duration <= 0 {
		return fmt.Errorf("%w: sine needs a positive frequency and duration", storage.ErrInvalid)
	}
	if b.opts.Amplitude < 0 || b.opts.Amplitude > 1 {
		return fmt.Errorf("%w: sine amplitude %g outside [0, 1]", storage.ErrInvalid, b.opts.Amplitude)
	}
	return nil
}

func (b *Backend) GetTrack(_ context.Context, id string) (*storage.Track, error) {
	if id != b.track.ID {
		return nil, fmt.Errorf("track %q: %w", id, storage.ErrNotFound)
	}
	return b.track.Clone(), nil
}

func (b *Backend) QueryTracks(_ context.Context, q storage.TrackQuery) ([]*storage.Track, error) {
	var out []*storage.Track
	if q.Matches(&b.track) {
		out = append(out, b.track.Clone())
	}
	return q.Page(out), nil
}

// Samples renders the tone: Rate·Duration samples of
// Amplitude·sin(2π·Frequency·i/Rate).
func (b *Backend) Samples() []float64 {
	n := int(int64(b.opts.Duration) * int64(Spec.Rate) / int64(time.Second))
	out := make([]float64, n)
	step := 2 * math.Pi * b.opts.Frequency / float64(Spec.Rate)
	for i := range out {
		out[i] = b.opts.Amplitude * math.Sin(step*float64(i))
	}
	return out
}

// GetAudio renders the tone as a float32 WAV.
func (b *Backend) GetAudio(_ context.Context, id string) (io.ReadCloser, error) {
	if id != b.track.ID {
		return nil, fmt.Errorf("audio %q: %w", id, storage.ErrNotFound)
	}

	var buf bytes.Buffer
	if err := wav.EncodeFloat32(&buf, Spec, b.Samples()); err != nil {
		return nil, fmt.Errorf("render sine: %w", err)
	}
	return io.NopCloser(&buf), nil
}

func (b *Backend) GetCoverArt(_ context.Context, id string) ([]byte, error) {
	return nil, fmt.Errorf("cover art %q: %w", id, storage.ErrNotFound)
}
