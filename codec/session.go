// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/crushr/audio"
)

// State is the lifecycle position of a Session.
type State int

const (
	// StateReady is a session that has not decoded anything yet.
	StateReady State = iota
	// StateDraining is a session that has handed out at least one buffer.
	StateDraining
	// StateEOF is a session whose stream ended. Every further call returns
	// io.EOF.
	StateEOF
	// StateFailed is a session stopped by a fatal error or by Close. Every
	// further call returns that error.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateDraining:
		return "draining"
	case StateEOF:
		return "eof"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Session binds one demuxer and one decoder to the demuxer's default track
// and pulls PCM out of it one packet at a time. It is not safe for
// concurrent use.
type Session struct {
	demuxer Demuxer
	decoder Decoder
	track   Track
	spec    audio.SignalSpec

	state State
	err   error

	frames  int64
	skipped int64
	closed  bool
}

// NewSession selects the default track of demuxer and builds its decoder
// from registry.
func NewSession(demuxer Demuxer, registry *Registry, opts DecoderOptions) (*Session, error) {
	track, ok := demuxer.DefaultTrack()
	if !ok {
		return nil, ErrNoDefaultTrack
	}

	dec, err := registry.Make(track.Params, opts)
	if err != nil {
		return nil, err
	}

	return &Session{
		demuxer: demuxer,
		decoder: dec,
		track:   track,
		spec:    track.Params.SignalSpec(),
	}, nil
}

// CodecParams returns the parameters of the selected track.
func (s *Session) CodecParams() CodecParams { return s.track.Params }

// SignalSpec returns the rate and channel count of the decoded output.
func (s *Session) SignalSpec() audio.SignalSpec { return s.spec }

// Track returns the selected track.
func (s *Session) Track() Track { return s.track }

// State returns where the session is in its lifecycle.
func (s *Session) State() State { return s.state }

// FramesDecoded counts frames handed to consumers so far.
func (s *Session) FramesDecoded() int64 { return s.frames }

// PacketsSkipped counts packets dropped after a recoverable decode error.
func (s *Session) PacketsSkipped() int64 { return s.skipped }

// ConsumeNext decodes the next packet of the selected track and hands the
// result to fn. It returns io.EOF once the stream is exhausted. Packets of
// other tracks and packets failing with a recoverable DecodeError are
// skipped. After io.EOF or a fatal error every call returns that outcome.
//
// An error from fn is returned wrapped and does not end the session.
func (s *Session) ConsumeNext(fn func(*audio.Buffer) error) error {
	if s.state == StateEOF || s.state == StateFailed {
		return s.err
	}
	s.state = StateDraining

	for {
		pkt, err := s.demuxer.NextPacket()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return s.finish(StateEOF, io.EOF)
			}
			return s.finish(StateFailed, fmt.Errorf("read packet: %w", err))
		}

		if pkt.TrackID != s.track.ID {
			continue
		}

		buf, err := s.decoder.Decode(pkt)
		if err != nil {
			if IsRecoverable(err) {
				s.skipped++
				continue
			}
			return s.finish(StateFailed, fmt.Errorf("decode packet at %d: %w", pkt.Timestamp, err))
		}

		s.frames += int64(buf.Frames())

		if err := fn(buf); err != nil {
			return fmt.Errorf("consume buffer: %w", err)
		}
		return nil
	}
}

// ForEach drains the session through fn. Reaching the end of the stream is
// not an error.
func (s *Session) ForEach(fn func(*audio.Buffer) error) error {
	for {
		err := s.ConsumeNext(fn)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

// ReadAll decodes the rest of the stream into interleaved float64 samples.
func (s *Session) ReadAll() ([]float64, error) {
	var out []float64
	err := s.ForEach(func(b *audio.Buffer) error {
		start := len(out)
		out = append(out, make([]float64, b.Frames()*s.spec.Channels)...)
		_, err := b.CopyInterleaved(out[start:])
		return err
	})
	return out, err
}

func (s *Session) finish(state State, err error) error {
	s.state = state
	s.err = err
	return err
}

// Close releases the demuxer. Later decode calls fail with ErrSessionClosed.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.state != StateEOF && s.state != StateFailed {
		s.finish(StateFailed, ErrSessionClosed)
	}
	if err := s.demuxer.Close(); err != nil {
		return fmt.Errorf("close demuxer: %w", err)
	}
	return nil
}

// ReadNextAsSamples decodes the next packet into dst, replacing its
// contents. It returns io.EOF at the end of the stream, which callers treat
// as normal completion.
func ReadNextAsSamples[T audio.Sample](s *Session, dst *audio.SampleBuffer[T]) error {
	return s.ConsumeNext(func(b *audio.Buffer) error {
		if b.Frames() > dst.Capacity() {
			return fmt.Errorf("%w: %d frames, capacity %d", ErrBufferTooSmall, b.Frames(), dst.Capacity())
		}
		return dst.CopyFrom(b)
	})
}
