// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/ik5/crushr/codec"
	"github.com/mewkiz/flac/frame"
)

type mockStream struct {
	frames []*frame.Frame
	err    error
	closed bool
}

func (m *mockStream) ParseNext() (*frame.Frame, error) {
	if m.err != nil {
		return nil, m.err
	}
	if len(m.frames) == 0 {
		return nil, io.EOF
	}
	f := m.frames[0]
	m.frames = m.frames[1:]
	return f, nil
}

func (m *mockStream) Close() error {
	m.closed = true
	return nil
}

func stereoFrame(left, right []int32) *frame.Frame {
	return &frame.Frame{Subframes: []*frame.Subframe{{Samples: left}, {Samples: right}}}
}

func TestDemuxer_Session(t *testing.T) {
	t.Parallel()

	stream := &mockStream{frames: []*frame.Frame{
		stereoFrame([]int32{16384, 0}, []int32{-16384, 8192}),
		stereoFrame([]int32{-32768}, []int32{32767}),
	}}

	d, err := newDemuxer(stream, 44100, 2, 16, 3)
	if err != nil {
		t.Fatalf("newDemuxer() error = %v", err)
	}

	s, err := codec.NewSession(d, codec.DefaultRegistry(), codec.DecoderOptions{})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	got, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}

	want := []float64{0.5, -0.5, 0, 0.25, -1, 32767.0 / 32768}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i], want[i])
		}
	}

	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !stream.closed {
		t.Error("stream not closed")
	}
}

func TestDemuxer_LayoutChangeFails(t *testing.T) {
	t.Parallel()

	stream := &mockStream{frames: []*frame.Frame{
		stereoFrame([]int32{1}, []int32{1}),
		{Subframes: []*frame.Subframe{{Samples: []int32{1}}}},
	}}
	d, err := newDemuxer(stream, 48000, 2, 24, 0)
	if err != nil {
		t.Fatalf("newDemuxer() error = %v", err)
	}

	s, err := codec.NewSession(d, codec.DefaultRegistry(), codec.DecoderOptions{})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	if _, err := s.ReadAll(); !errors.Is(err, codec.ErrLayoutChanged) {
		t.Errorf("ReadAll() error = %v, want ErrLayoutChanged", err)
	}
	if s.State() != codec.StateFailed {
		t.Errorf("State() = %v", s.State())
	}
}

func TestDemuxer_WidensOddDepth(t *testing.T) {
	t.Parallel()

	stream := &mockStream{frames: []*frame.Frame{
		{Subframes: []*frame.Subframe{{Samples: []int32{1 << 18, -(1 << 17)}}}},
	}}
	d, err := newDemuxer(stream, 96000, 1, 20, 2)
	if err != nil {
		t.Fatalf("newDemuxer() error = %v", err)
	}
	if d.track.Params.Codec != codec.PCMS24LE {
		t.Errorf("codec = %q, want pcm_s24le", d.track.Params.Codec)
	}

	s, err := codec.NewSession(d, codec.DefaultRegistry(), codec.DecoderOptions{})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	got, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(got) != 2 || got[0] != 0.5 || got[1] != -0.25 {
		t.Errorf("ReadAll() = %v, want [0.5 -0.25]", got)
	}
}

func TestNewDemuxer_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewDemuxer(bytes.NewReader([]byte("OggS"))); err == nil {
		t.Error("NewDemuxer() accepted non-FLAC input")
	}
	if _, err := newDemuxer(&mockStream{}, 44100, 2, 40, 0); !errors.Is(err, codec.ErrUnsupportedCodec) {
		t.Errorf("40-bit error = %v", err)
	}

	boom := errors.New("crc mismatch")
	d, _ := newDemuxer(&mockStream{err: boom}, 44100, 1, 16, 0)
	if _, err := d.NextPacket(); !errors.Is(err, boom) {
		t.Errorf("NextPacket() error = %v", err)
	}
}
