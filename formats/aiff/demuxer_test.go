// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/ik5/crushr/codec"
)

// mockAIFFReader stands in for aiff.Decoder.
type mockAIFFReader struct {
	format  *goaudio.Format
	samples []int
	offset  int
	err     error
}

func (m *mockAIFFReader) Format() *goaudio.Format { return m.format }

func (m *mockAIFFReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func TestDemuxer_BitDepths(t *testing.T) {
	t.Parallel()

	tests := []struct {
		bits    int
		samples []int
		want    []float64
		codec   codec.CodecType
	}{
		{bits: 8, samples: []int{64, -64}, want: []float64{0.5, -0.5}, codec: codec.PCMS8},
		{bits: 16, samples: []int{16384, -32768}, want: []float64{0.5, -1}, codec: codec.PCMS16LE},
		{bits: 24, samples: []int{-4194304, 2097152}, want: []float64{-0.5, 0.25}, codec: codec.PCMS24LE},
		{bits: 32, samples: []int{1 << 30, -(1 << 29)}, want: []float64{0.5, -0.25}, codec: codec.PCMS32LE},
	}

	for _, tt := range tests {
		t.Run(string(tt.codec), func(t *testing.T) {
			t.Parallel()

			mock := &mockAIFFReader{
				format:  &goaudio.Format{NumChannels: 1, SampleRate: 44100},
				samples: tt.samples,
			}
			d, err := newDemuxer(mock, tt.bits, int64(len(tt.samples)))
			if err != nil {
				t.Fatalf("newDemuxer() error = %v", err)
			}
			if d.track.Params.Codec != tt.codec {
				t.Errorf("codec = %q, want %q", d.track.Params.Codec, tt.codec)
			}

			s, err := codec.NewSession(d, codec.DefaultRegistry(), codec.DecoderOptions{})
			if err != nil {
				t.Fatalf("NewSession() error = %v", err)
			}
			got, err := s.ReadAll()
			if err != nil {
				t.Fatalf("ReadAll() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("sample %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestDemuxer_MultiplePackets(t *testing.T) {
	t.Parallel()

	samples := make([]int, 2*packetFrames+6)
	mock := &mockAIFFReader{format: &goaudio.Format{NumChannels: 2, SampleRate: 8000}, samples: samples}

	d, err := newDemuxer(mock, 16, 0)
	if err != nil {
		t.Fatalf("newDemuxer() error = %v", err)
	}

	var frames int64
	for {
		pkt, err := d.NextPacket()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("NextPacket() error = %v", err)
		}
		if pkt.Timestamp != frames {
			t.Errorf("Timestamp = %d, want %d", pkt.Timestamp, frames)
		}
		frames += int64(len(pkt.Data) / 4)
	}
	if frames != packetFrames+3 {
		t.Errorf("frames = %d, want %d", frames, packetFrames+3)
	}
}

func TestNewDemuxer_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewDemuxer(bytes.NewReader([]byte("not an aiff file"))); !errors.Is(err, ErrNotAiffFile) {
		t.Errorf("NewDemuxer() error = %v, want ErrNotAiffFile", err)
	}

	mono := &mockAIFFReader{format: &goaudio.Format{NumChannels: 1, SampleRate: 8000}}
	if _, err := newDemuxer(mono, 12, 0); !errors.Is(err, ErrUnsupportedBitDepth) {
		t.Errorf("12-bit error = %v", err)
	}
	if _, err := newDemuxer(&mockAIFFReader{}, 16, 0); !errors.Is(err, ErrUnsupportedAiffLayout) {
		t.Errorf("nil format error = %v", err)
	}
}

func TestDemuxer_ReadError(t *testing.T) {
	t.Parallel()

	boom := errors.New("short SSND")
	d, err := newDemuxer(&mockAIFFReader{format: &goaudio.Format{NumChannels: 1}, err: boom}, 16, 0)
	if err != nil {
		t.Fatalf("newDemuxer() error = %v", err)
	}
	if _, err := d.NextPacket(); !errors.Is(err, boom) {
		t.Errorf("NextPacket() error = %v", err)
	}
}
