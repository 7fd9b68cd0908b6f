// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/crushr/codec"
)

const packetFrames = 4096

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// Format registers AIFF with a codec.Probe.
func Format() codec.Format {
	return codec.Format{
		Name:       "aiff",
		Extensions: []string{"aif", "aiff"},
		Match: func(h []byte) bool {
			return len(h) >= 12 && bytes.Equal(h[:4], []byte("FORM")) && bytes.Equal(h[8:12], []byte("AIFF"))
		},
		NewDemuxer: NewDemuxer,
	}
}

type demuxer struct {
	dec   aiffReader
	track codec.Track
	width int
	ints  *goaudio.IntBuffer
	out   []byte
	pos   int64
	done  bool
}

// NewDemuxer reads r fully, since go-audio/aiff needs to seek, and emits
// big-endian AIFF samples as little-endian integer PCM.
func NewDemuxer(r io.Reader) (codec.Demuxer, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading aiff data: %w", err)
	}

	dec := aiff.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		return nil, ErrNotAiffFile
	}
	dec.ReadInfo()

	return newDemuxer(dec, int(dec.BitDepth), int64(dec.NumSampleFrames))
}

func newDemuxer(dec aiffReader, bits int, total int64) (*demuxer, error) {
	format := dec.Format()
	if format == nil || format.NumChannels <= 0 {
		return nil, ErrUnsupportedAiffLayout
	}

	ct, err := codec.IntCodec(bits, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bits)
	}

	return &demuxer{
		dec: dec,
		track: codec.Track{ID: 0, Params: codec.CodecParams{
			Codec:       ct,
			SampleRate:  format.SampleRate,
			Channels:    format.NumChannels,
			TotalFrames: total,
		}},
		width: codec.SampleWidth(ct),
		ints: &goaudio.IntBuffer{
			Data:   make([]int, packetFrames*format.NumChannels),
			Format: format,
		},
	}, nil
}

func (d *demuxer) Tracks() []codec.Track             { return []codec.Track{d.track} }
func (d *demuxer) DefaultTrack() (codec.Track, bool) { return d.track, true }
func (d *demuxer) Close() error                      { return nil }

func (d *demuxer) NextPacket() (*codec.Packet, error) {
	if d.done {
		return nil, io.EOF
	}

	n, err := d.dec.PCMBuffer(d.ints)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode aiff: %w", err)
	}
	// A short read means the sound data chunk is exhausted.
	if err != nil || n < len(d.ints.Data) {
		d.done = true
	}
	if n == 0 {
		return nil, io.EOF
	}

	d.out = d.out[:0]
	for _, v := range d.ints.Data[:n] {
		d.out = codec.AppendInt(d.out, d.width, int32(v))
	}

	pkt := &codec.Packet{TrackID: d.track.ID, Timestamp: d.pos, Data: d.out}
	d.pos += int64(n / d.track.Params.Channels)
	return pkt, nil
}
