// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/ik5/crushr/codec"
	"github.com/jfreymuth/oggvorbis"
)

const packetFrames = 4096

// oggReader is the part of oggvorbis.Reader the demuxer needs.
type oggReader interface {
	SampleRate() int
	Channels() int
	// Read fills p with interleaved samples and returns how many it wrote.
	Read(p []float32) (int, error)
}

// Format registers Ogg Vorbis with a codec.Probe. Other Ogg payloads such
// as Opus fall through to the extension hint.
func Format() codec.Format {
	return codec.Format{
		Name:       "vorbis",
		Extensions: []string{"ogg", "oga"},
		Match: func(h []byte) bool {
			return bytes.HasPrefix(h, []byte("OggS")) && bytes.Contains(h, []byte("\x01vorbis"))
		},
		NewDemuxer: NewDemuxer,
	}
}

type demuxer struct {
	dec   oggReader
	track codec.Track
	pcm   []float32
	out   []byte
	pos   int64
	done  bool
}

// NewDemuxer decodes r with oggvorbis and packetizes the float output as
// pcm_f32le.
func NewDemuxer(r io.Reader) (codec.Demuxer, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	return newDemuxer(dec, dec.Length()), nil
}

func newDemuxer(dec oggReader, total int64) *demuxer {
	ch := dec.Channels()
	return &demuxer{
		dec: dec,
		track: codec.Track{ID: 0, Params: codec.CodecParams{
			Codec:       codec.PCMF32LE,
			SampleRate:  dec.SampleRate(),
			Channels:    ch,
			TotalFrames: max(total, 0),
		}},
		pcm: make([]float32, packetFrames*ch),
	}
}

func (d *demuxer) Tracks() []codec.Track             { return []codec.Track{d.track} }
func (d *demuxer) DefaultTrack() (codec.Track, bool) { return d.track, true }
func (d *demuxer) Close() error                      { return nil }

func (d *demuxer) NextPacket() (*codec.Packet, error) {
	ch := d.track.Params.Channels

	n := 0
	for !d.done && n < len(d.pcm) {
		got, err := d.dec.Read(d.pcm[n:])
		n += got
		if errors.Is(err, io.EOF) {
			d.done = true
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode vorbis: %w", err)
		}
		if got == 0 {
			break
		}
	}

	n -= n % ch
	if n == 0 {
		return nil, io.EOF
	}

	d.out = d.out[:0]
	for _, v := range d.pcm[:n] {
		d.out = binary.LittleEndian.AppendUint32(d.out, math.Float32bits(v))
	}

	pkt := &codec.Packet{TrackID: d.track.ID, Timestamp: d.pos, Data: d.out}
	d.pos += int64(n / ch)
	return pkt, nil
}
