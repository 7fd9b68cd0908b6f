// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/crushr/codec"
)

const (
	// go-mp3 always produces interleaved stereo s16le.
	channels     = 2
	frameBytes   = channels * 2
	packetFrames = 4096
)

// mp3Reader is the part of gomp3.Decoder the demuxer needs; tests swap it.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
}

// Format registers MP3 with a codec.Probe.
func Format() codec.Format {
	return codec.Format{
		Name:       "mp3",
		Extensions: []string{"mp3"},
		Match: func(h []byte) bool {
			if bytes.HasPrefix(h, []byte("ID3")) {
				return true
			}
			// MPEG-1/2 layer III frame sync.
			return len(h) >= 2 && h[0] == 0xFF && h[1]&0xE6 == 0xE2
		},
		NewDemuxer: NewDemuxer,
	}
}

type demuxer struct {
	dec   mp3Reader
	track codec.Track
	buf   []byte
	pos   int64
	done  bool
}

// NewDemuxer decodes r with go-mp3 and packetizes its PCM output.
func NewDemuxer(r io.Reader) (codec.Demuxer, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	var total int64
	if n := dec.Length(); n > 0 {
		total = n / frameBytes
	}

	return newDemuxer(dec, total), nil
}

func newDemuxer(dec mp3Reader, total int64) *demuxer {
	return &demuxer{
		dec: dec,
		track: codec.Track{ID: 0, Params: codec.CodecParams{
			Codec:       codec.PCMS16LE,
			SampleRate:  dec.SampleRate(),
			Channels:    channels,
			TotalFrames: total,
		}},
		buf: make([]byte, packetFrames*frameBytes),
	}
}

func (d *demuxer) Tracks() []codec.Track             { return []codec.Track{d.track} }
func (d *demuxer) DefaultTrack() (codec.Track, bool) { return d.track, true }
func (d *demuxer) Close() error                      { return nil }

func (d *demuxer) NextPacket() (*codec.Packet, error) {
	if d.done {
		return nil, io.EOF
	}

	n, err := io.ReadFull(d.dec, d.buf)
	if err != nil {
		if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("decode mp3: %w", err)
		}
		d.done = true
		if n == 0 {
			return nil, io.EOF
		}
	}

	pkt := &codec.Packet{TrackID: d.track.ID, Timestamp: d.pos, Data: d.buf[:n]}
	d.pos += int64(n / frameBytes)
	return pkt, nil
}
