// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/crushr/codec"
	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
)

// flacStream is the part of flac.Stream the demuxer needs.
type flacStream interface {
	ParseNext() (*frame.Frame, error)
	Close() error
}

// Format registers FLAC with a codec.Probe.
func Format() codec.Format {
	return codec.Format{
		Name:       "flac",
		Extensions: []string{"flac"},
		Match: func(h []byte) bool {
			return bytes.HasPrefix(h, []byte("fLaC"))
		},
		NewDemuxer: NewDemuxer,
	}
}

type demuxer struct {
	stream flacStream
	track  codec.Track
	width  int
	shift  int
	out    []byte
	pos    int64
}

// NewDemuxer parses the stream info block of r. Each FLAC frame becomes one
// integer PCM packet at the stream's bit depth.
func NewDemuxer(r io.Reader) (codec.Demuxer, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	info := stream.Info
	d, err := newDemuxer(stream, int(info.SampleRate), int(info.NChannels), int(info.BitsPerSample), int64(info.NSamples))
	if err != nil {
		_ = stream.Close()
		return nil, err
	}
	return d, nil
}

func newDemuxer(stream flacStream, rate, channels, bits int, total int64) (*demuxer, error) {
	// Odd depths such as 12 or 20 bits are widened to the next container.
	container := (bits + 7) / 8 * 8
	ct, err := codec.IntCodec(container, false)
	if err != nil {
		return nil, err
	}

	return &demuxer{
		stream: stream,
		track: codec.Track{ID: 0, Params: codec.CodecParams{
			Codec:       ct,
			SampleRate:  rate,
			Channels:    channels,
			TotalFrames: total,
		}},
		width: codec.SampleWidth(ct),
		shift: container - bits,
	}, nil
}

func (d *demuxer) Tracks() []codec.Track             { return []codec.Track{d.track} }
func (d *demuxer) DefaultTrack() (codec.Track, bool) { return d.track, true }

func (d *demuxer) Close() error {
	if err := d.stream.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}

func (d *demuxer) NextPacket() (*codec.Packet, error) {
	f, err := d.stream.ParseNext()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("parse flac frame: %w", err)
	}

	pkt := &codec.Packet{TrackID: d.track.ID, Timestamp: d.pos, Channels: len(f.Subframes)}
	if len(f.Subframes) == 0 {
		return pkt, nil
	}

	frames := len(f.Subframes[0].Samples)
	d.out = d.out[:0]
	for i := range frames {
		for _, sub := range f.Subframes {
			d.out = codec.AppendInt(d.out, d.width, sub.Samples[i]<<d.shift)
		}
	}

	pkt.Data = d.out
	d.pos += int64(frames)
	return pkt, nil
}
