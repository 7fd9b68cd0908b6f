// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"github.com/ik5/crushr/audio"
)

// CodecType identifies how a track's packets are encoded.
type CodecType string

const (
	PCMU8    CodecType = "pcm_u8"
	PCMS8    CodecType = "pcm_s8"
	PCMS16LE CodecType = "pcm_s16le"
	PCMS24LE CodecType = "pcm_s24le"
	PCMS32LE CodecType = "pcm_s32le"
	PCMF32LE CodecType = "pcm_f32le"
	PCMF64LE CodecType = "pcm_f64le"
)

// CodecParams describes one track's encoding. Zero SampleRate means the
// container did not report one.
type CodecParams struct {
	Codec      CodecType
	SampleRate int
	Channels   int
	// TotalFrames is zero when unknown.
	TotalFrames int64
}

// SignalSpec derives the PCM layout, falling back to audio.DefaultSampleRate.
func (p CodecParams) SignalSpec() audio.SignalSpec {
	rate := p.SampleRate
	if rate <= 0 {
		rate = audio.DefaultSampleRate
	}
	return audio.SignalSpec{Rate: rate, Channels: p.Channels}
}

// Track is one elementary stream inside a container.
type Track struct {
	ID     uint32
	Params CodecParams
}

// Packet is one unit of encoded data belonging to a track. Demuxers may
// reuse Data once the next packet is requested.
type Packet struct {
	TrackID uint32
	// Timestamp in frames from the start of the track.
	Timestamp int64
	// Channels overrides the track layout when non-zero.
	Channels int
	Data     []byte
}

// Demuxer splits a container into packets.
type Demuxer interface {
	Tracks() []Track
	// DefaultTrack reports false when the container has nothing playable.
	DefaultTrack() (Track, bool)
	// NextPacket returns io.EOF once the container is exhausted.
	NextPacket() (*Packet, error)
	Close() error
}

// Decoder turns a track's packets into PCM. The returned Buffer is reused
// by the next call to Decode.
type Decoder interface {
	Params() CodecParams
	Decode(pkt *Packet) (*audio.Buffer, error)
	Reset()
}

// DecoderOptions tune decoder behavior.
type DecoderOptions struct {
	// Verify rejects packets that decode to NaN or Inf samples.
	Verify bool
}

// DecoderFactory builds a decoder for one track.
type DecoderFactory func(params CodecParams, opts DecoderOptions) (Decoder, error)
