// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"github.com/ik5/crushr/audio"
	"github.com/ik5/crushr/codec"
)

// PacketFrames is the frame count of packets built by FloatSession.
const PacketFrames = 1024

// FloatSession returns a decode session replaying interleaved samples as
// pcm_f32le packets.
func FloatSession(spec audio.SignalSpec, samples []float64) (*codec.Session, error) {
	params := codec.CodecParams{
		Codec:       codec.PCMF32LE,
		SampleRate:  spec.Rate,
		Channels:    spec.Channels,
		TotalFrames: int64(len(samples) / spec.Channels),
	}

	var steps []Step
	step := PacketFrames * spec.Channels
	for start := 0; start < len(samples); start += step {
		end := min(start+step, len(samples))
		data := make([]float32, 0, end-start)
		for _, v := range samples[start:end] {
			data = append(data, float32(v))
		}
		steps = append(steps, Step{Packet: &codec.Packet{
			TrackID:   1,
			Timestamp: int64(start / spec.Channels),
			Channels:  spec.Channels,
			Data:      F32(data...),
		}})
	}

	return codec.NewSession(NewDemuxer(params, steps...), codec.DefaultRegistry(), codec.DecoderOptions{})
}
