// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/ik5/crushr/codec"
)

// Step is one scripted NextPacket result.
type Step struct {
	Packet *codec.Packet
	Err    error
}

// Demuxer replays a fixed script of packets and errors, then io.EOF.
type Demuxer struct {
	TrackList []codec.Track
	Default   int // index into TrackList, -1 for none
	Script    []Step
	pos       int
	closed    bool
}

// NewDemuxer returns a single-track demuxer with params.
func NewDemuxer(params codec.CodecParams, steps ...Step) *Demuxer {
	return &Demuxer{
		TrackList: []codec.Track{{ID: 1, Params: params}},
		Script:    steps,
	}
}

func (d *Demuxer) Tracks() []codec.Track { return d.TrackList }

func (d *Demuxer) DefaultTrack() (codec.Track, bool) {
	if d.Default < 0 || d.Default >= len(d.TrackList) {
		return codec.Track{}, false
	}
	return d.TrackList[d.Default], true
}

func (d *Demuxer) NextPacket() (*codec.Packet, error) {
	if d.pos >= len(d.Script) {
		return nil, io.EOF
	}
	step := d.Script[d.pos]
	d.pos++
	return step.Packet, step.Err
}

func (d *Demuxer) Close() error {
	d.closed = true
	return nil
}

func (d *Demuxer) Closed() bool { return d.closed }

// Packet wraps data as a packet of track 1.
func Packet(data []byte) Step {
	return Step{Packet: &codec.Packet{TrackID: 1, Data: data}}
}

// S16 encodes samples as pcm_s16le bytes.
func S16(samples ...int16) []byte {
	out := make([]byte, 0, len(samples)*2)
	for _, s := range samples {
		out = binary.LittleEndian.AppendUint16(out, uint16(s))
	}
	return out
}

// F32 encodes samples as pcm_f32le bytes.
func F32(samples ...float32) []byte {
	out := make([]byte, 0, len(samples)*4)
	for _, s := range samples {
		out = binary.LittleEndian.AppendUint32(out, math.Float32bits(s))
	}
	return out
}

// Sine returns frames samples of a sine wave at freq Hz and amplitude amp.
func Sine(rate, frames int, freq, amp float64) []float64 {
	out := make([]float64, frames)
	for i := range out {
		out[i] = amp * math.Sin(2*math.Pi*freq*float64(i)/float64(rate))
	}
	return out
}
