// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ik5/crushr/audio"
	"github.com/ik5/crushr/utils"
)

// sampleReader decodes one little-endian sample of a fixed width.
type sampleReader func(b []byte) float64

var pcmReaders = map[CodecType]struct {
	width int
	read  sampleReader
	float bool
}{
	PCMU8: {1, func(b []byte) float64 { return utils.Uint8ToFloat64(b[0]) }, false},
	PCMS8: {1, func(b []byte) float64 { return utils.Int8ToFloat64(int8(b[0])) }, false},
	PCMS16LE: {2, func(b []byte) float64 {
		return utils.Int16ToFloat64(int16(binary.LittleEndian.Uint16(b)))
	}, false},
	PCMS24LE: {3, func(b []byte) float64 {
		return utils.Int24ToFloat64(utils.SignExtend24(b[0], b[1], b[2]))
	}, false},
	PCMS32LE: {4, func(b []byte) float64 {
		return utils.Int32ToFloat64(int32(binary.LittleEndian.Uint32(b)))
	}, false},
	PCMF32LE: {4, func(b []byte) float64 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}, true},
	PCMF64LE: {8, func(b []byte) float64 {
		return math.Float64frombits(binary.LittleEndian.Uint64(b))
	}, true},
}

// SampleWidth returns the bytes per sample of a PCM codec, or 0.
func SampleWidth(c CodecType) int {
	return pcmReaders[c].width
}

// IntCodec picks the integer PCM codec for a bit depth. Eight-bit data is
// signed unless unsigned is set.
func IntCodec(bits int, unsigned bool) (CodecType, error) {
	switch bits {
	case 8:
		if unsigned {
			return PCMU8, nil
		}
		return PCMS8, nil
	case 16:
		return PCMS16LE, nil
	case 24:
		return PCMS24LE, nil
	case 32:
		return PCMS32LE, nil
	}
	return "", fmt.Errorf("%w: %d-bit integer PCM", ErrUnsupportedCodec, bits)
}

// AppendInt appends v as a little-endian signed integer of width bytes.
func AppendInt(dst []byte, width int, v int32) []byte {
	switch width {
	case 1:
		return append(dst, byte(int8(v)))
	case 2:
		return binary.LittleEndian.AppendUint16(dst, uint16(int16(v)))
	case 3:
		return append(dst, byte(v), byte(v>>8), byte(v>>16))
	default:
		return binary.LittleEndian.AppendUint32(dst, uint32(v))
	}
}

type pcmDecoder struct {
	params CodecParams
	opts   DecoderOptions
	width  int
	read   sampleReader
	float  bool
	buf    *audio.Buffer
}

// NewPCMDecoder builds a decoder for any of the PCM codec types.
func NewPCMDecoder(params CodecParams, opts DecoderOptions) (Decoder, error) {
	r, ok := pcmReaders[params.Codec]
	if !ok {
		return nil, fmt.Errorf("%w: %q is not PCM", ErrUnsupportedCodec, params.Codec)
	}
	if params.Channels <= 0 {
		return nil, fmt.Errorf("%w: %d channels", audio.ErrInvalidSpec, params.Channels)
	}

	return &pcmDecoder{
		params: params,
		opts:   opts,
		width:  r.width,
		read:   r.read,
		float:  r.float,
		buf:    audio.NewBuffer(params.SignalSpec(), 4096),
	}, nil
}

func (d *pcmDecoder) Params() CodecParams { return d.params }

func (d *pcmDecoder) Reset() { d.buf.Clear() }

func (d *pcmDecoder) Decode(pkt *Packet) (*audio.Buffer, error) {
	ch := d.params.Channels
	if pkt.Channels != 0 && pkt.Channels != ch {
		return nil, fatal(fmt.Errorf("%w: %d != %d", ErrLayoutChanged, pkt.Channels, ch))
	}

	frameSize := d.width * ch
	if len(pkt.Data)%frameSize != 0 {
		return nil, recoverable(fmt.Errorf("%w: %d bytes, frame is %d", ErrPartialFrame, len(pkt.Data), frameSize))
	}

	frames := len(pkt.Data) / frameSize
	d.buf.Resize(frames)

	for c := range ch {
		plane := d.buf.Plane(c)
		off := c * d.width
		for f := range plane {
			v := d.read(pkt.Data[off:])
			if d.float && d.opts.Verify && (math.IsNaN(v) || math.IsInf(v, 0)) {
				d.buf.Clear()
				return nil, recoverable(fmt.Errorf("%w: frame %d channel %d", ErrNonFinite, f, c))
			}
			plane[f] = v
			off += frameSize
		}
	}

	return d.buf, nil
}
