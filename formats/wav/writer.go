// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/crushr/audio"
	"github.com/ik5/crushr/utils"
)

// Encoding selects the sample format of written WAV data.
type Encoding int

const (
	Float32 Encoding = iota
	PCM16
	PCM24
)

func (e Encoding) String() string {
	switch e {
	case Float32:
		return "float32"
	case PCM16:
		return "pcm16"
	case PCM24:
		return "pcm24"
	}
	return fmt.Sprintf("Encoding(%d)", int(e))
}

// BitDepth of one sample.
func (e Encoding) BitDepth() int {
	switch e {
	case PCM16:
		return 16
	case PCM24:
		return 24
	}
	return 32
}

// ParseEncoding accepts the names returned by Encoding.String.
func ParseEncoding(s string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "float32", "f32":
		return Float32, nil
	case "pcm16", "s16":
		return PCM16, nil
	case "pcm24", "s24":
		return PCM24, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownEncoding, s)
}

const headerSize = 44

// floatHeader builds a canonical 44 byte header for IEEE float data.
func floatHeader(spec audio.SignalSpec, dataSize uint32) []byte {
	const bits = 32
	blockAlign := spec.Channels * bits / 8

	h := make([]byte, headerSize)
	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], 36+dataSize)
	copy(h[8:12], "WAVE")
	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], formatIEEEFloat)
	binary.LittleEndian.PutUint16(h[22:24], uint16(spec.Channels))
	binary.LittleEndian.PutUint32(h[24:28], uint32(spec.Rate))
	binary.LittleEndian.PutUint32(h[28:32], uint32(spec.Rate*blockAlign))
	binary.LittleEndian.PutUint16(h[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(h[34:36], bits)
	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], dataSize)
	return h
}

// Writer streams interleaved float64 samples into a WAV file. Sizes are
// patched into the header on Close, so the destination must seek.
type Writer struct {
	ws   io.WriteSeeker
	spec audio.SignalSpec
	enc  Encoding

	ienc        *gowav.Encoder
	ibuf        *goaudio.IntBuffer
	scratch     []byte
	interleaved []float64

	frames int64
	closed bool
}

// NewWriter writes the header and returns a Writer ready for samples.
func NewWriter(ws io.WriteSeeker, spec audio.SignalSpec, enc Encoding) (*Writer, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	w := &Writer{ws: ws, spec: spec, enc: enc}

	switch enc {
	case Float32:
		if _, err := ws.Write(floatHeader(spec, 0)); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	case PCM16, PCM24:
		w.ienc = gowav.NewEncoder(ws, spec.Rate, enc.BitDepth(), spec.Channels, formatPCM)
		w.ibuf = &goaudio.IntBuffer{
			Format:         &goaudio.Format{NumChannels: spec.Channels, SampleRate: spec.Rate},
			SourceBitDepth: enc.BitDepth(),
		}
		// An empty write emits the header and opens the data chunk.
		if err := w.ienc.Write(w.ibuf); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownEncoding, enc)
	}

	return w, nil
}

// Frames returns how many frames have been written.
func (w *Writer) Frames() int64 { return w.frames }

// Write appends interleaved samples in [-1, 1]; values outside are clamped
// for integer encodings.
func (w *Writer) Write(samples []float64) error {
	if w.closed {
		return ErrWriterClosed
	}
	if len(samples)%w.spec.Channels != 0 {
		return audio.ErrInvalidDstSize
	}

	switch w.enc {
	case Float32:
		w.scratch = w.scratch[:0]
		for _, v := range samples {
			w.scratch = binary.LittleEndian.AppendUint32(w.scratch, math.Float32bits(float32(v)))
		}
		if _, err := w.ws.Write(w.scratch); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
	default:
		data := w.ibuf.Data[:0]
		for _, v := range samples {
			if w.enc == PCM16 {
				data = append(data, int(utils.Float64ToInt16(v)))
			} else {
				data = append(data, int(utils.Float64ToInt24(v)))
			}
		}
		w.ibuf.Data = data
		if err := w.ienc.Write(w.ibuf); err != nil {
			return fmt.Errorf("write samples: %w", err)
		}
	}

	w.frames += int64(len(samples) / w.spec.Channels)
	return nil
}

// WriteBuffer appends a decoded buffer.
func (w *Writer) WriteBuffer(b *audio.Buffer) error {
	if b.Spec().Channels != w.spec.Channels {
		return fmt.Errorf("%w: %s vs %s", audio.ErrSpecMismatch, b.Spec(), w.spec)
	}

	n := b.Frames() * w.spec.Channels
	if cap(w.interleaved) < n {
		w.interleaved = make([]float64, n)
	}
	w.interleaved = w.interleaved[:n]
	if _, err := b.CopyInterleaved(w.interleaved); err != nil {
		return err
	}
	return w.Write(w.interleaved)
}

// Close finalizes the header. It does not close the underlying writer.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	if w.enc != Float32 {
		if err := w.ienc.Close(); err != nil {
			return fmt.Errorf("finish wav: %w", err)
		}
		return nil
	}

	dataSize := uint32(w.frames) * uint32(w.spec.Channels*4)
	var size [4]byte

	patch := func(off int64, v uint32) error {
		if _, err := w.ws.Seek(off, io.SeekStart); err != nil {
			return fmt.Errorf("seek header: %w", err)
		}
		binary.LittleEndian.PutUint32(size[:], v)
		if _, err := w.ws.Write(size[:]); err != nil {
			return fmt.Errorf("patch header: %w", err)
		}
		return nil
	}

	if err := patch(4, 36+dataSize); err != nil {
		return err
	}
	if err := patch(40, dataSize); err != nil {
		return err
	}
	if _, err := w.ws.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek end: %w", err)
	}
	return nil
}

// EncodeFloat32 writes a complete float WAV to a plain writer in one pass.
func EncodeFloat32(w io.Writer, spec audio.SignalSpec, samples []float64) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if len(samples)%spec.Channels != 0 {
		return audio.ErrInvalidDstSize
	}

	buf := floatHeader(spec, uint32(len(samples)*4))
	for _, v := range samples {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(float32(v)))
	}

	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
