// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/crushr/codec"
)

const (
	formatPCM        = 0x0001
	formatIEEEFloat  = 0x0003
	formatExtensible = 0xFFFE

	// packetFrames is how many frames each packet carries.
	packetFrames = 4096
)

// Format registers WAV with a codec.Probe.
func Format() codec.Format {
	return codec.Format{
		Name:       "wav",
		Extensions: []string{"wav", "wave"},
		Match: func(h []byte) bool {
			return len(h) >= 12 && bytes.Equal(h[:4], []byte("RIFF")) && bytes.Equal(h[8:12], []byte("WAVE"))
		},
		NewDemuxer: NewDemuxer,
	}
}

type fmtChunk struct {
	tag        uint16
	channels   int
	sampleRate int
	blockAlign int
	bits       int
}

func (f fmtChunk) codec() (codec.CodecType, error) {
	switch f.tag {
	case formatPCM:
		return codec.IntCodec(f.bits, f.bits == 8)
	case formatIEEEFloat:
		switch f.bits {
		case 32:
			return codec.PCMF32LE, nil
		case 64:
			return codec.PCMF64LE, nil
		}
	}
	return "", fmt.Errorf("%w: tag %#04x, %d bits", ErrUnsupportedFormat, f.tag, f.bits)
}

type demuxer struct {
	r         io.Reader
	track     codec.Track
	remaining int64 // bytes left in the data chunk, -1 when unbounded
	frameSize int
	pos       int64
	buf       []byte
	tail      []byte
}

// NewDemuxer walks the RIFF chunks of r up to the data chunk.
func NewDemuxer(r io.Reader) (codec.Demuxer, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNotWavFile, err)
	}
	if !bytes.Equal(riff[:4], []byte("RIFF")) || !bytes.Equal(riff[8:12], []byte("WAVE")) {
		return nil, ErrNotWavFile
	}

	var (
		format  *fmtChunk
		hdr     [8]byte
		dataLen int64
	)

	for {
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			if format == nil {
				return nil, fmt.Errorf("%w: fmt", ErrMissingChunk)
			}
			return nil, fmt.Errorf("%w: data", ErrMissingChunk)
		}
		id := string(hdr[:4])
		size := int64(binary.LittleEndian.Uint32(hdr[4:8]))

		if id == "data" {
			dataLen = size
			break
		}

		if id == "fmt " {
			f, err := readFmt(r, size)
			if err != nil {
				return nil, err
			}
			format = f
			continue
		}

		if _, err := io.CopyN(io.Discard, r, size+size&1); err != nil {
			return nil, fmt.Errorf("skip %q chunk: %w", id, err)
		}
	}

	if format == nil {
		return nil, fmt.Errorf("%w: fmt before data", ErrMissingChunk)
	}

	ct, err := format.codec()
	if err != nil {
		return nil, err
	}

	frameSize := format.channels * codec.SampleWidth(ct)
	if format.blockAlign != frameSize {
		return nil, fmt.Errorf("%w: block align %d, expected %d", ErrUnsupportedWavLayout, format.blockAlign, frameSize)
	}

	// Streaming writers leave the size at zero or all ones.
	remaining := dataLen
	if dataLen == 0 || dataLen == 0xFFFFFFFF {
		remaining = -1
	}

	var total int64
	if remaining > 0 {
		total = remaining / int64(frameSize)
	}

	return &demuxer{
		r: r,
		track: codec.Track{ID: 0, Params: codec.CodecParams{
			Codec:       ct,
			SampleRate:  format.sampleRate,
			Channels:    format.channels,
			TotalFrames: total,
		}},
		remaining: remaining,
		frameSize: frameSize,
		buf:       make([]byte, packetFrames*frameSize),
	}, nil
}

func readFmt(r io.Reader, size int64) (*fmtChunk, error) {
	if size < 16 {
		return nil, fmt.Errorf("%w: fmt chunk of %d bytes", ErrUnsupportedWavLayout, size)
	}

	raw := make([]byte, size+size&1)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("read fmt chunk: %w", err)
	}

	f := &fmtChunk{
		tag:        binary.LittleEndian.Uint16(raw[0:2]),
		channels:   int(binary.LittleEndian.Uint16(raw[2:4])),
		sampleRate: int(binary.LittleEndian.Uint32(raw[4:8])),
		blockAlign: int(binary.LittleEndian.Uint16(raw[12:14])),
		bits:       int(binary.LittleEndian.Uint16(raw[14:16])),
	}

	// WAVE_FORMAT_EXTENSIBLE keeps the real tag in the first two bytes of
	// the sub-format GUID.
	if f.tag == formatExtensible {
		if size < 40 {
			return nil, fmt.Errorf("%w: short extensible fmt", ErrUnsupportedWavLayout)
		}
		f.tag = binary.LittleEndian.Uint16(raw[24:26])
	}

	if f.channels == 0 {
		return nil, fmt.Errorf("%w: zero channels", ErrUnsupportedWavLayout)
	}
	return f, nil
}

func (d *demuxer) Tracks() []codec.Track             { return []codec.Track{d.track} }
func (d *demuxer) DefaultTrack() (codec.Track, bool) { return d.track, true }
func (d *demuxer) Close() error                      { return nil }

func (d *demuxer) NextPacket() (*codec.Packet, error) {
	if d.tail != nil {
		pkt := &codec.Packet{TrackID: d.track.ID, Timestamp: d.pos, Data: d.tail}
		d.tail = nil
		return pkt, nil
	}
	if d.remaining == 0 {
		return nil, io.EOF
	}

	want := int64(len(d.buf))
	if d.remaining > 0 {
		want = min(want, d.remaining)
	}

	n, err := io.ReadFull(d.r, d.buf[:want])
	if n == 0 {
		if err == nil || errors.Is(err, io.ErrUnexpectedEOF) {
			err = io.EOF
		}
		return nil, err
	}
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read data chunk: %w", err)
	}

	if d.remaining > 0 {
		d.remaining -= int64(n)
	}
	if err != nil {
		// Truncated file. Whole frames go out first, the dangling bytes
		// follow as their own packet.
		d.remaining = 0
		if whole := n - n%d.frameSize; whole > 0 && whole < n {
			d.tail = bytes.Clone(d.buf[whole:n])
			n = whole
		}
	}

	pkt := &codec.Packet{
		TrackID:   d.track.ID,
		Timestamp: d.pos,
		Data:      d.buf[:n],
	}
	d.pos += int64(n / d.frameSize)

	return pkt, nil
}
