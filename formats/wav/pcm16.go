// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/crushr/audio"
)

// WriteWAV16 writes interleaved 16-bit PCM with a canonical header in one
// pass. It needs no seeking, unlike Writer.
func WriteWAV16(w io.Writer, spec audio.SignalSpec, samples []int16) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if len(samples)%spec.Channels != 0 {
		return audio.ErrInvalidDstSize
	}

	blockAlign := spec.Channels * 2
	dataSize := uint32(len(samples) * 2)

	header := make([]byte, headerSize)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], 36+dataSize)
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], formatPCM)
	binary.LittleEndian.PutUint16(header[22:24], uint16(spec.Channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(spec.Rate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(spec.Rate*blockAlign))
	binary.LittleEndian.PutUint16(header[32:34], uint16(blockAlign))
	binary.LittleEndian.PutUint16(header[34:36], 16)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w", err)
	}

	// Write 8K samples at a time to bound the scratch buffer.
	const chunk = 8192
	buf := make([]byte, 0, min(len(samples), chunk)*2)

	for i := 0; i < len(samples); i += chunk {
		buf = buf[:0]
		for _, s := range samples[i:min(i+chunk, len(samples))] {
			buf = binary.LittleEndian.AppendUint16(buf, uint16(s))
		}
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}
