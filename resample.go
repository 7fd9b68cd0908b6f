// SPDX-License-Identifier: EPL-2.0

package crushr

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/crushr/audio"
	"github.com/ik5/crushr/utils"
)

// ResampleToMono16 reads src to the end through a Resampler and a
// MonoMixer and returns the result as 16-bit PCM at targetRate.
// bufferSize is the float32 scratch size used per read.
//
// src is not closed.
func ResampleToMono16(src audio.Source, targetRate int, bufferSize int) ([]int16, int, error) {
	mono := audio.NewMonoMixer(audio.NewResampler(src, targetRate))

	pcm16 := make([]int16, 0, targetRate*2)
	buf := make([]float32, bufferSize)

	for {
		n, err := mono.ReadSamples(buf)
		for _, x := range buf[:n] {
			pcm16 = append(pcm16, utils.Float32ToInt16(x))
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, targetRate, fmt.Errorf("%w", err)
		}
	}

	return pcm16, targetRate, nil
}
