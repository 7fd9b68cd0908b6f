// SPDX-License-Identifier: EPL-2.0

package crushr_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/crushr"
	"github.com/ik5/crushr/audio"
	"github.com/ik5/crushr/codec"
	"github.com/ik5/crushr/formats/wav"
)

// Example_readNextAsSamples drains a session one packet at a time.
func Example_readNextAsSamples() {
	var data bytes.Buffer
	_ = wav.WriteWAV16(&data, audio.SignalSpec{Rate: 8000, Channels: 1}, []int16{100, -100, 200, -200, 300, -300})

	s, err := crushr.Open(&data, "clip.wav", codec.DecoderOptions{})
	if err != nil {
		fmt.Println(err)
		return
	}
	defer s.Close()

	dst := audio.NewSampleBuffer[int16](s.SignalSpec(), 4096)
	for {
		err := codec.ReadNextAsSamples(s, dst)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println(dst.Samples())
	}

	fmt.Println(s.SignalSpec(), s.FramesDecoded())
	// Output:
	// [100 -100 200 -200 300 -300]
	// 8000 Hz, 1 ch 6
}

// Example_resampleToMono16 downsamples one second of 44.1 kHz audio.
func Example_resampleToMono16() {
	samples := make([]int16, 44100)
	for i := range samples {
		samples[i] = int16(i % 1000)
	}

	var data bytes.Buffer
	_ = wav.WriteWAV16(&data, audio.SignalSpec{Rate: 44100, Channels: 1}, samples)

	s, _ := crushr.Open(&data, "", codec.DecoderOptions{})
	pcm16, rate, err := crushr.ResampleToMono16(codec.NewSessionSource(s), 8000, 4096)
	if err != nil {
		panic(err)
	}

	fmt.Printf("Output: %d Hz, %d samples\n", rate, len(pcm16))
	// Output: Output: 8000 Hz, 8000 samples
}
