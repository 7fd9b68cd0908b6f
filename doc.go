// SPDX-License-Identifier: EPL-2.0

// Package crushr decodes audio files into PCM and wires the bundled
// container formats together.
//
// # Supported Formats
//
//   - WAV (integer PCM 8 to 32 bits, IEEE float 32/64) via formats/wav
//   - FLAC via formats/flac
//   - AIFF via formats/aiff
//   - Ogg Vorbis via formats/vorbis
//   - MP3 via formats/mp3
//
// # Quick Start
//
//	s, err := crushr.OpenFile("song.flac", codec.DecoderOptions{})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	dst := audio.NewSampleBuffer[float32](s.SignalSpec(), 8192)
//	for {
//	    err := codec.ReadNextAsSamples(s, dst)
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	    // use dst.Samples()
//	}
//
// A session also plugs into the float32 Source chain:
//
//	pcm, rate, err := crushr.ResampleToMono16(codec.NewSessionSource(s), 16000, 4096)
//
// Storage, the track library and the transform pipeline live in the
// storage, library and pipeline packages.
package crushr
