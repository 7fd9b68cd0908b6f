// SPDX-License-Identifier: EPL-2.0

// Package wav reads and writes RIFF/WAVE files.
//
// # Supported Formats
//
// Reading understands:
//   - Integer PCM of 8, 16, 24 and 32 bits
//   - IEEE float of 32 and 64 bits
//   - WAVE_FORMAT_EXTENSIBLE wrappers of either
//
// Writing produces IEEE float32, PCM16 or PCM24.
//
// # Decoding WAV Files
//
// NewDemuxer walks the chunk list up to the data chunk and emits raw PCM
// packets of 4096 frames. It never seeks, so it reads from pipes too:
//
//	d, err := wav.NewDemuxer(f)
//	if err != nil {
//	    return err
//	}
//	s, err := codec.NewSession(d, codec.DefaultRegistry(), codec.DecoderOptions{})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	samples, err := s.ReadAll()
//
// A data chunk whose size is zero or all ones is read until EOF, as
// streaming encoders leave it.
//
// # Writing WAV Files
//
// Writer streams samples into a seekable destination and fixes the header
// sizes on Close. Float32 data uses a hand-written header; PCM16 and PCM24
// go through github.com/go-audio/wav:
//
//	enc, err := wav.ParseEncoding("pcm24")
//	w, err := wav.NewWriter(f, spec, enc)
//	if err != nil {
//	    return err
//	}
//	err = w.Write(samples)
//	err = w.Close()
//
// WriteBuffer accepts decoded buffers straight from a codec.Session, so a
// file can be transcoded without holding it in memory:
//
//	err = s.ForEach(w.WriteBuffer)
//
// EncodeFloat32 and WriteWAV16 produce a whole file in one pass when the
// samples are already in memory:
//
//	err := wav.EncodeFloat32(&buf, audio.SignalSpec{Rate: 8000, Channels: 1}, samples)
//
// # Error Handling
//
// The package defines several error values:
//   - ErrNotWavFile: the input has no RIFF/WAVE header
//   - ErrUnsupportedFormat: the format tag or bit depth has no codec
//   - ErrUnsupportedWavLayout: the fmt chunk is malformed
//   - ErrMissingChunk: the fmt or data chunk is absent
//   - ErrUnknownEncoding: ParseEncoding was given an unknown name
//   - ErrWriterClosed: Write was called after Close
//
// All of them match errors.Is through any wrapping.
package wav
