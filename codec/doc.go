// SPDX-License-Identifier: EPL-2.0

// Package codec turns container packets into PCM.
//
// The package defines the seams every audio format plugs into:
//   - Demuxer splits a container into per-track packets
//   - Decoder turns one track's packets into audio.Buffer values
//   - Registry maps a CodecType to the factory building its Decoder
//   - Probe detects a container from its first bytes or a file name
//   - Session binds one demuxer to one decoder and pulls PCM out of it
//
// # Opening a Stream
//
// A Probe knows a list of formats and picks one by magic number, falling
// back to the extension of a hint:
//
//	p := codec.NewProbe(wav.Format(), flac.Format())
//	s, err := p.OpenSession(f, "song.flac", codec.DefaultRegistry(), codec.DecoderOptions{})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
// When the container is already known, build the session directly:
//
//	d, err := wav.NewDemuxer(f)
//	s, err := codec.NewSession(d, codec.DefaultRegistry(), codec.DecoderOptions{})
//
// # Decoding
//
// ConsumeNext decodes one packet of the selected track and hands the
// buffer to a callback. The buffer is reused by the next call, so copy
// what must outlive the callback:
//
//	for {
//	    err := s.ConsumeNext(func(b *audio.Buffer) error {
//	        // use b
//	        return nil
//	    })
//	    if errors.Is(err, io.EOF) {
//	        break
//	    }
//	    if err != nil {
//	        return err
//	    }
//	}
//
// ForEach runs the same loop and treats io.EOF as success. ReadAll collects
// the rest of the stream as interleaved float64, and ReadNextAsSamples
// converts into a typed audio.SampleBuffer.
//
// # Session Lifecycle
//
// A session starts in StateReady, moves to StateDraining with the first
// decode call and ends in StateEOF or StateFailed. Both end states are
// sticky: every later call returns the same error. Close releases the
// demuxer and fails a session that had not ended with ErrSessionClosed.
//
// # Error Handling
//
// Decoders report per-packet failures as *DecodeError. A recoverable one
// costs only its packet; the session counts it in PacketsSkipped and reads
// on:
//
//	if codec.IsRecoverable(err) {
//	    // the packet was dropped
//	}
//
// Anything else fails the session. Sentinel errors such as ErrUnknownFormat
// and ErrUnsupportedCodec are wrapped with context and match errors.Is.
//
// # PCM Codecs
//
// DefaultRegistry covers little-endian integer PCM of 8 to 32 bits and IEEE
// float of 32 and 64 bits. Samples come out normalized to [-1.0, 1.0].
// Setting DecoderOptions.Verify drops float packets holding NaN or Inf as
// recoverable errors.
//
// # Source Adapter
//
// SessionSource exposes a session as an audio.Source so it can feed the
// float32 resampling and mixing chain:
//
//	src := codec.NewSessionSource(s)
//	mono := audio.NewMonoMixer(src)
package codec
