// SPDX-License-Identifier: EPL-2.0

// Package flac demuxes FLAC streams through github.com/mewkiz/flac.
//
// # Detection
//
// Format matches the "fLaC" stream marker and the "flac" extension:
//
//	p := codec.NewProbe(flac.Format())
//	s, err := p.OpenSession(f, "", codec.DefaultRegistry(), codec.DecoderOptions{})
//
// # Decoding
//
// Subframes are interleaved into little-endian integer PCM at the stream's
// bit depth. Odd depths such as 12 or 20 bits are widened to the next
// byte container and shifted up, so they decode at full scale:
//
//	d, err := flac.NewDemuxer(f)
//	if err != nil {
//	    return err
//	}
//	s, err := codec.NewSession(d, codec.DefaultRegistry(), codec.DecoderOptions{})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	dst := audio.NewSampleBuffer[float32](s.SignalSpec(), 8192)
//	err = codec.ReadNextAsSamples(s, dst)
//
// Each FLAC frame becomes one packet, so a buffer of 8192 frames holds any
// block the format allows at common settings.
//
// # Error Handling
//
// A frame whose subframe count differs from the stream info is flagged on
// its packet so the session fails with codec.ErrLayoutChanged instead of
// mixing layouts. Frame CRC mismatches reported by the library fail the
// session as well.
package flac
