// SPDX-License-Identifier: EPL-2.0

// Package aiff demuxes Audio Interchange File Format files through
// github.com/go-audio/aiff.
//
// # Supported Formats
//
// Currently supported:
//   - Uncompressed AIFF at 8, 16, 24 and 32 bits
//   - Any channel count and sample rate
//
// Compressed AIFF-C payloads are not decoded.
//
// # Detection
//
// Format matches a FORM chunk of type AIFF and the "aif" and "aiff"
// extensions:
//
//	p := codec.NewProbe(aiff.Format())
//	s, err := p.OpenSession(f, "loop.aiff", codec.DefaultRegistry(), codec.DecoderOptions{})
//
// # Decoding
//
// AIFF stores big-endian samples. The demuxer re-emits them as
// little-endian integer PCM of the same width so the default codec
// registry can decode them:
//
//	d, err := aiff.NewDemuxer(f)
//	if err != nil {
//	    return err
//	}
//	s, err := codec.NewSession(d, codec.DefaultRegistry(), codec.DecoderOptions{})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	err = s.ForEach(func(b *audio.Buffer) error {
//	    // use b
//	    return nil
//	})
//
// go-audio/aiff needs an io.ReadSeeker, so NewDemuxer buffers the whole
// file in memory first. Prefer WAV or FLAC for long recordings.
//
// # Error Handling
//
// The package defines several error values:
//   - ErrNotAiffFile: the input has no FORM/AIFF header
//   - ErrUnsupportedBitDepth: the sample size has no PCM codec
//   - ErrUnsupportedAiffLayout: the COMM chunk reports no channels
//
// Example:
//
//	d, err := aiff.NewDemuxer(f)
//	if errors.Is(err, aiff.ErrNotAiffFile) {
//	    fmt.Println("Not an AIFF file")
//	}
package aiff
