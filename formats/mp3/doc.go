// SPDX-License-Identifier: EPL-2.0

// Package mp3 demuxes MPEG layer III audio through
// github.com/hajimehoshi/go-mp3.
//
// # Detection
//
// Format matches an ID3v2 tag or an MPEG-1/2 layer III frame sync in the
// first bytes, and the "mp3" extension otherwise:
//
//	p := codec.NewProbe(mp3.Format())
//	s, err := p.OpenSession(f, "track.mp3", codec.DefaultRegistry(), codec.DecoderOptions{})
//
// # Decoding
//
// go-mp3 decodes internally, so packets already carry interleaved stereo
// pcm_s16le and the default codec.Registry can decode them:
//
//	d, err := mp3.NewDemuxer(f)
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
// Mono files come out as two identical channels. The sample rate is the
// one of the first frame.
//
// # Length
//
// TotalFrames is filled in when go-mp3 can work out the stream length,
// which needs a seekable reader. Otherwise it is zero and the length is
// only known once the stream has been drained:
//
//	n := s.FramesDecoded()
//
// # Error Handling
//
// NewDemuxer returns the go-mp3 error for input it cannot sync to. A
// truncated final frame ends the stream with io.EOF.
package mp3
