// SPDX-License-Identifier: EPL-2.0

// Package vorbis demuxes Ogg Vorbis through github.com/jfreymuth/oggvorbis.
//
// # Detection
//
// Format matches an Ogg page whose first packet is a Vorbis identification
// header. Other Ogg payloads such as Opus are left to the "ogg" and "oga"
// extension hints, where NewDemuxer then rejects them:
//
//	p := codec.NewProbe(vorbis.Format())
//	s, err := p.OpenSession(f, "take.ogg", codec.DefaultRegistry(), codec.DecoderOptions{})
//
// # Decoding
//
// The library decodes to float32, so packets carry pcm_f32le with the
// stream's own channel count and sample rate:
//
//	d, err := vorbis.NewDemuxer(f)
//	if err != nil {
//	    return err
//	}
//	s, err := codec.NewSession(d, codec.DefaultRegistry(), codec.DecoderOptions{Verify: true})
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
// With Verify set, a packet holding NaN or Inf is skipped and counted in
// PacketsSkipped instead of reaching the consumer.
//
// # Length
//
// TotalFrames comes from the granule position of the last page when the
// reader allows seeking, and is zero otherwise.
package vorbis
