// SPDX-License-Identifier: EPL-2.0

// Command crushr manages a local audio library: it imports files into the
// library's blob store, lists and inspects tracks, exports them as 16-bit
// mono WAV, and renders filtered copies through the transform pipeline.
//
// Usage:
//
//	crushr config init
//	crushr import song.flac other.mp3
//	crushr query --title blue
//	crushr get <track-id>
//	crushr export <track-id> out.wav --rate 16000
//	crushr filter <track-id> out.wav --gain 0.5 --lowpass 2000
//	crushr rm <track-id>
package main
