// SPDX-License-Identifier: EPL-2.0

package crushr

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/crushr/audio"
	"github.com/ik5/crushr/codec"
	"github.com/ik5/crushr/formats/wav"
	"github.com/ik5/crushr/internal/audiotest"
)

func TestNewProbe_Formats(t *testing.T) {
	t.Parallel()

	got := NewProbe().Formats()
	want := []string{"wav", "flac", "aiff", "vorbis", "mp3"}
	if len(got) != len(want) {
		t.Fatalf("Formats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Formats()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestOpen_WAV(t *testing.T) {
	t.Parallel()

	spec := audio.SignalSpec{Rate: 44100, Channels: 1}
	sine := audiotest.Sine(44100, 44100, 440, 0.25)

	var buf bytes.Buffer
	if err := wav.EncodeFloat32(&buf, spec, sine); err != nil {
		t.Fatalf("EncodeFloat32() error = %v", err)
	}

	// No hint: the RIFF magic alone selects the demuxer.
	s, err := Open(&buf, "", codec.DecoderOptions{Verify: true})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	if s.SignalSpec() != spec {
		t.Errorf("SignalSpec() = %v, want %v", s.SignalSpec(), spec)
	}

	got, err := s.ReadAll()
	if err != nil {
		t.Fatalf("ReadAll() error = %v", err)
	}
	if len(got) != len(sine) {
		t.Fatalf("decoded %d samples, want %d", len(got), len(sine))
	}
	for i := range sine {
		if math.Abs(got[i]-sine[i]) > 1e-5 {
			t.Fatalf("sample %d = %v, want %v", i, got[i], sine[i])
		}
	}
}

func TestOpenFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "tone.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := wav.WriteWAV16(f, audio.SignalSpec{Rate: 8000, Channels: 2}, []int16{1, 2, 3, 4}); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	s, err := OpenFile(path, codec.DecoderOptions{})
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}

	pcm, rate, err := ResampleToMono16(codec.NewSessionSource(s), 8000, 64)
	if err != nil {
		t.Fatalf("ResampleToMono16() error = %v", err)
	}
	if rate != 8000 || len(pcm) != 2 {
		t.Errorf("got %d samples at %d Hz, want 2 at 8000", len(pcm), rate)
	}

	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestOpenFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if _, err := OpenFile(filepath.Join(dir, "missing.wav"), codec.DecoderOptions{}); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}

	junk := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(junk, []byte("hello"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := OpenFile(junk, codec.DecoderOptions{}); !errors.Is(err, codec.ErrUnknownFormat) {
		t.Errorf("unknown format error = %v", err)
	}
}
