// SPDX-License-Identifier: EPL-2.0

package tags_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bogem/id3v2/v2"

	"github.com/ik5/crushr/internal/tags"
)

func TestReadID3(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "song.mp3")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	tag := id3v2.NewEmptyTag()
	tag.SetTitle("Blue in Green")
	tag.SetArtist("Miles Davis")
	tag.SetAlbum("Kind of Blue")
	if _, err := tag.WriteTo(f); err != nil {
		t.Fatalf("write tag: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got := tags.Read(path)
	want := tags.Info{Title: "Blue in Green", Artist: "Miles Davis", Album: "Kind of Blue"}
	if got != want {
		t.Fatalf("Read() = %+v, want %+v", got, want)
	}
}

func TestReadFallsBackToFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content []byte
		create  bool
	}{
		{name: "untagged", content: []byte("RIFF....WAVE"), create: true},
		{name: "missing", create: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "Take Five.wav")
			if tt.create {
				if err := os.WriteFile(path, tt.content, 0o644); err != nil {
					t.Fatalf("write: %v", err)
				}
			}

			if got := tags.Read(path); got.Title != "Take Five" {
				t.Fatalf("Title = %q, want %q", got.Title, "Take Five")
			}
		})
	}
}
