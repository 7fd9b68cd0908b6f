// SPDX-License-Identifier: EPL-2.0

// Package tags reads descriptive metadata from audio files being imported.
package tags

import (
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
)

// Info is the subset of tag data the library records.
type Info struct {
	Title  string
	Artist string
	Album  string
}

// Read returns the ID3v2 tags of path. Files without a usable tag get the
// file name without extension as title.
func Read(path string) Info {
	info := Info{}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err == nil {
		defer tag.Close()
		info = Info{
			Title:  strings.TrimSpace(tag.Title()),
			Artist: strings.TrimSpace(tag.Artist()),
			Album:  strings.TrimSpace(tag.Album()),
		}
	}

	if info.Title == "" {
		info.Title = TitleFromPath(path)
	}
	return info
}

// TitleFromPath derives a title from a file name.
func TitleFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
