// SPDX-License-Identifier: EPL-2.0

package crushr

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ik5/crushr/codec"
	"github.com/ik5/crushr/formats/aiff"
	"github.com/ik5/crushr/formats/flac"
	"github.com/ik5/crushr/formats/mp3"
	"github.com/ik5/crushr/formats/vorbis"
	"github.com/ik5/crushr/formats/wav"
)

// NewProbe returns a probe knowing every bundled container format.
func NewProbe() *codec.Probe {
	return codec.NewProbe(
		wav.Format(),
		flac.Format(),
		aiff.Format(),
		vorbis.Format(),
		mp3.Format(),
	)
}

// Open starts a decode session on r using the bundled formats and the
// default PCM registry. hint is a file name or extension.
func Open(r io.Reader, hint string, opts codec.DecoderOptions) (*codec.Session, error) {
	return NewProbe().OpenSession(r, hint, codec.DefaultRegistry(), opts)
}

// fileDemuxer closes the file along with the demuxer.
type fileDemuxer struct {
	codec.Demuxer
	f *os.File
}

func (d fileDemuxer) Close() error {
	derr := d.Demuxer.Close()
	if err := d.f.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return derr
}

// OpenFile opens path and starts a decode session on it. Closing the
// session closes the file.
func OpenFile(path string, opts codec.DecoderOptions) (*codec.Session, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	d, err := NewProbe().Open(f, filepath.Base(path))
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	s, err := codec.NewSession(fileDemuxer{Demuxer: d, f: f}, codec.DefaultRegistry(), opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	return s, nil
}
