// SPDX-License-Identifier: EPL-2.0

package fsbackend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/ik5/crushr/audio"
	"github.com/ik5/crushr/codec"
	"github.com/ik5/crushr/formats/wav"
	"github.com/ik5/crushr/internal/logging"
	"github.com/ik5/crushr/storage"
)

const (
	libraryFile = "library.json"
	lockFile    = "library.lock"
	audioDir    = "audio"
	artDir      = "art"
)

// Options tunes a Backend.
type Options struct {
	// Encoding of new audio blobs. The zero value is wav.Float32.
	Encoding wav.Encoding
	Logger   *slog.Logger
}

// Backend implements every storage capability on a local directory.
type Backend struct {
	root   string
	enc    wav.Encoding
	logger *slog.Logger
	lock   *flock.Flock

	mu       sync.RWMutex
	tracks   map[string]*storage.Track
	releases map[string]*storage.Release
	artists  map[string]*storage.Artist
}

var (
	_ storage.StructuredReader = (*Backend)(nil)
	_ storage.StructuredWriter = (*Backend)(nil)
	_ storage.BlobReader       = (*Backend)(nil)
	_ storage.BlobWriter       = (*Backend)(nil)
)

// New returns a backend rooted at root. Nothing is touched until Init.
func New(root string, opts Options) *Backend {
	return &Backend{
		root:     root,
		enc:      opts.Encoding,
		logger:   logging.NewComponentLogger(opts.Logger, "fsbackend"),
		lock:     flock.New(filepath.Join(root, lockFile)),
		tracks:   make(map[string]*storage.Track),
		releases: make(map[string]*storage.Release),
		artists:  make(map[string]*storage.Artist),
	}
}

func (b *Backend) Name() string { return "fs:" + b.root }

// document is the on-disk shape of library.json.
type document struct {
	Tracks   []*storage.Track   `json:"tracks"`
	Releases []*storage.Release `json:"releases"`
	Artists  []*storage.Artist  `json:"artists"`
}

// Init creates the directory layout and loads library.json if present.
func (b *Backend) Init(ctx context.Context) error {
	for _, dir := range []string{b.root, filepath.Join(b.root, audioDir), filepath.Join(b.root, artDir)} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := b.lock.RLock(); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	data, err := os.ReadFile(filepath.Join(b.root, libraryFile))
	_ = b.lock.Unlock()

	if errors.Is(err, fs.ErrNotExist) {
		b.logger.Debug("no library file, starting empty", "root", b.root)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", libraryFile, err)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse %s: %w", libraryFile, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, t := range doc.Tracks {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("parse %s: %w", libraryFile, err)
		}
		b.tracks[t.ID] = t
	}
	for _, r := range doc.Releases {
		b.releases[r.ID] = r
	}
	for _, a := range doc.Artists {
		b.artists[a.ID] = a
	}

	b.logger.Debug("library loaded",
		"tracks", len(b.tracks),
		"releases", len(b.releases),
		"artists", len(b.artists),
	)
	return nil
}

// persist writes the records to library.json. Callers hold b.mu.
func (b *Backend) persist() error {
	doc := document{
		Tracks:   make([]*storage.Track, 0, len(b.tracks)),
		Releases: make([]*storage.Release, 0, len(b.releases)),
		Artists:  make([]*storage.Artist, 0, len(b.artists)),
	}
	for _, t := range b.tracks {
		doc.Tracks = append(doc.Tracks, t)
	}
	storage.SortTracks(doc.Tracks)
	for _, r := range b.releases {
		doc.Releases = append(doc.Releases, r)
	}
	sortByID(doc.Releases, func(r *storage.Release) string { return r.ID })
	for _, a := range b.artists {
		doc.Artists = append(doc.Artists, a)
	}
	sortByID(doc.Artists, func(a *storage.Artist) string { return a.ID })

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", libraryFile, err)
	}

	if err := b.lock.Lock(); err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	defer b.lock.Unlock()

	return writeFileAtomic(filepath.Join(b.root, libraryFile), data, 0o644)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".crushr-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// checkID rejects ids that would escape the blob directories.
func checkID(id string) error {
	if id == "" || id == "." || id == ".." || strings.ContainsAny(id, `/\`) {
		return fmt.Errorf("%w: id %q", storage.ErrInvalid, id)
	}
	return nil
}

func (b *Backend) audioPath(id string) string {
	return filepath.Join(b.root, audioDir, id+".wav")
}

func (b *Backend) artPath(id string) string {
	return filepath.Join(b.root, artDir, id)
}

// GetAudio opens the WAV blob of id.
func (b *Backend) GetAudio(_ context.Context, id string) (io.ReadCloser, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	f, err := os.Open(b.audioPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("audio %q: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open audio %q: %w", id, err)
	}
	return f, nil
}

func (b *Backend) GetCoverArt(_ context.Context, id string) ([]byte, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.artPath(id))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("cover art %q: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read cover art %q: %w", id, err)
	}
	return data, nil
}

// CreateAudio drains s into a new WAV blob using the configured encoding.
// The blob only appears under its final name once fully written.
func (b *Backend) CreateAudio(ctx context.Context, s *codec.Session) (string, error) {
	id := uuid.NewString()

	tmp, err := os.CreateTemp(filepath.Join(b.root, audioDir), ".upload-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	fail := func(err error) (string, error) {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}

	w, err := wav.NewWriter(tmp, s.SignalSpec(), b.enc)
	if err != nil {
		return fail(err)
	}

	err = s.ForEach(func(buf *audio.Buffer) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return w.WriteBuffer(buf)
	})
	if err != nil {
		return fail(fmt.Errorf("encode audio: %w", err))
	}
	if err := w.Close(); err != nil {
		return fail(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, b.audioPath(id)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("rename temp file: %w", err)
	}

	b.logger.Debug("audio stored",
		logging.FieldTrackID, id,
		"frames", w.Frames(),
		"encoding", b.enc.String(),
	)
	return id, nil
}

func (b *Backend) DeleteAudio(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return removeBlob(b.audioPath(id), "audio", id)
}

func (b *Backend) CreateCoverArt(_ context.Context, id string, data []byte) error {
	if err := checkID(id); err != nil {
		return err
	}
	return writeFileAtomic(b.artPath(id), data, 0o644)
}

func (b *Backend) DeleteCoverArt(_ context.Context, id string) error {
	if err := checkID(id); err != nil {
		return err
	}
	return removeBlob(b.artPath(id), "cover art", id)
}

func removeBlob(path, kind, id string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%s %q: %w", kind, id, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("remove %s %q: %w", kind, id, err)
	}
	return nil
}
