// SPDX-License-Identifier: EPL-2.0

package library

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/ik5/crushr/codec"
	"github.com/ik5/crushr/internal/logging"
	"github.com/ik5/crushr/storage"
)

// Library is safe for concurrent use.
type Library struct {
	logger      *slog.Logger
	probe       *codec.Probe
	codecs      *codec.Registry
	decoderOpts codec.DecoderOptions

	reg   atomic.Pointer[registry]
	regMu sync.Mutex // serializes registry writers

	mu    sync.Mutex
	cache map[string]*storage.Track
	// gen counts cache removals. A backend answer read while gen moved on
	// may describe a track deleted in between and is not cached.
	gen    uint64
	closed bool
}

func (l *Library) snapshot() *registry { return l.reg.Load() }

// Backends lists registered backend names in resolution order.
func (l *Library) Backends() []string {
	entries := l.snapshot().entries
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.name)
	}
	return names
}

// AddBackend initializes backend and appends it to the registry. A closed
// library accepts no new backends.
func (l *Library) AddBackend(ctx context.Context, name string, backend storage.Backend) error {
	l.regMu.Lock()
	defer l.regMu.Unlock()

	if l.isClosed() {
		return ErrClosed
	}

	cur := l.snapshot()
	if cur.index(name) >= 0 {
		return fmt.Errorf("%w: %q", ErrDuplicateBackend, name)
	}
	if err := backend.Init(ctx); err != nil {
		return &BackendInitError{Name: name, Err: err}
	}

	l.reg.Store(cur.with(entry{name: name, backend: backend}))
	l.logger.Info("backend added", logging.FieldBackend, name)
	return nil
}

// RemoveBackend drops the backend called name and returns it. Cached
// tracks it served stay cached. A designated writer role moves to the next
// capable backend.
func (l *Library) RemoveBackend(name string) (storage.Backend, error) {
	l.regMu.Lock()
	defer l.regMu.Unlock()

	cur := l.snapshot()
	backend := cur.lookup(name)
	if backend == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, name)
	}

	l.reg.Store(cur.without(name))
	l.logger.Info("backend removed", logging.FieldBackend, name)
	return backend, nil
}

func (l *Library) isClosed() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.closed
}

// cached looks id up and returns the cache generation seen.
func (l *Library) cached(id string) (*storage.Track, uint64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.cache[id]
	return t, l.gen, ok
}

func (l *Library) generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

// store caches a private copy of t and returns the shared handle. Writes
// through the library are authoritative and always cached.
func (l *Library) store(t *storage.Track) *storage.Track {
	shared := t.Clone()

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.closed {
		l.cache[shared.ID] = shared
	}
	return shared
}

// storeRead caches a copy of t read from a backend at generation gen,
// unless the cache was invalidated since.
func (l *Library) storeRead(t *storage.Track, gen uint64) *storage.Track {
	shared := t.Clone()

	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.closed && l.gen == gen {
		l.cache[shared.ID] = shared
	}
	return shared
}

// GetTrack returns the cached track or resolves it from the first
// structured backend that knows id.
func (l *Library) GetTrack(ctx context.Context, id string) (*storage.Track, error) {
	t, gen, ok := l.cached(id)
	if ok {
		return t, nil
	}

	for _, r := range l.snapshot().structuredReaders() {
		t, err := r.reader.GetTrack(ctx, id)
		if err != nil {
			l.logBackendError("get track", r.name, id, err)
			continue
		}
		return l.storeRead(t, gen), nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: track %q", ErrNotFound, id)
}

// Query asks every structured backend for tracks matching q and refreshes
// the cache with the answers. The result is the merged answers plus every
// other cached track matching q, such as one served by a backend removed
// since, ordered by title then id and paginated by q.
func (l *Library) Query(ctx context.Context, q storage.TrackQuery) ([]*storage.Track, error) {
	gen := l.generation()
	readers := l.snapshot().structuredReaders()
	results := make([][]*storage.Track, len(readers))
	failures := make([]error, len(readers))

	g, gctx := errgroup.WithContext(ctx)
	for i, r := range readers {
		g.Go(func() error {
			tracks, err := r.reader.QueryTracks(gctx, q.Unbounded())
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				l.logBackendError("query", r.name, "", err)
				failures[i] = fmt.Errorf("backend %q: %w", r.name, err)
				return nil
			}
			results[i] = tracks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if len(readers) > 0 && allFailed(failures) {
		return nil, errors.Join(failures...)
	}

	var merged []*storage.Track
	seen := make(map[string]struct{})
	for _, tracks := range results {
		for _, t := range tracks {
			if _, dup := seen[t.ID]; dup {
				continue
			}
			seen[t.ID] = struct{}{}
			merged = append(merged, t.Clone())
		}
	}

	l.mu.Lock()
	fresh := !l.closed && l.gen == gen
	out := make([]*storage.Track, 0, len(merged))
	for _, t := range merged {
		if fresh {
			l.cache[t.ID] = t
		}
		if q.Matches(t) {
			out = append(out, t)
		}
	}
	for id, t := range l.cache {
		if _, dup := seen[id]; !dup && q.Matches(t) {
			out = append(out, t)
		}
	}
	l.mu.Unlock()

	storage.SortTracks(out)
	return q.Page(out), nil
}

func allFailed(errs []error) bool {
	for _, err := range errs {
		if err == nil {
			return false
		}
	}
	return true
}

// Invalidate drops id from the cache.
func (l *Library) Invalidate(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.cache, id)
	l.gen++
}

// Purge empties the cache.
func (l *Library) Purge() {
	l.mu.Lock()
	defer l.mu.Unlock()

	clear(l.cache)
	l.gen++
}

// CacheLen reports the number of cached tracks.
func (l *Library) CacheLen() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.cache)
}

// Close drops the cache and closes every backend holding resources. The
// library keeps answering from backends but no longer caches.
func (l *Library) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	clear(l.cache)
	l.mu.Unlock()

	var errs []error
	for _, e := range l.snapshot().entries {
		if c, ok := e.backend.(storage.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close backend %q: %w", e.name, err))
			}
		}
	}
	return errors.Join(errs...)
}

func (l *Library) logBackendError(op, backend, id string, err error) {
	level := slog.LevelWarn
	if errors.Is(err, storage.ErrNotFound) {
		level = slog.LevelDebug
	}
	attrs := []any{logging.FieldBackend, backend, logging.Error(err)}
	if id != "" {
		attrs = append(attrs, logging.FieldTrackID, id)
	}
	l.logger.Log(context.Background(), level, op+" failed", attrs...)
}

// readCloserDemuxer closes the blob stream along with the demuxer.
type readCloserDemuxer struct {
	codec.Demuxer
	rc io.Closer
}

func (d readCloserDemuxer) Close() error {
	return errors.Join(d.Demuxer.Close(), d.rc.Close())
}
