// SPDX-License-Identifier: EPL-2.0

package library_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ik5/crushr/storage"
)

// memBackend is an in-memory structured backend that counts calls.
type memBackend struct {
	name    string
	initErr error
	failGet error
	failQry error
	sloppy  bool // QueryTracks ignores the title filter
	failPut error

	// When set, GetTrack signals entered and waits on hold before reading.
	entered chan struct{}
	hold    chan struct{}

	inits   atomic.Int32
	gets    atomic.Int32
	queries atomic.Int32
	closed  atomic.Bool
	order   *[]string

	mu       sync.Mutex
	tracks   map[string]*storage.Track
	releases map[string]*storage.Release
	artists  map[string]*storage.Artist
}

func newMem(name string, tracks ...*storage.Track) *memBackend {
	m := &memBackend{
		name:     name,
		tracks:   make(map[string]*storage.Track),
		releases: make(map[string]*storage.Release),
		artists:  make(map[string]*storage.Artist),
	}
	for _, t := range tracks {
		m.tracks[t.ID] = t
	}
	return m
}

func (m *memBackend) Name() string { return m.name }

func (m *memBackend) Init(context.Context) error {
	m.inits.Add(1)
	if m.order != nil {
		*m.order = append(*m.order, m.name)
	}
	return m.initErr
}

func (m *memBackend) Close() error {
	m.closed.Store(true)
	return nil
}

func (m *memBackend) GetTrack(_ context.Context, id string) (*storage.Track, error) {
	m.gets.Add(1)
	if m.failGet != nil {
		return nil, m.failGet
	}
	if m.hold != nil {
		m.mu.Lock()
		t, ok := m.tracks[id]
		m.mu.Unlock()
		m.entered <- struct{}{}
		<-m.hold
		if !ok {
			return nil, fmt.Errorf("%s: %w", m.name, storage.ErrNotFound)
		}
		return t.Clone(), nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tracks[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", m.name, storage.ErrNotFound)
	}
	return t.Clone(), nil
}

func (m *memBackend) QueryTracks(_ context.Context, q storage.TrackQuery) ([]*storage.Track, error) {
	m.queries.Add(1)
	if m.failQry != nil {
		return nil, m.failQry
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*storage.Track
	for _, t := range m.tracks {
		if m.sloppy || q.Matches(t) {
			out = append(out, t.Clone())
		}
	}
	storage.SortTracks(out)
	return q.Page(out), nil
}

func (m *memBackend) set(t *storage.Track) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracks[t.ID] = t
}

func (m *memBackend) CreateTrack(_ context.Context, t *storage.Track) error {
	if m.failPut != nil {
		return m.failPut
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tracks[t.ID]; ok {
		return storage.ErrExists
	}
	m.tracks[t.ID] = t.Clone()
	return nil
}

func (m *memBackend) UpdateTrack(_ context.Context, t *storage.Track) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tracks[t.ID]; !ok {
		return storage.ErrNotFound
	}
	m.tracks[t.ID] = t.Clone()
	return nil
}

func (m *memBackend) DeleteTrack(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tracks[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.tracks, id)
	return nil
}

func (m *memBackend) PutRelease(_ context.Context, r *storage.Release) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releases[r.ID] = r
	return nil
}

func (m *memBackend) DeleteRelease(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.releases[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.releases, id)
	return nil
}

func (m *memBackend) PutArtist(_ context.Context, a *storage.Artist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artists[a.ID] = a
	return nil
}

func (m *memBackend) DeleteArtist(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.artists[id]; !ok {
		return storage.ErrNotFound
	}
	delete(m.artists, id)
	return nil
}

var (
	_ storage.StructuredReader = (*memBackend)(nil)
	_ storage.StructuredWriter = (*memBackend)(nil)
	_ storage.Closer           = (*memBackend)(nil)
)
