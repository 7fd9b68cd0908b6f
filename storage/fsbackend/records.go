// SPDX-License-Identifier: EPL-2.0

package fsbackend

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/ik5/crushr/storage"
)

func sortByID[T any](items []T, id func(T) string) {
	slices.SortFunc(items, func(a, b T) int {
		return strings.Compare(id(a), id(b))
	})
}

func (b *Backend) GetTrack(_ context.Context, id string) (*storage.Track, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	t, ok := b.tracks[id]
	if !ok {
		return nil, fmt.Errorf("track %q: %w", id, storage.ErrNotFound)
	}
	return t.Clone(), nil
}

// QueryTracks returns matching tracks ordered by title, paginated by q.
func (b *Backend) QueryTracks(_ context.Context, q storage.TrackQuery) ([]*storage.Track, error) {
	b.mu.RLock()
	matches := make([]*storage.Track, 0, len(b.tracks))
	for _, t := range b.tracks {
		if q.Matches(t) {
			matches = append(matches, t.Clone())
		}
	}
	b.mu.RUnlock()

	storage.SortTracks(matches)
	return q.Page(matches), nil
}

func (b *Backend) CreateTrack(_ context.Context, t *storage.Track) error {
	if err := t.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.tracks[t.ID]; ok {
		return fmt.Errorf("track %q: %w", t.ID, storage.ErrExists)
	}
	b.tracks[t.ID] = t.Clone()
	if err := b.persist(); err != nil {
		delete(b.tracks, t.ID)
		return err
	}
	return nil
}

func (b *Backend) UpdateTrack(_ context.Context, t *storage.Track) error {
	if err := t.Validate(); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	prev, ok := b.tracks[t.ID]
	if !ok {
		return fmt.Errorf("track %q: %w", t.ID, storage.ErrNotFound)
	}
	b.tracks[t.ID] = t.Clone()
	if err := b.persist(); err != nil {
		b.tracks[t.ID] = prev
		return err
	}
	return nil
}

func (b *Backend) DeleteTrack(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, ok := b.tracks[id]
	if !ok {
		return fmt.Errorf("track %q: %w", id, storage.ErrNotFound)
	}
	delete(b.tracks, id)
	if err := b.persist(); err != nil {
		b.tracks[id] = prev
		return err
	}
	return nil
}

// PutRelease inserts or replaces r.
func (b *Backend) PutRelease(_ context.Context, r *storage.Release) error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: release without id", storage.ErrInvalid)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	prev, had := b.releases[r.ID]
	b.releases[r.ID] = r.Clone()
	if err := b.persist(); err != nil {
		restore(b.releases, r.ID, prev, had)
		return err
	}
	return nil
}

func (b *Backend) DeleteRelease(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, ok := b.releases[id]
	if !ok {
		return fmt.Errorf("release %q: %w", id, storage.ErrNotFound)
	}
	delete(b.releases, id)
	if err := b.persist(); err != nil {
		b.releases[id] = prev
		return err
	}
	return nil
}

// PutArtist inserts or replaces a.
func (b *Backend) PutArtist(_ context.Context, a *storage.Artist) error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("%w: artist without id", storage.ErrInvalid)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	prev, had := b.artists[a.ID]
	b.artists[a.ID] = a.Clone()
	if err := b.persist(); err != nil {
		restore(b.artists, a.ID, prev, had)
		return err
	}
	return nil
}

func (b *Backend) DeleteArtist(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	prev, ok := b.artists[id]
	if !ok {
		return fmt.Errorf("artist %q: %w", id, storage.ErrNotFound)
	}
	delete(b.artists, id)
	if err := b.persist(); err != nil {
		b.artists[id] = prev
		return err
	}
	return nil
}

// Release returns a copy of the release record id.
func (b *Backend) Release(id string) (*storage.Release, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	r, ok := b.releases[id]
	if !ok {
		return nil, fmt.Errorf("release %q: %w", id, storage.ErrNotFound)
	}
	return r.Clone(), nil
}

// Artist returns a copy of the artist record id.
func (b *Backend) Artist(id string) (*storage.Artist, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	a, ok := b.artists[id]
	if !ok {
		return nil, fmt.Errorf("artist %q: %w", id, storage.ErrNotFound)
	}
	return a.Clone(), nil
}

func restore[T any](m map[string]*T, id string, prev *T, had bool) {
	if had {
		m[id] = prev
		return
	}
	delete(m, id)
}
