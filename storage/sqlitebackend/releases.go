// SPDX-License-Identifier: EPL-2.0

package sqlitebackend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ik5/crushr/storage"
)

// PutRelease inserts or replaces r together with its artist and track lists.
func (s *Store) PutRelease(ctx context.Context, r *storage.Release) error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("%w: release without id", storage.ErrInvalid)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO releases (id, title) VALUES (?, ?)
			 ON CONFLICT (id) DO UPDATE SET title = excluded.title`,
			r.ID, r.Title,
		); err != nil {
			return fmt.Errorf("upsert release %q: %w", r.ID, err)
		}

		if err := replaceList(ctx, tx, "release_artists", "artist_id", r.ID, r.ArtistIDs); err != nil {
			return err
		}
		return replaceList(ctx, tx, "release_tracks", "track_id", r.ID, r.TrackIDs)
	})
}

func replaceList(ctx context.Context, tx *sql.Tx, table, column, releaseID string, values []string) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE release_id = ?", releaseID); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for i, v := range values {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+table+" (release_id, position, "+column+") VALUES (?, ?, ?)",
			releaseID, i, v,
		); err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

func (s *Store) DeleteRelease(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "releases", "release", id)
}

// Release loads the release record id.
func (s *Store) Release(ctx context.Context, id string) (*storage.Release, error) {
	if s.db == nil {
		return nil, errors.New("sqlite store not initialized")
	}

	r := storage.Release{ID: id}
	err := s.db.QueryRowContext(ctx, "SELECT title FROM releases WHERE id = ?", id).Scan(&r.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("release %q: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get release %q: %w", id, err)
	}

	if r.ArtistIDs, err = s.loadList(ctx, "release_artists", "artist_id", id); err != nil {
		return nil, err
	}
	if r.TrackIDs, err = s.loadList(ctx, "release_tracks", "track_id", id); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) loadList(ctx context.Context, table, column, releaseID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+column+" FROM "+table+" WHERE release_id = ? ORDER BY position", releaseID)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// PutArtist inserts or replaces a.
func (s *Store) PutArtist(ctx context.Context, a *storage.Artist) error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("%w: artist without id", storage.ErrInvalid)
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO artists (id, name) VALUES (?, ?)
			 ON CONFLICT (id) DO UPDATE SET name = excluded.name`,
			a.ID, a.Name,
		); err != nil {
			return fmt.Errorf("upsert artist %q: %w", a.ID, err)
		}
		return nil
	})
}

func (s *Store) DeleteArtist(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "artists", "artist", id)
}

// Artist loads the artist record id.
func (s *Store) Artist(ctx context.Context, id string) (*storage.Artist, error) {
	if s.db == nil {
		return nil, errors.New("sqlite store not initialized")
	}

	a := storage.Artist{ID: id}
	err := s.db.QueryRowContext(ctx, "SELECT name FROM artists WHERE id = ?", id).Scan(&a.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("artist %q: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get artist %q: %w", id, err)
	}
	return &a, nil
}
