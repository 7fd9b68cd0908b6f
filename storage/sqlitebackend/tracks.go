// SPDX-License-Identifier: EPL-2.0

package sqlitebackend

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ik5/crushr/storage"
)

const trackColumns = "id, title, duration_ms, source, release_id"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTrack(row rowScanner) (*storage.Track, error) {
	var (
		t          storage.Track
		durationMs int64
	)
	if err := row.Scan(&t.ID, &t.Title, &durationMs, &t.Source, &t.ReleaseID); err != nil {
		return nil, err
	}
	t.Duration = time.Duration(durationMs) * time.Millisecond
	return &t, nil
}

func (s *Store) GetTrack(ctx context.Context, id string) (*storage.Track, error) {
	if s.db == nil {
		return nil, errors.New("sqlite store not initialized")
	}

	row := s.db.QueryRowContext(ctx, "SELECT "+trackColumns+" FROM tracks WHERE id = ?", id)
	t, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("track %q: %w", id, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get track %q: %w", id, err)
	}
	return t, nil
}

// QueryTracks filters and orders in SQL on the folded title, which gives
// the same result as storage.SortTracks followed by q.Page.
func (s *Store) QueryTracks(ctx context.Context, q storage.TrackQuery) ([]*storage.Track, error) {
	if s.db == nil {
		return nil, errors.New("sqlite store not initialized")
	}

	limit := -1
	if q.MaxResponse > 0 {
		limit = q.MaxResponse
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT "+trackColumns+" FROM tracks WHERE instr(title_folded, ?) > 0 ORDER BY title_folded, id LIMIT ? OFFSET ?",
		storage.Fold(q.Title), limit, max(q.ReadCursor, 0),
	)
	if err != nil {
		return nil, fmt.Errorf("query tracks: %w", err)
	}
	defer rows.Close()

	var out []*storage.Track
	for rows.Next() {
		t, err := scanTrack(rows)
		if err != nil {
			return nil, fmt.Errorf("scan track: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query tracks: %w", err)
	}
	return out, nil
}

func (s *Store) CreateTrack(ctx context.Context, t *storage.Track) error {
	if err := t.Validate(); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO tracks (id, title, title_folded, duration_ms, source, release_id)
			 VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT (id) DO NOTHING`,
			t.ID, t.Title, storage.Fold(t.Title), t.Duration.Milliseconds(), t.Source, t.ReleaseID,
		)
		if err != nil {
			return fmt.Errorf("insert track %q: %w", t.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("track %q: %w", t.ID, storage.ErrExists)
		}
		return nil
	})
}

func (s *Store) UpdateTrack(ctx context.Context, t *storage.Track) error {
	if err := t.Validate(); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`UPDATE tracks SET title = ?, title_folded = ?, duration_ms = ?, source = ?, release_id = ?
			 WHERE id = ?`,
			t.Title, storage.Fold(t.Title), t.Duration.Milliseconds(), t.Source, t.ReleaseID, t.ID,
		)
		if err != nil {
			return fmt.Errorf("update track %q: %w", t.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("track %q: %w", t.ID, storage.ErrNotFound)
		}
		return nil
	})
}

func (s *Store) DeleteTrack(ctx context.Context, id string) error {
	return s.deleteByID(ctx, "tracks", "track", id)
}

func (s *Store) deleteByID(ctx context.Context, table, kind, id string) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = ?", id)
		if err != nil {
			return fmt.Errorf("delete %s %q: %w", kind, id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("%s %q: %w", kind, id, storage.ErrNotFound)
		}
		return nil
	})
}
