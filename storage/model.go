// SPDX-License-Identifier: EPL-2.0

package storage

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Track is the metadata record of one playable item. Source is a
// backend-specific locator such as a relative file path.
type Track struct {
	ID        string
	Title     string
	Duration  time.Duration
	Source    string
	ReleaseID string
}

type trackJSON struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	DurationMs int64  `json:"durationMs"`
	SourcePath string `json:"sourcePath"`
	ReleaseID  string `json:"releaseId,omitempty"`
}

func (t Track) MarshalJSON() ([]byte, error) {
	return json.Marshal(trackJSON{
		ID:         t.ID,
		Title:      t.Title,
		DurationMs: t.Duration.Milliseconds(),
		SourcePath: t.Source,
		ReleaseID:  t.ReleaseID,
	})
}

func (t *Track) UnmarshalJSON(data []byte) error {
	var raw trackJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w", err)
	}
	*t = Track{
		ID:        raw.ID,
		Title:     raw.Title,
		Duration:  time.Duration(raw.DurationMs) * time.Millisecond,
		Source:    raw.SourcePath,
		ReleaseID: raw.ReleaseID,
	}
	return nil
}

// Clone returns an independent copy.
func (t *Track) Clone() *Track {
	c := *t
	return &c
}

// Validate rejects records without an id.
func (t *Track) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("%w: track without id", ErrInvalid)
	}
	return nil
}

// TrackQuery selects tracks whose title contains Title, ignoring case.
// ReadCursor skips that many matches; MaxResponse caps the result, with
// zero meaning no cap.
type TrackQuery struct {
	Title       string
	ReadCursor  int
	MaxResponse int
}

// Fold maps s to its case-folded form for comparisons.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// Matches reports whether t satisfies the title filter. Pagination is not
// considered.
func (q TrackQuery) Matches(t *Track) bool {
	if q.Title == "" {
		return true
	}
	return strings.Contains(Fold(t.Title), Fold(q.Title))
}

// Page applies ReadCursor and MaxResponse to an ordered result.
func (q TrackQuery) Page(tracks []*Track) []*Track {
	start := min(max(q.ReadCursor, 0), len(tracks))
	end := len(tracks)
	if q.MaxResponse > 0 {
		end = min(start+q.MaxResponse, end)
	}
	return tracks[start:end]
}

// Unbounded returns q with pagination removed.
func (q TrackQuery) Unbounded() TrackQuery {
	return TrackQuery{Title: q.Title}
}

// SortTracks orders tracks by folded title, then id.
func SortTracks(tracks []*Track) {
	slices.SortStableFunc(tracks, func(a, b *Track) int {
		if c := strings.Compare(Fold(a.Title), Fold(b.Title)); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
}

// Release groups tracks published together.
type Release struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	ArtistIDs []string `json:"artistIds,omitempty"`
	TrackIDs  []string `json:"trackIds,omitempty"`
}

// Clone returns a copy sharing no slices with r.
func (r *Release) Clone() *Release {
	c := *r
	c.ArtistIDs = slices.Clone(r.ArtistIDs)
	c.TrackIDs = slices.Clone(r.TrackIDs)
	return &c
}

type Artist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func (a *Artist) Clone() *Artist {
	c := *a
	return &c
}
