// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"slices"
	"sync"

	"github.com/ik5/crushr/storage"
)

// QueueEvent reports a track inserted into or removed from the session at
// Index.
type QueueEvent struct {
	Track *storage.Track
	Index int
}

// State is an ordered session of tracks with a cursor on the current one.
// Tracks before the cursor are history, tracks after it the queue. A cursor
// equal to the session length means nothing is playing.
//
// Events are published after the state lock is released, on the goroutine
// that made the change.
type State struct {
	IsPlayingChanged    Bus[bool]
	CurrentTrackChanged Bus[*storage.Track]
	Enqueued            Bus[QueueEvent]
	Dequeued            Bus[QueueEvent]

	mu      sync.Mutex
	playing bool
	current int
	session []*storage.Track
}

// New returns an empty, paused State.
func New() *State {
	return &State{}
}

func (s *State) IsPlaying() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// SetPlaying updates the flag and publishes only when it changes.
func (s *State) SetPlaying(playing bool) {
	s.mu.Lock()
	changed := s.playing != playing
	s.playing = playing
	s.mu.Unlock()

	if changed {
		s.IsPlayingChanged.Publish(playing)
	}
}

// Current returns the track under the cursor, or nil.
func (s *State) Current() *storage.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

func (s *State) currentLocked() *storage.Track {
	if s.current < len(s.session) {
		return s.session[s.current]
	}
	return nil
}

// Queue returns the tracks after the cursor.
func (s *State) Queue() []*storage.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.session[min(s.current+1, len(s.session)):])
}

// History returns the tracks before the cursor.
func (s *State) History() []*storage.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.session[:min(s.current, len(s.session))])
}

// Session returns every track in play order.
func (s *State) Session() []*storage.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.session)
}

// Skip moves the cursor by n, clamped to [0, len(session)], and publishes
// the new current track.
func (s *State) Skip(n int) {
	s.mu.Lock()
	s.current = min(max(s.current+n, 0), len(s.session))
	cur := s.currentLocked()
	s.mu.Unlock()

	s.CurrentTrackChanged.Publish(cur)
}

// Enqueue inserts t offset places after the current track and returns the
// index it landed on. Offsets past the end append. When nothing is playing
// the track lands under the cursor and becomes current.
func (s *State) Enqueue(t *storage.Track, offset int) int {
	s.mu.Lock()
	i := s.insertLocked(t, offset)
	becameCurrent := i == s.current
	s.mu.Unlock()

	s.Enqueued.Publish(QueueEvent{Track: t, Index: i})
	if becameCurrent {
		s.CurrentTrackChanged.Publish(t)
	}
	return i
}

func (s *State) insertLocked(t *storage.Track, offset int) int {
	i := min(s.current+max(offset, 0)+1, len(s.session))
	s.session = slices.Insert(s.session, i, t)
	return i
}

// PlayNow puts t right after the current track and moves the cursor onto
// it.
func (s *State) PlayNow(t *storage.Track) {
	s.mu.Lock()
	i := s.insertLocked(t, 0)
	s.current = i
	s.mu.Unlock()

	s.Enqueued.Publish(QueueEvent{Track: t, Index: i})
	s.CurrentTrackChanged.Publish(t)
}

// Dequeue removes the queued track offset places after the current one. It
// reports false when there is no such track.
func (s *State) Dequeue(offset int) (*storage.Track, bool) {
	s.mu.Lock()
	i := s.current + max(offset, 0) + 1
	if i >= len(s.session) {
		s.mu.Unlock()
		return nil, false
	}
	t := s.session[i]
	s.session = slices.Delete(s.session, i, i+1)
	s.mu.Unlock()

	s.Dequeued.Publish(QueueEvent{Track: t, Index: i})
	return t, true
}
