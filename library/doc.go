// SPDX-License-Identifier: EPL-2.0

// Package library routes track lookups and writes across a set of storage
// backends and caches resolved track metadata.
//
// # Building a Library
//
// A Builder collects named backends in resolution order and the roles they
// play. Build initializes every backend in that order and stops at the
// first failure:
//
//	lib, err := library.NewBuilder().
//	    Add("disk", fsbackend.New(root, fsbackend.Options{})).
//	    Add("db", sqlitebackend.New(dbPath, logger)).
//	    Add("tones", sinebackend.New(sinebackend.Options{})).
//	    BlobWriter("disk").
//	    StructuredWriter("db").
//	    WithLogger(logger).
//	    Build(ctx)
//	if err != nil {
//	    return err
//	}
//	defer lib.Close()
//
// Without explicit writer roles the first capable backend takes each one.
// A failed Init is reported as *BackendInitError.
//
// # Resolution
//
// GetTrack and the blob reads ask the registered backends one at a time in
// registration order and stop at the first success. Query asks every
// structured backend at once and merges the answers, the first backend to
// report an id winning:
//
//	tracks, err := lib.Query(ctx, storage.TrackQuery{Title: "intro", MaxResponse: 20})
//
// Errors from individual backends are logged and skipped; callers only see
// ErrNotFound once every backend has been asked, and Query fails only when
// every backend failed.
//
// # Cache
//
// Resolved tracks are cached by id as immutable *storage.Track values that
// callers share; they must not be modified. Query refreshes every entry it
// sees and also returns cached matches no backend reported, such as tracks
// served by a backend removed since. The cache lock is never held during
// backend calls.
//
// Invalidate, Purge and DeleteTrack advance a cache generation. A backend
// answer that was in flight across such a removal is returned to its caller
// but not cached, so a deleted track cannot come back:
//
//	lib.Invalidate(id)          // drop one entry
//	lib.Purge()                 // drop everything
//	n := lib.CacheLen()
//
// # Writes
//
// Writes go to the designated backends. CreateAudio drains a decode
// session into the blob writer and records a track on the structured
// writer:
//
//	s, err := crushr.OpenFile("take1.flac", codec.DecoderOptions{})
//	id, err := lib.CreateAudio(ctx, s, "Take 1")
//
// UpdateTrack and DeleteTrack keep the cache in step with the writer.
// Without a backend for a role the write fails with ErrNoWriter.
//
// # Reading Audio
//
// OpenAudio finds the blob of a track and starts a decode session on it
// through the Builder's probe and codec registry:
//
//	s, err := lib.OpenAudio(ctx, id)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
// # Registry
//
// The backend list is an immutable snapshot replaced atomically by
// AddBackend and RemoveBackend, so readers never lock it. Removing a
// backend moves its writer roles to the next capable one.
package library
