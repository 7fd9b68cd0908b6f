// SPDX-License-Identifier: EPL-2.0

package storage

import (
	"context"
	"io"

	"github.com/ik5/crushr/codec"
)

// Backend is the part every storage provider implements. A provider adds
// any subset of the capability interfaces below.
type Backend interface {
	Name() string
	// Init is called once before any other method.
	Init(ctx context.Context) error
}

// StructuredReader resolves track metadata.
type StructuredReader interface {
	Backend
	GetTrack(ctx context.Context, id string) (*Track, error)
	// QueryTracks returns every track matching q, applying its pagination.
	QueryTracks(ctx context.Context, q TrackQuery) ([]*Track, error)
}

// StructuredWriter stores track, release and artist records.
type StructuredWriter interface {
	Backend
	CreateTrack(ctx context.Context, t *Track) error
	UpdateTrack(ctx context.Context, t *Track) error
	DeleteTrack(ctx context.Context, id string) error
	PutRelease(ctx context.Context, r *Release) error
	DeleteRelease(ctx context.Context, id string) error
	PutArtist(ctx context.Context, a *Artist) error
	DeleteArtist(ctx context.Context, id string) error
}

// BlobReader serves encoded audio and cover art.
type BlobReader interface {
	Backend
	// GetAudio returns a decodable WAV stream for id.
	GetAudio(ctx context.Context, id string) (io.ReadCloser, error)
	GetCoverArt(ctx context.Context, id string) ([]byte, error)
}

// BlobWriter persists decoded audio and cover art.
type BlobWriter interface {
	Backend
	// CreateAudio drains s into a new blob and returns its id.
	CreateAudio(ctx context.Context, s *codec.Session) (string, error)
	DeleteAudio(ctx context.Context, id string) error
	CreateCoverArt(ctx context.Context, id string, data []byte) error
	DeleteCoverArt(ctx context.Context, id string) error
}

// Closer is implemented by backends holding resources such as database
// handles.
type Closer interface {
	Close() error
}
