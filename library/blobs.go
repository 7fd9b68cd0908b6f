// SPDX-License-Identifier: EPL-2.0

package library

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ik5/crushr/codec"
	"github.com/ik5/crushr/internal/logging"
	"github.com/ik5/crushr/storage"
)

// openBlob returns the audio stream of id from the first blob backend that
// has it.
func (l *Library) openBlob(ctx context.Context, id string) (io.ReadCloser, error) {
	for _, e := range l.snapshot().entries {
		br, ok := e.backend.(storage.BlobReader)
		if !ok {
			continue
		}
		rc, err := br.GetAudio(ctx, id)
		if err != nil {
			l.logBackendError("get audio", e.name, id, err)
			continue
		}
		return rc, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: audio %q", ErrNotFound, id)
}

// GetTrackSource returns the encoded audio of id. Blobs are never cached.
func (l *Library) GetTrackSource(ctx context.Context, id string) ([]byte, error) {
	rc, err := l.openBlob(ctx, id)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read audio %q: %w", id, err)
	}
	return data, nil
}

// OpenAudio starts a decode session on the audio of id. Closing the
// session releases the blob stream.
func (l *Library) OpenAudio(ctx context.Context, id string) (*codec.Session, error) {
	rc, err := l.openBlob(ctx, id)
	if err != nil {
		return nil, err
	}

	d, err := l.probe.Open(rc, "")
	if err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("probe audio %q: %w", id, err)
	}

	s, err := codec.NewSession(readCloserDemuxer{Demuxer: d, rc: rc}, l.codecs, l.decoderOpts)
	if err != nil {
		_ = d.Close()
		_ = rc.Close()
		return nil, fmt.Errorf("open audio %q: %w", id, err)
	}
	return s, nil
}

// GetCoverArt returns the cover art of id from the first backend that has
// it.
func (l *Library) GetCoverArt(ctx context.Context, id string) ([]byte, error) {
	for _, e := range l.snapshot().entries {
		br, ok := e.backend.(storage.BlobReader)
		if !ok {
			continue
		}
		data, err := br.GetCoverArt(ctx, id)
		if err != nil {
			l.logBackendError("get cover art", e.name, id, err)
			continue
		}
		return data, nil
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("%w: cover art %q", ErrNotFound, id)
}

func (l *Library) blobWriter() (string, storage.BlobWriter, error) {
	reg := l.snapshot()
	if bw, ok := reg.lookup(reg.blobWriter).(storage.BlobWriter); ok {
		return reg.blobWriter, bw, nil
	}
	return "", nil, fmt.Errorf("%w: blob", ErrNoWriter)
}

func (l *Library) structuredWriter() (string, storage.StructuredWriter, error) {
	reg := l.snapshot()
	if sw, ok := reg.lookup(reg.structuredWriter).(storage.StructuredWriter); ok {
		return reg.structuredWriter, sw, nil
	}
	return "", nil, fmt.Errorf("%w: structured", ErrNoWriter)
}

// CreateAudio drains s into the designated blob backend and records a
// track titled title in the designated structured backend, when there is
// one. A failure in either step fails the whole call; a blob already
// written is not removed.
func (l *Library) CreateAudio(ctx context.Context, s *codec.Session, title string) (string, error) {
	bwName, bw, err := l.blobWriter()
	if err != nil {
		return "", err
	}

	id, err := bw.CreateAudio(ctx, s)
	if err != nil {
		return "", fmt.Errorf("create audio on %q: %w", bwName, err)
	}

	track := &storage.Track{
		ID:       id,
		Title:    title,
		Duration: s.SignalSpec().Duration(s.FramesDecoded()),
		Source:   id,
	}

	swName, sw, err := l.structuredWriter()
	if errors.Is(err, ErrNoWriter) {
		return id, nil
	}
	if err := sw.CreateTrack(ctx, track); err != nil {
		l.logger.Warn("audio stored without track record",
			logging.FieldBlobBackend, bwName,
			logging.FieldBackend, swName,
			logging.FieldTrackID, id,
			logging.Error(err),
		)
		return "", fmt.Errorf("record track on %q: %w", swName, err)
	}

	l.store(track)
	return id, nil
}

// DeleteTrack removes the audio blob and the track record of id on the
// designated writers and drops it from the cache. Failures are joined;
// ErrNotFound is returned only when neither writer knew id.
func (l *Library) DeleteTrack(ctx context.Context, id string) error {
	defer l.Invalidate(id)

	var (
		errs     []error
		attempts int
		missing  int
	)
	record := func(name string, err error) {
		attempts++
		switch {
		case err == nil:
		case errors.Is(err, storage.ErrNotFound):
			missing++
		default:
			errs = append(errs, fmt.Errorf("backend %q: %w", name, err))
		}
	}

	if name, bw, err := l.blobWriter(); err == nil {
		record(name, bw.DeleteAudio(ctx, id))
	}
	if name, sw, err := l.structuredWriter(); err == nil {
		record(name, sw.DeleteTrack(ctx, id))
	}

	if attempts == 0 {
		return ErrNoWriter
	}
	if len(errs) > 0 {
		return fmt.Errorf("delete track %q: %w", id, errors.Join(errs...))
	}
	if missing == attempts {
		return fmt.Errorf("%w: track %q", ErrNotFound, id)
	}
	return nil
}

// UpdateTrack replaces the record of t on the designated structured
// backend and refreshes the cache.
func (l *Library) UpdateTrack(ctx context.Context, t *storage.Track) error {
	name, sw, err := l.structuredWriter()
	if err != nil {
		return err
	}
	if err := sw.UpdateTrack(ctx, t); err != nil {
		l.Invalidate(t.ID)
		return fmt.Errorf("update track on %q: %w", name, err)
	}
	l.store(t)
	return nil
}

// PutRelease creates or replaces r on the designated structured backend.
func (l *Library) PutRelease(ctx context.Context, r *storage.Release) error {
	return l.writeRecord(func(sw storage.StructuredWriter) error { return sw.PutRelease(ctx, r) })
}

// DeleteRelease removes release id from the designated structured backend.
func (l *Library) DeleteRelease(ctx context.Context, id string) error {
	return l.writeRecord(func(sw storage.StructuredWriter) error { return sw.DeleteRelease(ctx, id) })
}

// PutArtist creates or replaces a on the designated structured backend.
func (l *Library) PutArtist(ctx context.Context, a *storage.Artist) error {
	return l.writeRecord(func(sw storage.StructuredWriter) error { return sw.PutArtist(ctx, a) })
}

// DeleteArtist removes artist id from the designated structured backend.
func (l *Library) DeleteArtist(ctx context.Context, id string) error {
	return l.writeRecord(func(sw storage.StructuredWriter) error { return sw.DeleteArtist(ctx, id) })
}

func (l *Library) writeRecord(fn func(storage.StructuredWriter) error) error {
	name, sw, err := l.structuredWriter()
	if err != nil {
		return err
	}
	if err := fn(sw); err != nil {
		return fmt.Errorf("backend %q: %w", name, err)
	}
	return nil
}

// CreateCoverArt stores data as the cover art of id on the designated blob
// backend.
func (l *Library) CreateCoverArt(ctx context.Context, id string, data []byte) error {
	name, bw, err := l.blobWriter()
	if err != nil {
		return err
	}
	if err := bw.CreateCoverArt(ctx, id, data); err != nil {
		return fmt.Errorf("backend %q: %w", name, err)
	}
	return nil
}
