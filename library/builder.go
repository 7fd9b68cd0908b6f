// SPDX-License-Identifier: EPL-2.0

package library

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ik5/crushr"
	"github.com/ik5/crushr/codec"
	"github.com/ik5/crushr/internal/logging"
	"github.com/ik5/crushr/storage"
)

// Builder collects backends and options for a Library.
type Builder struct {
	entries          []entry
	logger           *slog.Logger
	probe            *codec.Probe
	codecs           *codec.Registry
	decoderOpts      codec.DecoderOptions
	blobWriter       string
	structuredWriter string
}

// NewBuilder returns an empty Builder. Without WithProbe and WithCodecs the
// Library opens audio with crushr.NewProbe and codec.DefaultRegistry.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add registers backend under name. Registration order is resolution
// order.
func (b *Builder) Add(name string, backend storage.Backend) *Builder {
	b.entries = append(b.entries, entry{name: name, backend: backend})
	return b
}

func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithProbe replaces the container probe used by OpenAudio.
func (b *Builder) WithProbe(p *codec.Probe) *Builder {
	b.probe = p
	return b
}

// WithCodecs replaces the decoder registry used by OpenAudio.
func (b *Builder) WithCodecs(r *codec.Registry) *Builder {
	b.codecs = r
	return b
}

func (b *Builder) WithDecoderOptions(opts codec.DecoderOptions) *Builder {
	b.decoderOpts = opts
	return b
}

// BlobWriter designates the backend receiving CreateAudio. By default the
// first registered BlobWriter is used.
func (b *Builder) BlobWriter(name string) *Builder {
	b.blobWriter = name
	return b
}

// StructuredWriter designates the backend receiving record writes. By
// default the first registered StructuredWriter is used.
func (b *Builder) StructuredWriter(name string) *Builder {
	b.structuredWriter = name
	return b
}

// Build initializes every backend once, in registration order. The first
// failure aborts construction with a *BackendInitError.
func (b *Builder) Build(ctx context.Context) (*Library, error) {
	reg := &registry{blobWriter: b.blobWriter, structuredWriter: b.structuredWriter}
	seen := make(map[string]struct{}, len(b.entries))
	for _, e := range b.entries {
		if _, dup := seen[e.name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateBackend, e.name)
		}
		seen[e.name] = struct{}{}
	}

	if err := checkDesignated[storage.BlobWriter](b.entries, b.blobWriter); err != nil {
		return nil, fmt.Errorf("blob writer: %w", err)
	}
	if err := checkDesignated[storage.StructuredWriter](b.entries, b.structuredWriter); err != nil {
		return nil, fmt.Errorf("structured writer: %w", err)
	}

	logger := logging.NewComponentLogger(b.logger, "library")
	for _, e := range b.entries {
		if err := e.backend.Init(ctx); err != nil {
			return nil, &BackendInitError{Name: e.name, Err: err}
		}
		logger.Debug("backend initialized", logging.FieldBackend, e.name)
	}

	reg.entries = append([]entry(nil), b.entries...)
	reg.assignWriters()

	l := &Library{
		logger:      logger,
		probe:       b.probe,
		codecs:      b.codecs,
		decoderOpts: b.decoderOpts,
		cache:       make(map[string]*storage.Track),
	}
	if l.probe == nil {
		l.probe = crushr.NewProbe()
	}
	if l.codecs == nil {
		l.codecs = codec.DefaultRegistry()
	}
	l.reg.Store(reg)
	return l, nil
}

func checkDesignated[T any](entries []entry, name string) error {
	if name == "" {
		return nil
	}
	for _, e := range entries {
		if e.name != name {
			continue
		}
		if _, ok := e.backend.(T); !ok {
			return fmt.Errorf("%w: %q lacks the capability", ErrNoWriter, name)
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownBackend, name)
}
