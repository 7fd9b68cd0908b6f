// SPDX-License-Identifier: EPL-2.0

package library

import (
	"slices"

	"github.com/ik5/crushr/storage"
)

type entry struct {
	name    string
	backend storage.Backend
}

// registry is never modified after publication.
type registry struct {
	entries []entry
	// Designated writers by name, empty when none is capable.
	blobWriter       string
	structuredWriter string
}

func (r *registry) index(name string) int {
	return slices.IndexFunc(r.entries, func(e entry) bool { return e.name == name })
}

func (r *registry) lookup(name string) storage.Backend {
	if i := r.index(name); i >= 0 {
		return r.entries[i].backend
	}
	return nil
}

// with returns a copy with e appended.
func (r *registry) with(e entry) *registry {
	next := &registry{
		entries:          append(slices.Clip(r.entries), e),
		blobWriter:       r.blobWriter,
		structuredWriter: r.structuredWriter,
	}
	next.assignWriters()
	return next
}

// without returns a copy lacking the backend called name.
func (r *registry) without(name string) *registry {
	next := &registry{
		entries: slices.DeleteFunc(slices.Clone(r.entries), func(e entry) bool { return e.name == name }),
	}
	if r.blobWriter != name {
		next.blobWriter = r.blobWriter
	}
	if r.structuredWriter != name {
		next.structuredWriter = r.structuredWriter
	}
	next.assignWriters()
	return next
}

// assignWriters designates the first capable backend for any role left
// open.
func (r *registry) assignWriters() {
	for _, e := range r.entries {
		if _, ok := e.backend.(storage.BlobWriter); ok && r.blobWriter == "" {
			r.blobWriter = e.name
		}
		if _, ok := e.backend.(storage.StructuredWriter); ok && r.structuredWriter == "" {
			r.structuredWriter = e.name
		}
	}
}

func (r *registry) structuredReaders() []namedReader {
	var out []namedReader
	for _, e := range r.entries {
		if sr, ok := e.backend.(storage.StructuredReader); ok {
			out = append(out, namedReader{name: e.name, reader: sr})
		}
	}
	return out
}

type namedReader struct {
	name   string
	reader storage.StructuredReader
}
