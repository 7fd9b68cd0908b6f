// SPDX-License-Identifier: EPL-2.0

package library

import (
	"errors"
	"fmt"

	"github.com/ik5/crushr/storage"
)

var (
	// ErrNotFound is returned once every backend has been asked. It
	// matches storage.ErrNotFound as well.
	ErrNotFound = fmt.Errorf("library: %w", storage.ErrNotFound)

	ErrNoWriter         = errors.New("library: no writeable backend")
	ErrDuplicateBackend = errors.New("library: duplicate backend name")
	ErrUnknownBackend   = errors.New("library: unknown backend")
	ErrClosed           = errors.New("library: closed")
)

// BackendInitError reports a backend whose Init failed during construction
// or AddBackend.
type BackendInitError struct {
	Name string
	Err  error
}

func (e *BackendInitError) Error() string {
	return fmt.Sprintf("init backend %q: %v", e.Name, e.Err)
}

func (e *BackendInitError) Unwrap() error { return e.Err }
