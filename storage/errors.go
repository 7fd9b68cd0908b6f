// SPDX-License-Identifier: EPL-2.0

package storage

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrExists      = errors.New("already exists")
	ErrUnsupported = errors.New("operation not supported by backend")
	ErrInvalid     = errors.New("invalid record")
)
