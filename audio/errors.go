// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize   = errors.New("dst size must be multiple of channels")
	ErrInvalidSpec      = errors.New("signal spec needs a positive rate and channel count")
	ErrSpecMismatch     = errors.New("buffer signal specs differ")
	ErrCapacityExceeded = errors.New("frames exceed buffer capacity")
)
