// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"errors"
	"fmt"
)

var (
	ErrNoDefaultTrack   = errors.New("demuxer has no default track")
	ErrUnsupportedCodec = errors.New("unsupported codec")
	ErrUnknownFormat    = errors.New("unknown container format")
	ErrBufferTooSmall   = errors.New("decoded frames do not fit the sample buffer")
	ErrSessionClosed    = errors.New("decode session closed")
	ErrPartialFrame     = errors.New("packet holds a partial frame")
	ErrLayoutChanged    = errors.New("packet channel layout differs from track")
	ErrNonFinite        = errors.New("decoded sample is not finite")
)

// DecodeError reports a failure decoding one packet. Recoverable errors
// cost only that packet; the session skips it and moves on.
type DecodeError struct {
	Recoverable bool
	Err         error
}

func (e *DecodeError) Error() string {
	kind := "fatal"
	if e.Recoverable {
		kind = "recoverable"
	}
	return fmt.Sprintf("%s decode error: %v", kind, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsRecoverable reports whether err carries a recoverable DecodeError.
func IsRecoverable(err error) bool {
	var de *DecodeError
	return errors.As(err, &de) && de.Recoverable
}

func recoverable(err error) error { return &DecodeError{Recoverable: true, Err: err} }

func fatal(err error) error { return &DecodeError{Err: err} }
