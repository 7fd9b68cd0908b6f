// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	ErrUnsupportedFormat    = errors.New("unsupported WAV sample format")
	ErrMissingChunk         = errors.New("missing WAV chunk")
	ErrUnknownEncoding      = errors.New("unknown WAV encoding")
	ErrWriterClosed         = errors.New("WAV writer closed")
)
