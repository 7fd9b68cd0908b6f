// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"
	"slices"
	"sync"
)

// Registry maps codec types to decoder factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[CodecType]DecoderFactory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[CodecType]DecoderFactory)}
}

// DefaultRegistry returns a registry holding the PCM decoder family.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	for _, c := range []CodecType{PCMU8, PCMS8, PCMS16LE, PCMS24LE, PCMS32LE, PCMF32LE, PCMF64LE} {
		r.Register(c, NewPCMDecoder)
	}
	return r
}

// Register adds or replaces the factory for c.
func (r *Registry) Register(c CodecType, f DecoderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[c] = f
}

// Make builds a decoder for params.
func (r *Registry) Make(params CodecParams, opts DecoderOptions) (Decoder, error) {
	r.mu.RLock()
	f, ok := r.factories[params.Codec]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedCodec, params.Codec)
	}

	dec, err := f(params, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrUnsupportedCodec, params.Codec, err)
	}
	return dec, nil
}

// Codecs lists the registered codec types in sorted order.
func (r *Registry) Codecs() []CodecType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]CodecType, 0, len(r.factories))
	for c := range r.factories {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}
