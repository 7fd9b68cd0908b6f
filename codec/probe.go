// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"
	"sync"
)

// probeSize is how many leading bytes are inspected for magic numbers.
const probeSize = 64

// Format describes a container a Probe can open.
type Format struct {
	Name string
	// Extensions are lower case and carry no leading dot.
	Extensions []string
	// Match reports whether header starts a stream of this format. header
	// may be shorter than probeSize for tiny inputs.
	Match      func(header []byte) bool
	NewDemuxer func(r io.Reader) (Demuxer, error)
}

// Probe detects the container of a byte stream.
type Probe struct {
	mu      sync.RWMutex
	formats []Format
}

// NewProbe returns a Probe trying formats in the given order.
func NewProbe(formats ...Format) *Probe {
	return &Probe{formats: slices.Clone(formats)}
}

// Register appends f. Earlier formats win when several match.
func (p *Probe) Register(f Format) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.formats = append(p.formats, f)
}

// Formats lists the registered format names.
func (p *Probe) Formats() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, len(p.formats))
	for i, f := range p.formats {
		names[i] = f.Name
	}
	return names
}

// Detect picks a format by magic bytes, then by the extension of hint.
func (p *Probe) Detect(header []byte, hint string) (Format, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for _, f := range p.formats {
		if f.Match != nil && f.Match(header) {
			return f, true
		}
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(hint)), ".")
	if ext == "" {
		ext = strings.ToLower(hint)
	}
	for _, f := range p.formats {
		if slices.Contains(f.Extensions, ext) {
			return f, true
		}
	}

	return Format{}, false
}

// Open detects the container of r and returns its demuxer. hint is a file
// name or extension used when no magic number matches.
func (p *Probe) Open(r io.Reader, hint string) (Demuxer, error) {
	br := bufio.NewReaderSize(r, probeSize)
	header, err := br.Peek(probeSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("probe header: %w", err)
	}

	f, ok := p.Detect(header, hint)
	if !ok {
		return nil, fmt.Errorf("%w: hint %q", ErrUnknownFormat, hint)
	}

	d, err := f.NewDemuxer(br)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	return d, nil
}

// OpenSession probes r and starts a decode session on the result.
func (p *Probe) OpenSession(r io.Reader, hint string, registry *Registry, opts DecoderOptions) (*Session, error) {
	d, err := p.Open(r, hint)
	if err != nil {
		return nil, err
	}

	s, err := NewSession(d, registry, opts)
	if err != nil {
		_ = d.Close()
		return nil, err
	}
	return s, nil
}
