package encoder

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnknownFormat is returned for formats and extensions no encoder handles.
	ErrUnknownFormat = errors.New("unknown output format")
	// ErrUnavailable is returned when the encoder exists but its tool is missing.
	ErrUnavailable = errors.New("encoder unavailable")
)

// Registry maps format names and file extensions to encoders.
type Registry struct {
	order    []string
	encoders map[string]Encoder // by format
	exts     map[string]string  // extension -> format
}

// NewRegistry creates a registry with every built-in encoder. Availability
// is checked lazily at lookup time.
func NewRegistry() *Registry {
	return NewRegistryWith(
		&PNGEncoder{},
		&JPEGEncoder{},
		&GIFEncoder{},
		&BMPEncoder{},
		&TIFFEncoder{},
		NewWebPEncoder(),
		NewAVIFEncoder(),
	)
}

// NewRegistryWith creates a registry from encs, in priority order. A later
// encoder with the same format replaces an earlier one.
func NewRegistryWith(encs ...Encoder) *Registry {
	r := &Registry{
		encoders: make(map[string]Encoder),
		exts:     make(map[string]string),
	}
	for _, enc := range encs {
		f := strings.ToLower(enc.Format())
		if _, dup := r.encoders[f]; !dup {
			r.order = append(r.order, f)
		}
		r.encoders[f] = enc
		for _, ext := range enc.Extensions() {
			r.exts[strings.ToLower(ext)] = f
		}
	}
	return r
}

// Get returns the encoder for a format name or extension.
func (r *Registry) Get(format string) (Encoder, error) {
	f := strings.ToLower(strings.TrimPrefix(format, "."))
	if canonical, ok := r.exts[f]; ok {
		f = canonical
	}
	enc, ok := r.encoders[f]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if !enc.Available() {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, f)
	}
	return enc, nil
}

// ForPath selects the encoder from the path's extension.
func (r *Registry) ForPath(path string) (Encoder, error) {
	ext := filepath.Ext(path)
	if ext == "" {
		return nil, fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return r.Get(ext)
}

// Available returns all usable format names in priority order.
func (r *Registry) Available() []string {
	var result []string
	for _, f := range r.order {
		if r.encoders[f].Available() {
			result = append(result, f)
		}
	}
	return result
}

// String returns a summary of available encoders.
func (r *Registry) String() string {
	avail := r.Available()
	if len(avail) == 0 {
		return "no encoders available"
	}
	return fmt.Sprintf("encoders: %s", strings.Join(avail, ", "))
}
