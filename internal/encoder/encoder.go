// Package encoder writes dithered images in the format implied by an output
// path.
package encoder

import (
	"image"
)

// Encoder encodes an image to a specific format.
type Encoder interface {
	// Format returns the canonical format name (e.g. "png", "jpeg").
	Format() string

	// Extensions returns the file extensions, without dot, that map to this
	// format. The first one is used when naming new files.
	Extensions() []string

	// Encode converts the image to bytes. quality applies to lossy formats
	// only; values outside 1-100 select the encoder default.
	Encode(img image.Image, quality int) ([]byte, error)

	// Available returns true if the encoder is ready to use.
	// External encoders (cwebp, avifenc) may not be installed.
	Available() bool
}
