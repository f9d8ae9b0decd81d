package encoder

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
)

// GIFEncoder writes a single-frame GIF whose palette is exactly the set of
// colours in the image, so no pixel is requantized. Images with more than
// 256 distinct colours are rejected.
type GIFEncoder struct{}

func (e *GIFEncoder) Format() string       { return "gif" }
func (e *GIFEncoder) Extensions() []string { return []string{"gif"} }
func (e *GIFEncoder) Available() bool      { return true }

func (e *GIFEncoder) Encode(img image.Image, _ int) ([]byte, error) {
	pal, err := exactPalette(img, 256)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	err = gif.Encode(&buf, img, &gif.Options{
		NumColors: len(pal),
		Quantizer: fixedQuantizer{pal},
		Drawer:    draw.Src,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// fixedQuantizer implements draw.Quantizer by ignoring the image and
// returning a precomputed palette.
type fixedQuantizer struct {
	p color.Palette
}

func (q fixedQuantizer) Quantize(_ color.Palette, _ image.Image) color.Palette {
	return q.p
}

// exactPalette collects the distinct opaque colours of img in raster order
// of first appearance.
func exactPalette(img image.Image, limit int) (color.Palette, error) {
	b := img.Bounds()
	seen := make(map[uint32]bool)
	var pal color.Palette
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			c := color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8), A: 0xff}
			key := uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
			if seen[key] {
				continue
			}
			if len(pal) == limit {
				return nil, fmt.Errorf("gif: image has more than %d distinct colours", limit)
			}
			seen[key] = true
			pal = append(pal, c)
		}
	}
	if len(pal) == 0 {
		pal = append(pal, color.RGBA{A: 0xff})
	}
	return pal, nil
}
