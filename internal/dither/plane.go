// Package dither implements Floyd–Steinberg error diffusion over independent
// 8-bit colour planes.
//
// The arithmetic is integer only: scaled errors are truncated toward zero and
// added straight back into the planes with saturation, so results are
// bit-exact for a given input and palette.
package dither

import (
	"image"

	"github.com/disintegration/imaging"
)

// Plane is one colour channel stored row-major: sample (x, y) lives at
// Pix[y*Width+x].
type Plane struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewPlane allocates a zeroed width×height plane.
func NewPlane(width, height int) *Plane {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Plane{Width: width, Height: height, Pix: make([]uint8, width*height)}
}

// At returns the sample at (x, y).
func (p *Plane) At(x, y int) uint8 { return p.Pix[y*p.Width+x] }

// Set stores v at (x, y).
func (p *Plane) Set(x, y int, v uint8) { p.Pix[y*p.Width+x] = v }

// Row returns row y as a slice aliasing the plane.
func (p *Plane) Row(y int) []uint8 { return p.Pix[y*p.Width : (y+1)*p.Width] }

func (p *Plane) add(x, y int, d int8) {
	i := y*p.Width + x
	p.Pix[i] = SatAdd(p.Pix[i], d)
}

// Channels holds the red, green and blue planes of one image. All three
// share the same dimensions.
type Channels struct {
	R, G, B *Plane
}

// Size returns the shared width and height.
func (c Channels) Size() (width, height int) {
	return c.R.Width, c.R.Height
}

func (c Channels) planes() [3]*Plane {
	return [3]*Plane{c.R, c.G, c.B}
}

// Split decomposes img into three planes of 8-bit non-premultiplied samples.
// Alpha is dropped. The result is anchored at (0, 0) whatever img's bounds.
func Split(img image.Image) Channels {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	ch := Channels{R: NewPlane(w, h), G: NewPlane(w, h), B: NewPlane(w, h)}
	if w == 0 || h == 0 {
		return ch
	}

	src, ok := img.(*image.NRGBA)
	if !ok || b.Min != (image.Point{}) {
		src = imaging.Clone(img)
	}

	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		r, g, bl := ch.R.Row(y), ch.G.Row(y), ch.B.Row(y)
		for x := 0; x < w; x++ {
			r[x] = row[x*4]
			g[x] = row[x*4+1]
			bl[x] = row[x*4+2]
		}
	}
	return ch
}

// Assemble packs the planes into an opaque image. Encoders write opaque
// images without an alpha channel.
func Assemble(ch Channels) *image.RGBA {
	w, h := ch.Size()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w*4]
		r, g, b := ch.R.Row(y), ch.G.Row(y), ch.B.Row(y)
		for x := 0; x < w; x++ {
			row[x*4] = r[x]
			row[x*4+1] = g[x]
			row[x*4+2] = b[x]
			row[x*4+3] = 0xff
		}
	}
	return img
}
