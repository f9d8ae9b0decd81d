package dither

import (
	"image"

	"github.com/AnyUserName/fsdither-cli/internal/palette"
)

// Floyd–Steinberg weights, in sixteenths.
const (
	weightRight      = 7
	weightBelowLeft  = 3
	weightBelow      = 5
	weightBelowRight = 1
)

// FloydSteinberg quantizes every sample of ch to its nearest palette level,
// in place, diffusing each sample's error to the right and lower neighbours.
//
// Pixels are visited in raster order, left to right only. Each plane uses
// its own error. Diffused shares are written straight into the 8-bit planes
// with saturation; there is no wider accumulator.
func FloydSteinberg(ch Channels, p palette.Palette) {
	w, h := ch.Size()
	planes := ch.planes()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for _, pl := range planes {
				diffuse(pl, x, y, quantize(pl, x, y, p))
			}
		}
	}
}

// quantize replaces the sample at (x, y) and returns old-new.
func quantize(pl *Plane, x, y int, p palette.Palette) int16 {
	i := y*pl.Width + x
	old := int16(pl.Pix[i])
	next := int16(p.Nearest(pl.Pix[i]))
	pl.Pix[i] = uint8(next)
	return old - next
}

func diffuse(pl *Plane, x, y int, err int16) {
	if err == 0 {
		return
	}
	w, h := pl.Width, pl.Height

	if x+1 < w {
		pl.add(x+1, y, share(err, weightRight))
	}
	if y+1 < h {
		if x > 0 {
			pl.add(x-1, y+1, share(err, weightBelowLeft))
		}
		pl.add(x, y+1, share(err, weightBelow))
		if x+1 < w {
			pl.add(x+1, y+1, share(err, weightBelowRight))
		}
	}
}

// share scales err by weight/16. Go's integer division truncates toward
// zero, which is the required rounding for negative errors. |err| <= 255
// and weight <= 7 keep the result within int8.
func share(err, weight int16) int8 {
	return int8(err * weight / 16)
}

// Image dithers img against p and returns the opaque result. img is not
// modified.
func Image(img image.Image, p palette.Palette) *image.RGBA {
	ch := Split(img)
	FloydSteinberg(ch, p)
	return Assemble(ch)
}
