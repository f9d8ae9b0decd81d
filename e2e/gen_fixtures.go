//go:build ignore

// gen_fixtures creates test images for the E2E smoke test: tonal ramps that
// exercise error diffusion, a palette fixed point, an alpha image and a
// corrupt file.
// Usage: go run gen_fixtures.go <output_dir>
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: gen_fixtures <output_dir>")
		os.Exit(1)
	}
	dir := os.Args[1]
	must(os.MkdirAll(filepath.Join(dir, "ramps"), 0o755))

	// Colour ramp (JPEG, 320x180)
	writeJPEG(filepath.Join(dir, "photo.jpg"), colourRamp(320, 180))

	// Gray ramps (PNG) at a few sizes, including degenerate strips.
	for _, sz := range [][2]int{{256, 32}, {1, 64}, {64, 1}} {
		name := fmt.Sprintf("gray-%dx%d.png", sz[0], sz[1])
		writePNG(filepath.Join(dir, "ramps", name), grayRamp(sz[0], sz[1]))
	}

	// Already on the 3-level palette; dithering with -p 3 must not change it.
	writeBMP(filepath.Join(dir, "fixed-point.bmp"), fixedPoint(48, 48, []uint8{0, 127, 255}))

	// Translucent image; alpha must be dropped.
	writePNG(filepath.Join(dir, "alpha.png"), alphaGradient(100, 100))

	// Not an image at all; batch runs must report it and carry on.
	must(os.WriteFile(filepath.Join(dir, "corrupt.png"), []byte("not a png"), 0o644))

	fmt.Fprintf(os.Stderr, "[gen_fixtures] created 7 fixtures in %s\n", dir)
}

func colourRamp(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(x * 255 / w),
				G: uint8(y * 255 / h),
				B: uint8((w - x) * 255 / w),
				A: 255,
			})
		}
	}
	return img
}

func grayRamp(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	span := w + h - 2
	if span < 1 {
		span = 1
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x + y) * 255 / span)
			img.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	return img
}

func fixedPoint(w, h int, levels []uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	n := len(levels)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: levels[(x/8)%n],
				G: levels[(y/8)%n],
				B: levels[(x/8+y/8)%n],
				A: 255,
			})
		}
	}
	return img
}

func alphaGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: 220, G: 60, B: 30,
				A: uint8(x * 255 / w),
			})
		}
	}
	return img
}

func writePNG(path string, img image.Image) {
	f, err := os.Create(path)
	must(err)
	defer f.Close()
	must(png.Encode(f, img))
}

func writeJPEG(path string, img image.Image) {
	f, err := os.Create(path)
	must(err)
	defer f.Close()
	must(jpeg.Encode(f, img, &jpeg.Options{Quality: 85}))
}

func writeBMP(path string, img image.Image) {
	f, err := os.Create(path)
	must(err)
	defer f.Close()
	must(bmp.Encode(f, img))
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}
