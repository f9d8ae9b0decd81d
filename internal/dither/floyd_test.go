package dither

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/AnyUserName/fsdither-cli/internal/palette"
)

// grayPlanes builds Channels with identical planes from rows of samples.
func grayPlanes(rows [][]uint8) Channels {
	h := len(rows)
	w := 0
	if h > 0 {
		w = len(rows[0])
	}
	ch := Channels{R: NewPlane(w, h), G: NewPlane(w, h), B: NewPlane(w, h)}
	for y, row := range rows {
		for x, v := range row {
			ch.R.Set(x, y, v)
			ch.G.Set(x, y, v)
			ch.B.Set(x, y, v)
		}
	}
	return ch
}

func planeRows(p *Plane) [][]uint8 {
	out := make([][]uint8, p.Height)
	for y := range out {
		out[y] = append([]uint8(nil), p.Row(y)...)
	}
	return out
}

func equalRows(a, b [][]uint8) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !bytes.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestFloydSteinberg_Scenarios(t *testing.T) {
	tests := []struct {
		name   string
		levels int
		in     [][]uint8
		want   [][]uint8
	}{
		{"black_1x1", 2, [][]uint8{{0}}, [][]uint8{{0}}},
		{"mid_gray_1x1", 2, [][]uint8{{127}}, [][]uint8{{0}}},
		{"mid_gray_plus_one_1x1", 2, [][]uint8{{128}}, [][]uint8{{255}}},
		{"horizontal_2x1", 2, [][]uint8{{100, 100}}, [][]uint8{{0, 255}}},
		{"vertical_1x2", 2, [][]uint8{{100}, {100}}, [][]uint8{{0}, {255}}},
		{"three_levels_1x1", 3, [][]uint8{{127}}, [][]uint8{{127}}},
		// -55*7/16 truncates to -24, leaving 128 which rounds up.
		// Floor division would give -25 and a black second pixel.
		{"truncation_toward_zero", 2, [][]uint8{{200, 152}}, [][]uint8{{255, 255}}},
		// The first share saturates at 255 and is lost, so nothing reaches
		// the third pixel.
		{"in_place_saturation", 2, [][]uint8{{127, 250, 110}}, [][]uint8{{0, 255, 0}}},
		{
			"ramp_4x3", 2,
			[][]uint8{{10, 70, 130, 190}, {30, 90, 150, 210}, {50, 110, 170, 230}},
			[][]uint8{{0, 0, 255, 255}, {0, 0, 255, 255}, {0, 255, 0, 255}},
		},
		{
			"mixed_5x4", 3,
			[][]uint8{
				{0, 37, 74, 111, 148},
				{91, 128, 165, 202, 239},
				{182, 219, 0, 37, 74},
				{17, 54, 91, 128, 165},
			},
			[][]uint8{
				{0, 0, 127, 127, 127},
				{127, 127, 127, 255, 255},
				{127, 255, 0, 0, 127},
				{0, 0, 127, 127, 127},
			},
		},
		{"bright_saturates", 2, [][]uint8{{250, 250, 250}, {250, 250, 250}}, [][]uint8{{255, 255, 255}, {255, 255, 255}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := grayPlanes(tt.in)
			FloydSteinberg(ch, palette.Generate(tt.levels))
			for name, p := range map[string]*Plane{"R": ch.R, "G": ch.G, "B": ch.B} {
				if got := planeRows(p); !equalRows(got, tt.want) {
					t.Errorf("%s: got %v, want %v", name, got, tt.want)
				}
			}
		})
	}
}

func TestFloydSteinberg_FixedPoint(t *testing.T) {
	for _, levels := range []int{2, 3, 4, 6, 16} {
		p := palette.Generate(levels)
		rows := make([][]uint8, 7)
		for y := range rows {
			rows[y] = make([]uint8, 9)
			for x := range rows[y] {
				rows[y][x] = p[(x*3+y*5)%len(p)]
			}
		}
		ch := grayPlanes(rows)
		FloydSteinberg(ch, p)
		if got := planeRows(ch.R); !equalRows(got, rows) {
			t.Errorf("levels %d: fixed-point image changed:\n got %v\nwant %v", levels, got, rows)
		}
	}
}

func TestFloydSteinberg_Empty(t *testing.T) {
	for _, size := range [][2]int{{0, 0}, {0, 3}, {3, 0}} {
		ch := Channels{
			R: NewPlane(size[0], size[1]),
			G: NewPlane(size[0], size[1]),
			B: NewPlane(size[0], size[1]),
		}
		FloydSteinberg(ch, palette.Generate(2))
		if len(ch.R.Pix) != 0 {
			t.Errorf("%v: unexpected samples", size)
		}
	}
}

func TestImage_RangeClosure(t *testing.T) {
	src := makeNoise(37, 23)
	for _, levels := range []int{0, 1, 2, 3, 5, 8, 16} {
		p := palette.Generate(levels)
		out := Image(src, p)
		for i := 0; i < len(out.Pix); i += 4 {
			for c := 0; c < 3; c++ {
				if !p.Contains(out.Pix[i+c]) {
					t.Fatalf("levels %d: sample %d not in palette %v", levels, out.Pix[i+c], p)
				}
			}
			if out.Pix[i+3] != 0xff {
				t.Fatalf("levels %d: alpha %d", levels, out.Pix[i+3])
			}
		}
	}
}

func TestImage_Deterministic(t *testing.T) {
	src := makeNoise(64, 48)
	p := palette.Generate(4)
	a := Image(src, p)
	b := Image(src, p)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("repeated runs differ")
	}
}

func TestImage_DoesNotModifySource(t *testing.T) {
	src := makeNoise(8, 8)
	before := append([]uint8(nil), src.Pix...)
	Image(src, palette.Generate(2))
	if !bytes.Equal(before, src.Pix) {
		t.Error("source image was modified")
	}
}

func TestImage_ChannelIndependence(t *testing.T) {
	src := makeNoise(31, 17)
	p := palette.Generate(3)
	out := Image(src, p)

	for c := 0; c < 3; c++ {
		mono := image.NewNRGBA(src.Bounds())
		for i := 0; i < len(src.Pix); i += 4 {
			v := src.Pix[i+c]
			mono.Pix[i], mono.Pix[i+1], mono.Pix[i+2], mono.Pix[i+3] = v, v, v, 255
		}
		ref := Image(mono, p)
		for i := 0; i < len(out.Pix); i += 4 {
			if out.Pix[i+c] != ref.Pix[i] {
				t.Fatalf("channel %d differs at byte %d: %d vs %d", c, i, out.Pix[i+c], ref.Pix[i])
			}
		}
	}
}

func TestImage_GrayPreserved(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			v := uint8((x*7 + y*13) % 256)
			src.SetNRGBA(x, y, color.NRGBA{v, v, v, 255})
		}
	}
	out := Image(src, palette.Generate(5))
	for i := 0; i < len(out.Pix); i += 4 {
		if out.Pix[i] != out.Pix[i+1] || out.Pix[i+1] != out.Pix[i+2] {
			t.Fatalf("pixel %d not gray: %v", i/4, out.Pix[i:i+3])
		}
	}
}

func TestImage_AlphaIgnored(t *testing.T) {
	opaque := makeNoise(12, 9)
	translucent := image.NewNRGBA(opaque.Bounds())
	copy(translucent.Pix, opaque.Pix)
	for i := 3; i < len(translucent.Pix); i += 4 {
		translucent.Pix[i] = uint8(i % 200)
	}
	p := palette.Generate(2)
	if !bytes.Equal(Image(opaque, p).Pix, Image(translucent, p).Pix) {
		t.Error("alpha changed the dithered output")
	}
}

func makeNoise(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 251) % 256),
				G: uint8((y * 179) % 256),
				B: uint8(((x + y) * 113) % 256),
				A: 255,
			})
		}
	}
	return img
}

func BenchmarkFloydSteinberg(b *testing.B) {
	src := makeNoise(512, 512)
	p := palette.Generate(4)
	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = Image(src, p)
	}
}
