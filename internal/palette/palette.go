// Package palette builds and queries the per-channel level sets used by the
// dithering engine.
package palette

// Palette is an ordered set of 8-bit levels. The same palette is applied to
// every channel.
type Palette []uint8

// MaxSize is the largest palette that still yields distinct 8-bit levels.
const MaxSize = 256

// Generate returns size evenly spaced levels covering [0, 255].
//
// Sizes 0 and 1 have no interval to interpolate, so they produce the
// two-level palette {0, 255}. For size >= 2 entry i is i*255/(size-1)
// truncated, which makes the first entry 0 and the last 255.
func Generate(size int) Palette {
	if size <= 1 {
		return Palette{0, 255}
	}

	p := make(Palette, size)
	for i := range p {
		p[i] = uint8(i * 255 / (size - 1))
	}
	return p
}

// Nearest returns the level closest to v. On a tie the earlier entry wins.
// An empty palette yields 0.
func (p Palette) Nearest(v uint8) uint8 {
	if len(p) == 0 {
		return 0
	}

	best := p[0]
	bestDist := absDiff(v, best)
	for _, level := range p[1:] {
		if d := absDiff(v, level); d < bestDist {
			best, bestDist = level, d
		}
	}
	return best
}

// Contains reports whether v is one of the palette's levels.
func (p Palette) Contains(v uint8) bool {
	for _, level := range p {
		if level == v {
			return true
		}
	}
	return false
}

// Ints returns the levels as ints, for JSON output (a []uint8 would be
// marshalled as base64).
func (p Palette) Ints() []int {
	out := make([]int, len(p))
	for i, level := range p {
		out[i] = int(level)
	}
	return out
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
