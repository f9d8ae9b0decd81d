package dither

// SatAdd returns v+d clamped to [0, 255].
func SatAdd(v uint8, d int8) uint8 {
	s := int(v) + int(d)
	switch {
	case s < 0:
		return 0
	case s > 255:
		return 255
	default:
		return uint8(s)
	}
}
