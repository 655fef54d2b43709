package core

import "image/color"

// Color is an 8-bit RGBA color.
type Color struct {
	R, G, B, A uint8
}

// ColorFromRGBA unpacks a 0xRRGGBBAA value.
func ColorFromRGBA(v uint32) Color {
	return Color{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}
}

// RGBA packs the color as 0xRRGGBBAA.
func (c Color) RGBA() uint32 {
	return uint32(c.R)<<24 | uint32(c.G)<<16 | uint32(c.B)<<8 | uint32(c.A)
}

// Std converts to the image/color representation used by backends.
func (c Color) Std() color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: c.A}
}

// Lerp interpolates channel-wise from c to to by ratio t in [0, 1].
func (c Color) Lerp(to Color, t float64) Color {
	if t <= 0 {
		return c
	}
	if t >= 1 {
		return to
	}
	mix := func(a, b uint8) uint8 {
		return uint8(float64(a) + (float64(b)-float64(a))*t + 0.5)
	}
	return Color{R: mix(c.R, to.R), G: mix(c.G, to.G), B: mix(c.B, to.B), A: mix(c.A, to.A)}
}

// White is the default particle color.
var White = Color{R: 255, G: 255, B: 255, A: 255}
