package core

import "math"

// Color is an RGB triple. Channels are nominally in [0, 1] but may exceed 1
// while light is being accumulated; they are only clamped by RGB8 and RGBA.
type Color struct {
	R, G, B float64
}

var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
	Red   = Color{1, 0, 0}
	Green = Color{0, 1, 0}
	Blue  = Color{0, 0, 1}
)

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b}
}

// Add returns the channel-wise sum without clamping
func (c Color) Add(other Color) Color {
	return Color{c.R + other.R, c.G + other.G, c.B + other.B}
}

// AddSaturated returns the channel-wise sum with each channel capped at 1
func (c Color) AddSaturated(other Color) Color {
	return Color{
		R: math.Min(1, c.R+other.R),
		G: math.Min(1, c.G+other.G),
		B: math.Min(1, c.B+other.B),
	}
}

// MultiplyColor returns the channel-wise product of two colors
func (c Color) MultiplyColor(other Color) Color {
	return Color{c.R * other.R, c.G * other.G, c.B * other.B}
}

// Multiply scales every channel by a scalar
func (c Color) Multiply(scalar float64) Color {
	return Color{c.R * scalar, c.G * scalar, c.B * scalar}
}

// Intensity returns the arithmetic mean of the three channels
func (c Color) Intensity() float64 {
	return (c.R + c.G + c.B) / 3.0
}

// IsBlack reports whether every channel is exactly zero
func (c Color) IsBlack() bool {
	return c.R == 0 && c.G == 0 && c.B == 0
}

// RGB8 clamps each channel to [0, 1], scales by 255 and truncates toward zero.
func (c Color) RGB8() (r, g, b uint8) {
	return channel8(c.R), channel8(c.G), channel8(c.B)
}

// RGBA implements image/color.Color with the same clamping as RGB8
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB8()
	r = uint32(r8)
	r |= r << 8
	g = uint32(g8)
	g |= g << 8
	b = uint32(b8)
	b |= b << 8
	return r, g, b, 0xffff
}

func channel8(v float64) uint8 {
	// NaN fails both comparisons and would otherwise reach the conversion
	if !(v > 0) {
		return 0
	}
	if v > 1 {
		v = 1
	}
	return uint8(255 * v)
}
