package scene

import (
	"image"
	"iter"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Line yields the colors of scanline l of an h×v image, left to right.
func (s *Scene) Line(h, v, l int) iter.Seq[core.Color] {
	return func(yield func(core.Color) bool) {
		if h <= 0 || v <= 0 {
			return
		}
		frame := s.Camera.Frame(h, v)
		for _, dir := range frame.Directions(l) {
			if !yield(s.Trace(frame.Origin, dir, 0)) {
				return
			}
		}
	}
}

// LineColors returns scanline l of an h×v image
func (s *Scene) LineColors(h, v, l int) []core.Color {
	colors := make([]core.Color, 0, max(h, 0))
	for c := range s.Line(h, v, l) {
		colors = append(colors, c)
	}
	return colors
}

// LineRGB8 returns scanline l of an h×v image converted to 8-bit triples
func (s *Scene) LineRGB8(h, v, l int) [][3]uint8 {
	pixels := make([][3]uint8, 0, max(h, 0))
	for c := range s.Line(h, v, l) {
		r, g, b := c.RGB8()
		pixels = append(pixels, [3]uint8{r, g, b})
	}
	return pixels
}

// Frame yields every pixel of an h×v image in row-major order. Each row
// produces the same colors as Line.
func (s *Scene) Frame(h, v int) iter.Seq2[image.Point, core.Color] {
	return func(yield func(image.Point, core.Color) bool) {
		for y := 0; y < v; y++ {
			x := 0
			for c := range s.Line(h, v, y) {
				if !yield(image.Pt(x, y), c) {
					return
				}
				x++
			}
		}
	}
}
