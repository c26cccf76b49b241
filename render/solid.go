package render

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Solid fills frames with a single opaque color.
type Solid struct {
	Color color.Color
}

func (s Solid) Render(f Frame) {
	draw.Draw(f.Image, f.Bounds(), image.NewUniform(s.Color), image.Point{}, draw.Src)
}
