// Package render provides the pixel content drawn into each frame.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/image/colornames"
)

// Frame is a writable view of a frame's pixels. Pix holds Height rows
// of Stride bytes, top to bottom, in ARGB8888. Image is a view of the
// same memory.
type Frame struct {
	Pix    []byte
	Width  int
	Height int
	Stride int
	Image  draw.Image
}

func (f Frame) Bounds() image.Rectangle {
	return image.Rect(0, 0, f.Width, f.Height)
}

// A Renderer fills frames with content. It is called once per frame,
// between the compositor's frame notification and the next commit.
type Renderer interface {
	Render(f Frame)
}

// Names returns the names accepted by New.
func Names() []string {
	return []string{"noise", "solid"}
}

// New returns the renderer called name. Solid renderers use the named
// color. Noise renderers are seeded with seed.
func New(name, color string, seed uint64) (Renderer, error) {
	switch name {
	case "noise":
		return NewNoise(seed), nil
	case "solid":
		c, err := Color(color)
		if err != nil {
			return nil, err
		}
		return Solid{Color: c}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", name)
	}
}

// Color looks up a color by its SVG 1.1 name.
func Color(name string) (color.RGBA, error) {
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return color.RGBA{}, fmt.Errorf("unknown color %q", name)
	}
	return c, nil
}

// ColorNames returns the names accepted by Color, sorted.
func ColorNames() []string {
	names := maps.Keys(colornames.Map)
	slices.Sort(names)
	return names
}
