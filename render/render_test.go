package render_test

import (
	"image"
	"testing"

	"deedles.dev/playland/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/colornames"
)

func newFrame(w, h int) render.Frame {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	return render.Frame{
		Pix:    img.Pix,
		Width:  w,
		Height: h,
		Stride: img.Stride,
		Image:  img,
	}
}

func TestNoiseDeterministic(t *testing.T) {
	a, b := newFrame(8, 8), newFrame(8, 8)
	render.NewNoise(3).Render(a)
	render.NewNoise(3).Render(b)
	assert.Equal(t, a.Pix, b.Pix)
	assert.NotEqual(t, make([]byte, len(a.Pix)), a.Pix)

	c := newFrame(8, 8)
	render.NewNoise(4).Render(c)
	assert.NotEqual(t, a.Pix, c.Pix)
}

func TestNoiseChangesEveryFrame(t *testing.T) {
	noise := render.NewNoise(1)

	f := newFrame(4, 4)
	noise.Render(f)
	first := append([]byte(nil), f.Pix...)
	noise.Render(f)
	assert.NotEqual(t, first, f.Pix)
}

func TestSolid(t *testing.T) {
	f := newFrame(3, 2)
	render.Solid{Color: colornames.Red}.Render(f)

	img := f.Image.(*image.RGBA)
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			assert.Equal(t, colornames.Red, img.RGBAAt(x, y))
		}
	}
}

func TestNew(t *testing.T) {
	r, err := render.New("noise", "", 1)
	require.NoError(t, err)
	assert.IsType(t, &render.Noise{}, r)

	r, err = render.New("solid", "SteelBlue", 0)
	require.NoError(t, err)
	assert.Equal(t, render.Solid{Color: colornames.Steelblue}, r)

	_, err = render.New("solid", "notacolor", 0)
	assert.Error(t, err)

	_, err = render.New("raytrace", "", 0)
	assert.Error(t, err)
}

func TestColorNames(t *testing.T) {
	names := render.ColorNames()
	assert.Contains(t, names, "blue")
	assert.IsIncreasing(t, names)
}
