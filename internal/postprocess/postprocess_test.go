package postprocess

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fill(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDownsample_Size(t *testing.T) {
	out := Downsample(fill(8, 8, color.NRGBA{200, 40, 40, 255}), 4, 4)
	require.Equal(t, image.Rect(0, 0, 4, 4), out.Bounds())
	px := out.NRGBAAt(2, 2)
	assert.InDelta(t, 200, int(px.R), 2)
	assert.Equal(t, uint8(255), px.A)
}

func TestDownsample_NoHaloOnTransparentEdge(t *testing.T) {
	img := fill(8, 8, color.NRGBA{})
	for y := 0; y < 8; y++ {
		for x := 4; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{255, 255, 255, 255})
		}
	}
	out := Downsample(img, 4, 4)
	for x := 0; x < 4; x++ {
		px := out.NRGBAAt(x, 2)
		if px.A > 16 {
			assert.Greater(t, px.R, uint8(200), "x=%d", x)
		}
	}
}

func TestDownsample_SmallerIsUnchanged(t *testing.T) {
	img := fill(4, 4, color.NRGBA{1, 2, 3, 4})
	assert.Same(t, img, Downsample(img, 8, 8))
}

func TestFlatten(t *testing.T) {
	img := fill(2, 2, color.NRGBA{})
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	out := Flatten(img, color.NRGBA{255, 255, 255, 255})
	assert.Equal(t, color.NRGBA{255, 0, 0, 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, out.NRGBAAt(1, 1))
}
