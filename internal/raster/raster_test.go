package raster

import (
	"bytes"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/webp"

	"vehicle-customizer/internal/camera"
	"vehicle-customizer/internal/lifecycle"
	"vehicle-customizer/internal/mathutil"
	"vehicle-customizer/internal/scene"
	"vehicle-customizer/internal/scene/scenetest"
)

func redBox(t *testing.T) *scene.Fragment {
	t.Helper()
	f := scenetest.Build(scene.NewTracker(), "box",
		scenetest.Part{Node: "body", Material: "paint", Min: mathutil.Vec3{-1, -1, -1}, Max: mathutil.Vec3{1, 1, 1}},
	)
	for _, m := range f.Materials() {
		m.SetRGB(1, 0, 0)
	}
	return f
}

func front() camera.Pose {
	return camera.Pose{Position: mathutil.Vec3{0, 0, 5}, MinDistance: 1, MaxDistance: 10}
}

func TestRender_DrawsVisibleGeometry(t *testing.T) {
	r := NewRenderer(Options{Width: 32, Height: 32, Supersample: 1, Background: color.NRGBA{255, 255, 255, 255}})
	img := r.Render(redBox(t), front(), nil)
	require.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())

	center := img.NRGBAAt(16, 16)
	assert.Equal(t, uint8(255), center.A)
	assert.Greater(t, center.R, center.G)
	assert.Less(t, center.G, uint8(50))

	corner := img.NRGBAAt(0, 0)
	assert.Equal(t, color.NRGBA{255, 255, 255, 255}, corner)
}

func TestRender_TransparentBackground(t *testing.T) {
	r := NewRenderer(Options{Width: 16, Height: 16, Supersample: 2})
	img := r.Render(redBox(t), front(), nil)
	assert.Equal(t, image.Rect(0, 0, 16, 16), img.Bounds())
	assert.Zero(t, img.NRGBAAt(0, 0).A)
	assert.NotZero(t, img.NRGBAAt(8, 8).A)
}

func TestRender_BehindCameraIsSkipped(t *testing.T) {
	r := NewRenderer(Options{Width: 16, Height: 16, Supersample: 1})
	pose := camera.Pose{Position: mathutil.Vec3{0, 0, 5}, Target: mathutil.Vec3{0, 0, 10}}
	img := r.Render(redBox(t), pose, nil)
	for i := 3; i < len(img.Pix); i += 4 {
		require.Zero(t, img.Pix[i])
	}
}

func TestRender_DisposedFragmentDrawsNothing(t *testing.T) {
	f := redBox(t)
	f.Dispose()
	r := NewRenderer(Options{Width: 8, Height: 8, Supersample: 1})
	img := r.Render(f, front(), nil)
	assert.Zero(t, img.NRGBAAt(4, 4).A)
}

func TestRenderer_Surface(t *testing.T) {
	r := NewRenderer(Options{Width: 8, Height: 8})
	_, ok := r.Frame()
	assert.False(t, ok)

	r.Present(lifecycle.View{Fragment: redBox(t), Pose: front()})
	img, ok := r.Frame()
	require.True(t, ok)
	assert.Equal(t, 8, img.Bounds().Dx())
	assert.Equal(t, 1, r.Frames())

	r.Clear()
	_, ok = r.Frame()
	assert.False(t, ok)
	assert.Equal(t, 1, r.Frames())
}

func TestNewRenderer_Defaults(t *testing.T) {
	r := NewRenderer(Options{})
	assert.Equal(t, 512, r.opts.Width)
	assert.Equal(t, 512, r.opts.Height)
	assert.Equal(t, 1, r.opts.Supersample)
}

func TestWriteWebP(t *testing.T) {
	img := NewRenderer(Options{Width: 8, Height: 8}).Render(redBox(t), front(), nil)
	path := filepath.Join(t.TempDir(), "nested", "out.webp")
	require.NoError(t, WriteWebP(path, img))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	decoded, err := webp.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())
}

func TestToMGL_Transposes(t *testing.T) {
	m := mathutil.Translate(mathutil.Vec3{1, 2, 3})
	g := toMGL(m)
	assert.Equal(t, 1.0, g.At(0, 3))
	assert.Equal(t, 2.0, g.At(1, 3))
	assert.Equal(t, 3.0, g.At(2, 3))
}

func TestSampleTexture_Wraps(t *testing.T) {
	tex := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	tex.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	tex.SetNRGBA(1, 0, color.NRGBA{0, 0, 255, 255})
	r1, _, b1, _ := SampleTexture(tex, 0.25, 0.5)
	r2, _, b2, _ := SampleTexture(tex, 1.25, 0.5)
	assert.Equal(t, r1, r2)
	assert.Equal(t, b1, b2)
}

func TestACESTonemap_Bounded(t *testing.T) {
	assert.Zero(t, ACESTonemap(0))
	assert.InDelta(t, 1.0, ACESTonemap(100), 0.05)
	assert.Less(t, ACESTonemap(0.2), ACESTonemap(0.8))
}
