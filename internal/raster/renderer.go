// Package raster is a software renderer for the live vehicle. It serves as
// the lifecycle surface for headless snapshots.
package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/HugoSmits86/nativewebp"
	"github.com/go-gl/mathgl/mgl64"

	"vehicle-customizer/internal/camera"
	"vehicle-customizer/internal/lifecycle"
	"vehicle-customizer/internal/mathutil"
	"vehicle-customizer/internal/postprocess"
	"vehicle-customizer/internal/scene"
	"vehicle-customizer/internal/texture"
)

// Options control output size and look.
type Options struct {
	Width  int
	Height int
	// Supersample renders at this multiple of the output size and scales down.
	Supersample int
	// Background is composited under the render; zero alpha keeps it transparent.
	Background color.NRGBA
}

// DefaultOptions renders a 512×512 frame, 2× supersampled, on white.
func DefaultOptions() Options {
	return Options{
		Width:       512,
		Height:      512,
		Supersample: 2,
		Background:  color.NRGBA{255, 255, 255, 255},
	}
}

// Renderer draws lifecycle views into images. It implements
// lifecycle.Surface; the last presented frame is kept until Clear.
type Renderer struct {
	opts  Options
	light LightConfig

	mu     sync.Mutex
	frame  *image.NRGBA
	frames int
}

var _ lifecycle.Surface = (*Renderer)(nil)

// NewRenderer fills zero option fields from DefaultOptions.
func NewRenderer(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 {
		opts.Width = def.Width
	}
	if opts.Height <= 0 {
		opts.Height = def.Height
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	return &Renderer{opts: opts, light: DefaultLightConfig()}
}

// Present renders v and keeps the result as the current frame.
func (r *Renderer) Present(v lifecycle.View) {
	img := r.Render(v.Fragment, v.Pose, v.Textures)
	r.mu.Lock()
	r.frame = img
	r.frames++
	r.mu.Unlock()
}

// Clear drops the current frame.
func (r *Renderer) Clear() {
	r.mu.Lock()
	r.frame = nil
	r.mu.Unlock()
}

// Frame returns the current frame, or false after Clear.
func (r *Renderer) Frame() (*image.NRGBA, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frame, r.frame != nil
}

// Frames counts Present calls.
func (r *Renderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Render draws f from pose. Textures may be nil.
func (r *Renderer) Render(f *scene.Fragment, pose camera.Pose, textures texture.Resolver) *image.NRGBA {
	ss := r.opts.Supersample
	w, h := r.opts.Width*ss, r.opts.Height*ss
	fb := NewFrameBuffer(w, h)

	if f != nil && !f.Disposed() {
		viewProj := camera.Projection(float64(w) / float64(h)).Mul4(camera.ViewMatrix(pose))
		f.Root.Traverse(func(n *scene.Node) {
			if n.Drawable() {
				r.drawNode(fb, n, viewProj, pose.Position, textures)
			}
		})
	}

	img := fb.Image()
	if ss > 1 {
		img = postprocess.Downsample(img, r.opts.Width, r.opts.Height)
	}
	if r.opts.Background.A > 0 {
		img = postprocess.Flatten(img, r.opts.Background)
	}
	return img
}

func (r *Renderer) drawNode(fb *FrameBuffer, n *scene.Node, viewProj mgl64.Mat4, eye mathutil.Vec3, textures texture.Resolver) {
	g := n.Geometry
	world := n.World()
	mvp := viewProj.Mul4(toMGL(world))

	// Project every vertex once.
	verts := make([]Vertex, len(g.Positions))
	worldPos := make([]mathutil.Vec3, len(g.Positions))
	visible := make([]bool, len(g.Positions))
	for i, p := range g.Positions {
		pos := mathutil.Vec3From(p)
		worldPos[i] = world.MulPoint(pos)
		clip := mvp.Mul4x1(mgl64.Vec4{pos[0], pos[1], pos[2], 1})
		if clip[3] <= camera.Near*0.5 {
			continue
		}
		invW := 1 / clip[3]
		verts[i] = Vertex{
			X:     (clip[0]*invW + 1) * 0.5 * float64(fb.Width),
			Y:     (1 - clip[1]*invW) * 0.5 * float64(fb.Height),
			Depth: -clip[2] * invW,
			InvW:  invW,
		}
		if i < len(g.UVs) {
			verts[i].U = float64(g.UVs[i][0])
			verts[i].V = float64(g.UVs[i][1])
		}
		visible[i] = true
	}

	mat := n.Material
	shading := Shading{Tint: mat.BaseColor}
	if textures != nil && mat.Texture != "" && len(g.UVs) == len(g.Positions) {
		shading.Tex = textures.Resolve(mat.Texture)
	}

	for t := 0; t < g.TriangleCount(); t++ {
		idx := g.Triangle(t)
		ok := true
		for _, i := range idx {
			if i < 0 || i >= len(verts) || !visible[i] {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		a, b, c := worldPos[idx[0]], worldPos[idx[1]], worldPos[idx[2]]
		normal := b.Sub(a).Cross(c.Sub(a)).Normalize()
		if normal == (mathutil.Vec3{}) {
			continue
		}
		viewDir := a.Sub(eye).Normalize()
		shading.Shade = r.light.Shade(normal, viewDir)
		RasterizeTriangle(fb, [3]Vertex{verts[idx[0]], verts[idx[1]], verts[idx[2]]}, &shading, &r.light)
	}
}

// toMGL converts a row-major matrix to mathgl's column-major layout.
func toMGL(m mathutil.Mat4) mgl64.Mat4 {
	var out mgl64.Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[col*4+row] = m[row*4+col]
		}
	}
	return out
}

// EncodeWebP writes img as lossless WebP.
func EncodeWebP(w io.Writer, img image.Image) error {
	if err := nativewebp.Encode(w, img, nil); err != nil {
		return fmt.Errorf("raster: encode webp: %w", err)
	}
	return nil
}

// WriteWebP encodes img to path, creating parent directories.
func WriteWebP(path string, img image.Image) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("raster: create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("raster: create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("raster: close %s: %w", path, cerr)
		}
	}()
	return EncodeWebP(f, img)
}
