package raster

import (
	"image"
	"math"
)

// Vertex is a projected vertex in pixel space. U and V are texture
// coordinates; InvW is 1/w of the clip-space position, used for
// perspective-correct interpolation.
type Vertex struct {
	X, Y  float64
	Depth float64
	InvW  float64
	U, V  float64
}

// Shading is the per-triangle material input.
type Shading struct {
	Tex *image.NRGBA // nil when untextured
	// Tint is the linear RGBA base color multiplied with the texel.
	Tint  [4]float64
	Shade float64
}

// RasterizeTriangle fills one triangle with z-buffering, texture × tint in
// linear space, flat lighting and ACES tone mapping.
//
// Hot path: no allocation inside the pixel loop.
func RasterizeTriangle(fb *FrameBuffer, v [3]Vertex, s *Shading, lc *LightConfig) {
	x0, y0 := v[0].X, v[0].Y
	x1, y1 := v[1].X, v[1].Y
	x2, y2 := v[2].X, v[2].Y

	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))
	if minX < 0 {
		minX = 0
	}
	if minY < 0 {
		minY = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det
	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	textured := s.Tex != nil
	// Attributes pre-divided by w.
	var uw, vw [3]float64
	for i := range v {
		uw[i] = v[i].U * v[i].InvW
		vw[i] = v[i].V * v[i].InvW
	}

	gain := s.Shade * lc.Exposure
	invGamma := lc.InvGamma

	for sy := minY; sy <= maxY; sy++ {
		py := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			px := float64(sx) + 0.5 - x2
			w0 := (dy12*px + dx21*py) * invDet
			w1 := (dy20*px + dx02*py) * invDet
			w2 := 1.0 - w0 - w1
			if w0 < -1e-6 || w1 < -1e-6 || w2 < -1e-6 {
				continue
			}

			z := w0*v[0].Depth + w1*v[1].Depth + w2*v[2].Depth
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			lr, lg, lb, alpha := s.Tint[0], s.Tint[1], s.Tint[2], s.Tint[3]
			if textured {
				iw := w0*v[0].InvW + w1*v[1].InvW + w2*v[2].InvW
				u := (w0*uw[0] + w1*uw[1] + w2*uw[2]) / iw
				t := (w0*vw[0] + w1*vw[1] + w2*vw[2]) / iw
				cr, cg, cb, ca := SampleTexture(s.Tex, u, t)
				lr *= srgbToLinear[cr]
				lg *= srgbToLinear[cg]
				lb *= srgbToLinear[cb]
				alpha *= float64(ca) / 255
			}
			if alpha < 8.0/255 {
				continue
			}
			fb.ZBuf[zIdx] = z

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = clamp255(math.Pow(ACESTonemap(lr*gain), invGamma) * 255)
			fb.Color[pxIdx+1] = clamp255(math.Pow(ACESTonemap(lg*gain), invGamma) * 255)
			fb.Color[pxIdx+2] = clamp255(math.Pow(ACESTonemap(lb*gain), invGamma) * 255)
			fb.Color[pxIdx+3] = clamp255(alpha * 255)
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
