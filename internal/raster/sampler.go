package raster

import "image"

// SampleTexture reads tex bilinearly at (u, v) with repeat wrapping, the
// glTF default sampler. UV origin is the top-left texel.
func SampleTexture(tex *image.NRGBA, u, v float64) (r, g, b, a uint8) {
	w := tex.Rect.Dx()
	h := tex.Rect.Dy()
	if w == 0 || h == 0 {
		return 255, 255, 255, 255
	}

	fx := wrap(u)*float64(w) - 0.5
	fy := wrap(v)*float64(h) - 0.5
	if fx < 0 {
		fx += float64(w)
	}
	if fy < 0 {
		fy += float64(h)
	}
	x0, y0 := int(fx)%w, int(fy)%h
	x1, y1 := (x0+1)%w, (y0+1)%h
	dx, dy := fx-float64(int(fx)), fy-float64(int(fy))

	row0 := y0 * tex.Stride
	row1 := y1 * tex.Stride
	taps := [4]int{row0 + x0*4, row0 + x1*4, row1 + x0*4, row1 + x1*4}
	weights := [4]float64{(1 - dx) * (1 - dy), dx * (1 - dy), (1 - dx) * dy, dx * dy}

	var acc [4]float64
	for i, off := range taps {
		for c := 0; c < 4; c++ {
			acc[c] += float64(tex.Pix[off+c]) * weights[i]
		}
	}
	return uint8(acc[0] + 0.5), uint8(acc[1] + 0.5), uint8(acc[2] + 0.5), uint8(acc[3] + 0.5)
}

func wrap(t float64) float64 {
	t -= float64(int(t))
	if t < 0 {
		t += 1
	}
	return t
}
