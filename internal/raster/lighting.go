package raster

import (
	"math"

	"vehicle-customizer/internal/mathutil"
)

// LightConfig holds precomputed lighting parameters. Directions are in world
// space.
type LightConfig struct {
	LightDir mathutil.Vec3
	RimDir   mathutil.Vec3
	Ambient  float64
	Hemi     float64
	Direct   float64
	Rim      float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// DefaultLightConfig is a key light above and to the right of the default
// camera with a cool rim from behind.
func DefaultLightConfig() LightConfig {
	return LightConfig{
		LightDir: mathutil.Vec3{0.45, 0.75, 0.5}.Normalize(),
		RimDir:   mathutil.Vec3{-0.5, 0.4, -0.75}.Normalize(),
		Ambient:  0.35,
		Hemi:     0.30,
		Direct:   0.90,
		Rim:      0.35,
		SpecInt:  0.35,
		SpecPow:  24.0,
		Exposure: 1.0,
		InvGamma: 1.0 / 2.2,
	}
}

// Shade returns the combined lighting scalar for a unit face normal seen
// along viewDir (unit, camera to surface).
func (lc *LightConfig) Shade(normal, viewDir mathutil.Vec3) float64 {
	// Double-sided: flip toward the viewer.
	if normal.Dot(viewDir) > 0 {
		normal = normal.Scale(-1)
	}
	ndl := math.Max(0, normal.Dot(lc.LightDir))
	rim := math.Max(0, normal.Dot(lc.RimDir))
	hemi := (normal[1]*0.5 + 0.5) * lc.Hemi

	half := lc.LightDir.Sub(viewDir).Normalize()
	spec := math.Pow(math.Max(0, normal.Dot(half)), lc.SpecPow) * lc.SpecInt

	return lc.Ambient + hemi + ndl*lc.Direct + rim*lc.Rim + spec
}

// Precomputed sRGB-to-linear lookup table.
var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = math.Pow(float64(i)/255.0, 2.2)
	}
}

// ACESTonemap applies ACES filmic tone mapping to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
