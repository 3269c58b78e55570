// Package normalize centers a loaded fragment at the world origin and derives
// the camera framing from its size.
package normalize

import (
	"vehicle-customizer/internal/camera"
	"vehicle-customizer/internal/mathutil"
	"vehicle-customizer/internal/scene"
)

// Framing constants, as multiples of the extent length.
const (
	CameraHeight   = 1.6
	CameraDistance = 1.5
	MinZoom        = 0.5
	MaxZoom        = 0.8
)

// Result describes the fragment before it was moved.
type Result struct {
	// Center is the world-space box center prior to translation.
	Center mathutil.Vec3
	// ExtentLength is the box diagonal.
	ExtentLength float64
}

// Normalize translates f so that its bounding box is centered at the origin.
// A fragment with no drawable geometry is left in place and reports zero
// extent.
func Normalize(f *scene.Fragment) Result {
	box := f.Bounds()
	if box.IsEmpty() {
		return Result{}
	}
	center := box.Center()
	f.Translate(center.Scale(-1))
	return Result{Center: center, ExtentLength: box.Diagonal()}
}

// Frame places the camera on +Z at a fixed height, looking at the origin,
// with zoom bounds proportional to extent.
func Frame(extent float64) camera.Pose {
	return camera.Pose{
		Position:    mathutil.Vec3{0, CameraHeight, CameraDistance * extent},
		MinDistance: MinZoom * extent,
		MaxDistance: MaxZoom * extent,
	}
}
