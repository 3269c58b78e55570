package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"vehicle-customizer/internal/mathutil"
)

const (
	// FieldOfView is the vertical field of view in degrees.
	FieldOfView = 75.0
	Near        = 0.1
	Far         = 1000.0

	maxPolar = math.Pi - 1e-3
	minPolar = 1e-3
)

// Orbit rotates and dollies a camera around its target, keeping the distance
// within the active pose's zoom bounds.
type Orbit struct {
	home  Pose
	state Pose
}

// NewOrbit starts an orbit at the Home pose.
func NewOrbit() *Orbit {
	o := &Orbit{}
	o.Reset(Home())
	return o
}

// Reset makes p the orbit's saved and current pose.
func (o *Orbit) Reset(p Pose) {
	o.home = p
	o.state = p.Clamped()
}

// Restore returns to the last pose passed to Reset.
func (o *Orbit) Restore() {
	o.state = o.home.Clamped()
}

// Pose returns the current effective pose.
func (o *Orbit) Pose() Pose {
	return o.state
}

// Dolly moves the camera toward (negative) or away from (positive) the
// target by delta, clamped to the zoom bounds.
func (o *Orbit) Dolly(delta float64) {
	offset := o.state.Position.Sub(o.state.Target)
	d := offset.Len()
	if d < 1e-12 {
		return
	}
	next := d + delta
	if next < 1e-6 {
		next = 1e-6
	}
	o.state.Position = o.state.Target.Add(offset.Scale(next / d))
	o.state = o.state.Clamped()
}

// Rotate swings the camera around the target by yaw about +Y and pitch toward
// the poles, both in radians. The polar angle never reaches a pole.
func (o *Orbit) Rotate(yaw, pitch float64) {
	offset := o.state.Position.Sub(o.state.Target)
	r := offset.Len()
	if r < 1e-12 {
		return
	}
	theta := math.Atan2(offset[0], offset[2]) + yaw
	phi := math.Acos(clamp(offset[1]/r, -1, 1)) - pitch
	phi = clamp(phi, minPolar, maxPolar)

	sinPhi := math.Sin(phi)
	o.state.Position = o.state.Target.Add(mathutil.Vec3{
		r * sinPhi * math.Sin(theta),
		r * math.Cos(phi),
		r * sinPhi * math.Cos(theta),
	})
}

// View returns the world-to-camera matrix for the current pose.
func (o *Orbit) View() mgl64.Mat4 {
	return ViewMatrix(o.state)
}

// ViewMatrix builds a right-handed look-at matrix with +Y up.
func ViewMatrix(p Pose) mgl64.Mat4 {
	return mgl64.LookAtV(vec(p.Position), vec(p.Target), mgl64.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for the given aspect ratio.
func Projection(aspect float64) mgl64.Mat4 {
	if aspect <= 0 {
		aspect = 1
	}
	return mgl64.Perspective(mgl64.DegToRad(FieldOfView), aspect, Near, Far)
}

func vec(v mathutil.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v[0], v[1], v[2]}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
