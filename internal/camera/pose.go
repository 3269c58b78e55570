package camera

import (
	"math"

	"vehicle-customizer/internal/mathutil"
)

// Pose is a camera placement together with the orbit zoom bounds that apply
// while it is active.
type Pose struct {
	Position    mathutil.Vec3
	Target      mathutil.Vec3
	MinDistance float64
	MaxDistance float64
}

// Home is the placement used while no vehicle is shown.
func Home() Pose {
	return Pose{
		Position:    mathutil.Vec3{0, 1.6, 10},
		MinDistance: 5,
		MaxDistance: 50,
	}
}

// Distance returns the length from position to target.
func (p Pose) Distance() float64 {
	return p.Position.Sub(p.Target).Len()
}

// Clamped returns p with the position moved along its view ray so that the
// distance to the target lies within the zoom bounds. Bounds that are zero or
// inverted are ignored.
func (p Pose) Clamped() Pose {
	offset := p.Position.Sub(p.Target)
	d := offset.Len()
	if d < 1e-12 {
		return p
	}
	want := d
	if p.MinDistance > 0 && want < p.MinDistance {
		want = p.MinDistance
	}
	if p.MaxDistance > 0 && p.MaxDistance >= p.MinDistance && want > p.MaxDistance {
		want = p.MaxDistance
	}
	if math.Abs(want-d) < 1e-12 {
		return p
	}
	p.Position = p.Target.Add(offset.Scale(want / d))
	return p
}
