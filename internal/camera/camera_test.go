package camera

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"

	"vehicle-customizer/internal/mathutil"
)

func TestHome(t *testing.T) {
	h := Home()
	assert.Equal(t, mathutil.Vec3{0, 1.6, 10}, h.Position)
	assert.Equal(t, mathutil.Vec3{}, h.Target)
	assert.Equal(t, 5.0, h.MinDistance)
	assert.Equal(t, 50.0, h.MaxDistance)
	assert.Equal(t, h, h.Clamped())
}

func TestClamped(t *testing.T) {
	p := Pose{Position: mathutil.Vec3{0, 0, 20}, MinDistance: 2, MaxDistance: 8}
	assert.InDelta(t, 8, p.Clamped().Distance(), 1e-9)

	p.Position = mathutil.Vec3{0, 0, 1}
	assert.InDelta(t, 2, p.Clamped().Distance(), 1e-9)

	// Direction is preserved.
	p.Position = mathutil.Vec3{0, 3, 4}
	p.MaxDistance = 2.5
	c := p.Clamped()
	assert.InDelta(t, 1.5, c.Position[1], 1e-9)
	assert.InDelta(t, 2, c.Position[2], 1e-9)
}

func TestOrbit_ResetClampsToBounds(t *testing.T) {
	o := NewOrbit()
	assert.Equal(t, Home(), o.Pose())

	// A framing pose whose start distance lies outside its own bounds.
	o.Reset(Pose{Position: mathutil.Vec3{0, 1.6, 15}, MinDistance: 5, MaxDistance: 8})
	assert.InDelta(t, 8, o.Pose().Distance(), 1e-9)
}

func TestOrbit_Dolly(t *testing.T) {
	o := NewOrbit()
	start := o.Pose().Distance()
	o.Dolly(-2)
	assert.InDelta(t, start-2, o.Pose().Distance(), 1e-9)

	o.Dolly(-100)
	assert.InDelta(t, 5, o.Pose().Distance(), 1e-9)
	o.Dolly(1000)
	assert.InDelta(t, 50, o.Pose().Distance(), 1e-9)

	o.Restore()
	assert.Equal(t, Home(), o.Pose())
}

func TestOrbit_Rotate(t *testing.T) {
	o := NewOrbit()
	o.Reset(Pose{Position: mathutil.Vec3{0, 0, 10}, MinDistance: 1, MaxDistance: 100})

	o.Rotate(math.Pi/2, 0)
	p := o.Pose().Position
	assert.InDelta(t, 10, p[0], 1e-9)
	assert.InDelta(t, 0, p[1], 1e-9)
	assert.InDelta(t, 0, p[2], 1e-9)

	// Pitch stops short of the pole.
	o.Rotate(0, math.Pi)
	p = o.Pose().Position
	assert.InDelta(t, 10, o.Pose().Distance(), 1e-9)
	assert.Less(t, p[1], 10.0)
	assert.Greater(t, p[1], 9.99)
}

func TestViewMatrix_TargetOnNegativeZ(t *testing.T) {
	p := Pose{Position: mathutil.Vec3{0, 1.6, 10}}
	v := ViewMatrix(p)
	target := v.Mul4x1(mgl64.Vec4{0, 0, 0, 1})
	assert.InDelta(t, 0, target[0], 1e-9)
	assert.Less(t, target[2], 0.0)
	assert.InDelta(t, -p.Distance(), target[2], 1e-9)
}

func TestProjection(t *testing.T) {
	m := Projection(2)
	// A point straight ahead at the near plane maps to NDC z = -1.
	clip := m.Mul4x1(mgl64.Vec4{0, 0, -Near, 1})
	assert.InDelta(t, -1, clip[2]/clip[3], 1e-9)
	assert.Equal(t, Projection(1), Projection(0))
}
