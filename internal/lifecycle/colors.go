package lifecycle

import (
	"vehicle-customizer/internal/paint"
	"vehicle-customizer/internal/targeting"
)

// ColorState holds the user's chosen color per region. It outlives any
// single fragment.
type ColorState struct {
	Paint paint.Color
	Wheel paint.Color
}

// DefaultColors is a blue body on black wheels.
func DefaultColors() ColorState {
	return ColorState{
		Paint: paint.FromUint(0x005cbb),
		Wheel: paint.FromUint(0x000000),
	}
}

// Get returns the color of one region.
func (c ColorState) Get(r targeting.Region) paint.Color {
	if r == targeting.Wheel {
		return c.Wheel
	}
	return c.Paint
}

func (c *ColorState) set(r targeting.Region, col paint.Color) {
	if r == targeting.Wheel {
		c.Wheel = col
		return
	}
	c.Paint = col
}
