package paint

import "vehicle-customizer/internal/targeting"

// ApplyColor sets the base color of every material used by the nodes of one
// region. Applying the same color twice leaves the scene unchanged; an empty
// region is a no-op.
func ApplyColor(c *targeting.Classification, region targeting.Region, color Color) {
	r, g, b := color.Linear()
	for _, n := range c.Nodes(region) {
		if n.Material == nil {
			continue
		}
		n.Material.SetRGB(r, g, b)
	}
}

// Region aliases so callers choosing colors need not import targeting.
type Region = targeting.Region

const (
	Paint = targeting.Paint
	Wheel = targeting.Wheel
)

// ParseRegion accepts "paint" or "wheel".
func ParseRegion(s string) (Region, error) {
	return targeting.ParseRegion(s)
}
