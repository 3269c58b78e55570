package targeting

import (
	"fmt"
	"strings"

	"vehicle-customizer/internal/catalog"
)

// Region is a customizable semantic area of a vehicle.
type Region int

const (
	Paint Region = iota
	Wheel
)

func (r Region) String() string {
	switch r {
	case Paint:
		return "paint"
	case Wheel:
		return "wheel"
	}
	return fmt.Sprintf("region(%d)", int(r))
}

// ParseRegion accepts "paint" or "wheel".
func ParseRegion(s string) (Region, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paint", "body":
		return Paint, nil
	case "wheel", "wheels":
		return Wheel, nil
	}
	return 0, fmt.Errorf("targeting: unknown region %q", s)
}

// Regions is the set of regions a drawable belongs to.
type Regions uint8

const (
	InPaint Regions = 1 << iota
	InWheel
)

// Has reports whether r is in the set.
func (s Regions) Has(r Region) bool {
	switch r {
	case Paint:
		return s&InPaint != 0
	case Wheel:
		return s&InWheel != 0
	}
	return false
}

func (s Regions) String() string {
	switch s {
	case 0:
		return "other"
	case InPaint:
		return "paint"
	case InWheel:
		return "wheel"
	}
	return "paint+wheel"
}

// MatchPaint: the node is named exactly pattern, or its material name
// contains pattern. Case-sensitive; an empty pattern matches nothing.
func MatchPaint(nodeName, materialName, pattern string) bool {
	if pattern == "" {
		return false
	}
	return nodeName == pattern || strings.Contains(materialName, pattern)
}

// MatchWheel extends the paint rule for patterns that are a space-joined
// list of names: a material whose name appears inside the pattern also
// matches. An empty material name never satisfies that reverse rule.
func MatchWheel(nodeName, materialName, pattern string) bool {
	if pattern == "" {
		return false
	}
	if nodeName == pattern || strings.Contains(materialName, pattern) {
		return true
	}
	return materialName != "" && strings.Contains(pattern, materialName)
}

// Match evaluates both rules for one drawable against a descriptor.
func Match(nodeName, materialName string, d catalog.Descriptor) Regions {
	var s Regions
	if MatchPaint(nodeName, materialName, d.PaintPattern) {
		s |= InPaint
	}
	if MatchWheel(nodeName, materialName, d.WheelPattern) {
		s |= InWheel
	}
	return s
}
