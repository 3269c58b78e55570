package catalog

import "strings"

// Descriptor is one selectable vehicle. Read-only after the catalog loads.
type Descriptor struct {
	ID        int    `yaml:"id"`
	Name      string `yaml:"name"`
	Year      string `yaml:"year,omitempty"`
	AssetPath string `yaml:"asset"`
	// PaintPattern and WheelPattern name the node or material of each
	// region. The wheel pattern may list several names separated by spaces;
	// a material whose name occurs in that list is a wheel.
	PaintPattern string `yaml:"paint"`
	WheelPattern string `yaml:"wheel"`
	Default      bool   `yaml:"default,omitempty"`
}

// WheelNames splits a multi-name wheel pattern into its literal names.
func (d Descriptor) WheelNames() []string {
	return strings.Fields(d.WheelPattern)
}

// Label is the display string used by listings, e.g. "Onix (2018)".
func (d Descriptor) Label() string {
	if d.Year == "" {
		return d.Name
	}
	return d.Name + " (" + d.Year + ")"
}
