package targeting

import (
	"vehicle-customizer/internal/catalog"
	"vehicle-customizer/internal/scene"
)

// Classification partitions a fragment's drawables by region. A drawable may
// sit in both Paint and Wheel when its names satisfy both rules; Other holds
// the ones matching neither. It is only valid for the fragment it was
// computed from.
type Classification struct {
	Paint []*scene.Node
	Wheel []*scene.Node
	Other []*scene.Node

	regions map[*scene.Node]Regions
}

// Nodes returns the drawables of one region.
func (c *Classification) Nodes(r Region) []*scene.Node {
	if c == nil {
		return nil
	}
	switch r {
	case Paint:
		return c.Paint
	case Wheel:
		return c.Wheel
	}
	return nil
}

// RegionsOf returns the region set recorded for n.
func (c *Classification) RegionsOf(n *scene.Node) Regions {
	if c == nil {
		return 0
	}
	return c.regions[n]
}

// Names lists node names of one region in traversal order.
func (c *Classification) Names(r Region) []string {
	nodes := c.Nodes(r)
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

// Classify matches every drawable of f against d.
func Classify(f *scene.Fragment, d catalog.Descriptor) *Classification {
	c := &Classification{regions: make(map[*scene.Node]Regions)}
	for _, n := range f.Drawables() {
		s := Match(n.Name, n.Material.Name, d)
		c.regions[n] = s
		if s.Has(Paint) {
			c.Paint = append(c.Paint, n)
		}
		if s.Has(Wheel) {
			c.Wheel = append(c.Wheel, n)
		}
		if s == 0 {
			c.Other = append(c.Other, n)
		}
	}
	return c
}
