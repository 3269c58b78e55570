package targeting

import "vehicle-customizer/internal/scene"

// Split records a material that was shared across region sets and cloned so
// that recoloring one set cannot bleed into another.
type Split struct {
	Material string
	// Regions lists the region sets that received their own material, in
	// traversal order; the first keeps the original.
	Regions []Regions
}

// Isolate gives every region set its own material wherever one material is
// used by drawables of different sets (paint, wheel, both, other). Names are
// kept so the clones still read as the source material.
func Isolate(f *scene.Fragment, c *Classification) []Split {
	type usage struct {
		order []Regions
		nodes map[Regions][]*scene.Node
	}
	byMat := make(map[*scene.Material]*usage)
	var mats []*scene.Material

	for _, n := range f.Drawables() {
		u, ok := byMat[n.Material]
		if !ok {
			u = &usage{nodes: make(map[Regions][]*scene.Node)}
			byMat[n.Material] = u
			mats = append(mats, n.Material)
		}
		s := c.RegionsOf(n)
		if _, seen := u.nodes[s]; !seen {
			u.order = append(u.order, s)
		}
		u.nodes[s] = append(u.nodes[s], n)
	}

	var splits []Split
	for _, m := range mats {
		u := byMat[m]
		if len(u.order) < 2 {
			continue
		}
		for _, s := range u.order[1:] {
			clone := m.Clone()
			for _, n := range u.nodes[s] {
				f.ReplaceMaterial(n, clone)
			}
		}
		splits = append(splits, Split{Material: m.Name, Regions: u.order})
	}
	return splits
}
