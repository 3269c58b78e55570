// Package scenetest builds small fragments for tests.
package scenetest

import (
	"vehicle-customizer/internal/mathutil"
	"vehicle-customizer/internal/scene"
)

// Part is one drawable: a box between Min and Max under node Node using the
// material named Material. Parts naming the same material share it.
type Part struct {
	Node     string
	Material string
	Min, Max mathutil.Vec3
}

// Box returns closed box geometry with 12 triangles, wound outward.
func Box(t *scene.Tracker, min, max mathutil.Vec3) *scene.Geometry {
	x0, y0, z0 := float32(min[0]), float32(min[1]), float32(min[2])
	x1, y1, z1 := float32(max[0]), float32(max[1]), float32(max[2])
	pos := [][3]float32{
		{x0, y0, z0}, {x1, y0, z0}, {x1, y1, z0}, {x0, y1, z0},
		{x0, y0, z1}, {x1, y0, z1}, {x1, y1, z1}, {x0, y1, z1},
	}
	idx := []uint32{
		4, 5, 6, 4, 6, 7, // +z
		1, 0, 3, 1, 3, 2, // -z
		5, 1, 2, 5, 2, 6, // +x
		0, 4, 7, 0, 7, 3, // -x
		7, 6, 2, 7, 2, 3, // +y
		0, 1, 5, 0, 5, 4, // -y
	}
	return scene.NewGeometry(t, pos, idx)
}

// Build assembles parts under one root into a fragment.
func Build(t *scene.Tracker, name string, parts ...Part) *scene.Fragment {
	root := scene.NewNode(name)
	mats := make(map[string]*scene.Material)
	for _, p := range parts {
		m, ok := mats[p.Material]
		if !ok {
			m = scene.NewMaterial(t, p.Material)
			mats[p.Material] = m
		}
		n := scene.NewNode(p.Node)
		n.Geometry = Box(t, p.Min, p.Max)
		n.Material = m
		root.Add(n)
	}
	return scene.NewFragment(name, root)
}

// Unit is a part spanning the unit cube.
func Unit(node, material string) Part {
	return Part{Node: node, Material: material, Max: mathutil.Vec3{1, 1, 1}}
}
