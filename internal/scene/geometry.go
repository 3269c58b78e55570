package scene

import "vehicle-customizer/internal/mathutil"

// Geometry holds triangle-list vertex data for one drawable.
type Geometry struct {
	Positions [][3]float32
	Normals   [][3]float32 // optional, len == len(Positions) when present
	UVs       [][2]float32 // optional, len == len(Positions) when present
	Indices   []uint32     // triangle list; nil means non-indexed

	tracker  *Tracker
	disposed bool
}

// NewGeometry registers a geometry with the tracker (which may be nil).
func NewGeometry(t *Tracker, positions [][3]float32, indices []uint32) *Geometry {
	t.geometryAllocated()
	return &Geometry{
		Positions: positions,
		Indices:   indices,
		tracker:   t,
	}
}

// TriangleCount returns the number of triangles in the list.
func (g *Geometry) TriangleCount() int {
	if g.Indices != nil {
		return len(g.Indices) / 3
	}
	return len(g.Positions) / 3
}

// Triangle returns the vertex indices of triangle i.
func (g *Geometry) Triangle(i int) [3]int {
	if g.Indices != nil {
		return [3]int{int(g.Indices[i*3]), int(g.Indices[i*3+1]), int(g.Indices[i*3+2])}
	}
	return [3]int{i * 3, i*3 + 1, i*3 + 2}
}

// Bounds returns the box of all positions transformed by m.
func (g *Geometry) Bounds(m mathutil.Mat4) mathutil.Box3 {
	box := mathutil.EmptyBox()
	for _, p := range g.Positions {
		box = box.Expand(m.MulPoint(mathutil.Vec3From(p)))
	}
	return box
}

// Dispose drops the vertex data. Calling it twice is a no-op.
func (g *Geometry) Dispose() {
	if g.disposed {
		return
	}
	g.disposed = true
	g.Positions, g.Normals, g.UVs, g.Indices = nil, nil, nil, nil
	g.tracker.geometryDisposed()
}

// Disposed reports whether Dispose has run.
func (g *Geometry) Disposed() bool {
	return g.disposed
}
