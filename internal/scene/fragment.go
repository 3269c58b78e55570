package scene

import "vehicle-customizer/internal/mathutil"

// Fragment is the loaded node tree of one asset. It holds one reference on
// every material its nodes use and owns its geometries outright.
type Fragment struct {
	Name string
	Root *Node

	users    map[*Material]int // drawable nodes per material
	textures []string
	release  func(key string)
	disposed bool
}

// NewFragment adopts the tree under root and retains its materials.
func NewFragment(name string, root *Node) *Fragment {
	f := &Fragment{
		Name:  name,
		Root:  root,
		users: make(map[*Material]int),
	}
	root.Traverse(func(n *Node) {
		if !n.Drawable() {
			return
		}
		if f.users[n.Material] == 0 {
			n.Material.Retain()
		}
		f.users[n.Material]++
	})
	return f
}

// HoldTexture records a texture cache reference released on Dispose.
func (f *Fragment) HoldTexture(key string) {
	f.textures = append(f.textures, key)
}

// Textures returns the held texture keys.
func (f *Fragment) Textures() []string {
	return f.textures
}

// OnTextureRelease sets the hook called once per held texture on Dispose.
func (f *Fragment) OnTextureRelease(fn func(key string)) {
	f.release = fn
}

// Drawables returns every drawable node in traversal order.
func (f *Fragment) Drawables() []*Node {
	var out []*Node
	f.Root.Traverse(func(n *Node) {
		if n.Drawable() {
			out = append(out, n)
		}
	})
	return out
}

// Materials returns the distinct materials in use.
func (f *Fragment) Materials() []*Material {
	out := make([]*Material, 0, len(f.users))
	seen := make(map[*Material]bool, len(f.users))
	for _, n := range f.Drawables() {
		if !seen[n.Material] {
			seen[n.Material] = true
			out = append(out, n.Material)
		}
	}
	return out
}

// ReplaceMaterial points n at m, keeping holder counts balanced.
func (f *Fragment) ReplaceMaterial(n *Node, m *Material) {
	old := n.Material
	if old == m {
		return
	}
	if old != nil {
		f.users[old]--
		if f.users[old] <= 0 {
			delete(f.users, old)
			old.Release()
		}
	}
	if f.users[m] == 0 {
		m.Retain()
	}
	f.users[m]++
	n.Material = m
}

// Bounds is the world-space box over every drawable's geometry.
func (f *Fragment) Bounds() mathutil.Box3 {
	box := mathutil.EmptyBox()
	var walk func(n *Node, parent mathutil.Mat4)
	walk = func(n *Node, parent mathutil.Mat4) {
		world := mathutil.Mat4Mul(parent, n.Local)
		if n.Drawable() {
			box = box.Union(n.Geometry.Bounds(world))
		}
		for _, c := range n.Children {
			walk(c, world)
		}
	}
	walk(f.Root, mathutil.Mat4Identity())
	return box
}

// Translate moves the whole fragment by v in world space.
func (f *Fragment) Translate(v mathutil.Vec3) {
	f.Root.Local = mathutil.Mat4Mul(mathutil.Translate(v), f.Root.Local)
}

// Dispose releases every geometry, this fragment's hold on each material and
// every held texture. Materials still held elsewhere survive.
func (f *Fragment) Dispose() {
	if f.disposed {
		return
	}
	f.disposed = true
	f.Root.Traverse(func(n *Node) {
		if n.Geometry != nil {
			n.Geometry.Dispose()
		}
	})
	for m := range f.users {
		m.Release()
	}
	f.users = nil
	if f.release != nil {
		for _, key := range f.textures {
			f.release(key)
		}
	}
	f.textures = nil
}

// Disposed reports whether Dispose has run.
func (f *Fragment) Disposed() bool {
	return f.disposed
}
