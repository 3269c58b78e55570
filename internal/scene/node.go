package scene

import "vehicle-customizer/internal/mathutil"

// Node is one element of a fragment's transform hierarchy. A node with both
// Geometry and Material set is drawable.
type Node struct {
	Name     string
	Local    mathutil.Mat4
	Parent   *Node
	Children []*Node

	Geometry *Geometry
	Material *Material
}

// NewNode returns a node with an identity transform.
func NewNode(name string) *Node {
	return &Node{Name: name, Local: mathutil.Mat4Identity()}
}

// Add appends child and sets its parent.
func (n *Node) Add(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Drawable reports whether the node carries geometry and a material.
func (n *Node) Drawable() bool {
	return n.Geometry != nil && n.Material != nil
}

// World chains local transforms up to the root.
func (n *Node) World() mathutil.Mat4 {
	m := n.Local
	for p := n.Parent; p != nil; p = p.Parent {
		m = mathutil.Mat4Mul(p.Local, m)
	}
	return m
}

// Traverse visits n and its descendants depth-first, parents first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}
