package render

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Node is an entry in the render graph. Group nodes carry no mesh; leaf nodes
// reference a Buffer owned by whoever created it.
type Node struct {
	id   uuid.UUID
	Name string

	// Mesh is the GPU buffer drawn for this node, or nil for groups.
	Mesh Buffer

	position mgl32.Vec3
	matrix   mgl32.Mat4
	parent   *Node
	children []*Node
}

// NewNode returns a detached node at the origin.
func NewNode(name string) *Node {
	return &Node{id: uuid.New(), Name: name, matrix: mgl32.Ident4()}
}

// ID returns the node's unique identity.
func (n *Node) ID() uuid.UUID { return n.id }

// Position returns the local translation.
func (n *Node) Position() mgl32.Vec3 { return n.position }

// SetPosition stores the translation and recomputes the local matrix
// immediately. Matrices are never recomputed implicitly per frame.
func (n *Node) SetPosition(x, y, z float32) {
	n.position = mgl32.Vec3{x, y, z}
	n.UpdateMatrix()
}

// UpdateMatrix rebuilds the local matrix from the current position.
func (n *Node) UpdateMatrix() {
	n.matrix = mgl32.Translate3D(n.position.X(), n.position.Y(), n.position.Z())
}

// Matrix returns the local transform.
func (n *Node) Matrix() mgl32.Mat4 { return n.matrix }

// WorldMatrix composes the local transforms from the root down to n.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	m := n.matrix
	for p := n.parent; p != nil; p = p.parent {
		m = p.matrix.Mul4(m)
	}
	return m
}

// WorldPosition returns the translation component of WorldMatrix.
func (n *Node) WorldPosition() mgl32.Vec3 {
	return n.WorldMatrix().Col(3).Vec3()
}

// Parent returns the node n is attached to, if any.
func (n *Node) Parent() *Node { return n.parent }

// Children exposes the attached children. Callers must not modify the slice.
func (n *Node) Children() []*Node { return n.children }

// Add attaches child to n, detaching it from any previous parent first.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child from n and reports whether it was attached.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.children {
		if c != child {
			continue
		}
		copy(n.children[i:], n.children[i+1:])
		n.children[len(n.children)-1] = nil
		n.children = n.children[:len(n.children)-1]
		child.parent = nil
		return true
	}
	return false
}

// Contains reports whether child is directly attached to n.
func (n *Node) Contains(child *Node) bool {
	for _, c := range n.children {
		if c == child {
			return true
		}
	}
	return false
}

// Walk visits n and its descendants depth-first. Returning false from fn
// skips the subtree below the visited node.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}
