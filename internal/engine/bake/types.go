// Package bake flattens a static scene hierarchy into one world-space
// triangle buffer for the collider.
package bake

import (
	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

// MeshData holds the local-space geometry of one renderable sub-mesh.
type MeshData struct {
	Positions []math.Vec3
	// Indices lists triangle corners three at a time. When nil, every three
	// consecutive positions form a triangle.
	Indices []uint32
}

// TriangleCount returns the number of triangles described by the mesh.
func (m *MeshData) TriangleCount() int {
	if m == nil {
		return 0
	}
	if m.Indices != nil {
		return len(m.Indices) / 3
	}
	return len(m.Positions) / 3
}

// Node is one element of the scene hierarchy handed over by asset loading.
type Node struct {
	Name string

	// Local transform relative to the parent. A zero Rotation is treated as
	// identity and a zero Scale as unit scale.
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3

	// Hidden nodes and their whole subtree are excluded from collision.
	Hidden bool

	Mesh     *MeshData
	Children []*Node
}

// NewNode creates a visible node with identity transform.
func NewNode(name string, mesh *MeshData, children ...*Node) *Node {
	return &Node{
		Name:     name,
		Rotation: math.QuatIdentity(),
		Scale:    math.Splat(1),
		Mesh:     mesh,
		Children: children,
	}
}

// LocalMatrix returns Position * Rotation * Scale.
func (n *Node) LocalMatrix() math.Mat4 {
	scale := n.Scale
	if scale == (math.Vec3{}) {
		scale = math.Splat(1)
	}
	// Quat.ToMat4 maps the zero quaternion to identity.
	return math.TRS(n.Position, n.Rotation, scale)
}

// Placement positions the whole environment in the world.
type Placement struct {
	Position math.Vec3
	// Rotation holds Euler angles in radians applied X, then Y, then Z.
	Rotation math.Vec3
	// Scale is a uniform scale; zero means 1.
	Scale float32
}

// Matrix returns the placement transform.
func (p Placement) Matrix() math.Mat4 {
	s := p.Scale
	if s == 0 {
		s = 1
	}
	rot := math.QuatFromEuler(p.Rotation.X, p.Rotation.Y, p.Rotation.Z)
	return math.TRS(p.Position, rot, math.Splat(s))
}

// Options controls baking.
type Options struct {
	Placement Placement
}

// Geometry is the merged world-space buffer produced by Bake.
type Geometry struct {
	Positions []math.Vec3
	Indices   []uint32
	Bounds    geom.AABB
}

// TriangleCount returns the number of merged triangles.
func (g *Geometry) TriangleCount() int {
	return len(g.Indices) / 3
}

// Stats describes what a bake consumed and skipped.
type Stats struct {
	Submeshes        int // sub-meshes merged
	Hidden           int // nodes skipped with their subtree
	Empty            int // meshes without a single triangle
	Triangles        int
	InvalidTriangles int // dropped for out-of-range indices
}
