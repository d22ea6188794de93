package debug

import (
	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

// MeshVertexFloats is the number of float32 values per shaded mesh vertex:
// position followed by the face normal.
const MeshVertexFloats = 6

// MeshVertices flattens triangles into non-indexed [x, y, z, nx, ny, nz]
// vertices. Every corner of a triangle carries its face normal so the mesh
// renders flat shaded, the same faces the collider resolves against.
func MeshVertices(tris []geom.Triangle) []float32 {
	out := make([]float32, 0, len(tris)*3*MeshVertexFloats)
	for _, t := range tris {
		n := t.Normal
		for _, p := range [3]math.Vec3{t.A, t.B, t.C} {
			out = append(out, p.X, p.Y, p.Z, n.X, n.Y, n.Z)
		}
	}
	return out
}

// HitMarker draws a small axis cross at point plus a line along normal.
// A zero normal draws only the cross.
func HitMarker(point, normal math.Vec3, size float32, color [3]float32) []LineVertex {
	vertices := make([]LineVertex, 0, 8)
	for _, axis := range [3]math.Vec3{math.UnitX, math.UnitY, math.UnitZ} {
		d := axis.Scale(size)
		vertices = append(vertices, vertex(point.Sub(d), color), vertex(point.Add(d), color))
	}
	if normal.LengthSq() > 0 {
		vertices = append(vertices, vertex(point, color), vertex(point.AddScaled(normal, size*3), color))
	}
	return vertices
}
