// Package debug provides debug visualization utilities.
package debug

import (
	"github.com/Faultbox/asteroid-tunnel/internal/engine/spatial"
	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

// LineVertex is one endpoint of a GL_LINES segment.
type LineVertex struct {
	X, Y, Z float32 // Position
	R, G, B float32 // Color
}

// LineVertexFloats is the number of float32 values per LineVertex.
const LineVertexFloats = 6

// BBoxWireframeVertexCount is the number of vertices for a bbox wireframe (12 edges × 2).
const BBoxWireframeVertexCount = 24

// Colors used by the viewer overlays.
var (
	MeshColor   = [3]float32{0.2, 0.8, 0.9}
	BoundsColor = [3]float32{1.0, 0.9, 0.2}
	HitColor    = [3]float32{1.0, 0.2, 0.2}
)

func vertex(p math.Vec3, color [3]float32) LineVertex {
	return LineVertex{p.X, p.Y, p.Z, color[0], color[1], color[2]}
}

// MeshWireframe returns the three edges of every triangle. Shared edges are
// emitted once per triangle.
func MeshWireframe(tris []geom.Triangle, color [3]float32) []LineVertex {
	vertices := make([]LineVertex, 0, len(tris)*6)
	for _, t := range tris {
		a, b, c := vertex(t.A, color), vertex(t.B, color), vertex(t.C, color)
		vertices = append(vertices, a, b, b, c, c, a)
	}
	return vertices
}

// BBoxWireframe creates line vertices for a box grown by padding on every
// side. Empty boxes produce no vertices.
func BBoxWireframe(box geom.AABB, padding float32, color [3]float32) []LineVertex {
	if box.IsEmpty() {
		return nil
	}
	box = box.Expand(padding)
	lo, hi := box.Min, box.Max

	corner := func(x, y, z bool) LineVertex {
		p := lo
		if x {
			p.X = hi.X
		}
		if y {
			p.Y = hi.Y
		}
		if z {
			p.Z = hi.Z
		}
		return vertex(p, color)
	}

	return []LineVertex{
		// Bottom face (4 edges)
		corner(false, false, false), corner(true, false, false),
		corner(true, false, false), corner(true, false, true),
		corner(true, false, true), corner(false, false, true),
		corner(false, false, true), corner(false, false, false),
		// Top face (4 edges)
		corner(false, true, false), corner(true, true, false),
		corner(true, true, false), corner(true, true, true),
		corner(true, true, true), corner(false, true, true),
		corner(false, true, true), corner(false, true, false),
		// Vertical edges (4 edges)
		corner(false, false, false), corner(false, true, false),
		corner(true, false, false), corner(true, true, false),
		corner(true, false, true), corner(true, true, true),
		corner(false, false, true), corner(false, true, true),
	}
}

// GridCellWireframes outlines every occupied cell of g. Cells are shaded from
// green (sparse) to red (the fullest bucket).
func GridCellWireframes(g *spatial.Grid) []LineVertex {
	stats := g.Stats()
	if stats.OccupiedCells == 0 {
		return nil
	}

	vertices := make([]LineVertex, 0, stats.OccupiedCells*BBoxWireframeVertexCount)
	g.Cells(func(key spatial.CellKey, ids []int32) {
		vertices = append(vertices, BBoxWireframe(g.CellBounds(key), 0, heatColor(len(ids), stats.MaxBucket))...)
	})
	return vertices
}

func heatColor(n, maxN int) [3]float32 {
	f := float32(1)
	if maxN > 0 {
		f = float32(n) / float32(maxN)
	}
	return [3]float32{f, 1 - f, 0.1}
}

// Flatten converts vertices into the interleaved [x, y, z, r, g, b] layout
// uploaded to vertex buffers.
func Flatten(vertices []LineVertex) []float32 {
	out := make([]float32, 0, len(vertices)*LineVertexFloats)
	for _, v := range vertices {
		out = append(out, v.X, v.Y, v.Z, v.R, v.G, v.B)
	}
	return out
}
