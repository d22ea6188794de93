package bake

import (
	"go.uber.org/zap"

	"github.com/Faultbox/asteroid-tunnel/internal/logger"
	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

// Bake walks the hierarchy under root, applies every node's world transform
// (placement * ancestors * local) to its vertices and merges all visible
// sub-meshes into one indexed buffer. Indices are rebased into the merged
// vertex array. The hierarchy itself is not modified.
func Bake(root *Node, opts Options) (*Geometry, Stats) {
	b := &baker{
		out:  &Geometry{Bounds: geom.EmptyAABB()},
		opts: opts,
		log:  logger.Named("bake"),
	}
	if root != nil {
		b.visit(root, opts.Placement.Matrix())
	}

	b.stats.Triangles = b.out.TriangleCount()
	b.log.Debug("bake finished",
		zap.Int("submeshes", b.stats.Submeshes),
		zap.Int("triangles", b.stats.Triangles),
		zap.Int("hidden", b.stats.Hidden),
		zap.Int("empty", b.stats.Empty),
		zap.Int("invalid", b.stats.InvalidTriangles))
	return b.out, b.stats
}

type baker struct {
	out   *Geometry
	stats Stats
	opts  Options
	log   *zap.Logger
}

func (b *baker) visit(n *Node, parent math.Mat4) {
	if n.Hidden {
		b.stats.Hidden++
		return
	}

	world := parent.Mul(n.LocalMatrix())
	if n.Mesh.TriangleCount() == 0 {
		if n.Mesh != nil {
			b.stats.Empty++
		}
	} else {
		b.merge(n, world)
	}

	for _, child := range n.Children {
		if child != nil {
			b.visit(child, world)
		}
	}
}

func (b *baker) merge(n *Node, world math.Mat4) {
	mesh := n.Mesh
	base := uint32(len(b.out.Positions))

	for _, p := range mesh.Positions {
		wp := world.TransformVec3(p)
		b.out.Positions = append(b.out.Positions, wp)
		b.out.Bounds = b.out.Bounds.Extend(wp)
	}

	vertexCount := uint32(len(mesh.Positions))
	corner := func(i int) uint32 {
		if mesh.Indices != nil {
			return mesh.Indices[i]
		}
		return uint32(i)
	}

	invalid := 0
	for tri := 0; tri < mesh.TriangleCount(); tri++ {
		i0, i1, i2 := corner(tri*3), corner(tri*3+1), corner(tri*3+2)
		if i0 >= vertexCount || i1 >= vertexCount || i2 >= vertexCount {
			invalid++
			continue
		}
		b.out.Indices = append(b.out.Indices, base+i0, base+i1, base+i2)
	}

	b.stats.Submeshes++
	b.stats.InvalidTriangles += invalid
	if invalid > 0 {
		b.log.Warn("dropped triangles with out-of-range indices",
			zap.String("node", n.Name), zap.Int("count", invalid))
	}
	b.log.Debug("baked submesh",
		zap.String("node", n.Name),
		zap.Int("vertices", len(mesh.Positions)),
		zap.Int("triangles", mesh.TriangleCount()-invalid))
}

// Triangles expands the merged buffer into triangles with precomputed face
// normals. With dropDegenerate set, zero-area triangles are omitted.
func (g *Geometry) Triangles(dropDegenerate bool) (tris []geom.Triangle, degenerate int) {
	tris = make([]geom.Triangle, 0, g.TriangleCount())
	for i := 0; i+2 < len(g.Indices); i += 3 {
		t := geom.NewTriangle(
			g.Positions[g.Indices[i]],
			g.Positions[g.Indices[i+1]],
			g.Positions[g.Indices[i+2]],
		)
		if t.IsDegenerate() {
			degenerate++
			if dropDegenerate {
				continue
			}
		}
		tris = append(tris, t)
	}
	return tris, degenerate
}
