// Package collision answers triangle-accurate queries against a static
// environment mesh: sphere penetration, swept-sphere constraint, raycasts and
// point containment.
//
// A Collider is immutable once built. Its exported query methods allocate
// their own scratch space and may be called from several goroutines at once.
// A Querier reuses one scratch buffer across calls and must stay on a single
// goroutine.
package collision

import (
	"go.uber.org/zap"

	"github.com/Faultbox/asteroid-tunnel/internal/engine/bake"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/debug"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/spatial"
	"github.com/Faultbox/asteroid-tunnel/internal/logger"
	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
)

// Solver defaults.
const (
	DefaultMaxIterations = 3
	DefaultSkin          = 0.001
)

// Options configures collider construction.
type Options struct {
	CellSize  spatial.CellSize
	Placement bake.Placement
	// DropDegenerate omits zero-area triangles instead of keeping them with
	// a zero normal.
	DropDegenerate bool
	// Skin is the extra distance added to every push-out. Zero selects
	// DefaultSkin.
	Skin float32
}

// Stats summarises a built collider.
type Stats struct {
	Triangles  int
	Degenerate int // zero-area triangles seen at build time
	Bounds     geom.AABB
	Grid       spatial.Stats
	Bake       bake.Stats
}

// Collider owns the baked triangle buffer and its spatial index.
type Collider struct {
	tris   []geom.Triangle
	grid   *spatial.Grid
	bounds geom.AABB
	skin   float32
	stats  Stats
}

// New bakes the hierarchy under root and indexes the result. An empty or nil
// hierarchy yields a collider that reports no hits.
func New(root *bake.Node, opts Options) *Collider {
	geo, bakeStats := bake.Bake(root, bake.Options{Placement: opts.Placement})
	tris, degenerate := geo.Triangles(opts.DropDegenerate)

	c := build(tris, opts.CellSize, opts.Skin)
	c.stats.Bake = bakeStats
	c.stats.Degenerate = degenerate
	c.logBuild(opts.DropDegenerate)
	return c
}

// NewFromTriangles indexes an already world-space triangle list. The slice
// is copied.
func NewFromTriangles(tris []geom.Triangle, cellSize spatial.CellSize) *Collider {
	owned := make([]geom.Triangle, len(tris))
	copy(owned, tris)

	c := build(owned, cellSize, 0)
	for _, t := range owned {
		if t.IsDegenerate() {
			c.stats.Degenerate++
		}
	}
	c.logBuild(false)
	return c
}

func build(tris []geom.Triangle, cellSize spatial.CellSize, skin float32) *Collider {
	if !(skin > 0) {
		skin = DefaultSkin
	}

	bounds := geom.EmptyAABB()
	for _, t := range tris {
		b := t.Bounds()
		if b.Min.IsFinite() && b.Max.IsFinite() {
			bounds = bounds.Union(b)
		}
	}

	grid := spatial.NewGrid(cellSize.Resolve(bounds, len(tris)))
	for id, t := range tris {
		grid.Insert(id, t.Bounds())
	}

	return &Collider{
		tris:   tris,
		grid:   grid,
		bounds: bounds,
		skin:   skin,
		stats: Stats{
			Triangles: len(tris),
			Bounds:    bounds,
			Grid:      grid.Stats(),
		},
	}
}

func (c *Collider) logBuild(dropDegenerate bool) {
	log := logger.Named("collider")
	if len(c.tris) == 0 {
		log.Warn("collider built from empty geometry; every query will miss")
		return
	}
	if c.stats.Degenerate > 0 {
		log.Warn("degenerate triangles in collision mesh",
			zap.Int("count", c.stats.Degenerate),
			zap.Bool("dropped", dropDegenerate))
	}
	log.Info("collider built",
		zap.Int("triangles", c.stats.Triangles),
		zap.Float32("cell_size", c.stats.Grid.CellSize),
		zap.Int("cells", c.stats.Grid.OccupiedCells),
		zap.Int("max_bucket", c.stats.Grid.MaxBucket),
		zap.Float32("avg_bucket", c.stats.Grid.AverageBucket),
		zap.Float32s("bounds_min", []float32{c.bounds.Min.X, c.bounds.Min.Y, c.bounds.Min.Z}),
		zap.Float32s("bounds_max", []float32{c.bounds.Max.X, c.bounds.Max.Y, c.bounds.Max.Z}))
}

// Bounds returns the box enclosing all collision geometry. It is empty when
// the collider has no triangles.
func (c *Collider) Bounds() geom.AABB {
	return c.bounds
}

// TriangleCount returns the number of indexed triangles.
func (c *Collider) TriangleCount() int {
	return len(c.tris)
}

// Triangle returns triangle id.
func (c *Collider) Triangle(id int) geom.Triangle {
	return c.tris[id]
}

// Triangles returns the triangle buffer. Callers must not modify it.
func (c *Collider) Triangles() []geom.Triangle {
	return c.tris
}

// CellSize returns the resolved grid edge length.
func (c *Collider) CellSize() float32 {
	return c.grid.CellSize()
}

// Stats returns build-time figures.
func (c *Collider) Stats() Stats {
	return c.stats
}

// Update is the per-frame hook. The environment is static, so there is
// nothing to do.
func (c *Collider) Update(dt float32) {}

// DebugWireframe returns line vertices for the collision mesh, its bounds
// and, when withCells is set, every occupied grid cell.
func (c *Collider) DebugWireframe(withCells bool) []debug.LineVertex {
	lines := debug.MeshWireframe(c.tris, debug.MeshColor)
	lines = append(lines, debug.BBoxWireframe(c.bounds, 0, debug.BoundsColor)...)
	if withCells {
		lines = append(lines, debug.GridCellWireframes(c.grid)...)
	}
	return lines
}
