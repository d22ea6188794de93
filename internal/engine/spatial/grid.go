// Package spatial implements the uniform-grid spatial hash that maps integer
// cell coordinates to the triangles overlapping each cell.
package spatial

import (
	gomath "math"
	"slices"

	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

// CellKey identifies one grid cell by floor(coord / cellSize) on each axis.
type CellKey struct {
	X, Y, Z int32
}

// cellRange is an inclusive range of cell coordinates.
type cellRange struct {
	lo, hi CellKey
}

func (r cellRange) count() float64 {
	return float64(r.hi.X-r.lo.X+1) * float64(r.hi.Y-r.lo.Y+1) * float64(r.hi.Z-r.lo.Z+1)
}

func (r cellRange) contains(k CellKey) bool {
	return k.X >= r.lo.X && k.X <= r.hi.X &&
		k.Y >= r.lo.Y && k.Y <= r.hi.Y &&
		k.Z >= r.lo.Z && k.Z <= r.hi.Z
}

// Grid is a spatial hash over triangle bounding boxes. The cell size is fixed
// at construction. A Grid is not safe for concurrent Insert; once built, any
// number of goroutines may query it.
type Grid struct {
	cellSize float32
	inv      float32
	cells    map[CellKey][]int32
	boxes    []geom.AABB // indexed by id
	refs     int
}

// NewGrid creates an empty grid. cellSize must be positive.
func NewGrid(cellSize float32) *Grid {
	return &Grid{
		cellSize: cellSize,
		inv:      1 / cellSize,
		cells:    make(map[CellKey][]int32),
	}
}

// CellSize returns the cell edge length.
func (g *Grid) CellSize() float32 {
	return g.cellSize
}

// CellOf returns the key of the cell containing p.
func (g *Grid) CellOf(p math.Vec3) CellKey {
	return CellKey{
		X: cellCoord(p.X, g.inv),
		Y: cellCoord(p.Y, g.inv),
		Z: cellCoord(p.Z, g.inv),
	}
}

// CellBounds returns the world-space box of a cell.
func (g *Grid) CellBounds(k CellKey) geom.AABB {
	lo := math.Vec3{X: float32(k.X), Y: float32(k.Y), Z: float32(k.Z)}.Scale(g.cellSize)
	return geom.AABB{Min: lo, Max: lo.Add(math.Splat(g.cellSize))}
}

// cellLimit keeps coordinates far enough from the int32 edges that range
// loops cannot overflow.
const cellLimit = 1 << 30

func cellCoord(v, inv float32) int32 {
	f := gomath.Floor(float64(v) * float64(inv))
	switch {
	case f < -cellLimit:
		return -cellLimit
	case f > cellLimit:
		return cellLimit
	}
	return int32(f)
}

// span converts a box into its covered cell range. ok is false for boxes with
// non-finite or inverted coordinates.
func (g *Grid) span(box geom.AABB) (cellRange, bool) {
	if !box.Min.IsFinite() || !box.Max.IsFinite() || box.IsEmpty() {
		return cellRange{}, false
	}
	return cellRange{lo: g.CellOf(box.Min), hi: g.CellOf(box.Max)}, true
}

// Insert adds id to every cell covered by box. A box spanning k cells is
// referenced k times. Non-finite boxes are ignored.
func (g *Grid) Insert(id int, box geom.AABB) {
	r, ok := g.span(box)
	if !ok || id < 0 {
		return
	}

	if id >= len(g.boxes) {
		g.boxes = append(g.boxes, make([]geom.AABB, id+1-len(g.boxes))...)
	}
	g.boxes[id] = box

	for x := r.lo.X; x <= r.hi.X; x++ {
		for y := r.lo.Y; y <= r.hi.Y; y++ {
			for z := r.lo.Z; z <= r.hi.Z; z++ {
				key := CellKey{x, y, z}
				g.cells[key] = append(g.cells[key], int32(id))
				g.refs++
			}
		}
	}
}

// QueryRange returns every id whose inserted box overlaps box, each exactly
// once, in ascending order.
func (g *Grid) QueryRange(box geom.AABB) []int {
	return g.QueryRangeInto(nil, box)
}

// QueryRangeInto is QueryRange appending into dst[:0], letting a caller reuse
// its own scratch slice across queries. dst must not be shared between
// goroutines.
func (g *Grid) QueryRangeInto(dst []int, box geom.AABB) []int {
	dst = dst[:0]
	r, ok := g.span(box)
	if !ok || len(g.cells) == 0 {
		return dst
	}

	collect := func(bucket []int32) {
		for _, id := range bucket {
			if g.boxes[id].Overlaps(box) {
				dst = append(dst, int(id))
			}
		}
	}

	if r.count() > float64(len(g.cells)) {
		// Sparse walk: fewer occupied cells than covered lattice cells.
		for key, bucket := range g.cells {
			if r.contains(key) {
				collect(bucket)
			}
		}
	} else {
		for x := r.lo.X; x <= r.hi.X; x++ {
			for y := r.lo.Y; y <= r.hi.Y; y++ {
				for z := r.lo.Z; z <= r.hi.Z; z++ {
					if bucket, ok := g.cells[CellKey{x, y, z}]; ok {
						collect(bucket)
					}
				}
			}
		}
	}

	slices.Sort(dst)
	return slices.Compact(dst)
}

// Cells calls fn for every occupied cell.
func (g *Grid) Cells(fn func(key CellKey, ids []int32)) {
	for key, ids := range g.cells {
		fn(key, ids)
	}
}

// Stats summarises grid occupancy.
type Stats struct {
	CellSize      float32
	OccupiedCells int
	References    int
	MaxBucket     int
	AverageBucket float32
}

// Stats reports occupancy figures for logging and tuning.
func (g *Grid) Stats() Stats {
	s := Stats{
		CellSize:      g.cellSize,
		OccupiedCells: len(g.cells),
		References:    g.refs,
	}
	for _, bucket := range g.cells {
		s.MaxBucket = max(s.MaxBucket, len(bucket))
	}
	if s.OccupiedCells > 0 {
		s.AverageBucket = float32(s.References) / float32(s.OccupiedCells)
	}
	return s
}
