package spatial

import (
	gomath "math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

func randomBox(r *rand.Rand, spread, maxSize float32) geom.AABB {
	lo := math.Vec3{
		X: (r.Float32()*2 - 1) * spread,
		Y: (r.Float32()*2 - 1) * spread,
		Z: (r.Float32()*2 - 1) * spread,
	}
	size := math.Vec3{X: r.Float32() * maxSize, Y: r.Float32() * maxSize, Z: r.Float32() * maxSize}
	return geom.AABB{Min: lo, Max: lo.Add(size)}
}

func bruteForce(boxes []geom.AABB, query geom.AABB) []int {
	var ids []int
	for id, b := range boxes {
		if b.Overlaps(query) {
			ids = append(ids, id)
		}
	}
	return ids
}

func TestQueryRangeMatchesBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	boxes := make([]geom.AABB, 2000)
	g := NewGrid(6)
	for id := range boxes {
		boxes[id] = randomBox(r, 60, 15)
		g.Insert(id, boxes[id])
	}

	for i := 0; i < 300; i++ {
		query := randomBox(r, 70, 30)
		got := g.QueryRange(query)
		want := bruteForce(boxes, query)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("query %d %+v mismatch (-brute +grid):\n%s", i, query, diff)
		}
	}
}

func TestQueryRangeLargeBoxUsesOccupiedCells(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))
	boxes := make([]geom.AABB, 50)
	g := NewGrid(1)
	for id := range boxes {
		boxes[id] = randomBox(r, 20, 2)
		g.Insert(id, boxes[id])
	}

	// Covers far more lattice cells than are occupied.
	query := geom.NewAABB(math.Splat(-500), math.Splat(500))
	got := g.QueryRange(query)
	if diff := cmp.Diff(bruteForce(boxes, query), got); diff != "" {
		t.Fatalf("large query mismatch (-brute +grid):\n%s", diff)
	}
	if len(got) != len(boxes) {
		t.Errorf("len = %d, want %d", len(got), len(boxes))
	}
}

func TestQueryRangeDeduplicatesStraddlingBoxes(t *testing.T) {
	g := NewGrid(4)
	// Cells -1..1 on each axis.
	g.Insert(7, geom.NewAABB(math.Vec3{-2, -2, -2}, math.Vec3{6, 6, 6}))
	if refs := g.Stats().References; refs != 27 {
		t.Errorf("References = %d, want 27 (3x3x3 cells)", refs)
	}

	got := g.QueryRange(geom.NewAABB(math.Splat(-10), math.Splat(10)))
	if diff := cmp.Diff([]int{7}, got); diff != "" {
		t.Errorf("QueryRange() mismatch (-want +got):\n%s", diff)
	}
}

func TestNegativeCellCoordinates(t *testing.T) {
	g := NewGrid(4)
	tests := []struct {
		p    math.Vec3
		want CellKey
	}{
		{math.Vec3{0.5, 0.5, 0.5}, CellKey{0, 0, 0}},
		{math.Vec3{-0.5, -0.5, -0.5}, CellKey{-1, -1, -1}},
		{math.Vec3{-4, 4, -8.1}, CellKey{-1, 1, -3}},
	}
	for _, tt := range tests {
		if got := g.CellOf(tt.p); got != tt.want {
			t.Errorf("CellOf(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}

	// Boxes on either side of the origin must not alias.
	g.Insert(0, geom.NewAABB(math.Vec3{-3, -3, -3}, math.Vec3{-1, -1, -1}))
	g.Insert(1, geom.NewAABB(math.Vec3{1, 1, 1}, math.Vec3{3, 3, 3}))
	got := g.QueryRange(geom.NewAABB(math.Vec3{-2, -2, -2}, math.Vec3{-1.5, -1.5, -1.5}))
	if diff := cmp.Diff([]int{0}, got); diff != "" {
		t.Errorf("negative query mismatch (-want +got):\n%s", diff)
	}
}

func TestQueryRangeNonFinite(t *testing.T) {
	g := NewGrid(4)
	g.Insert(0, geom.NewAABB(math.Splat(-1), math.Splat(1)))

	nan := float32(gomath.NaN())
	inf := float32(gomath.Inf(1))
	for _, q := range []geom.AABB{
		{Min: math.Splat(nan), Max: math.Splat(1)},
		{Min: math.Splat(-1), Max: math.Splat(inf)},
		geom.EmptyAABB(),
	} {
		if got := g.QueryRange(q); len(got) != 0 {
			t.Errorf("QueryRange(%+v) = %v, want empty", q, got)
		}
	}
}

func TestQueryRangeIntoReusesBuffer(t *testing.T) {
	g := NewGrid(4)
	g.Insert(0, geom.NewAABB(math.Splat(0), math.Splat(1)))
	g.Insert(1, geom.NewAABB(math.Splat(10), math.Splat(11)))

	buf := make([]int, 0, 8)
	buf = g.QueryRangeInto(buf, geom.NewAABB(math.Splat(-1), math.Splat(2)))
	if diff := cmp.Diff([]int{0}, buf); diff != "" {
		t.Fatalf("first query mismatch:\n%s", diff)
	}
	buf = g.QueryRangeInto(buf, geom.NewAABB(math.Splat(9), math.Splat(12)))
	if diff := cmp.Diff([]int{1}, buf); diff != "" {
		t.Errorf("second query kept stale ids:\n%s", diff)
	}
}

func TestCellBounds(t *testing.T) {
	g := NewGrid(5)
	b := g.CellBounds(CellKey{-1, 0, 2})
	want := geom.AABB{Min: math.Vec3{-5, 0, 10}, Max: math.Vec3{0, 5, 15}}
	if b != want {
		t.Errorf("CellBounds() = %+v, want %+v", b, want)
	}
}
