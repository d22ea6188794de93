package collision

import (
	"fmt"
	gomath "math"
	"math/rand/v2"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/asteroid-tunnel/internal/engine/bake"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/debug"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/meshgen"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/spatial"
	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

func cubeCollider(t testing.TB) *Collider {
	t.Helper()
	return New(bake.NewNode("cube", meshgen.Cube(10)), Options{CellSize: spatial.Auto()})
}

func floorCollider(t testing.TB) *Collider {
	t.Helper()
	return New(bake.NewNode("floor", meshgen.Plane(20, 4)), Options{CellSize: spatial.Fixed(5)})
}

func tunnelCollider(t testing.TB, p meshgen.TunnelParams) *Collider {
	t.Helper()
	return New(meshgen.Tunnel(p), Options{CellSize: spatial.Auto()})
}

func TestRaycastCube(t *testing.T) {
	c := cubeCollider(t)

	hit := c.Raycast(math.Vec3{-20, 0, 0}, math.UnitX, 100)
	if !hit.Hit {
		t.Fatal("Raycast() missed the cube")
	}
	if gomath.Abs(float64(hit.Distance-15)) > 1e-5 {
		t.Errorf("Distance = %v, want 15", hit.Distance)
	}
	if !hit.Point.ApproxEqual(math.Vec3{-5, 0, 0}, 1e-5) {
		t.Errorf("Point = %v, want (-5, 0, 0)", hit.Point)
	}
	if hit.Normal != (math.Vec3{-1, 0, 0}) {
		t.Errorf("Normal = %v, want (-1, 0, 0)", hit.Normal)
	}
}

func TestRaycastFromInside(t *testing.T) {
	c := cubeCollider(t)
	hit := c.Raycast(math.Vec3{}, math.Vec3{0, 1, 0}, 100)
	if !hit.Hit || gomath.Abs(float64(hit.Distance-5)) > 1e-5 {
		t.Fatalf("Raycast() = %+v, want hit at 5", hit)
	}
	if hit.Normal != math.UnitY {
		t.Errorf("Normal = %v, want %v", hit.Normal, math.UnitY)
	}
}

func TestRaycastMisses(t *testing.T) {
	c := cubeCollider(t)
	tests := []struct {
		name    string
		origin  math.Vec3
		dir     math.Vec3
		maxDist float32
	}{
		{"too short", math.Vec3{-20, 0, 0}, math.UnitX, 10},
		{"pointing away", math.Vec3{-20, 0, 0}, math.Vec3{-1, 0, 0}, 100},
		{"passes beside", math.Vec3{-20, 6, 0}, math.UnitX, 100},
		{"zero direction", math.Vec3{-20, 0, 0}, math.Vec3{}, 100},
		{"zero distance", math.Vec3{-20, 0, 0}, math.UnitX, 0},
		{"nan origin", math.Vec3{float32(gomath.NaN()), 0, 0}, math.UnitX, 100},
		{"nan direction", math.Vec3{-20, 0, 0}, math.Vec3{float32(gomath.NaN()), 0, 0}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hit := c.Raycast(tt.origin, tt.dir, tt.maxDist); hit.Hit {
				t.Errorf("Raycast() = %+v, want miss", hit)
			}
		})
	}
}

func TestRaycastMatchesBruteForce(t *testing.T) {
	p := meshgen.DefaultTunnelParams()
	p.Rings, p.Length = 60, 150
	c := tunnelCollider(t, p)
	q := c.Querier()
	r := rand.New(rand.NewPCG(21, 4))

	for i := 0; i < 300; i++ {
		origin := math.Vec3{
			X: (r.Float32()*2 - 1) * 30,
			Y: (r.Float32()*2 - 1) * 30,
			Z: -r.Float32() * 150,
		}
		dir := math.Vec3{r.Float32()*2 - 1, r.Float32()*2 - 1, r.Float32()*2 - 1}.Normalize()
		if dir == (math.Vec3{}) {
			continue
		}
		maxDist := 5 + r.Float32()*80

		var want RayHit
		for id, tri := range c.Triangles() {
			d, ok := geom.IntersectRayTriangle(origin, dir, tri.A, tri.B, tri.C)
			if ok && d <= maxDist && (!want.Hit || d < want.Distance) {
				want = RayHit{Hit: true, Distance: d, Triangle: id}
			}
		}

		got := q.Raycast(origin, dir, maxDist)
		if got.Hit != want.Hit || got.Distance != want.Distance {
			t.Fatalf("ray %d from %v dir %v: got hit=%v d=%v, want hit=%v d=%v",
				i, origin, dir, got.Hit, got.Distance, want.Hit, want.Distance)
		}
		if c.Raycast(origin, dir, maxDist) != got {
			t.Fatalf("ray %d: Querier and Collider disagree", i)
		}
	}
}

func TestSpherePenetrationMonotonic(t *testing.T) {
	c := floorCollider(t)
	const radius = 1

	if contact := c.SpherePenetration(math.Vec3{1.3, 1.5, 2.1}, radius); contact.Hit {
		t.Errorf("sphere above the expanded bounds reported %+v", contact)
	}
	if contact := c.SpherePenetration(math.Vec3{1.3, 1, 2.1}, radius); contact.Hit {
		t.Errorf("touching sphere reported %+v", contact)
	}

	prev := float32(0)
	for i := 1; i <= 9; i++ {
		y := 1 - float32(i)*0.1
		contact := c.SpherePenetration(math.Vec3{1.3, y, 2.1}, radius)
		if !contact.Hit {
			t.Fatalf("y=%v: no hit", y)
		}
		if contact.Depth <= prev {
			t.Errorf("y=%v: depth %v did not increase past %v", y, contact.Depth, prev)
		}
		if gomath.Abs(float64(contact.Depth-(1-y))) > 1e-4 {
			t.Errorf("y=%v: depth = %v, want %v", y, contact.Depth, 1-y)
		}
		if contact.Normal != math.UnitY {
			t.Errorf("y=%v: normal = %v, want +Y", y, contact.Normal)
		}
		prev = contact.Depth
	}
}

func TestSpherePenetrationDeepestWins(t *testing.T) {
	floor := geom.NewTriangle(math.Vec3{-10, 0, -10}, math.Vec3{-10, 0, 10}, math.Vec3{10, 0, -10})
	wall := geom.NewTriangle(math.Vec3{0, -10, -10}, math.Vec3{0, 10, -10}, math.Vec3{0, -10, 10})
	c := NewFromTriangles([]geom.Triangle{floor, wall}, spatial.Fixed(4))

	contact := c.SpherePenetration(math.Vec3{0.3, 0.5, -2}, 1)
	if !contact.Hit || contact.Triangle != 1 {
		t.Fatalf("SpherePenetration() = %+v, want wall contact", contact)
	}
	if contact.Normal != math.UnitX {
		t.Errorf("Normal = %v, want +X", contact.Normal)
	}
	if gomath.Abs(float64(contact.Depth-0.7)) > 1e-5 {
		t.Errorf("Depth = %v, want 0.7", contact.Depth)
	}
	if !contact.Point.ApproxEqual(math.Vec3{0, 0.5, -2}, 1e-5) {
		t.Errorf("Point = %v, want (0, 0.5, -2)", contact.Point)
	}
}

func TestSpherePenetrationDegenerateInputs(t *testing.T) {
	c := cubeCollider(t)
	nan := float32(gomath.NaN())

	for _, tc := range []struct {
		center math.Vec3
		radius float32
	}{
		{math.Vec3{-5.5, 0, 0}, 0},
		{math.Vec3{-5.5, 0, 0}, -1},
		{math.Vec3{-5.5, 0, 0}, nan},
		{math.Vec3{nan, 0, 0}, 1},
	} {
		if contact := c.SpherePenetration(tc.center, tc.radius); contact.Hit {
			t.Errorf("SpherePenetration(%v, %v) = %+v, want no hit", tc.center, tc.radius, contact)
		}
	}
}

func TestConstrainPushesOut(t *testing.T) {
	c := floorCollider(t)

	res := c.Constrain(math.Vec3{1.3, 2, 2.1}, math.Vec3{1.3, 0.4, 2.1}, 1, DefaultMaxIterations)
	if !res.Hit || res.Iterations != 1 {
		t.Fatalf("Constrain() = %+v, want one push-out", res)
	}
	want := math.Vec3{1.3, 1 + DefaultSkin, 2.1}
	if !res.Position.ApproxEqual(want, 1e-4) {
		t.Errorf("Position = %v, want %v", res.Position, want)
	}
	if res.Normal != math.UnitY {
		t.Errorf("Normal = %v, want +Y", res.Normal)
	}
}

func TestConstrainSlidesAlongWall(t *testing.T) {
	c := floorCollider(t)

	// Diagonal motion into the floor keeps its tangential component.
	res := c.Constrain(math.Vec3{0, 1.5, 0}, math.Vec3{2, 0.5, 1}, 1, 0)
	if !res.Hit {
		t.Fatal("Constrain() reported no hit")
	}
	if !res.Position.ApproxEqual(math.Vec3{2, 1 + DefaultSkin, 1}, 1e-4) {
		t.Errorf("Position = %v, want (2, %v, 1)", res.Position, 1+DefaultSkin)
	}
}

func TestConstrainBroadReject(t *testing.T) {
	c := cubeCollider(t)
	desired := math.Vec3{40, 40, 40}

	res := c.Constrain(math.Vec3{30, 30, 30}, desired, 1, 3)
	if res.Hit || res.Position != desired || res.Iterations != 0 {
		t.Errorf("Constrain() = %+v, want untouched desired position", res)
	}
}

func TestConstrainIdempotent(t *testing.T) {
	c := cubeCollider(t)
	r := rand.New(rand.NewPCG(8, 13))

	for i := 0; i < 200; i++ {
		desired := math.Vec3{
			X: -5.1 - r.Float32()*0.8,
			Y: (r.Float32()*2 - 1) * 3,
			Z: (r.Float32()*2 - 1) * 3,
		}
		first := c.Constrain(desired.Add(math.Vec3{X: -2}), desired, 1, 3)
		if !first.Hit {
			t.Fatalf("case %d: expected a push-out at %v", i, desired)
		}

		second := c.Constrain(first.Position, first.Position, 1, 3)
		if second.Hit || second.Position != first.Position {
			t.Fatalf("case %d: second call moved %v to %v", i, first.Position, second.Position)
		}
	}
}

func TestContainsPointCube(t *testing.T) {
	c := cubeCollider(t)

	if !c.ContainsPoint(math.Vec3{}) {
		t.Error("center of cube reported outside")
	}
	if c.ContainsPoint(math.Vec3{100, 100, 100}) {
		t.Error("far point reported inside")
	}
	if c.ContainsPoint(math.Vec3{float32(gomath.NaN()), 0, 0}) {
		t.Error("NaN point reported inside")
	}

	r := rand.New(rand.NewPCG(2, 6))
	for i := 0; i < 500; i++ {
		p := math.Vec3{
			X: (r.Float32()*2 - 1) * 4.9,
			Y: (r.Float32()*2 - 1) * 4.9,
			Z: (r.Float32()*2 - 1) * 4.9,
		}
		if !c.ContainsPoint(p) {
			t.Fatalf("interior point %v reported outside", p)
		}
	}
}

func TestContainsPointTwoCubes(t *testing.T) {
	left := bake.NewNode("left", meshgen.Cube(10))
	left.Position = math.Vec3{X: -10}
	right := bake.NewNode("right", meshgen.Cube(10))
	right.Position = math.Vec3{X: 10}
	c := New(bake.NewNode("pair", nil, left, right), Options{})

	if c.ContainsPoint(math.Vec3{}) {
		t.Error("gap between cubes reported inside")
	}
	if !c.ContainsPoint(math.Vec3{-10, 0, 0}) {
		t.Error("center of left cube reported outside")
	}
	if !c.ContainsPoint(math.Vec3{10, 1, -2}) {
		t.Error("point in right cube reported outside")
	}
}

func wallX(x float32) geom.Triangle {
	return geom.NewTriangle(math.Vec3{x, -10, -10}, math.Vec3{x, 10, -10}, math.Vec3{x, 0, 10})
}

func TestContainsPointThinShell(t *testing.T) {
	tests := []struct {
		name string
		gap  float32
		want bool
	}{
		// Both walls merge into one crossing.
		{"within merge distance", crossingMergeEpsilon / 2, true},
		{"separate surfaces", 1e-2, false},
	}
	for _, tt := range tests {
		c := NewFromTriangles([]geom.Triangle{wallX(-5), wallX(5), wallX(5 + tt.gap)}, spatial.Fixed(4))
		if got := c.ContainsPoint(math.Vec3{}); got != tt.want {
			t.Errorf("%s: ContainsPoint() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEmptyCollider(t *testing.T) {
	for name, c := range map[string]*Collider{
		"nil root":       New(nil, Options{}),
		"empty mesh":     New(bake.NewNode("empty", &bake.MeshData{}), Options{}),
		"no triangles":   NewFromTriangles(nil, spatial.Auto()),
		"hidden subtree": New(&bake.Node{Name: "hidden", Hidden: true, Mesh: meshgen.Cube(10)}, Options{}),
	} {
		t.Run(name, func(t *testing.T) {
			if !c.Bounds().IsEmpty() || c.TriangleCount() != 0 {
				t.Fatalf("Bounds() = %+v, TriangleCount() = %d", c.Bounds(), c.TriangleCount())
			}
			if hit := c.Raycast(math.Vec3{-20, 0, 0}, math.UnitX, 100); hit.Hit {
				t.Error("Raycast() hit")
			}
			if contact := c.SpherePenetration(math.Vec3{}, 5); contact.Hit {
				t.Error("SpherePenetration() hit")
			}
			if c.ContainsPoint(math.Vec3{}) {
				t.Error("ContainsPoint() = true")
			}
			desired := math.Vec3{1, 2, 3}
			if res := c.Constrain(math.Vec3{}, desired, 1, 3); res.Hit || res.Position != desired {
				t.Errorf("Constrain() = %+v", res)
			}
		})
	}
}

func TestPlacement(t *testing.T) {
	c := New(bake.NewNode("cube", meshgen.Cube(10)), Options{
		Placement: bake.Placement{Position: math.Vec3{X: 100}, Scale: 2},
	})

	hit := c.Raycast(math.Vec3{60, 0, 0}, math.UnitX, 100)
	if !hit.Hit || gomath.Abs(float64(hit.Distance-30)) > 1e-4 {
		t.Errorf("Raycast() = %+v, want hit at 30", hit)
	}
	if !c.ContainsPoint(math.Vec3{105, 0, 0}) {
		t.Error("point inside the placed cube reported outside")
	}
}

func TestDropDegenerate(t *testing.T) {
	mesh := meshgen.Cube(10)
	mesh.Indices = append(mesh.Indices, 0, 1, 1)

	kept := New(bake.NewNode("cube", mesh), Options{})
	dropped := New(bake.NewNode("cube", mesh), Options{DropDegenerate: true})

	if kept.TriangleCount() != 13 || dropped.TriangleCount() != 12 {
		t.Errorf("TriangleCount() = %d / %d, want 13 / 12", kept.TriangleCount(), dropped.TriangleCount())
	}
	if kept.Stats().Degenerate != 1 || dropped.Stats().Degenerate != 1 {
		t.Errorf("Degenerate = %d / %d, want 1 / 1", kept.Stats().Degenerate, dropped.Stats().Degenerate)
	}
	if hit := kept.Raycast(math.Vec3{-20, 0, 0}, math.UnitX, 100); !hit.Hit || hit.Normal != (math.Vec3{-1, 0, 0}) {
		t.Errorf("Raycast() with a degenerate triangle = %+v", hit)
	}
}

func TestStatsAndCellSize(t *testing.T) {
	c := cubeCollider(t)
	s := c.Stats()

	if s.Triangles != 12 || s.Bake.Submeshes != 1 {
		t.Errorf("Stats() = %+v", s)
	}
	if c.CellSize() != spatial.MaxCellSize {
		t.Errorf("CellSize() = %v, want %v", c.CellSize(), spatial.MaxCellSize)
	}

	fixed := New(bake.NewNode("cube", meshgen.Cube(10)), Options{CellSize: spatial.Fixed(2.5)})
	if fixed.CellSize() != 2.5 {
		t.Errorf("CellSize() = %v, want 2.5", fixed.CellSize())
	}
	if fixed.Stats().Grid.OccupiedCells <= s.Grid.OccupiedCells {
		t.Errorf("smaller cells should occupy more cells: %d vs %d",
			fixed.Stats().Grid.OccupiedCells, s.Grid.OccupiedCells)
	}
}

func TestTinyFixedCellSizeIsFloored(t *testing.T) {
	done := make(chan *Collider, 1)
	go func() {
		done <- New(bake.NewNode("cube", meshgen.Cube(10)), Options{CellSize: spatial.Fixed(0.001)})
	}()

	var c *Collider
	select {
	case c = <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("New() with Fixed(0.001) did not finish")
	}

	if want := float32(10.0 / spatial.MaxCellsPerAxis); c.CellSize() != want {
		t.Errorf("CellSize() = %v, want %v", c.CellSize(), want)
	}
	hit := c.Raycast(math.Vec3{-20, 0, 0}, math.UnitX, 100)
	if !hit.Hit || gomath.Abs(float64(hit.Distance-15)) > 1e-4 {
		t.Errorf("Raycast() = %+v, want hit at 15", hit)
	}
}

func TestDebugWireframe(t *testing.T) {
	c := cubeCollider(t)

	lines := c.DebugWireframe(false)
	if want := 12*6 + debug.BBoxWireframeVertexCount; len(lines) != want {
		t.Errorf("len = %d, want %d", len(lines), want)
	}
	withCells := c.DebugWireframe(true)
	if want := len(lines) + c.Stats().Grid.OccupiedCells*debug.BBoxWireframeVertexCount; len(withCells) != want {
		t.Errorf("len = %d, want %d", len(withCells), want)
	}
}

func TestTunnelInteriorRaycast(t *testing.T) {
	p := meshgen.TunnelParams{Length: 100, Radius: 10, Rings: 40, Sides: 32, Segments: 4, Rough: 0.1, Seed: 5}
	c := tunnelCollider(t, p)

	for _, dir := range []math.Vec3{math.UnitX, math.UnitY, {-1, 0, 0}, {0, -1, 0}} {
		hit := c.Raycast(math.Vec3{Z: -50}, dir, 100)
		if !hit.Hit {
			t.Fatalf("ray %v escaped the tunnel", dir)
		}
		if hit.Distance < 8 || hit.Distance > 12 {
			t.Errorf("ray %v hit at %v, want about 10", dir, hit.Distance)
		}
		if hit.Normal.Dot(dir) >= 0 {
			t.Errorf("ray %v hit a wall facing away (normal %v)", dir, hit.Normal)
		}
	}

	// The open ends let a ray along the axis escape.
	if hit := c.Raycast(math.Vec3{Z: -50}, math.Vec3{0, 0, -1}, 200); hit.Hit {
		t.Errorf("axial ray hit %+v", hit)
	}
}

func TestSpherePenetrationMatchesBruteForce(t *testing.T) {
	p := meshgen.DefaultTunnelParams()
	p.Rings, p.Length = 60, 150
	c := tunnelCollider(t, p)
	r := rand.New(rand.NewPCG(17, 3))

	for i := 0; i < 200; i++ {
		center := math.Vec3{
			X: (r.Float32()*2 - 1) * 25,
			Y: (r.Float32()*2 - 1) * 20,
			Z: -r.Float32() * 150,
		}
		radius := 1 + r.Float32()*4

		var want Contact
		for id, tri := range c.Triangles() {
			cp := tri.ClosestPoint(center)
			d := center.DistanceSq(cp)
			if d < radius*radius {
				depth := radius - math.Sqrt(d)
				if !want.Hit || depth > want.Depth {
					want = Contact{Hit: true, Point: cp, Normal: tri.Normal, Depth: depth, Triangle: id}
				}
			}
		}

		if got := c.SpherePenetration(center, radius); got != want {
			t.Fatalf("center %v radius %v: got %+v, want %+v", center, radius, got, want)
		}
	}
}

func TestUpdateIsNoop(t *testing.T) {
	c := cubeCollider(t)
	before := c.Stats()
	c.Update(0.016)
	if c.Stats() != before {
		t.Error("Update() changed collider state")
	}
}

func BenchmarkRaycast(b *testing.B) {
	c := tunnelCollider(b, meshgen.DefaultTunnelParams())
	q := c.Querier()
	origin := math.Vec3{Z: -200}
	dir := math.Vec3{0.3, 0.2, -1}.Normalize()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Raycast(origin, dir, 500)
	}
}

func BenchmarkSpherePenetration(b *testing.B) {
	c := tunnelCollider(b, meshgen.DefaultTunnelParams())
	q := c.Querier()
	center := math.Vec3{X: 8, Z: -120}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.SpherePenetration(center, 3)
	}
}

func BenchmarkConstrain(b *testing.B) {
	c := tunnelCollider(b, meshgen.DefaultTunnelParams())
	q := c.Querier()
	prev := math.Vec3{Z: -100}
	desired := math.Vec3{X: 12, Z: -102}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.Constrain(prev, desired, 2, DefaultMaxIterations)
	}
}

func TestConcurrentQueriesMatchSerial(t *testing.T) {
	p := meshgen.DefaultTunnelParams()
	p.Rings, p.Sides = 40, 16
	c := tunnelCollider(t, p)

	rng := rand.New(rand.NewPCG(7, 8))
	box := c.Bounds()
	size := box.Size()
	points := make([]math.Vec3, 200)
	for i := range points {
		points[i] = box.Min.Add(math.Vec3{
			X: size.X * rng.Float32(),
			Y: size.Y * rng.Float32(),
			Z: size.Z * rng.Float32(),
		})
	}

	type result struct {
		ray     RayHit
		contact Contact
		inside  bool
	}
	q := c.Querier()
	want := make([]result, len(points))
	for i, pt := range points {
		dir := points[(i+1)%len(points)].Sub(pt).Normalize()
		want[i] = result{q.Raycast(pt, dir, 1000), q.SpherePenetration(pt, 2), q.ContainsPoint(pt)}
	}

	var g errgroup.Group
	for w := range 8 {
		g.Go(func() error {
			for k := range points {
				i := (k + w*25) % len(points)
				pt := points[i]
				dir := points[(i+1)%len(points)].Sub(pt).Normalize()
				got := result{c.Raycast(pt, dir, 1000), c.SpherePenetration(pt, 2), c.ContainsPoint(pt)}
				if got != want[i] {
					return fmt.Errorf("worker %d point %d: got %+v, want %+v", w, i, got, want[i])
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}
