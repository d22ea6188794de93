package collision

import (
	"slices"

	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

const (
	// rayClipMargin pads clipped ray segments so triangles lying on the
	// bounds faces still overlap the gather box.
	rayClipMargin = 1e-3
	// crossingMergeEpsilon merges point-in-solid crossings at the same
	// distance, as produced by a probe through a shared edge or vertex.
	crossingMergeEpsilon = 1e-4
)

// Contact is the result of a sphere penetration test.
type Contact struct {
	Hit      bool
	Point    math.Vec3 // closest point on the deepest triangle
	Normal   math.Vec3 // face normal of that triangle
	Depth    float32   // radius minus distance to Point
	Triangle int
}

// SweepResult is the result of Constrain.
type SweepResult struct {
	Position   math.Vec3
	Hit        bool
	Iterations int       // push-outs applied
	Normal     math.Vec3 // normal of the last push-out
}

// RayHit is the result of a raycast.
type RayHit struct {
	Hit      bool
	Distance float32
	Point    math.Vec3
	Normal   math.Vec3
	Triangle int
}

// Querier runs queries with a reusable candidate buffer. The zero value is
// not usable; get one from Collider.Querier.
type Querier struct {
	c   *Collider
	buf []int
}

// Querier returns a query context owning its own scratch buffer.
func (c *Collider) Querier() *Querier {
	return &Querier{c: c, buf: make([]int, 0, 256)}
}

// SpherePenetration finds the deepest overlap between the sphere and any
// triangle. A triangle overlaps when its closest point lies strictly inside
// the sphere; touching is not a hit. On equal depth the lowest triangle id
// wins.
func (c *Collider) SpherePenetration(center math.Vec3, radius float32) Contact {
	var buf []int
	return c.spherePenetration(&buf, center, radius)
}

// Constrain corrects a sphere that moved from prev to desired so it no
// longer penetrates the environment. Starting at desired, it repeatedly
// pushes the sphere out of its deepest contact along that triangle's face
// normal by depth plus skin, until free or maxIterations is reached
// (DefaultMaxIterations when maxIterations <= 0). Only the end position is
// corrected; the path between prev and desired is used for the broad reject
// alone.
func (c *Collider) Constrain(prev, desired math.Vec3, radius float32, maxIterations int) SweepResult {
	var buf []int
	return c.constrain(&buf, prev, desired, radius, maxIterations)
}

// Raycast returns the nearest triangle hit along dir within maxDist. dir is
// expected to be unit length; distances are measured in units of dir.
func (c *Collider) Raycast(origin, dir math.Vec3, maxDist float32) RayHit {
	var buf []int
	return c.raycast(&buf, origin, dir, maxDist)
}

// ContainsPoint reports whether p is enclosed by the mesh surface using the
// odd/even rule along +X. The mesh must be closed along the probe for the
// answer to be meaningful. Crossings closer than crossingMergeEpsilon count
// once, so two distinct surfaces that close together (a thin shell) read as
// a single surface and flip the result.
func (c *Collider) ContainsPoint(p math.Vec3) bool {
	var buf []int
	return c.containsPoint(&buf, p)
}

// SpherePenetration is Collider.SpherePenetration using q's buffer.
func (q *Querier) SpherePenetration(center math.Vec3, radius float32) Contact {
	return q.c.spherePenetration(&q.buf, center, radius)
}

// Constrain is Collider.Constrain using q's buffer.
func (q *Querier) Constrain(prev, desired math.Vec3, radius float32, maxIterations int) SweepResult {
	return q.c.constrain(&q.buf, prev, desired, radius, maxIterations)
}

// Raycast is Collider.Raycast using q's buffer.
func (q *Querier) Raycast(origin, dir math.Vec3, maxDist float32) RayHit {
	return q.c.raycast(&q.buf, origin, dir, maxDist)
}

// ContainsPoint is Collider.ContainsPoint using q's buffer.
func (q *Querier) ContainsPoint(p math.Vec3) bool {
	return q.c.containsPoint(&q.buf, p)
}

func (c *Collider) gather(buf *[]int, box geom.AABB) []int {
	*buf = c.grid.QueryRangeInto(*buf, box)
	return *buf
}

func (c *Collider) spherePenetration(buf *[]int, center math.Vec3, radius float32) Contact {
	var out Contact
	if !(radius > 0) || !center.IsFinite() {
		return out
	}

	box := geom.SphereAABB(center, radius)
	if !box.Overlaps(c.bounds) {
		return out
	}

	radiusSq := radius * radius
	for _, id := range c.gather(buf, box) {
		tri := &c.tris[id]
		p := tri.ClosestPoint(center)
		distSq := center.DistanceSq(p)
		if !(distSq < radiusSq) {
			continue
		}
		depth := radius - math.Sqrt(distSq)
		if !out.Hit || depth > out.Depth {
			out = Contact{Hit: true, Point: p, Normal: tri.Normal, Depth: depth, Triangle: id}
		}
	}
	return out
}

func (c *Collider) constrain(buf *[]int, prev, desired math.Vec3, radius float32, maxIterations int) SweepResult {
	res := SweepResult{Position: desired}
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}

	sweep := geom.SegmentAABB(prev, desired).Expand(radius)
	if !sweep.Overlaps(c.bounds) {
		return res
	}

	pos := desired
	for res.Iterations < maxIterations {
		contact := c.spherePenetration(buf, pos, radius)
		if !contact.Hit {
			break
		}
		pos = pos.AddScaled(contact.Normal, contact.Depth+c.skin)
		res.Hit = true
		res.Normal = contact.Normal
		res.Iterations++
	}
	res.Position = pos
	return res
}

func (c *Collider) raycast(buf *[]int, origin, dir math.Vec3, maxDist float32) RayHit {
	var out RayHit
	if !(maxDist > 0) || !origin.IsFinite() || !dir.IsFinite() || dir == (math.Vec3{}) {
		return out
	}

	ray := geom.Ray{Origin: origin, Direction: dir}
	tmin, tmax, ok := ray.IntersectAABB(c.bounds)
	if !ok || tmin > maxDist {
		return out
	}

	// Only the part of the ray inside the bounds can hit anything.
	t0 := max(tmin, 0)
	t1 := min(tmax, maxDist)
	seg := geom.SegmentAABB(ray.At(t0), ray.At(t1)).Expand(rayClipMargin)

	for _, id := range c.gather(buf, seg) {
		tri := &c.tris[id]
		t, hit := geom.IntersectRayTriangle(origin, dir, tri.A, tri.B, tri.C)
		if !hit || t > maxDist {
			continue
		}
		if !out.Hit || t < out.Distance {
			out = RayHit{Hit: true, Distance: t, Normal: tri.Normal, Triangle: id}
		}
	}
	if out.Hit {
		out.Point = ray.At(out.Distance)
	}
	return out
}

func (c *Collider) containsPoint(buf *[]int, p math.Vec3) bool {
	if !c.bounds.Contains(p) {
		return false
	}

	end := math.Vec3{X: c.bounds.Max.X + rayClipMargin, Y: p.Y, Z: p.Z}
	length := end.X - p.X
	seg := geom.SegmentAABB(p, end).Expand(rayClipMargin)

	var scratch [16]float32
	hits := scratch[:0]
	for _, id := range c.gather(buf, seg) {
		tri := &c.tris[id]
		t, hit := geom.IntersectRayTriangle(p, math.UnitX, tri.A, tri.B, tri.C)
		if hit && t <= length {
			hits = append(hits, t)
		}
	}
	slices.Sort(hits)

	crossings := 0
	for i, t := range hits {
		if i == 0 || t-hits[i-1] > crossingMergeEpsilon {
			crossings++
		}
	}
	return crossings%2 == 1
}
