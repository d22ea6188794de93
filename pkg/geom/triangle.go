package geom

import "github.com/Faultbox/asteroid-tunnel/pkg/math"

// Numerical tolerances for IntersectRayTriangle.
const (
	// ParallelEpsilon bounds the determinant below which a ray is treated as
	// parallel to the triangle plane.
	ParallelEpsilon = 1e-8
	// HitEpsilon is the smallest parametric distance accepted as a hit, so a
	// ray starting on a surface does not report that surface.
	HitEpsilon = 1e-5
)

// Triangle is a world-space triangle with its precomputed unit face normal.
type Triangle struct {
	A, B, C math.Vec3
	Normal  math.Vec3
}

// NewTriangle builds a triangle and its counter-clockwise face normal.
// Degenerate triangles get a zero normal; they are not rejected.
func NewTriangle(a, b, c math.Vec3) Triangle {
	return Triangle{A: a, B: b, C: c, Normal: FaceNormal(a, b, c)}
}

// FaceNormal returns normalize((b-a) x (c-a)).
func FaceNormal(a, b, c math.Vec3) math.Vec3 {
	return b.Sub(a).Cross(c.Sub(a)).Normalize()
}

// Bounds returns the triangle's AABB.
func (t Triangle) Bounds() AABB {
	return TriangleAABB(t.A, t.B, t.C)
}

// Area returns the triangle area.
func (t Triangle) Area() float32 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).Length() * 0.5
}

// IsDegenerate reports whether the triangle has (near) zero area.
func (t Triangle) IsDegenerate() bool {
	return t.Normal == (math.Vec3{}) || !t.Normal.IsFinite()
}

// ClosestPointOnTriangle returns the point on triangle abc nearest to p.
// It classifies p against the three vertex regions, the three edge regions
// and the face interior. Zero-area triangles fall through to an unstable
// face projection.
func ClosestPointOnTriangle(p, a, b, c math.Vec3) math.Vec3 {
	ab := b.Sub(a)
	ac := c.Sub(a)

	// Vertex region A
	ap := p.Sub(a)
	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	// Vertex region B
	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	// Edge AB
	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.AddScaled(ab, v)
	}

	// Vertex region C
	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	// Edge AC
	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.AddScaled(ac, w)
	}

	// Edge BC
	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.AddScaled(c.Sub(b), w)
	}

	// Face interior
	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.AddScaled(ab, v).AddScaled(ac, w)
}

// IntersectRayTriangle returns the parametric distance t at which the ray
// origin + t*dir crosses triangle abc. Rays within ParallelEpsilon of the
// triangle plane and hits at t <= HitEpsilon report no hit. Barycentric
// bounds are tested against the unscaled determinant, so a ray through a
// shared edge hits both neighbours consistently.
func IntersectRayTriangle(origin, dir, a, b, c math.Vec3) (t float32, hit bool) {
	e1 := b.Sub(a)
	e2 := c.Sub(a)

	pvec := dir.Cross(e2)
	det := e1.Dot(pvec)
	if det > -ParallelEpsilon && det < ParallelEpsilon {
		return 0, false
	}

	tvec := origin.Sub(a)
	qvec := tvec.Cross(e1)
	u := tvec.Dot(pvec)
	v := dir.Dot(qvec)
	tNum := e2.Dot(qvec)

	if det < 0 {
		det, u, v, tNum = -det, -u, -v, -tNum
	}
	if !(u >= 0 && u <= det && v >= 0 && u+v <= det) {
		return 0, false
	}

	t = tNum / det
	if !(t > HitEpsilon) {
		return 0, false
	}
	return t, true
}

// Intersect is IntersectRayTriangle against t.
func (t Triangle) Intersect(r Ray) (float32, bool) {
	return IntersectRayTriangle(r.Origin, r.Direction, t.A, t.B, t.C)
}

// ClosestPoint is ClosestPointOnTriangle against t.
func (t Triangle) ClosestPoint(p math.Vec3) math.Vec3 {
	return ClosestPointOnTriangle(p, t.A, t.B, t.C)
}
