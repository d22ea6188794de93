package geom

import (
	gomath "math"

	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

// Ray represents a ray in 3D space with origin and direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3 // Normalized direction
}

// At returns the point at parametric distance t.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.AddScaled(r.Direction, t)
}

// IntersectAABB clips the ray against a box with the slab method.
// Returns the entry and exit distances along the ray; tmin may be negative
// when the origin is inside the box. hit is false when the ray misses or the
// box lies entirely behind the origin.
func (r Ray) IntersectAABB(box AABB) (tmin, tmax float32, hit bool) {
	if box.IsEmpty() {
		return 0, 0, false
	}
	tmin = float32(-gomath.MaxFloat32)
	tmax = float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o := r.Origin.Axis(axis)
		d := r.Direction.Axis(axis)
		lo := box.Min.Axis(axis)
		hi := box.Max.Axis(axis)

		if d == 0 {
			// Parallel to this slab: must already be between the planes.
			if !(o >= lo && o <= hi) {
				return 0, 0, false
			}
			continue
		}

		t1 := (lo - o) / d
		t2 := (hi - o) / d
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tmin {
			tmin = t1
		}
		if t2 < tmax {
			tmax = t2
		}
	}

	if !(tmax >= tmin) || tmax < 0 {
		return 0, 0, false
	}
	return tmin, tmax, true
}

// SegmentAABB returns the bounds of the segment from p to q.
func SegmentAABB(p, q math.Vec3) AABB {
	return AABB{Min: p.Min(q), Max: p.Max(q)}
}
