// Package geom provides the exact geometric primitives shared by every
// collision query: axis-aligned boxes, rays, triangles, closest points and
// ray/triangle intersection. All functions are pure.
package geom

import (
	gomath "math"

	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

// AABB represents an axis-aligned bounding box.
// A box with Min > Max on any axis is empty.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// EmptyAABB returns an inverted box that any Extend call will replace.
func EmptyAABB() AABB {
	return AABB{
		Min: math.Splat(gomath.MaxFloat32),
		Max: math.Splat(-gomath.MaxFloat32),
	}
}

// NewAABB creates a box from two corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	return AABB{Min: a.Min(b), Max: a.Max(b)}
}

// TriangleAABB returns the tight bounds of a triangle.
func TriangleAABB(a, b, c math.Vec3) AABB {
	return AABB{Min: a.Min(b).Min(c), Max: a.Max(b).Max(c)}
}

// SphereAABB returns the bounds of a sphere.
func SphereAABB(center math.Vec3, radius float32) AABB {
	r := math.Splat(radius)
	return AABB{Min: center.Sub(r), Max: center.Add(r)}
}

// IsEmpty reports whether the box encloses nothing.
func (b AABB) IsEmpty() bool {
	return !(b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z)
}

// Extend grows the box to include p.
func (b AABB) Extend(p math.Vec3) AABB {
	return AABB{Min: b.Min.Min(p), Max: b.Max.Max(p)}
}

// Union returns the smallest box enclosing both boxes.
func (b AABB) Union(other AABB) AABB {
	if other.IsEmpty() {
		return b
	}
	if b.IsEmpty() {
		return other
	}
	return AABB{Min: b.Min.Min(other.Min), Max: b.Max.Max(other.Max)}
}

// Expand pads the box by r on every side.
func (b AABB) Expand(r float32) AABB {
	pad := math.Splat(r)
	return AABB{Min: b.Min.Sub(pad), Max: b.Max.Add(pad)}
}

// Overlaps reports whether two boxes intersect. Touching faces count as
// overlapping. Any NaN coordinate yields false.
func (b AABB) Overlaps(other AABB) bool {
	return b.Min.X <= other.Max.X && b.Max.X >= other.Min.X &&
		b.Min.Y <= other.Max.Y && b.Max.Y >= other.Min.Y &&
		b.Min.Z <= other.Max.Z && b.Max.Z >= other.Min.Z
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// Size returns the box extents. Empty boxes report zero.
func (b AABB) Size() math.Vec3 {
	if b.IsEmpty() {
		return math.Vec3{}
	}
	return b.Max.Sub(b.Min)
}

// Center returns the box midpoint.
func (b AABB) Center() math.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}
