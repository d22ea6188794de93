package spatial

import (
	"fmt"
	gomath "math"
	"slices"

	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
)

// Auto cell size tuning.
const (
	TargetTrianglesPerCell = 140
	MinCellSize            = 4.0
	MaxCellSize            = 18.0

	// MaxCellsPerAxis bounds how finely a fixed size may split the longest
	// bounding extent.
	MaxCellsPerAxis = 128
)

// CellSize selects the grid cell edge length: derived from triangle density
// (Auto) or supplied explicitly (Fixed). The zero value is Auto.
type CellSize struct {
	fixed bool
	value float32
}

// Auto derives the cell size from the geometry at build time.
func Auto() CellSize {
	return CellSize{}
}

// Fixed uses the given edge length. Non-positive or non-finite values are
// clamped to MinCellSize when resolved, and values smaller than the longest
// bounding extent / MaxCellsPerAxis are raised to that floor.
func Fixed(size float32) CellSize {
	return CellSize{fixed: true, value: size}
}

// IsAuto reports whether the size is derived from the geometry.
func (c CellSize) IsAuto() bool {
	return !c.fixed
}

// Value returns the explicit size. It is zero for Auto.
func (c CellSize) Value() float32 {
	return c.value
}

// String renders "auto" or the fixed value.
func (c CellSize) String() string {
	if c.IsAuto() {
		return "auto"
	}
	return fmt.Sprintf("%g", c.value)
}

// Resolve returns the concrete edge length to use for the given geometry.
func (c CellSize) Resolve(bounds geom.AABB, triangleCount int) float32 {
	if c.IsAuto() {
		return AutoCellSize(bounds, triangleCount)
	}
	v := float64(c.value)
	if gomath.IsNaN(v) || gomath.IsInf(v, 0) || v <= 0 {
		return MinCellSize
	}
	if floor := fixedFloor(bounds); c.value < floor {
		return floor
	}
	return c.value
}

func fixedFloor(bounds geom.AABB) float32 {
	size := bounds.Size()
	return max(size.X, size.Y, size.Z) / MaxCellsPerAxis
}

// AutoCellSize picks an edge length giving roughly TargetTrianglesPerCell
// triangles per cell. The geometry is modelled as a tube: its thickness is
// the mean of the two smaller bounding extents and its volume is
// longest * thickness^2. The result is clamped to [MinCellSize, MaxCellSize].
func AutoCellSize(bounds geom.AABB, triangleCount int) float32 {
	if triangleCount <= 0 || bounds.IsEmpty() {
		return MaxCellSize
	}

	size := bounds.Size()
	extents := []float64{float64(size.X), float64(size.Y), float64(size.Z)}
	slices.Sort(extents)

	thickness := (extents[0] + extents[1]) / 2
	volume := extents[2] * thickness * thickness
	if volume <= 1e-6 {
		return MaxCellSize
	}

	density := float64(triangleCount) / volume
	edge := gomath.Cbrt(TargetTrianglesPerCell / density)
	if gomath.IsNaN(edge) {
		return MaxCellSize
	}
	return float32(gomath.Max(MinCellSize, gomath.Min(MaxCellSize, edge)))
}
