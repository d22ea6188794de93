// Package camera provides camera implementations for 3D rendering.
package camera

import (
	gomath "math"

	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

// FlyCamera is a free-flight first-person camera. At zero yaw and pitch it
// looks down -Z; positive yaw turns toward +X and positive pitch looks up.
type FlyCamera struct {
	Pos   math.Vec3
	Yaw   float32 // radians
	Pitch float32 // radians, clamped to MaxPitch

	MaxPitch         float32
	MouseSensitivity float32
}

// NewFlyCamera creates a fly camera at pos with default settings.
func NewFlyCamera(pos math.Vec3) *FlyCamera {
	return &FlyCamera{
		Pos:              pos,
		MaxPitch:         1.5,
		MouseSensitivity: 0.003,
	}
}

// Position returns the camera position in world space.
func (c *FlyCamera) Position() math.Vec3 {
	return c.Pos
}

// Forward returns the unit view direction.
func (c *FlyCamera) Forward() math.Vec3 {
	cp := float32(gomath.Cos(float64(c.Pitch)))
	return math.Vec3{
		X: float32(gomath.Sin(float64(c.Yaw))) * cp,
		Y: float32(gomath.Sin(float64(c.Pitch))),
		Z: -float32(gomath.Cos(float64(c.Yaw))) * cp,
	}
}

// Right returns the unit right vector on the XZ plane.
func (c *FlyCamera) Right() math.Vec3 {
	return math.Vec3{
		X: float32(gomath.Cos(float64(c.Yaw))),
		Z: float32(gomath.Sin(float64(c.Yaw))),
	}
}

// ViewMatrix returns the view matrix for this camera.
func (c *FlyCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Pos, c.Pos.Add(c.Forward()), math.UnitY)
}

// Ray returns the ray through the screen center.
func (c *FlyCamera) Ray() geom.Ray {
	return geom.Ray{Origin: c.Pos, Direction: c.Forward()}
}

// HandleMouse turns the camera by a relative mouse motion in pixels.
func (c *FlyCamera) HandleMouse(deltaX, deltaY float32) {
	c.Yaw += deltaX * c.MouseSensitivity
	c.Pitch = math.Clamp(c.Pitch-deltaY*c.MouseSensitivity, -c.MaxPitch, c.MaxPitch)
}

// Displacement converts movement input (each in [-1, 1]) into a world-space
// offset of length at most distance. forward follows the full view
// direction so the camera can climb and dive.
func (c *FlyCamera) Displacement(forward, right, up, distance float32) math.Vec3 {
	d := c.Forward().Scale(forward).
		Add(c.Right().Scale(right)).
		Add(math.UnitY.Scale(up))
	if d.LengthSq() > 1 {
		d = d.Normalize()
	}
	return d.Scale(distance)
}

// OrbitCamera orbits around a center point.
type OrbitCamera struct {
	Center math.Vec3

	// Spherical coordinates
	Distance  float32 // Distance from center
	RotationX float32 // Pitch (vertical angle, radians)
	RotationY float32 // Yaw (horizontal angle, radians)

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32
}

// NewOrbitCamera creates a new orbit camera with default settings.
func NewOrbitCamera() *OrbitCamera {
	return &OrbitCamera{
		Distance:        100.0,
		RotationX:       0.5,
		MinDistance:     5.0,
		MaxDistance:     5000.0,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the camera position in world space.
func (c *OrbitCamera) Position() math.Vec3 {
	cx := gomath.Cos(float64(c.RotationX))
	return c.Center.Add(math.Vec3{
		X: c.Distance * float32(cx*gomath.Sin(float64(c.RotationY))),
		Y: c.Distance * float32(gomath.Sin(float64(c.RotationX))),
		Z: c.Distance * float32(cx*gomath.Cos(float64(c.RotationY))),
	})
}

// ViewMatrix returns the view matrix for this camera.
func (c *OrbitCamera) ViewMatrix() math.Mat4 {
	return math.LookAt(c.Position(), c.Center, math.UnitY)
}

// HandleDrag updates rotation based on mouse drag delta.
func (c *OrbitCamera) HandleDrag(deltaX, deltaY float32) {
	c.RotationY -= deltaX * c.DragSensitivity
	c.RotationX = math.Clamp(c.RotationX+deltaY*c.DragSensitivity, c.MinPitch, c.MaxPitch)
}

// HandleZoom updates distance based on scroll wheel delta.
func (c *OrbitCamera) HandleZoom(delta float32) {
	c.Distance = math.Clamp(c.Distance-delta*c.Distance*c.ZoomSensitivity, c.MinDistance, c.MaxDistance)
}

// FitToBounds centers the camera on box and backs off far enough to see it.
func (c *OrbitCamera) FitToBounds(box geom.AABB) {
	if box.IsEmpty() {
		return
	}
	c.Center = box.Center()
	c.Distance = math.Clamp(box.Size().Length()*0.8, c.MinDistance, c.MaxDistance)
	c.RotationX = 0.6 // Look down at ~35 degrees
	c.RotationY = 0.0
}
