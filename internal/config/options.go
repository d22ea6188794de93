package config

import (
	"github.com/Faultbox/asteroid-tunnel/internal/engine/bake"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/collision"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/meshgen"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

// ColliderOptions converts the collider, placement and solver sections.
func (c *Config) ColliderOptions() collision.Options {
	p := c.Placement
	return collision.Options{
		CellSize: c.Collider.CellSize.CellSize,
		Placement: bake.Placement{
			Position: math.Vec3{X: p.Position[0], Y: p.Position[1], Z: p.Position[2]},
			Rotation: math.Vec3{
				X: math.Radians(p.RotationDeg[0]),
				Y: math.Radians(p.RotationDeg[1]),
				Z: math.Radians(p.RotationDeg[2]),
			},
			Scale: p.Scale,
		},
		DropDegenerate: c.Collider.DropDegenerate,
		Skin:           c.Solver.Skin,
	}
}

// TunnelParams converts the tunnel section.
func (c *Config) TunnelParams() meshgen.TunnelParams {
	t := c.Scene.Tunnel
	return meshgen.TunnelParams{
		Length:   t.Length,
		Radius:   t.Radius,
		Rings:    t.Rings,
		Sides:    t.Sides,
		Segments: t.Segments,
		Rough:    t.Rough,
		Wander:   t.Wander,
		Seed:     t.Seed,
	}
}

// BuildScene generates the configured environment hierarchy.
func (c *Config) BuildScene() *bake.Node {
	if c.Scene.Kind == SceneCube {
		return bake.NewNode("cube", meshgen.Cube(c.Scene.CubeSize))
	}
	return meshgen.Tunnel(c.TunnelParams())
}

// BuildCollider generates the configured scene and bakes it.
func (c *Config) BuildCollider() *collision.Collider {
	return collision.New(c.BuildScene(), c.ColliderOptions())
}

// SpawnPoint returns a starting position for the viewer camera: just inside
// the tunnel entrance, or in front of the cube.
func (c *Config) SpawnPoint() math.Vec3 {
	local := math.Vec3{Z: c.Scene.CubeSize * 1.5}
	if c.Scene.Kind != SceneCube {
		p := c.TunnelParams()
		local = meshgen.TunnelAxis(p, 4/p.Length)
	}
	return c.ColliderOptions().Placement.Matrix().TransformVec3(local)
}
