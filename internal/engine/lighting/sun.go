// Package lighting provides lighting parameters for the debug viewer.
package lighting

import (
	gomath "math"

	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

// SunDirection converts azimuth/elevation angles in degrees to a unit vector
// pointing towards the sun. Azimuth rotates around +Y starting at +Z,
// elevation is measured up from the horizon.
func SunDirection(azimuth, elevation float32) math.Vec3 {
	az := float64(math.Radians(azimuth))
	el := float64(math.Radians(elevation))
	cosEl := gomath.Cos(el)
	return math.Vec3{
		X: float32(cosEl * gomath.Sin(az)),
		Y: float32(gomath.Sin(el)),
		Z: float32(cosEl * gomath.Cos(az)),
	}
}

// Environment holds the shading and fog parameters of a scene.
type Environment struct {
	SunDir   math.Vec3
	Ambient  [3]float32
	Diffuse  [3]float32
	FogColor [3]float32
	FogNear  float32
	FogFar   float32
}

// DefaultEnvironment returns a dim, foggy environment suited to the
// inside of a tunnel.
func DefaultEnvironment() Environment {
	return Environment{
		SunDir:   SunDirection(45, 60),
		Ambient:  [3]float32{0.25, 0.25, 0.28},
		Diffuse:  [3]float32{0.9, 0.85, 0.8},
		FogColor: [3]float32{0.05, 0.05, 0.07},
		FogNear:  20,
		FogFar:   160,
	}
}

// FitFog scales the fog range to a scene of the given extent so small
// scenes are not swallowed by fog.
func (e *Environment) FitFog(extent float32) {
	if extent <= 0 {
		return
	}
	e.FogNear = extent * 0.5
	e.FogFar = extent * 2
	if e.FogFar > 160 {
		e.FogNear = 20
		e.FogFar = 160
	}
}
