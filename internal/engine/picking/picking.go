// Package picking converts screen positions into world rays and resolves
// them against the collider.
package picking

import (
	"github.com/Faultbox/asteroid-tunnel/internal/engine/collision"
	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

// ScreenToRay converts screen coordinates to a world-space ray.
// screenX, screenY are pixel coordinates, viewportW/H are viewport dimensions.
// invViewProj is the inverse of the view-projection matrix.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4) geom.Ray {
	// Convert screen coords to normalized device coords (-1 to 1)
	ndcX := 2.0*screenX/viewportW - 1.0
	ndcY := 1.0 - 2.0*screenY/viewportH // Flip Y

	nearWorld := unproject(invViewProj, ndcX, ndcY, -1)
	farWorld := unproject(invViewProj, ndcX, ndcY, 1)

	return geom.Ray{
		Origin:    nearWorld,
		Direction: farWorld.Sub(nearWorld).Normalize(),
	}
}

func unproject(inv math.Mat4, x, y, z float32) math.Vec3 {
	p := inv.MulVec4(math.Vec4{x, y, z, 1})
	if p[3] != 0 {
		p[0] /= p[3]
		p[1] /= p[3]
		p[2] /= p[3]
	}
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}

// Pick casts the ray under the cursor into the collider.
func Pick(c *collision.Collider, screenX, screenY, viewportW, viewportH float32, invViewProj math.Mat4, maxDist float32) (geom.Ray, collision.RayHit) {
	ray := ScreenToRay(screenX, screenY, viewportW, viewportH, invViewProj)
	return ray, c.Raycast(ray.Origin, ray.Direction, maxDist)
}
