package config

import (
	"fmt"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/Faultbox/asteroid-tunnel/internal/engine/debug"
)

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	var errs error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf(format, args...))
		}
	}

	if !c.Collider.CellSize.IsAuto() {
		check(c.Collider.CellSize.Value() > 0, "collider.cell_size must be positive, got %v", c.Collider.CellSize)
	}

	check(c.Placement.Scale > 0, "placement.scale must be positive, got %v", c.Placement.Scale)

	check(c.Solver.MaxIterations >= 1, "solver.max_iterations must be at least 1, got %d", c.Solver.MaxIterations)
	check(c.Solver.Skin >= 0, "solver.skin must not be negative, got %v", c.Solver.Skin)
	check(c.Solver.ProbeRadius > 0, "solver.probe_radius must be positive, got %v", c.Solver.ProbeRadius)

	switch c.Scene.Kind {
	case SceneCube:
		check(c.Scene.CubeSize > 0, "scene.cube_size must be positive, got %v", c.Scene.CubeSize)
	case SceneTunnel:
		tc := c.Scene.Tunnel
		check(tc.Length > 0, "scene.tunnel.length must be positive, got %v", tc.Length)
		check(tc.Radius > 0, "scene.tunnel.radius must be positive, got %v", tc.Radius)
		check(tc.Rings >= 2, "scene.tunnel.rings must be at least 2, got %d", tc.Rings)
		check(tc.Sides >= 3, "scene.tunnel.sides must be at least 3, got %d", tc.Sides)
		check(tc.Segments >= 1, "scene.tunnel.segments must be at least 1, got %d", tc.Segments)
		check(tc.Rough >= 0 && tc.Rough < 1, "scene.tunnel.rough must be in [0, 1), got %v", tc.Rough)
	default:
		check(false, "scene.kind must be %q or %q, got %q", SceneTunnel, SceneCube, c.Scene.Kind)
	}

	check(c.Viewer.Width > 0 && c.Viewer.Height > 0, "viewer size must be positive, got %dx%d", c.Viewer.Width, c.Viewer.Height)
	check(c.Viewer.FOV > 0 && c.Viewer.FOV < 180, "viewer.fov must be in (0, 180), got %v", c.Viewer.FOV)

	if _, err := debug.ParseImageFormat(c.Viewer.ScreenshotFormat); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("viewer.screenshot_format: %w", err))
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("logging.level: %w", err))
	}
	return errs
}
