package main

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/asteroid-tunnel/internal/config"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/camera"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/collision"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/debug"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/input"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/picking"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/scene"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/window"
	"github.com/Faultbox/asteroid-tunnel/internal/logger"
	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

const (
	nearPlane   = 0.05
	farPlane    = 5000
	titlePeriod = 250 * time.Millisecond
	boostFactor = 4
)

type viewMode int

const (
	modeFly viewMode = iota
	modeOrbit
)

func (m viewMode) String() string {
	if m == modeOrbit {
		return "orbit"
	}
	return "fly"
}

// viewer owns the frame loop state.
type viewer struct {
	cfg      *config.Config
	win      *window.Window
	in       *input.Input
	scene    *scene.Scene
	collider *collision.Collider
	querier  *collision.Querier
	log      *zap.Logger

	fly   *camera.FlyCamera
	orbit *camera.OrbitCamera
	mode  viewMode

	noclip   bool
	mouseX   float32
	mouseY   float32
	ray      geom.Ray
	hit      collision.RayHit
	sweep    collision.SweepResult
	inside   bool
	overlay  []debug.LineVertex
	frames   int
	fps      int
	lastFPS  time.Time
	lastHUD  time.Time
	startPos math.Vec3
}

func newViewer(cfg *config.Config, win *window.Window, collider *collision.Collider) (*viewer, error) {
	sc, err := scene.New()
	if err != nil {
		return nil, fmt.Errorf("creating scene: %w", err)
	}
	sc.Load(collider, cfg.Viewer.ShowCells)

	v := &viewer{
		cfg:      cfg,
		win:      win,
		in:       input.New(),
		scene:    sc,
		collider: collider,
		querier:  collider.Querier(),
		log:      logger.Named("meshview"),
		orbit:    camera.NewOrbitCamera(),
		startPos: cfg.SpawnPoint(),
	}
	v.fly = camera.NewFlyCamera(v.startPos)
	v.orbit.FitToBounds(collider.Bounds())

	stats := collider.Stats()
	v.log.Info("scene ready",
		zap.Int("triangles", stats.Triangles),
		zap.Int("cells", stats.Grid.OccupiedCells),
		zap.Float32("cell_size", collider.CellSize()),
		zap.Stringer("spawn", v.startPos))
	return v, nil
}

func (v *viewer) destroy() {
	v.scene.Destroy()
}

func (v *viewer) run() {
	last := time.Now()
	v.lastFPS = last
	for {
		if v.in.Update() {
			return
		}
		if v.handleEvents() {
			return
		}

		now := time.Now()
		dt := float32(now.Sub(last).Seconds())
		last = now

		v.update(dt)
		v.render()
		v.win.SwapBuffers()
		v.updateTitle(now)
	}
}

// handleEvents applies one-shot actions. Returns true to quit.
func (v *viewer) handleEvents() bool {
	for _, e := range v.in.Events() {
		switch e.Type {
		case input.EventKeyDown:
			switch e.Key {
			case sdl.SCANCODE_ESCAPE:
				return true
			case sdl.SCANCODE_TAB:
				v.toggleMode()
			case sdl.SCANCODE_G:
				v.scene.SetShowCells(!v.scene.ShowCells())
			case sdl.SCANCODE_F:
				v.scene.ShowWireframe = !v.scene.ShowWireframe
			case sdl.SCANCODE_M:
				v.scene.ShowMesh = !v.scene.ShowMesh
			case sdl.SCANCODE_N:
				v.noclip = !v.noclip
				v.log.Info("noclip", zap.Bool("enabled", v.noclip))
			case sdl.SCANCODE_R:
				v.fly.Pos = v.startPos
				v.fly.Yaw, v.fly.Pitch = 0, 0
			case sdl.SCANCODE_F12:
				v.screenshot()
			}

		case input.EventMouseMove:
			v.mouseX, v.mouseY = float32(e.MouseX), float32(e.MouseY)
			if !v.in.IsButtonDown(sdl.BUTTON_RIGHT) {
				continue
			}
			if v.mode == modeFly {
				v.fly.HandleMouse(float32(e.DeltaX), float32(e.DeltaY))
			} else {
				v.orbit.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
			}

		case input.EventMouseWheel:
			if v.mode == modeOrbit {
				v.orbit.HandleZoom(float32(e.DeltaY))
			}

		case input.EventWindowResize:
			gl.Viewport(0, 0, int32(e.Width), int32(e.Height))
		}
	}
	return false
}

func (v *viewer) toggleMode() {
	if v.mode == modeFly {
		v.mode = modeOrbit
	} else {
		v.mode = modeFly
	}
	v.log.Debug("view mode", zap.Stringer("mode", v.mode))
}

func (v *viewer) update(dt float32) {
	v.collider.Update(dt)

	// The probe keeps flying in orbit mode so its sweep can be watched.
	speed := v.cfg.Viewer.MoveSpeed
	if v.in.IsKeyDown(sdl.SCANCODE_LSHIFT) {
		speed *= boostFactor
	}
	prev := v.fly.Pos
	desired := prev.Add(v.fly.Displacement(
		v.in.Axis(sdl.SCANCODE_S, sdl.SCANCODE_W),
		v.in.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D),
		v.in.Axis(sdl.SCANCODE_Q, sdl.SCANCODE_E),
		speed*dt,
	))

	if v.noclip {
		v.fly.Pos = desired
		v.sweep = collision.SweepResult{Position: desired}
	} else {
		v.sweep = v.querier.Constrain(prev, desired, v.cfg.Solver.ProbeRadius, v.cfg.Solver.MaxIterations)
		v.fly.Pos = v.sweep.Position
	}
	v.inside = v.querier.ContainsPoint(v.fly.Pos)

	if v.mode == modeFly {
		v.ray = v.fly.Ray()
		v.hit = v.querier.Raycast(v.ray.Origin, v.ray.Direction, farPlane)
	} else {
		w, h := v.win.GetSize()
		inv := v.projection().Mul(v.orbit.ViewMatrix()).Inverse()
		v.ray, v.hit = picking.Pick(v.collider, v.mouseX, v.mouseY, float32(w), float32(h), inv, farPlane)
	}

	v.buildOverlay()
}

func (v *viewer) buildOverlay() {
	v.overlay = v.overlay[:0]
	if v.hit.Hit {
		v.overlay = append(v.overlay, debug.HitMarker(v.hit.Point, v.hit.Normal, 0.4, debug.HitColor)...)
	}
	if v.mode == modeOrbit {
		// Probe sphere bounds, its last contact normal and the pick ray.
		r := v.cfg.Solver.ProbeRadius
		v.overlay = append(v.overlay, debug.BBoxWireframe(geom.SphereAABB(v.fly.Pos, r), 0, debug.BoundsColor)...)
		if v.sweep.Hit {
			v.overlay = append(v.overlay, debug.HitMarker(v.fly.Pos, v.sweep.Normal, r, debug.BoundsColor)...)
		}
		end := v.ray.At(farPlane)
		if v.hit.Hit {
			end = v.hit.Point
		}
		v.overlay = append(v.overlay,
			debug.LineVertex{X: v.ray.Origin.X, Y: v.ray.Origin.Y, Z: v.ray.Origin.Z, R: 1, G: 1, B: 1},
			debug.LineVertex{X: end.X, Y: end.Y, Z: end.Z, R: 1, G: 1, B: 1})
	}
	v.scene.SetOverlay(v.overlay)
}

func (v *viewer) projection() math.Mat4 {
	return math.Perspective(math.Radians(v.cfg.Viewer.FOV), v.win.Aspect(), nearPlane, farPlane)
}

func (v *viewer) view() (math.Mat4, math.Vec3) {
	if v.mode == modeOrbit {
		return v.orbit.ViewMatrix(), v.orbit.Position()
	}
	return v.fly.ViewMatrix(), v.fly.Pos
}

func (v *viewer) render() {
	view, eye := v.view()
	v.scene.Render(view, v.projection(), eye)
}

func (v *viewer) screenshot() {
	w, h := v.win.GetSize()
	view, eye := v.view()
	pixels, err := v.scene.Capture(int32(w), int32(h), view, v.projection(), eye)
	if err != nil {
		v.log.Error("screenshot capture failed", zap.Error(err))
		return
	}
	format, _ := debug.ParseImageFormat(v.cfg.Viewer.ScreenshotFormat)
	path, err := debug.SaveScreenshot(v.cfg.Viewer.ScreenshotDir, "meshview", format, pixels, w, h)
	if err != nil {
		v.log.Error("screenshot save failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// updateTitle doubles as the HUD.
func (v *viewer) updateTitle(now time.Time) {
	v.frames++
	if d := now.Sub(v.lastFPS); d >= time.Second {
		v.fps = int(float64(v.frames) / d.Seconds())
		v.frames = 0
		v.lastFPS = now
	}
	if now.Sub(v.lastHUD) < titlePeriod {
		return
	}
	v.lastHUD = now

	p := v.fly.Pos
	hit := "none"
	if v.hit.Hit {
		hit = fmt.Sprintf("%.2f #%d", v.hit.Distance, v.hit.Triangle)
	}
	flags := ""
	if v.noclip {
		flags += " noclip"
	}
	if v.sweep.Hit {
		flags += " contact"
	}
	if v.inside {
		flags += " enclosed"
	}
	v.win.SetTitle(fmt.Sprintf("%s | %s | %d tris | pos (%.1f, %.1f, %.1f) | ray %s |%s %d fps",
		windowTitle, v.mode, v.collider.TriangleCount(), p.X, p.Y, p.Z, hit, flags, v.fps))
}
