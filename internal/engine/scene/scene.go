// Package scene renders a collider for inspection: the shaded triangle mesh,
// its wireframe, bounds and grid cells, plus a per-frame overlay of query
// results.
package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/asteroid-tunnel/internal/engine/collision"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/debug"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/framebuffer"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/lighting"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

// Scene draws one collider and its debug overlays.
type Scene struct {
	mesh  *MeshRenderer
	lines *LineRenderer

	wireframe *LineBatch // mesh edges, bounds and optional grid cells
	overlay   *LineBatch // rebuilt every frame by the caller

	capture *framebuffer.Framebuffer

	collider  *collision.Collider
	showCells bool

	Env           lighting.Environment
	ShowMesh      bool
	ShowWireframe bool
	ClearColor    [3]float32
}

// New creates the renderers. Requires a current GL context.
func New() (*Scene, error) {
	s := &Scene{
		wireframe:     &LineBatch{},
		overlay:       &LineBatch{},
		Env:           lighting.DefaultEnvironment(),
		ShowMesh:      true,
		ShowWireframe: true,
	}
	s.ClearColor = s.Env.FogColor

	var err error
	s.mesh, err = NewMeshRenderer()
	if err != nil {
		return nil, fmt.Errorf("creating mesh renderer: %w", err)
	}

	s.lines, err = NewLineRenderer()
	if err != nil {
		s.Destroy()
		return nil, fmt.Errorf("creating line renderer: %w", err)
	}

	return s, nil
}

// Load uploads the collider's triangles and wireframe.
func (s *Scene) Load(c *collision.Collider, showCells bool) {
	s.collider = c
	s.showCells = showCells
	s.mesh.Load(c.Triangles())
	s.wireframe.Upload(c.DebugWireframe(showCells))

	size := c.Bounds().Size()
	s.Env.FitFog(max(size.X, size.Y, size.Z))
	s.ClearColor = s.Env.FogColor
}

// SetShowCells toggles the grid cell overlay.
func (s *Scene) SetShowCells(show bool) {
	if s.collider == nil || show == s.showCells {
		return
	}
	s.showCells = show
	s.wireframe.Upload(s.collider.DebugWireframe(show))
}

// ShowCells reports whether grid cells are drawn.
func (s *Scene) ShowCells() bool {
	return s.showCells
}

// SetOverlay replaces the per-frame overlay lines.
func (s *Scene) SetOverlay(vertices []debug.LineVertex) {
	s.overlay.Upload(vertices)
}

// Render draws the scene into the currently bound framebuffer.
func (s *Scene) Render(view, proj math.Mat4, eye math.Vec3) {
	viewProj := proj.Mul(view)

	gl.ClearColor(s.ClearColor[0], s.ClearColor[1], s.ClearColor[2], 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.Disable(gl.CULL_FACE)

	if s.ShowMesh {
		// Push filled faces back so coplanar edges stay visible.
		gl.Enable(gl.POLYGON_OFFSET_FILL)
		gl.PolygonOffset(1, 1)
		s.mesh.Render(viewProj, eye, s.Env)
		gl.Disable(gl.POLYGON_OFFSET_FILL)
	}

	if s.ShowWireframe {
		s.lines.Render(viewProj, s.wireframe)
	}

	// Overlay lines are drawn on top of everything.
	gl.Disable(gl.DEPTH_TEST)
	s.lines.Render(viewProj, s.overlay)
	gl.Enable(gl.DEPTH_TEST)
}

// Capture renders one frame offscreen and returns its RGBA pixels, rows
// bottom-up.
func (s *Scene) Capture(width, height int32, view, proj math.Mat4, eye math.Vec3) ([]byte, error) {
	if s.capture == nil {
		fb, err := framebuffer.New(width, height)
		if err != nil {
			return nil, fmt.Errorf("capture target: %w", err)
		}
		s.capture = fb
	}
	s.capture.Resize(width, height)

	restore := s.capture.BindWithViewport()
	s.Render(view, proj, eye)
	restore()

	return s.capture.ReadPixels(), nil
}

// Destroy releases all GPU resources.
func (s *Scene) Destroy() {
	if s.mesh != nil {
		s.mesh.Destroy()
		s.mesh = nil
	}
	if s.lines != nil {
		s.lines.Destroy()
		s.lines = nil
	}
	s.wireframe.Destroy()
	s.overlay.Destroy()
	if s.capture != nil {
		s.capture.Destroy()
		s.capture = nil
	}
}
