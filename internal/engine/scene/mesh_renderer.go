package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/asteroid-tunnel/internal/engine/debug"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/lighting"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/scene/shaders"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/shader"
	"github.com/Faultbox/asteroid-tunnel/pkg/geom"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

// MeshRenderer draws the collision triangles flat shaded.
type MeshRenderer struct {
	program *shader.Program

	vao   uint32
	vbo   uint32
	count int32

	BaseColor math.Vec3
}

// NewMeshRenderer compiles the mesh shader.
func NewMeshRenderer() (*MeshRenderer, error) {
	program, err := shader.Compile(shaders.MeshVertexShader, shaders.MeshFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("mesh shader: %w", err)
	}
	return &MeshRenderer{
		program:   program,
		BaseColor: math.Vec3{X: 0.55, Y: 0.5, Z: 0.45},
	}, nil
}

// Load uploads tris, replacing any previously loaded mesh.
func (r *MeshRenderer) Load(tris []geom.Triangle) {
	r.release()

	vertices := debug.MeshVertices(tris)
	r.count = int32(len(vertices) / debug.MeshVertexFloats)
	if r.count == 0 {
		return
	}

	gl.GenVertexArrays(1, &r.vao)
	gl.BindVertexArray(r.vao)

	gl.GenBuffers(1, &r.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	stride := int32(debug.MeshVertexFloats * 4)
	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.BindVertexArray(0)
}

// Render draws the mesh as seen from eye.
func (r *MeshRenderer) Render(viewProj math.Mat4, eye math.Vec3, env lighting.Environment) {
	if r.count == 0 {
		return
	}

	r.program.Use()
	r.program.SetMat4("uViewProj", viewProj)
	r.program.SetVec3("uBaseColor", r.BaseColor)
	r.program.SetVec3("uLightDir", env.SunDir)
	r.program.SetVec3("uAmbient", rgb(env.Ambient))
	r.program.SetVec3("uDiffuse", rgb(env.Diffuse))
	r.program.SetVec3("uEye", eye)
	r.program.SetVec3("uFogColor", rgb(env.FogColor))
	r.program.SetFloat("uFogNear", env.FogNear)
	r.program.SetFloat("uFogFar", env.FogFar)

	gl.BindVertexArray(r.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, r.count)
	gl.BindVertexArray(0)
}

func (r *MeshRenderer) release() {
	if r.vao != 0 {
		gl.DeleteVertexArrays(1, &r.vao)
		r.vao = 0
	}
	if r.vbo != 0 {
		gl.DeleteBuffers(1, &r.vbo)
		r.vbo = 0
	}
	r.count = 0
}

// Destroy releases GPU resources.
func (r *MeshRenderer) Destroy() {
	r.release()
	r.program.Delete()
}

func rgb(c [3]float32) math.Vec3 {
	return math.Vec3{X: c[0], Y: c[1], Z: c[2]}
}
