package scene

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/asteroid-tunnel/internal/engine/debug"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/scene/shaders"
	"github.com/Faultbox/asteroid-tunnel/internal/engine/shader"
	"github.com/Faultbox/asteroid-tunnel/pkg/math"
)

// LineBatch is a vertex buffer of colored GL_LINES segments. The buffer grows
// as needed and is reused between uploads.
type LineBatch struct {
	vao      uint32
	vbo      uint32
	count    int32
	capacity int // floats
}

// Upload replaces the batch contents.
func (b *LineBatch) Upload(vertices []debug.LineVertex) {
	data := debug.Flatten(vertices)
	b.count = int32(len(vertices))
	if len(data) == 0 {
		return
	}

	if b.vao == 0 {
		gl.GenVertexArrays(1, &b.vao)
		gl.GenBuffers(1, &b.vbo)

		gl.BindVertexArray(b.vao)
		gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
		stride := int32(debug.LineVertexFloats * 4)
		gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
		gl.EnableVertexAttribArray(0)
		gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
		gl.EnableVertexAttribArray(1)
		gl.BindVertexArray(0)
	}

	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if len(data) > b.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.DYNAMIC_DRAW)
		b.capacity = len(data)
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(data)*4, gl.Ptr(data))
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

// Len returns the number of vertices in the batch.
func (b *LineBatch) Len() int {
	return int(b.count)
}

// Destroy releases GPU resources.
func (b *LineBatch) Destroy() {
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
	b.count, b.capacity = 0, 0
}

// LineRenderer draws line batches with per-vertex colors.
type LineRenderer struct {
	program *shader.Program
}

// NewLineRenderer compiles the line shader.
func NewLineRenderer() (*LineRenderer, error) {
	program, err := shader.Compile(shaders.LineVertexShader, shaders.LineFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("line shader: %w", err)
	}
	return &LineRenderer{program: program}, nil
}

// Render draws each non-empty batch.
func (r *LineRenderer) Render(viewProj math.Mat4, batches ...*LineBatch) {
	r.program.Use()
	r.program.SetMat4("uViewProj", viewProj)
	for _, b := range batches {
		if b == nil || b.count == 0 {
			continue
		}
		gl.BindVertexArray(b.vao)
		gl.DrawArrays(gl.LINES, 0, b.count)
	}
	gl.BindVertexArray(0)
}

// Destroy releases the shader program.
func (r *LineRenderer) Destroy() {
	r.program.Delete()
}
