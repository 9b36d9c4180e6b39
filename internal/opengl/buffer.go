package opengl

import (
	gl "github.com/go-gl/gl/v4.1-core/gl"

	"postfx/gfx"
)

// Buffer is a VBO with its own VAO; the core profile refuses to draw
// without one bound.
type Buffer struct {
	vao uint32
	vbo uint32
}

var _ gfx.Buffer = (*Buffer)(nil)

func (b *Buffer) SetVertexData(data []float32) {
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, gl.Ptr(data), gl.STATIC_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (b *Buffer) Dispose() {
	if b.vbo != 0 {
		gl.DeleteBuffers(1, &b.vbo)
		b.vbo = 0
	}
	if b.vao != 0 {
		gl.DeleteVertexArrays(1, &b.vao)
		b.vao = 0
	}
}
