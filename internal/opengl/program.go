package opengl

import (
	"fmt"
	"strings"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"postfx/gfx"
	"postfx/internal/logger"
)

// Program is a linked GL program shared through the context cache.
type Program struct {
	ctx  *Context
	id   uint32
	key  string
	refs int

	// location lookups, -1 cached for names the program does not declare
	attribs  map[string]int32
	uniforms map[string]int32
}

var _ gfx.Program = (*Program)(nil)

// ID returns the GL program object name.
func (p *Program) ID() uint32 { return p.id }

func (p *Program) Use() {
	gl.UseProgram(p.id)
}

func (p *Program) attribLocation(name string) int32 {
	if loc, ok := p.attribs[name]; ok {
		return loc
	}
	loc := gl.GetAttribLocation(p.id, gl.Str(name+"\x00"))
	p.attribs[name] = loc
	return loc
}

func (p *Program) uniformLocation(name string) int32 {
	if loc, ok := p.uniforms[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.uniforms[name] = loc
	return loc
}

// Attribute binds buf's VAO and points the attribute at its float data.
// The VAO stays bound for the following draw call.
func (p *Program) Attribute(name string, buf gfx.Buffer, size int) {
	b, ok := buf.(*Buffer)
	if !ok {
		return
	}
	gl.BindVertexArray(b.vao)

	loc := p.attribLocation(name)
	if loc < 0 {
		return
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, b.vbo)
	gl.EnableVertexAttribArray(uint32(loc))
	gl.VertexAttribPointer(uint32(loc), int32(size), gl.FLOAT, false, 0, gl.PtrOffset(0))
}

// UniformTexture binds tex to unit and sets the sampler. An unknown sampler
// name still binds the texture; the uniform write is ignored by GL.
func (p *Program) UniformTexture(name string, tex gfx.Texture, unit int) {
	gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
	gl.BindTexture(gl.TEXTURE_2D, tex.Raw())
	gl.Uniform1i(p.uniformLocation(name), int32(unit))
}

func (p *Program) Uniform1f(name string, v float32) {
	gl.Uniform1f(p.uniformLocation(name), v)
}

func (p *Program) Uniform2f(name string, x, y float32) {
	gl.Uniform2f(p.uniformLocation(name), x, y)
}

func (p *Program) Uniform1i(name string, v int32) {
	gl.Uniform1i(p.uniformLocation(name), v)
}

// Dispose drops one reference. The GL program is deleted with the last one;
// calls past that are ignored.
func (p *Program) Dispose() {
	if p.refs <= 0 {
		return
	}
	p.refs--
	if p.refs > 0 {
		return
	}
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		logger.Log.Debug("program deleted", zap.Uint32("program", p.id))
		p.id = 0
	}
	// a newer program may have been compiled under the same key
	if p.ctx.programs[p.key] == p {
		delete(p.ctx.programs, p.key)
	}
}

func newProgram(vertSrc, fragSrc string) (uint32, error) {
	vert, err := compileShader(vertSrc, gl.VERTEX_SHADER)
	if err != nil {
		return 0, fmt.Errorf("vertex: %w", err)
	}
	frag, err := compileShader(fragSrc, gl.FRAGMENT_SHADER)
	if err != nil {
		gl.DeleteShader(vert)
		return 0, fmt.Errorf("fragment: %w", err)
	}

	prog := gl.CreateProgram()
	gl.AttachShader(prog, vert)
	gl.AttachShader(prog, frag)
	gl.LinkProgram(prog)
	gl.DeleteShader(vert)
	gl.DeleteShader(frag)

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(prog, logLen, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		logger.Log.Error("failed to link program", zap.String("log", trimLog(log)))
		return 0, fmt.Errorf("link failed: %s", trimLog(log))
	}
	return prog, nil
}

func compileShader(src string, shaderType uint32) (uint32, error) {
	if !strings.HasSuffix(src, "\x00") {
		src += "\x00"
	}
	shader := gl.CreateShader(shaderType)
	csrc, free := gl.Strs(src)
	gl.ShaderSource(shader, 1, csrc, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		logger.Log.Error("failed to compile shader", zap.Uint32("type", shaderType), zap.String("log", trimLog(log)))
		return 0, fmt.Errorf("compile failed: %s", trimLog(log))
	}
	return shader, nil
}

func trimLog(log string) string {
	return strings.TrimSpace(strings.TrimRight(log, "\x00"))
}
