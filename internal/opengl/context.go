package opengl

import (
	"errors"
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"postfx/gfx"
	"postfx/internal/logger"
)

// ErrAlloc is returned when the driver hands back a zero object name.
var ErrAlloc = errors.New("opengl: object allocation failed")

// Error is a pending glGetError code.
type Error struct {
	Code uint32
}

func (e *Error) Error() string {
	return fmt.Sprintf("opengl: %s (0x%X)", errorName(e.Code), e.Code)
}

func errorName(code uint32) string {
	switch code {
	case gl.INVALID_ENUM:
		return "invalid enum"
	case gl.INVALID_VALUE:
		return "invalid value"
	case gl.INVALID_OPERATION:
		return "invalid operation"
	case gl.INVALID_FRAMEBUFFER_OPERATION:
		return "invalid framebuffer operation"
	case gl.OUT_OF_MEMORY:
		return "out of memory"
	}
	return "unknown error"
}

// Context implements gfx.Context on the OpenGL context current on the
// calling thread. It owns the program cache.
type Context struct {
	programs map[string]*Program
}

var _ gfx.Context = (*Context)(nil)

// NewContext loads the GL entry points. A GL 4.1 core context must already
// be current on this thread.
func NewContext() (*Context, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	return &Context{programs: make(map[string]*Program)}, nil
}

func programKey(vert, frag string) string {
	return vert + "\x00" + frag
}

// LazyProgram returns the cached program for the source pair, taking a
// reference, or compiles a new one.
func (c *Context) LazyProgram(vert, frag string) (gfx.Program, error) {
	key := programKey(vert, frag)
	if p, ok := c.programs[key]; ok {
		p.refs++
		logger.Log.Debug("program cache hit", zap.Uint32("program", p.id), zap.Int("refs", p.refs))
		return p, nil
	}

	id, err := newProgram(vert, frag)
	if err != nil {
		return nil, err
	}
	p := &Program{
		ctx:      c,
		id:       id,
		key:      key,
		refs:     1,
		attribs:  make(map[string]int32),
		uniforms: make(map[string]int32),
	}
	c.programs[key] = p
	logger.Log.Debug("program compiled", zap.Uint32("program", id), zap.Int("cached", len(c.programs)))
	return p, nil
}

// CachedPrograms returns the number of live programs in the cache.
func (c *Context) CachedPrograms() int {
	return len(c.programs)
}

func (c *Context) CreateBuffer() (gfx.Buffer, error) {
	b := &Buffer{}
	gl.GenVertexArrays(1, &b.vao)
	gl.GenBuffers(1, &b.vbo)
	if b.vao == 0 || b.vbo == 0 {
		b.Dispose()
		return nil, fmt.Errorf("vertex buffer: %w", ErrAlloc)
	}
	return b, nil
}

func (c *Context) DrawArrays(mode gfx.DrawMode, first, count int) {
	gl.DrawArrays(drawMode(mode), int32(first), int32(count))
}

func (c *Context) BlendFunc(src, dst gfx.BlendFactor) {
	gl.Enable(gl.BLEND)
	gl.BlendFunc(blendFactor(src), blendFactor(dst))
}

// Err returns the first pending GL error and drains the rest.
func (c *Context) Err() error {
	code := gl.GetError()
	if code == gl.NO_ERROR {
		return nil
	}
	for i := 0; i < 16 && gl.GetError() != gl.NO_ERROR; i++ {
	}
	return &Error{Code: code}
}

// Destroy deletes every program still in the cache, whatever its
// reference count.
func (c *Context) Destroy() {
	for key, p := range c.programs {
		gl.DeleteProgram(p.id)
		p.id = 0
		delete(c.programs, key)
	}
}

func drawMode(m gfx.DrawMode) uint32 {
	switch m {
	case gfx.TriangleStrip:
		return gl.TRIANGLE_STRIP
	case gfx.TriangleFan:
		return gl.TRIANGLE_FAN
	case gfx.Lines:
		return gl.LINES
	case gfx.Points:
		return gl.POINTS
	}
	return gl.TRIANGLES
}

func blendFactor(f gfx.BlendFactor) uint32 {
	switch f {
	case gfx.One:
		return gl.ONE
	case gfx.SrcAlpha:
		return gl.SRC_ALPHA
	case gfx.OneMinusSrcAlpha:
		return gl.ONE_MINUS_SRC_ALPHA
	case gfx.DstColor:
		return gl.DST_COLOR
	case gfx.OneMinusDstColor:
		return gl.ONE_MINUS_DST_COLOR
	}
	return gl.ZERO
}
