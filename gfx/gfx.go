// Package gfx declares the thin graphics-context wrapper that render passes
// talk to. The OpenGL implementation lives in internal/opengl; gfxtest holds
// a recording implementation for tests.
//
// All calls must be made from the goroutine that owns the GL context.
package gfx

// DrawMode is the primitive topology passed to DrawArrays.
type DrawMode int

const (
	Triangles DrawMode = iota
	TriangleStrip
	TriangleFan
	Lines
	Points
)

func (m DrawMode) String() string {
	switch m {
	case Triangles:
		return "triangles"
	case TriangleStrip:
		return "triangle-strip"
	case TriangleFan:
		return "triangle-fan"
	case Lines:
		return "lines"
	case Points:
		return "points"
	}
	return "unknown"
}

// BlendFactor is a fixed-function blend factor.
type BlendFactor int

const (
	Zero BlendFactor = iota
	One
	SrcAlpha
	OneMinusSrcAlpha
	DstColor
	OneMinusDstColor
)

func (f BlendFactor) String() string {
	switch f {
	case Zero:
		return "zero"
	case One:
		return "one"
	case SrcAlpha:
		return "src-alpha"
	case OneMinusSrcAlpha:
		return "one-minus-src-alpha"
	case DstColor:
		return "dst-color"
	case OneMinusDstColor:
		return "one-minus-dst-color"
	}
	return "unknown"
}

// Context is the active graphics context.
type Context interface {
	// LazyProgram compiles and links a program from vertex and fragment
	// source, or returns the cached program for the same pair. Every
	// successful call hands out one reference; Program.Dispose returns it.
	LazyProgram(vert, frag string) (Program, error)

	// CreateBuffer allocates an empty vertex buffer.
	CreateBuffer() (Buffer, error)

	// DrawArrays issues a non-indexed draw call with the bound program.
	DrawArrays(mode DrawMode, first, count int)

	// BlendFunc sets the source and destination blend factors.
	BlendFunc(src, dst BlendFactor)

	// Err reports and clears the first pending context error, if any.
	Err() error
}

// Program is a linked shader program.
type Program interface {
	Use()

	// Attribute binds buf to the named vertex attribute with size float
	// components per vertex. Unknown names are ignored.
	Attribute(name string, buf Buffer, size int)

	// UniformTexture binds tex to texture unit and points the named sampler
	// at it. Unknown names are ignored.
	UniformTexture(name string, tex Texture, unit int)

	Uniform1f(name string, v float32)
	Uniform2f(name string, x, y float32)
	Uniform1i(name string, v int32)

	Dispose()
}

// Buffer is a GPU vertex buffer.
type Buffer interface {
	// SetVertexData uploads tightly packed float32 vertex data.
	SetVertexData(data []float32)
	Dispose()
}

// Texture is a sampleable 2D texture. Raw returns the native handle.
type Texture interface {
	Raw() uint32
}
