package pass

import (
	"fmt"

	"postfx/gfx"
)

// PostName is the display name given to every Post pass.
const PostName = "Post"

// quadAttribute is the vertex attribute the quad is bound to.
const quadAttribute = "p"

// Post draws a single full-screen quad with its program, sampling the
// textures in InputTextures. Blending is fixed to overwrite.
type Post struct {
	Base

	// InputTextures maps sampler names to textures. Units are assigned in
	// insertion order starting at 0. Textures are owned by the caller and
	// must outlive any draw that reads them.
	InputTextures TextureMap

	// BeforeDraw, when set, runs at the start of every Draw, before the quad
	// and textures are bound. Use it to set extra uniforms.
	BeforeDraw func(ctx DrawContext)

	quad gfx.Buffer
}

var _ Pass = (*Post)(nil)

// NewPost builds a post pass from src. An empty src.Vert selects QuadVert.
func NewPost(glc gfx.Context, src ShaderSource) (*Post, error) {
	p := &Post{Base: NewBase(glc, PostName, BlendOpaque)}

	if err := p.Base.SetProgram(withQuadVert(src)); err != nil {
		return nil, err
	}

	quad, err := glc.CreateBuffer()
	if err != nil {
		p.Base.Dispose()
		return nil, fmt.Errorf("%s quad buffer: %w", p.Name(), err)
	}
	quad.SetVertexData(QuadData())
	p.quad = quad

	return p, nil
}

// SetProgram replaces the program. An empty src.Vert selects QuadVert.
// The quad, input textures and blend mode are left untouched.
func (p *Post) SetProgram(src ShaderSource) error {
	return p.Base.SetProgram(withQuadVert(src))
}

// Dispose releases the quad buffer and the program. The pass must not be
// drawn or disposed again afterwards.
func (p *Post) Dispose() {
	if p.quad != nil {
		p.quad.Dispose()
		p.quad = nil
	}
	p.Base.Dispose()
}

// Draw binds the quad to attribute p, binds every input texture to
// sequential units, and draws the quad as a 4-vertex triangle strip.
func (p *Post) Draw(ctx DrawContext) {
	if p.BeforeDraw != nil {
		p.BeforeDraw(ctx)
	}

	ctx.Program.Attribute(quadAttribute, p.quad, 2)

	p.InputTextures.Each(func(unit int, name string, tex gfx.Texture) {
		ctx.Program.UniformTexture(name, tex, unit)
	})

	ctx.GL.DrawArrays(gfx.TriangleStrip, 0, QuadVertexCount)
}

func withQuadVert(src ShaderSource) ShaderSource {
	if src.Vert == "" {
		src.Vert = QuadVert
	}
	return src
}
