package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// RenderTarget is an off-screen RGBA16F colour target. One pass draws into
// it and the next samples its Texture.
type RenderTarget struct {
	FBO    uint32
	Color  *Texture
	Width  int32
	Height int32
}

func NewRenderTarget(width, height int) (*RenderTarget, error) {
	rt := &RenderTarget{}
	if err := rt.alloc(width, height); err != nil {
		return nil, err
	}
	return rt, nil
}

func (rt *RenderTarget) alloc(width, height int) error {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	rt.Width = int32(width)
	rt.Height = int32(height)

	color, err := allocTexture(rt.Width, rt.Height, gl.RGBA16F, gl.HALF_FLOAT, nil)
	if err != nil {
		return fmt.Errorf("render target colour: %w", err)
	}
	rt.Color = color

	gl.GenFramebuffers(1, &rt.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
		gl.TEXTURE_2D, rt.Color.Raw(), 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		rt.free()
		return fmt.Errorf("render target incomplete (0x%X)", status)
	}
	return nil
}

func (rt *RenderTarget) free() {
	if rt.FBO != 0 {
		gl.DeleteFramebuffers(1, &rt.FBO)
		rt.FBO = 0
	}
	rt.Color.Destroy()
	rt.Color = nil
}

// Bind makes the target the draw framebuffer and sets the viewport to it.
func (rt *RenderTarget) Bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, rt.FBO)
	gl.Viewport(0, 0, rt.Width, rt.Height)
}

// Resize reallocates the target. Textures previously returned by Color are
// invalid afterwards.
func (rt *RenderTarget) Resize(width, height int) error {
	rt.free()
	return rt.alloc(width, height)
}

// Destroy frees the framebuffer and its colour texture.
func (rt *RenderTarget) Destroy() {
	rt.free()
}

// BindScreen makes the default framebuffer current with a full viewport.
func BindScreen(width, height int) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(width), int32(height))
}

// Clear clears the bound framebuffer's colour to (r, g, b, a).
func Clear(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}
