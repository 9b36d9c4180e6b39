package opengl

import (
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"

	"postfx/gfx"
	"postfx/textures"
)

// Texture is a 2D GL texture object.
type Texture struct {
	id     uint32
	Width  int32
	Height int32
}

var _ gfx.Texture = (*Texture)(nil)

func (t *Texture) Raw() uint32 { return t.id }

// NewTexture uploads an RGBA8 image. Rows are uploaded in the order they
// are stored, so the first row lands at v = 0.
// Call this from the goroutine that owns the GL context.
func NewTexture(img *textures.Image) (*Texture, error) {
	if img == nil {
		return nil, fmt.Errorf("nil image")
	}
	if len(img.Pixels) == 0 {
		return nil, fmt.Errorf("image %q has no pixel data", img.Name)
	}
	if len(img.Pixels) != img.Width*img.Height*4 {
		return nil, fmt.Errorf("image %q: %d bytes for %dx%d RGBA8", img.Name, len(img.Pixels), img.Width, img.Height)
	}

	t, err := allocTexture(int32(img.Width), int32(img.Height), gl.RGBA8, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pixels[0]))
	if err != nil {
		return nil, fmt.Errorf("texture %q: %w", img.Name, err)
	}
	return t, nil
}

func allocTexture(width, height int32, internalFormat int32, xtype uint32, pixels unsafe.Pointer) (*Texture, error) {
	t := &Texture{Width: width, Height: height}
	gl.GenTextures(1, &t.id)
	if t.id == 0 {
		return nil, ErrAlloc
	}
	gl.BindTexture(gl.TEXTURE_2D, t.id)
	gl.TexImage2D(gl.TEXTURE_2D, 0, internalFormat, width, height, 0, gl.RGBA, xtype, pixels)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return t, nil
}

// Destroy deletes the texture object and zeroes its name.
func (t *Texture) Destroy() {
	if t == nil || t.id == 0 {
		return
	}
	gl.DeleteTextures(1, &t.id)
	t.id = 0
}
