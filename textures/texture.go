// Package textures produces CPU-side RGBA8 images that the GL backend
// uploads as pass inputs.
package textures

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"

	xdraw "golang.org/x/image/draw"
)

// Image holds RGBA8 pixel data, 4 bytes per pixel, row-major, top row first.
type Image struct {
	Name   string
	Width  int
	Height int
	Pixels []byte
}

// Load reads a PNG or JPEG file from disk.
func Load(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture %q: %w", path, err)
	}
	defer f.Close()

	img, err := decode(path, f)
	if err != nil {
		return nil, fmt.Errorf("decode texture %q: %w", path, err)
	}
	return img, nil
}

// Decode decodes PNG or JPEG bytes.
func Decode(name string, data []byte) (*Image, error) {
	return decode(name, bytes.NewReader(data))
}

func decode(name string, r io.Reader) (*Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromImage(name, img), nil
}

// FromImage converts any image.Image to RGBA8.
func FromImage(name string, img image.Image) *Image {
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(rgba, rgba.Bounds(), img, b.Min, xdraw.Src)
	return &Image{
		Name:   name,
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: rgba.Pix,
	}
}

// Solid returns a 1x1 image of the given colour.
func Solid(name string, r, g, b, a uint8) *Image {
	return &Image{
		Name:   name,
		Width:  1,
		Height: 1,
		Pixels: []byte{r, g, b, a},
	}
}

// RGBA wraps the pixels as an *image.RGBA without copying.
func (img *Image) RGBA() *image.RGBA {
	return &image.RGBA{
		Pix:    img.Pixels,
		Stride: img.Width * 4,
		Rect:   image.Rect(0, 0, img.Width, img.Height),
	}
}

// Scale returns a copy resampled to width x height with bilinear filtering.
func (img *Image) Scale(width, height int) *Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.BiLinear.Scale(dst, dst.Bounds(), img.RGBA(), img.RGBA().Bounds(), xdraw.Src, nil)
	return &Image{
		Name:   img.Name,
		Width:  width,
		Height: height,
		Pixels: dst.Pix,
	}
}

// FlipY reverses the row order in place. GL samples row 0 at v = 0, so
// images decoded top row first need flipping before upload.
func (img *Image) FlipY() {
	stride := img.Width * 4
	row := make([]byte, stride)
	for top, bottom := 0, img.Height-1; top < bottom; top, bottom = top+1, bottom-1 {
		a := img.Pixels[top*stride : (top+1)*stride]
		b := img.Pixels[bottom*stride : (bottom+1)*stride]
		copy(row, a)
		copy(a, b)
		copy(b, row)
	}
}
