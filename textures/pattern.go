package textures

import (
	"fmt"
	"math"

	"github.com/gogpu/gg"
)

// Pattern rasterises a test card of overlapping discs on a dark background.
// Phase rotates the discs around the centre.
func Pattern(width, height int, phase float64) (*Image, error) {
	dc := gg.NewContext(width, height)
	defer dc.Close()

	w, h := float64(width), float64(height)
	dc.SetRGB(0.06, 0.07, 0.10)
	dc.DrawRectangle(0, 0, w, h)
	if err := dc.Fill(); err != nil {
		return nil, fmt.Errorf("pattern background: %w", err)
	}

	const discs = 6
	cx, cy := w/2, h/2
	orbit := math.Min(w, h) * 0.28
	radius := math.Min(w, h) * 0.16
	for i := 0; i < discs; i++ {
		a := phase + float64(i)*2*math.Pi/discs
		dc.SetRGBA(
			0.5+0.5*math.Cos(a),
			0.5+0.5*math.Cos(a+2*math.Pi/3),
			0.5+0.5*math.Cos(a+4*math.Pi/3),
			0.85,
		)
		dc.DrawCircle(cx+orbit*math.Cos(a), cy+orbit*math.Sin(a), radius)
		if err := dc.Fill(); err != nil {
			return nil, fmt.Errorf("pattern disc %d: %w", i, err)
		}
	}

	return FromImage("pattern", dc.Image()), nil
}
