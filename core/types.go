package core

import "fmt"

type Color struct {
	R, G, B, A float32
}

var (
	ColorBlack = Color{0, 0, 0, 1}
	ColorWhite = Color{1, 1, 1, 1}
)

// Source selects where the demo's input image comes from.
type Source int

const (
	SourcePattern Source = iota // rasterised test card
	SourceImage                 // PNG or JPEG file
	SourceGLTF                  // first texture image of a glTF document
)

func (s Source) String() string {
	switch s {
	case SourcePattern:
		return "pattern"
	case SourceImage:
		return "image"
	case SourceGLTF:
		return "gltf"
	}
	return "unknown"
}

// DemoConfig configures cmd/demo.
type DemoConfig struct {
	Window WindowConfig

	ImagePath string
	GLTFPath  string

	// Strength scales the effect pass, 0 disables it visually.
	Strength float32
	// Vignette toggles the second, screen-space vignette pass.
	Vignette bool

	ClearColor Color
	Debug      bool
}

func DefaultDemoConfig() DemoConfig {
	return DemoConfig{
		Window:     DefaultWindowConfig(),
		Strength:   0.75,
		Vignette:   true,
		ClearColor: ColorBlack,
	}
}

// Source reports which input the config selects. A glTF path wins over an
// image path.
func (c DemoConfig) Source() Source {
	switch {
	case c.GLTFPath != "":
		return SourceGLTF
	case c.ImagePath != "":
		return SourceImage
	}
	return SourcePattern
}

// Validate rejects configurations the demo cannot run.
func (c DemoConfig) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Strength < 0 || c.Strength > 1 {
		return fmt.Errorf("strength %.2f must be within [0, 1]", c.Strength)
	}
	return nil
}
