package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"postfx/core"
	"postfx/internal/logger"
	"postfx/internal/opengl"
	"postfx/pass"
	"postfx/textures"
)

func main() {
	cfg := core.DefaultDemoConfig()
	flag.IntVar(&cfg.Window.Width, "width", cfg.Window.Width, "window width")
	flag.IntVar(&cfg.Window.Height, "height", cfg.Window.Height, "window height")
	flag.BoolVar(&cfg.Window.Fullscreen, "fullscreen", cfg.Window.Fullscreen, "open on the primary monitor")
	flag.BoolVar(&cfg.Window.VSync, "vsync", cfg.Window.VSync, "wait for vertical sync")
	flag.StringVar(&cfg.ImagePath, "image", "", "PNG or JPEG to post-process")
	flag.StringVar(&cfg.GLTFPath, "gltf", "", "glTF/GLB whose first texture image is post-processed")
	strength := flag.Float64("strength", float64(cfg.Strength), "effect strength in [0, 1]")
	flag.BoolVar(&cfg.Vignette, "vignette", cfg.Vignette, "add the vignette pass")
	flag.BoolVar(&cfg.Debug, "debug", cfg.Debug, "debug logging")
	flag.Parse()
	cfg.Strength = float32(*strength)

	if err := logger.Init(cfg.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Log.Error("demo failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg core.DemoConfig) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	window, err := core.NewWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	glc, err := opengl.NewContext()
	if err != nil {
		return err
	}
	defer glc.Destroy()

	fbw, fbh := window.GetFramebufferSize()

	img, err := loadSource(cfg, fbw, fbh)
	if err != nil {
		return err
	}
	img.FlipY()
	source, err := opengl.NewTexture(img)
	if err != nil {
		return fmt.Errorf("upload source: %w", err)
	}
	defer source.Destroy()
	logger.Log.Info("source ready",
		zap.Stringer("kind", cfg.Source()), zap.String("name", img.Name),
		zap.Int("width", img.Width), zap.Int("height", img.Height))

	target, err := opengl.NewRenderTarget(fbw, fbh)
	if err != nil {
		return err
	}
	defer target.Destroy()

	chain, err := newChain(glc, source, target, cfg)
	if err != nil {
		return err
	}
	defer chain.Dispose()

	window.SetKeyCallback(func(key int) {
		switch key {
		case core.KeyEscape:
			window.Close()
		case core.KeySpace:
			chain.vignetteOn = !chain.vignetteOn
			logger.Log.Info("vignette toggled", zap.Bool("on", chain.vignetteOn))
		case core.Key1, core.Key2, core.Key3, core.Key4:
			if err := chain.SelectEffect(key - core.Key1); err != nil {
				logger.Log.Warn("effect switch failed", zap.Error(err))
			}
		}
	})

	for !window.ShouldClose() {
		window.PollEvents()

		w, h := window.GetFramebufferSize()
		if minimised(w, h) {
			window.WaitEvents()
			continue
		}
		if int32(w) != target.Width || int32(h) != target.Height {
			if err := chain.Resize(w, h); err != nil {
				return err
			}
		}

		if err := chain.Frame(float32(window.Time()), w, h); err != nil {
			return err
		}
		window.SwapBuffers()
	}
	return nil
}

// minimised reports a framebuffer with nothing to draw into.
func minimised(width, height int) bool {
	return width <= 0 || height <= 0
}

func loadSource(cfg core.DemoConfig, width, height int) (*textures.Image, error) {
	switch cfg.Source() {
	case core.SourceImage:
		return textures.Load(cfg.ImagePath)
	case core.SourceGLTF:
		imgs, err := textures.LoadGLTF(cfg.GLTFPath)
		if err != nil {
			return nil, err
		}
		if len(imgs) == 0 {
			return nil, errors.New("gltf: no readable texture images")
		}
		return imgs[0].Scale(width, height), nil
	}
	return textures.Pattern(width, height, 0)
}

// chain runs the effect pass, optionally followed by a vignette pass that
// reads the effect's output from an off-screen target.
type chain struct {
	effect   *pass.Post
	vignette *pass.Post
	target   *opengl.RenderTarget
	glc      *opengl.Context
	clear    core.Color

	vignetteOn bool
	time       float32
	resolution mgl32.Vec2
}

func newChain(glc *opengl.Context, source *opengl.Texture, target *opengl.RenderTarget, cfg core.DemoConfig) (*chain, error) {
	c := &chain{
		target:     target,
		glc:        glc,
		clear:      cfg.ClearColor,
		vignetteOn: cfg.Vignette,
	}

	effect, err := pass.NewPost(glc, pass.ShaderSource{Frag: effects[0].frag})
	if err != nil {
		return nil, fmt.Errorf("effect pass: %w", err)
	}
	effect.InputTextures.Set("uSource", source)
	strength := cfg.Strength
	effect.BeforeDraw = func(ctx pass.DrawContext) {
		ctx.Program.Uniform1f("uTime", c.time)
		ctx.Program.Uniform1f("uStrength", strength)
		ctx.Program.Uniform2f("uResolution", c.resolution.X(), c.resolution.Y())
	}
	c.effect = effect

	vignette, err := pass.NewPost(glc, pass.ShaderSource{Frag: vignetteFrag})
	if err != nil {
		effect.Dispose()
		return nil, fmt.Errorf("vignette pass: %w", err)
	}
	vignette.SetName("Vignette")
	vignette.InputTextures.Set("uScene", target.Color)
	c.vignette = vignette

	logger.Log.Info("pass chain ready",
		zap.Int("programs", glc.CachedPrograms()), zap.String("effect", effects[0].name))
	return c, nil
}

// SelectEffect swaps the effect pass program in place.
func (c *chain) SelectEffect(i int) error {
	if i < 0 || i >= len(effects) {
		return fmt.Errorf("no effect %d", i)
	}
	if err := c.effect.SetProgram(pass.ShaderSource{Frag: effects[i].frag}); err != nil {
		return err
	}
	logger.Log.Info("effect selected", zap.String("effect", effects[i].name))
	return nil
}

// Resize reallocates the off-screen target and repoints the vignette input
// at the new colour texture.
func (c *chain) Resize(width, height int) error {
	if err := c.target.Resize(width, height); err != nil {
		return err
	}
	c.vignette.InputTextures.Set("uScene", c.target.Color)
	logger.Log.Debug("render target resized", zap.Int("width", width), zap.Int("height", height))
	return nil
}

func (c *chain) Frame(t float32, width, height int) error {
	c.time = t
	c.resolution = mgl32.Vec2{float32(width), float32(height)}

	if !c.vignetteOn {
		opengl.BindScreen(width, height)
		opengl.Clear(c.clear.R, c.clear.G, c.clear.B, c.clear.A)
		return pass.Dispatch(c.glc, c.effect)
	}

	c.target.Bind()
	opengl.Clear(c.clear.R, c.clear.G, c.clear.B, c.clear.A)
	if err := pass.Dispatch(c.glc, c.effect); err != nil {
		return err
	}

	opengl.BindScreen(width, height)
	opengl.Clear(c.clear.R, c.clear.G, c.clear.B, c.clear.A)
	return pass.Dispatch(c.glc, c.vignette)
}

func (c *chain) Dispose() {
	c.vignette.Dispose()
	c.effect.Dispose()
}
