// Package pass implements configured draw operations that an outer render
// loop invokes once per frame.
//
// A Pass owns a program and a blend mode. Dispatch applies both and then
// hands the pass a DrawContext to issue its draw calls. Post is the
// full-screen post-processing variant.
package pass

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"postfx/gfx"
	"postfx/internal/logger"
)

var (
	// ErrNoFragment is returned when a ShaderSource has no fragment stage.
	ErrNoFragment = errors.New("pass: fragment shader source is required")
	// ErrNoVertex is returned by Base.SetProgram when no vertex stage is given.
	ErrNoVertex = errors.New("pass: vertex shader source is required")
)

// ShaderSource is a vertex/fragment source pair. Variants may fill in a
// default Vert.
type ShaderSource struct {
	Vert string
	Frag string
}

// BlendMode is a (source, destination) blend factor pair.
type BlendMode struct {
	Src gfx.BlendFactor
	Dst gfx.BlendFactor
}

// BlendOpaque overwrites the framebuffer.
var BlendOpaque = BlendMode{Src: gfx.One, Dst: gfx.Zero}

// DrawContext is handed to a pass for a single draw. It is not retained.
type DrawContext struct {
	GL      gfx.Context
	Program gfx.Program
}

// Pass is a single configured draw operation.
type Pass interface {
	Name() string
	Blend() BlendMode
	Program() gfx.Program
	SetProgram(src ShaderSource) error
	// Draw issues the pass's draw calls. ctx.Program must already be in use.
	Draw(ctx DrawContext)
	Dispose()
}

// Base holds the state shared by every pass kind. Variants embed it and
// implement Draw.
type Base struct {
	glc     gfx.Context
	name    string
	blend   BlendMode
	program gfx.Program
}

// NewBase returns base state bound to glc. The program is unset until
// SetProgram succeeds.
func NewBase(glc gfx.Context, name string, blend BlendMode) Base {
	return Base{glc: glc, name: name, blend: blend}
}

func (b *Base) Name() string { return b.name }

// SetName changes the display name used in logs and errors.
func (b *Base) SetName(name string) { b.name = name }

func (b *Base) Blend() BlendMode { return b.blend }

// Program returns the bound program, or nil before the first successful
// SetProgram and after Dispose.
func (b *Base) Program() gfx.Program { return b.program }

// SetProgram compiles (or fetches from the context cache) a program for src
// and swaps it in, releasing the previous one. On error the previous
// program stays bound.
func (b *Base) SetProgram(src ShaderSource) error {
	if src.Vert == "" {
		return ErrNoVertex
	}
	if src.Frag == "" {
		return ErrNoFragment
	}
	prog, err := b.glc.LazyProgram(src.Vert, src.Frag)
	if err != nil {
		return fmt.Errorf("%s program: %w", b.name, err)
	}
	old := b.program
	b.program = prog
	if old != nil {
		old.Dispose()
	}
	logger.Log.Debug("pass program set", zap.String("pass", b.name), zap.Bool("replaced", old != nil))
	return nil
}

// Dispose releases the program.
func (b *Base) Dispose() {
	if b.program != nil {
		b.program.Dispose()
		b.program = nil
	}
	logger.Log.Debug("pass disposed", zap.String("pass", b.name))
}

// Dispatch runs one frame of p on glc: it applies the pass blend mode, puts
// the pass program in use, calls Draw, and reports any error the context
// raised while doing so.
func Dispatch(glc gfx.Context, p Pass) error {
	blend := p.Blend()
	glc.BlendFunc(blend.Src, blend.Dst)

	prog := p.Program()
	prog.Use()
	p.Draw(DrawContext{GL: glc, Program: prog})

	if err := glc.Err(); err != nil {
		logger.Log.Error("pass draw failed", zap.String("pass", p.Name()), zap.Error(err))
		return fmt.Errorf("pass %q: %w", p.Name(), err)
	}
	return nil
}
