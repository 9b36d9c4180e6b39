// Package gfxtest provides a recording gfx.Context for tests. Every call made
// through the context, its programs and its buffers is appended to a single
// shared call log so tests can assert ordering across objects.
package gfxtest

import (
	"fmt"

	"postfx/gfx"
)

// Op names the recorded operation.
type Op string

const (
	OpLazyProgram    Op = "LazyProgram"
	OpCreateBuffer   Op = "CreateBuffer"
	OpDrawArrays     Op = "DrawArrays"
	OpBlendFunc      Op = "BlendFunc"
	OpUse            Op = "Use"
	OpAttribute      Op = "Attribute"
	OpUniformTexture Op = "UniformTexture"
	OpUniform        Op = "Uniform"
	OpSetVertexData  Op = "SetVertexData"
	OpDisposeProgram Op = "DisposeProgram"
	OpDisposeBuffer  Op = "DisposeBuffer"
	OpCallback       Op = "Callback"
)

// Call is one recorded operation. Only the fields relevant to Op are set.
type Call struct {
	Op      Op
	Name    string
	Size    int
	Unit    int
	Texture uint32
	Mode    gfx.DrawMode
	First   int
	Count   int
	Src     gfx.BlendFactor
	Dst     gfx.BlendFactor
	Program *Program
	Buffer  *Buffer
	Values  []float32
}

func (c Call) String() string {
	switch c.Op {
	case OpAttribute:
		return fmt.Sprintf("%s(%s, %d)", c.Op, c.Name, c.Size)
	case OpUniformTexture:
		return fmt.Sprintf("%s(%s, tex%d, unit%d)", c.Op, c.Name, c.Texture, c.Unit)
	case OpDrawArrays:
		return fmt.Sprintf("%s(%s, %d, %d)", c.Op, c.Mode, c.First, c.Count)
	case OpBlendFunc:
		return fmt.Sprintf("%s(%s, %s)", c.Op, c.Src, c.Dst)
	}
	if c.Name != "" {
		return fmt.Sprintf("%s(%s)", c.Op, c.Name)
	}
	return string(c.Op)
}

// Context is a recording gfx.Context. The zero value is not usable; call
// NewContext.
type Context struct {
	Calls []Call

	// ProgramErr, when set, is returned by the next LazyProgram call.
	ProgramErr error
	// BufferErr, when set, is returned by the next CreateBuffer call.
	BufferErr error
	// PendingErr is returned (and cleared) by Err.
	PendingErr error

	programs map[string]*Program
	buffers  []*Buffer
}

var _ gfx.Context = (*Context)(nil)

func NewContext() *Context {
	return &Context{programs: make(map[string]*Program)}
}

func (c *Context) record(call Call) {
	c.Calls = append(c.Calls, call)
}

// Mark records a user-supplied marker, typically from a callback under test.
func (c *Context) Mark(name string) {
	c.record(Call{Op: OpCallback, Name: name})
}

// Reset clears the call log.
func (c *Context) Reset() {
	c.Calls = nil
}

func (c *Context) LazyProgram(vert, frag string) (gfx.Program, error) {
	if err := c.ProgramErr; err != nil {
		c.ProgramErr = nil
		return nil, err
	}
	key := vert + "\x00" + frag
	p, ok := c.programs[key]
	if !ok {
		p = &Program{ctx: c, Vert: vert, Frag: frag}
		c.programs[key] = p
	}
	p.Refs++
	c.record(Call{Op: OpLazyProgram, Program: p})
	return p, nil
}

func (c *Context) CreateBuffer() (gfx.Buffer, error) {
	if err := c.BufferErr; err != nil {
		c.BufferErr = nil
		return nil, err
	}
	b := &Buffer{ctx: c}
	c.buffers = append(c.buffers, b)
	c.record(Call{Op: OpCreateBuffer, Buffer: b})
	return b, nil
}

func (c *Context) DrawArrays(mode gfx.DrawMode, first, count int) {
	c.record(Call{Op: OpDrawArrays, Mode: mode, First: first, Count: count})
}

func (c *Context) BlendFunc(src, dst gfx.BlendFactor) {
	c.record(Call{Op: OpBlendFunc, Src: src, Dst: dst})
}

func (c *Context) Err() error {
	err := c.PendingErr
	c.PendingErr = nil
	return err
}

// Buffers returns every buffer created through the context.
func (c *Context) Buffers() []*Buffer {
	return c.buffers
}

// Filter returns the recorded calls with the given op, in order.
func (c *Context) Filter(op Op) []Call {
	var out []Call
	for _, call := range c.Calls {
		if call.Op == op {
			out = append(out, call)
		}
	}
	return out
}

// Index returns the position of the first call with the given op, or -1.
func (c *Context) Index(op Op) int {
	for i, call := range c.Calls {
		if call.Op == op {
			return i
		}
	}
	return -1
}

// Program is a recorded program.
type Program struct {
	ctx *Context

	Vert     string
	Frag     string
	Refs     int
	Disposed bool
}

func (p *Program) Use() {
	p.ctx.record(Call{Op: OpUse, Program: p})
}

func (p *Program) Attribute(name string, buf gfx.Buffer, size int) {
	b, _ := buf.(*Buffer)
	p.ctx.record(Call{Op: OpAttribute, Name: name, Size: size, Buffer: b, Program: p})
}

func (p *Program) UniformTexture(name string, tex gfx.Texture, unit int) {
	p.ctx.record(Call{Op: OpUniformTexture, Name: name, Texture: tex.Raw(), Unit: unit, Program: p})
}

func (p *Program) Uniform1f(name string, v float32) {
	p.ctx.record(Call{Op: OpUniform, Name: name, Values: []float32{v}, Program: p})
}

func (p *Program) Uniform2f(name string, x, y float32) {
	p.ctx.record(Call{Op: OpUniform, Name: name, Values: []float32{x, y}, Program: p})
}

func (p *Program) Uniform1i(name string, v int32) {
	p.ctx.record(Call{Op: OpUniform, Name: name, Values: []float32{float32(v)}, Program: p})
}

// Dispose drops one reference. Calls after the last one are recorded but
// change nothing.
func (p *Program) Dispose() {
	p.ctx.record(Call{Op: OpDisposeProgram, Program: p})
	if p.Refs <= 0 {
		return
	}
	p.Refs--
	if p.Refs > 0 {
		return
	}
	p.Disposed = true
	key := p.Vert + "\x00" + p.Frag
	if p.ctx.programs[key] == p {
		delete(p.ctx.programs, key)
	}
}

// Buffer is a recorded vertex buffer.
type Buffer struct {
	ctx *Context

	Data     []float32
	Disposed bool
}

func (b *Buffer) SetVertexData(data []float32) {
	b.Data = append([]float32(nil), data...)
	b.ctx.record(Call{Op: OpSetVertexData, Buffer: b, Values: b.Data})
}

func (b *Buffer) Dispose() {
	b.Disposed = true
	b.ctx.record(Call{Op: OpDisposeBuffer, Buffer: b})
}

// Texture is a stand-in texture identified by its handle.
type Texture uint32

func (t Texture) Raw() uint32 { return uint32(t) }
