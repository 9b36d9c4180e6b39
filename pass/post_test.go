package pass

import (
	"errors"
	"testing"

	"postfx/gfx"
	"postfx/gfx/gfxtest"
)

const solidRed = `
#version 410 core
out vec4 outColor;
void main() { outColor = vec4(1.0, 0.0, 0.0, 1.0); }
`

func newTestPost(t *testing.T, glc *gfxtest.Context, src ShaderSource) *Post {
	t.Helper()
	p, err := NewPost(glc, src)
	if err != nil {
		t.Fatalf("NewPost: %v", err)
	}
	return p
}

func recordedProgram(t *testing.T, p *Post) *gfxtest.Program {
	t.Helper()
	prog, ok := p.Program().(*gfxtest.Program)
	if !ok {
		t.Fatalf("program is %T, want *gfxtest.Program", p.Program())
	}
	return prog
}

func TestNewPost(t *testing.T) {
	glc := gfxtest.NewContext()
	p := newTestPost(t, glc, ShaderSource{Frag: solidRed})

	if p.Name() != "Post" {
		t.Errorf("Name: expected %q, got %q", "Post", p.Name())
	}
	if p.Blend() != (BlendMode{Src: gfx.One, Dst: gfx.Zero}) {
		t.Errorf("Blend: expected one/zero, got %v/%v", p.Blend().Src, p.Blend().Dst)
	}

	prog := recordedProgram(t, p)
	if prog.Vert != QuadVert {
		t.Error("omitted vert should select QuadVert")
	}
	if prog.Frag != solidRed {
		t.Error("frag source not passed through")
	}

	bufs := glc.Buffers()
	if len(bufs) != 1 {
		t.Fatalf("expected 1 buffer, got %d", len(bufs))
	}
	want := []float32{-1, -1, 1, -1, -1, 1, 1, 1}
	if len(bufs[0].Data) != len(want) {
		t.Fatalf("quad data: expected %d floats, got %d", len(want), len(bufs[0].Data))
	}
	for i := range want {
		if bufs[0].Data[i] != want[i] {
			t.Errorf("quad data[%d]: expected %v, got %v", i, want[i], bufs[0].Data[i])
		}
	}
}

func TestNewPostCustomVert(t *testing.T) {
	glc := gfxtest.NewContext()
	const vert = "#version 410 core\nin vec2 p;\nvoid main() { gl_Position = vec4(p, 0.0, 1.0); }\n"
	p := newTestPost(t, glc, ShaderSource{Vert: vert, Frag: solidRed})

	if got := recordedProgram(t, p).Vert; got != vert {
		t.Errorf("Vert: expected custom source, got %q", got)
	}
}

func TestNewPostRequiresFragment(t *testing.T) {
	glc := gfxtest.NewContext()
	_, err := NewPost(glc, ShaderSource{})
	if !errors.Is(err, ErrNoFragment) {
		t.Errorf("expected ErrNoFragment, got %v", err)
	}
	if len(glc.Buffers()) != 0 {
		t.Error("no buffer should be allocated when the program is rejected")
	}
}

func TestNewPostProgramError(t *testing.T) {
	glc := gfxtest.NewContext()
	compileErr := errors.New("fragment: compile failed: syntax error")
	glc.ProgramErr = compileErr

	_, err := NewPost(glc, ShaderSource{Frag: "not glsl"})
	if !errors.Is(err, compileErr) {
		t.Errorf("expected compile error to propagate, got %v", err)
	}
	if len(glc.Buffers()) != 0 {
		t.Error("no buffer should be allocated when compilation fails")
	}
}

func TestNewPostBufferError(t *testing.T) {
	glc := gfxtest.NewContext()
	allocErr := errors.New("out of memory")
	glc.BufferErr = allocErr

	_, err := NewPost(glc, ShaderSource{Frag: solidRed})
	if !errors.Is(err, allocErr) {
		t.Fatalf("expected allocation error to propagate, got %v", err)
	}

	calls := glc.Filter(gfxtest.OpLazyProgram)
	if len(calls) != 1 {
		t.Fatalf("expected 1 program lookup, got %d", len(calls))
	}
	if prog := calls[0].Program; !prog.Disposed || prog.Refs != 0 {
		t.Errorf("program should be released on buffer failure (disposed=%v refs=%d)", prog.Disposed, prog.Refs)
	}
}

func TestSetProgramDefaultsVert(t *testing.T) {
	glc := gfxtest.NewContext()
	p := newTestPost(t, glc, ShaderSource{Frag: solidRed})

	const blue = "#version 410 core\nout vec4 o;\nvoid main() { o = vec4(0, 0, 1, 1); }\n"
	if err := p.SetProgram(ShaderSource{Frag: blue}); err != nil {
		t.Fatalf("SetProgram: %v", err)
	}
	prog := recordedProgram(t, p)
	if prog.Vert != QuadVert {
		t.Error("SetProgram without vert should select QuadVert")
	}
	if prog.Frag != blue {
		t.Error("SetProgram did not switch fragment source")
	}
}

func TestSetProgramMatchesConstruction(t *testing.T) {
	glc := gfxtest.NewContext()
	a := newTestPost(t, glc, ShaderSource{Frag: solidRed})
	b := newTestPost(t, glc, ShaderSource{Frag: "other"})

	if err := b.SetProgram(ShaderSource{Frag: solidRed}); err != nil {
		t.Fatalf("SetProgram: %v", err)
	}
	if a.Program() != b.Program() {
		t.Error("SetProgram({Frag}) should resolve to the same program as NewPost({Frag})")
	}
}

func TestSetProgramKeepsState(t *testing.T) {
	glc := gfxtest.NewContext()
	p := newTestPost(t, glc, ShaderSource{Frag: solidRed})
	p.InputTextures.Set("tex0", gfxtest.Texture(7))
	old := recordedProgram(t, p)
	quad := p.quad

	if err := p.SetProgram(ShaderSource{Frag: "blur"}); err != nil {
		t.Fatalf("SetProgram: %v", err)
	}

	if p.quad != quad {
		t.Error("quad buffer changed")
	}
	if quad.(*gfxtest.Buffer).Disposed {
		t.Error("quad buffer disposed by SetProgram")
	}
	if names := p.InputTextures.Names(); len(names) != 1 || names[0] != "tex0" {
		t.Errorf("input textures changed: %v", names)
	}
	if p.Blend() != BlendOpaque {
		t.Error("blend mode changed")
	}
	if !old.Disposed {
		t.Error("previous program should be released")
	}
}

func TestSetProgramFailureKeepsProgram(t *testing.T) {
	glc := gfxtest.NewContext()
	p := newTestPost(t, glc, ShaderSource{Frag: solidRed})
	before := p.Program()

	compileErr := errors.New("link failed")
	glc.ProgramErr = compileErr
	if err := p.SetProgram(ShaderSource{Frag: "broken"}); !errors.Is(err, compileErr) {
		t.Fatalf("expected compile error, got %v", err)
	}
	if p.Program() != before {
		t.Error("failed SetProgram should keep the previous program")
	}
	if before.(*gfxtest.Program).Disposed {
		t.Error("previous program released on failure")
	}

	if err := p.SetProgram(ShaderSource{}); !errors.Is(err, ErrNoFragment) {
		t.Errorf("expected ErrNoFragment, got %v", err)
	}
}

func TestDrawSolidRed(t *testing.T) {
	glc := gfxtest.NewContext()
	p := newTestPost(t, glc, ShaderSource{Frag: solidRed})
	glc.Reset()

	p.Draw(DrawContext{GL: glc, Program: p.Program()})

	attrs := glc.Filter(gfxtest.OpAttribute)
	if len(attrs) != 1 {
		t.Fatalf("expected 1 attribute bind, got %d", len(attrs))
	}
	if attrs[0].Name != "p" || attrs[0].Size != 2 {
		t.Errorf("attribute: expected p/2, got %s/%d", attrs[0].Name, attrs[0].Size)
	}
	if attrs[0].Buffer != glc.Buffers()[0] {
		t.Error("attribute not bound to the quad buffer")
	}
	if n := len(glc.Filter(gfxtest.OpUniformTexture)); n != 0 {
		t.Errorf("expected 0 texture binds, got %d", n)
	}
	draws := glc.Filter(gfxtest.OpDrawArrays)
	if len(draws) != 1 {
		t.Fatalf("expected 1 draw call, got %d", len(draws))
	}
	if draws[0].Mode != gfx.TriangleStrip || draws[0].First != 0 || draws[0].Count != 4 {
		t.Errorf("draw: expected triangle-strip 0..4, got %v", draws[0])
	}
}

func TestDrawTextureUnits(t *testing.T) {
	tests := []struct {
		name  string
		order []string
	}{
		{"tex0 first", []string{"tex0", "tex1"}},
		{"tex1 first", []string{"tex1", "tex0"}},
		{"many", []string{"scene", "bloom", "ao", "lut", "noise"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			glc := gfxtest.NewContext()
			p := newTestPost(t, glc, ShaderSource{Frag: solidRed})
			for i, name := range tt.order {
				p.InputTextures.Set(name, gfxtest.Texture(100+i))
			}
			glc.Reset()

			for frame := 0; frame < 3; frame++ {
				glc.Reset()
				p.Draw(DrawContext{GL: glc, Program: p.Program()})

				binds := glc.Filter(gfxtest.OpUniformTexture)
				if len(binds) != len(tt.order) {
					t.Fatalf("frame %d: expected %d texture binds, got %d", frame, len(tt.order), len(binds))
				}
				for i, b := range binds {
					if b.Name != tt.order[i] || b.Unit != i || b.Texture != uint32(100+i) {
						t.Errorf("frame %d bind %d: expected %s->unit%d (tex%d), got %v",
							frame, i, tt.order[i], i, 100+i, b)
					}
				}
			}
		})
	}
}

func TestDrawSingleDrawCall(t *testing.T) {
	for _, n := range []int{0, 1, 8} {
		glc := gfxtest.NewContext()
		p := newTestPost(t, glc, ShaderSource{Frag: solidRed})
		for i := 0; i < n; i++ {
			p.InputTextures.Set(string(rune('a'+i)), gfxtest.Texture(i))
		}
		glc.Reset()

		p.Draw(DrawContext{GL: glc, Program: p.Program()})

		draws := glc.Filter(gfxtest.OpDrawArrays)
		if len(draws) != 1 {
			t.Errorf("%d textures: expected 1 draw call, got %d", n, len(draws))
			continue
		}
		if draws[0].Mode != gfx.TriangleStrip || draws[0].Count != 4 {
			t.Errorf("%d textures: expected triangle-strip x4, got %v", n, draws[0])
		}
		if last := glc.Calls[len(glc.Calls)-1]; last.Op != gfxtest.OpDrawArrays {
			t.Errorf("%d textures: draw call should come last, got %v", n, last)
		}
	}
}

func TestBeforeDraw(t *testing.T) {
	glc := gfxtest.NewContext()
	p := newTestPost(t, glc, ShaderSource{Frag: solidRed})
	p.InputTextures.Set("tex0", gfxtest.Texture(1))

	calls := 0
	p.BeforeDraw = func(ctx DrawContext) {
		calls++
		if ctx.GL != glc {
			t.Error("BeforeDraw received a different context")
		}
		glc.Mark("before")
		ctx.Program.Uniform1f("time", 0.5)
	}

	for frame := 1; frame <= 2; frame++ {
		glc.Reset()
		p.Draw(DrawContext{GL: glc, Program: p.Program()})

		if calls != frame {
			t.Fatalf("BeforeDraw: expected %d calls, got %d", frame, calls)
		}
		mark := glc.Index(gfxtest.OpCallback)
		uniform := glc.Index(gfxtest.OpUniform)
		attr := glc.Index(gfxtest.OpAttribute)
		tex := glc.Index(gfxtest.OpUniformTexture)
		if mark != 0 || uniform > attr || attr > tex {
			t.Errorf("order: expected callback < uniform < attribute < texture, got %d %d %d %d",
				mark, uniform, attr, tex)
		}
	}
}

func TestDispose(t *testing.T) {
	glc := gfxtest.NewContext()
	p := newTestPost(t, glc, ShaderSource{Frag: solidRed})
	prog := recordedProgram(t, p)
	glc.Reset()

	p.Dispose()

	if !glc.Buffers()[0].Disposed {
		t.Error("quad buffer not released")
	}
	if !prog.Disposed {
		t.Error("program not released")
	}
	buf := glc.Index(gfxtest.OpDisposeBuffer)
	progIdx := glc.Index(gfxtest.OpDisposeProgram)
	if buf < 0 || progIdx < 0 || buf > progIdx {
		t.Errorf("expected quad release before program release, got %d, %d", buf, progIdx)
	}
}

func TestDisposeTwice(t *testing.T) {
	glc := gfxtest.NewContext()
	p := newTestPost(t, glc, ShaderSource{Frag: solidRed})
	p.Dispose()
	glc.Reset()

	p.Dispose()

	if n := len(glc.Calls); n != 0 {
		t.Errorf("second Dispose issued %d calls: %v", n, glc.Calls)
	}
	if p.Program() != nil {
		t.Error("program should stay nil after Dispose")
	}
}

// Names the shader never declares are still bound; nothing checks them.
func TestDrawUnknownSampler(t *testing.T) {
	glc := gfxtest.NewContext()
	p := newTestPost(t, glc, ShaderSource{Frag: solidRed})
	p.InputTextures.Set("uNotDeclared", gfxtest.Texture(7))
	glc.Reset()

	p.Draw(DrawContext{GL: glc, Program: p.Program()})

	binds := glc.Filter(gfxtest.OpUniformTexture)
	if len(binds) != 1 || binds[0].Name != "uNotDeclared" || binds[0].Unit != 0 {
		t.Errorf("expected uNotDeclared on unit 0, got %v", binds)
	}
	if n := len(glc.Filter(gfxtest.OpDrawArrays)); n != 1 {
		t.Errorf("expected 1 draw call, got %d", n)
	}
}

func TestSharedProgramOwnership(t *testing.T) {
	glc := gfxtest.NewContext()
	a := newTestPost(t, glc, ShaderSource{Frag: solidRed})
	b := newTestPost(t, glc, ShaderSource{Frag: solidRed})
	prog := recordedProgram(t, a)

	a.Dispose()
	if prog.Disposed {
		t.Error("program released while another pass still holds it")
	}
	b.Dispose()
	if !prog.Disposed {
		t.Error("program should be released with its last holder")
	}
}

func TestDispatch(t *testing.T) {
	glc := gfxtest.NewContext()
	p := newTestPost(t, glc, ShaderSource{Frag: solidRed})
	glc.Reset()

	if err := Dispatch(glc, p); err != nil {
		t.Fatalf("Dispatch: %v", err)
	}

	want := []gfxtest.Op{
		gfxtest.OpBlendFunc,
		gfxtest.OpUse,
		gfxtest.OpAttribute,
		gfxtest.OpDrawArrays,
	}
	if len(glc.Calls) != len(want) {
		t.Fatalf("expected %d calls, got %v", len(want), glc.Calls)
	}
	for i, op := range want {
		if glc.Calls[i].Op != op {
			t.Errorf("call %d: expected %s, got %v", i, op, glc.Calls[i])
		}
	}
	if c := glc.Calls[0]; c.Src != gfx.One || c.Dst != gfx.Zero {
		t.Errorf("blend: expected one/zero, got %v", c)
	}
	if glc.Calls[1].Program != p.Program() {
		t.Error("Dispatch should use the pass program")
	}
}

func TestDispatchReportsContextError(t *testing.T) {
	glc := gfxtest.NewContext()
	p := newTestPost(t, glc, ShaderSource{Frag: solidRed})

	glErr := errors.New("GL_INVALID_OPERATION")
	glc.PendingErr = glErr
	err := Dispatch(glc, p)
	if !errors.Is(err, glErr) {
		t.Fatalf("expected context error, got %v", err)
	}
	if err := Dispatch(glc, p); err != nil {
		t.Errorf("error should be cleared after being reported, got %v", err)
	}
}
