package pass

import "github.com/go-gl/mathgl/mgl32"

// QuadVert is the default vertex shader for full-screen passes. It reads
// the 2D clip-space position from attribute p and forwards a [0,1] UV as
// vUv.
const QuadVert = `
#version 410 core
in  vec2 p;
out vec2 vUv;
void main() {
    vUv         = p * 0.5 + 0.5;
    gl_Position = vec4(p, 0.0, 1.0);
}
`

// QuadVertexCount is the number of vertices in the full-screen strip.
const QuadVertexCount = 4

// quadStrip covers the [-1,1]x[-1,1] clip-space square as a triangle strip.
var quadStrip = [QuadVertexCount]mgl32.Vec2{
	{-1, -1},
	{1, -1},
	{-1, 1},
	{1, 1},
}

// QuadVertices returns the four triangle-strip vertices of the full-screen quad.
func QuadVertices() []mgl32.Vec2 {
	out := make([]mgl32.Vec2, QuadVertexCount)
	copy(out, quadStrip[:])
	return out
}

// QuadData returns the quad vertices flattened to x,y pairs, ready for upload.
func QuadData() []float32 {
	data := make([]float32, 0, QuadVertexCount*2)
	for _, v := range quadStrip {
		data = append(data, v.X(), v.Y())
	}
	return data
}
