package main

// Effect fragment shaders. Each samples uSource through the default quad
// vertex shader's vUv.

const chromaFrag = `
#version 410 core
in  vec2 vUv;
out vec4 outColor;

uniform sampler2D uSource;
uniform float     uTime;
uniform float     uStrength;
uniform vec2      uResolution;

void main() {
    vec2  dir    = vUv - 0.5;
    float wobble = 0.5 + 0.5 * sin(uTime * 1.7);
    vec2  shift  = dir * (6.0 + 6.0 * wobble) * uStrength / uResolution;

    float r = texture(uSource, vUv + shift).r;
    float g = texture(uSource, vUv).g;
    float b = texture(uSource, vUv - shift).b;
    outColor = vec4(r, g, b, 1.0);
}
`

const grayscaleFrag = `
#version 410 core
in  vec2 vUv;
out vec4 outColor;

uniform sampler2D uSource;
uniform float     uStrength;

void main() {
    vec3  c    = texture(uSource, vUv).rgb;
    float luma = dot(c, vec3(0.2126, 0.7152, 0.0722));
    outColor = vec4(mix(c, vec3(luma), uStrength), 1.0);
}
`

const invertFrag = `
#version 410 core
in  vec2 vUv;
out vec4 outColor;

uniform sampler2D uSource;
uniform float     uStrength;

void main() {
    vec3 c = texture(uSource, vUv).rgb;
    outColor = vec4(mix(c, vec3(1.0) - c, uStrength), 1.0);
}
`

// tonemapFrag applies exposure, Reinhard-style mapping and gamma 2.2.
const tonemapFrag = `
#version 410 core
in  vec2 vUv;
out vec4 outColor;

uniform sampler2D uSource;
uniform float     uStrength;

void main() {
    vec3 c      = texture(uSource, vUv).rgb;
    float expo  = 0.5 + 3.0 * uStrength;
    vec3 mapped = vec3(1.0) - exp(-c * expo);
    outColor = vec4(pow(mapped, vec3(1.0 / 2.2)), 1.0);
}
`

// vignetteFrag darkens the frame edges of uScene.
const vignetteFrag = `
#version 410 core
in  vec2 vUv;
out vec4 outColor;

uniform sampler2D uScene;

void main() {
    vec3  c = texture(uScene, vUv).rgb;
    float d = distance(vUv, vec2(0.5));
    outColor = vec4(c * smoothstep(0.8, 0.35, d), 1.0);
}
`

// effects are selectable with keys 1..4.
var effects = []struct {
	name string
	frag string
}{
	{"chromatic", chromaFrag},
	{"grayscale", grayscaleFrag},
	{"invert", invertFrag},
	{"tonemap", tonemapFrag},
}
