// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"
	"testing"

	"github.com/gogpu/klproj/kode"
)

// =============================================================================
// Rewrite Rule Tests
// =============================================================================

func TestImageMacroRules(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "this pixel",
			in:   "vec4 c = IMG_THIS_PIXEL(inputImage);",
			want: "vec4 c = texture(inputImage, gl_FragCoord.xy / RENDERSIZE);",
		},
		{
			name: "norm this pixel",
			in:   "vec4 c = IMG_NORM_THIS_PIXEL(inputImage);",
			want: "vec4 c = texture(inputImage, gl_FragCoord.xy / RENDERSIZE);",
		},
		{
			name: "norm pixel",
			in:   "vec4 c = IMG_NORM_PIXEL(inputImage, uv);",
			want: "vec4 c = texture(inputImage, uv);",
		},
		{
			name: "pixel normalizes by texture size",
			in:   "vec4 c = IMG_PIXEL(inputImage, pt);",
			want: "vec4 c = texture(inputImage, (pt) / vec2(textureSize(inputImage, 0)));",
		},
		{
			name: "size",
			in:   "vec2 sz = IMG_SIZE(inputImage);",
			want: "vec2 sz = vec2(textureSize(inputImage, 0));",
		},
		{
			name: "norm pixel with expression coordinate",
			in:   "vec4 c = IMG_NORM_PIXEL(tex, uv + vec2(0.1, 0.2));",
			want: "vec4 c = texture(tex, uv + vec2(0.1, 0.2));",
		},
	}

	rules := imageMacroRules(dialectFor(kode.ProfileGL3))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := applyRules(tt.in, rules); got != tt.want {
				t.Errorf("applyRules() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestImageMacroRules_GL2HasNoTextureSize(t *testing.T) {
	// GLSL 120 has no textureSize query; size-dependent macros degrade to
	// the render target's resolution.
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "pixel",
			in:   "vec4 c = IMG_PIXEL(inputImage, pt);",
			want: "vec4 c = texture2D(inputImage, (pt) / RENDERSIZE);",
		},
		{
			name: "size",
			in:   "vec2 sz = IMG_SIZE(inputImage);",
			want: "vec2 sz = RENDERSIZE;",
		},
	}

	rules := imageMacroRules(dialectFor(kode.ProfileGL2))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyRules(tt.in, rules)
			if got != tt.want {
				t.Errorf("applyRules() = %q, want %q", got, tt.want)
			}
			if strings.Contains(got, "textureSize") {
				t.Errorf("textureSize leaked into a GL2 shader: %q", got)
			}
		})
	}
}

func TestBooleanRules(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"if (flag == true)", "if (flag != 0.0)"},
		{"if (flag != false)", "if (flag != 0.0)"},
		{"if (flag == false)", "if (flag == 0.0)"},
		{"if (flag != true)", "if (flag == 0.0)"},
	}

	rules := booleanRules()
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := applyRules(tt.in, rules); got != tt.want {
				t.Errorf("applyRules() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUnwrapVersionGuard(t *testing.T) {
	in := `#if __VERSION__ <= 120
varying vec2 coord;
#else
in vec2 coord;
#endif
void main() {}`

	got := unwrapVersionGuard().Apply(in)
	if strings.Contains(got, "#if") || strings.Contains(got, "varying") {
		t.Errorf("guard not unwrapped:\n%s", got)
	}
	if !strings.Contains(got, "in vec2 coord;") {
		t.Errorf("modern branch lost:\n%s", got)
	}
}

func TestFragNormCoord(t *testing.T) {
	got := replaceFragNormCoord().Apply("vec2 uv = isf_FragNormCoord;")
	want := "vec2 uv = (gl_FragCoord.xy / RENDERSIZE);"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	// Must not touch longer identifiers.
	same := "vec2 uv = isf_FragNormCoordX;"
	if got := replaceFragNormCoord().Apply(same); got != same {
		t.Errorf("rewrote inside identifier: %q", got)
	}
}

// =============================================================================
// Fragment Adaptation Tests
// =============================================================================

var testParams = []kode.Parameter{
	{Kind: kode.ParamClock, VariableName: "TIME"},
	{Kind: kode.ParamFrameResolution, VariableName: "RENDERSIZE"},
	{Kind: kode.ParamFloat1, VariableName: "level"},
	{Kind: kode.ParamTexture2D, VariableName: "inputImage"},
}

const isfFragment = `void main() {
	vec4 c = IMG_THIS_PIXEL(inputImage);
	gl_FragColor = c * level * sin(TIME);
}`

func TestAdaptFragment_GL3(t *testing.T) {
	got := AdaptFragment(isfFragment, Options{Params: testParams, PassIndex: -1})

	for _, want := range []string{
		"#version 150",
		"uniform float TIME;",
		"uniform vec2 RENDERSIZE;",
		"uniform float level;",
		"uniform sampler2D inputImage;",
		"out vec4 fragColor;",
		"texture(inputImage, gl_FragCoord.xy / RENDERSIZE)",
		"fragColor = c * level * sin(TIME);",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "gl_FragColor") {
		t.Errorf("gl_FragColor survived GL3 adaptation:\n%s", got)
	}
	if strings.Contains(got, "PASSINDEX") {
		t.Errorf("single-pass shader must not declare PASSINDEX:\n%s", got)
	}
}

func TestAdaptFragment_GL2(t *testing.T) {
	got := AdaptFragment(isfFragment, Options{
		Profile:   kode.ProfileGL2,
		Params:    testParams,
		PassIndex: -1,
	})

	if !strings.Contains(got, "#version 120") {
		t.Errorf("missing GL2 version directive:\n%s", got)
	}
	if !strings.Contains(got, "texture2D(inputImage,") {
		t.Errorf("GL2 must sample with texture2D:\n%s", got)
	}
	if !strings.Contains(got, "gl_FragColor") {
		t.Errorf("GL2 keeps gl_FragColor:\n%s", got)
	}
	if strings.Contains(got, "out vec4 fragColor;") {
		t.Errorf("GL2 must not declare a fragment output:\n%s", got)
	}
}

func TestAdaptFragment_ES3(t *testing.T) {
	got := AdaptFragment(isfFragment, Options{
		Profile:   kode.ProfileES3,
		Params:    testParams,
		PassIndex: -1,
	})

	if !strings.Contains(got, "#version 300 es") {
		t.Errorf("missing ES3 version directive:\n%s", got)
	}
	if !strings.Contains(got, "precision highp float;") {
		t.Errorf("missing ES3 precision default:\n%s", got)
	}
}

func TestAdaptFragment_PassIndex(t *testing.T) {
	got := AdaptFragment(isfFragment, Options{Params: testParams, PassIndex: 2})
	if !strings.Contains(got, "const int PASSINDEX = 2;") {
		t.Errorf("missing PASSINDEX declaration:\n%s", got)
	}
}

func TestAdaptFragment_KeepsExistingVersion(t *testing.T) {
	in := "#version 330\nvoid main() { gl_FragColor = vec4(1.0); }"
	got := AdaptFragment(in, Options{PassIndex: -1})
	if strings.Contains(got, "#version 150") {
		t.Errorf("must not add a second version directive:\n%s", got)
	}
	if !strings.HasPrefix(got, "#version 330") {
		t.Errorf("existing directive must stay first:\n%s", got)
	}
}

func TestAdaptFragment_Idempotent(t *testing.T) {
	opts := Options{Params: testParams, PassIndex: 1}
	once := AdaptFragment(isfFragment, opts)
	twice := AdaptFragment(once, opts)
	if once != twice {
		t.Errorf("adaptation is not idempotent:\n--- once ---\n%s\n--- twice ---\n%s", once, twice)
	}
}

func TestAdaptFragment_VaryingBecomesIn(t *testing.T) {
	in := "varying vec2 coord;\nvoid main() { gl_FragColor = vec4(coord, 0.0, 1.0); }"
	got := AdaptFragment(in, Options{PassIndex: -1})
	if !strings.Contains(got, "in vec2 coord;") {
		t.Errorf("varying not rewritten:\n%s", got)
	}
}

// =============================================================================
// Uniform Synthesis Tests
// =============================================================================

func TestUniformDeclarations(t *testing.T) {
	got := UniformDeclarations(testParams)
	want := "uniform float TIME;\nuniform vec2 RENDERSIZE;\nuniform float level;\nuniform sampler2D inputImage;"
	if got != want {
		t.Errorf("UniformDeclarations() = %q, want %q", got, want)
	}
}

func TestUniformDeclarations_SkipsUnknownKinds(t *testing.T) {
	params := []kode.Parameter{
		{Kind: kode.ParamMVP, VariableName: "mvp"},
		{Kind: kode.ParamKind("BOGUS"), VariableName: "x"},
	}
	got := UniformDeclarations(params)
	if got != "uniform mat4 mvp;" {
		t.Errorf("UniformDeclarations() = %q", got)
	}
}

func TestMissingUniformDeclarations(t *testing.T) {
	code := "uniform float TIME;\nvoid main() {}"
	got := missingUniformDeclarations(code, testParams)
	if strings.Contains(got, "uniform float TIME;") {
		t.Errorf("re-declared an existing uniform: %q", got)
	}
	if !strings.Contains(got, "uniform vec2 RENDERSIZE;") {
		t.Errorf("missing declaration not synthesized: %q", got)
	}
}
