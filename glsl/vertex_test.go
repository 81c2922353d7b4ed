// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"
	"testing"

	"github.com/gogpu/klproj/kode"
)

func TestDefaultVertexShader(t *testing.T) {
	tests := []struct {
		profile kode.Profile
		wants   []string
	}{
		{
			profile: kode.ProfileGL3,
			wants:   []string{"#version 150", "in vec4 a_position;", "uniform mat4 mvp;", "gl_Position = mvp * a_position;"},
		},
		{
			profile: kode.ProfileGL2,
			wants:   []string{"#version 120", "attribute vec4 a_position;"},
		},
		{
			profile: kode.ProfileES3,
			wants:   []string{"#version 300 es", "in vec4 a_position;"},
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.profile), func(t *testing.T) {
			got := DefaultVertexShader(tt.profile)
			for _, want := range tt.wants {
				if !strings.Contains(got, want) {
					t.Errorf("missing %q:\n%s", want, got)
				}
			}
		})
	}
}

func TestAdaptVertex_RemovesInitAndSynthesizesPosition(t *testing.T) {
	in := `void main() {
	isf_vertShaderInit();
}`
	got := AdaptVertex(in, Options{})

	if strings.Contains(got, "isf_vertShaderInit") {
		t.Errorf("initializer call survived:\n%s", got)
	}
	for _, want := range []string{
		"#version 150",
		"in vec4 a_position;",
		"uniform mat4 mvp;",
		"gl_Position = mvp * a_position;",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("missing %q:\n%s", want, got)
		}
	}
}

func TestAdaptVertex_KeepsExistingPosition(t *testing.T) {
	in := `void main() {
	gl_Position = vec4(0.0);
}`
	got := AdaptVertex(in, Options{})
	if strings.Count(got, "gl_Position") != 1 {
		t.Errorf("position assignment duplicated:\n%s", got)
	}
}

func TestAdaptVertex_NormCoord(t *testing.T) {
	in := `varying vec2 coord;
void main() {
	isf_vertShaderInit();
	coord = isf_FragNormCoord;
}`
	got := AdaptVertex(in, Options{})

	if !strings.Contains(got, "out vec2 coord;") {
		t.Errorf("varying must become out:\n%s", got)
	}
	if !strings.Contains(got, "coord = ((a_position.xy + 1.0) * 0.5);") {
		t.Errorf("norm coord not expanded:\n%s", got)
	}
}

func TestAdaptVertex_NormCoordStillDeclaresPosition(t *testing.T) {
	// The expanded norm coordinate references a_position; the attribute
	// declaration must still be synthesized.
	in := `varying vec2 texCoord;
void main() {
	isf_vertShaderInit();
	texCoord = isf_FragNormCoord;
}`
	got := AdaptVertex(in, Options{})

	if !strings.Contains(got, "in vec4 a_position;") {
		t.Errorf("a_position declaration missing:\n%s", got)
	}
	if !strings.Contains(got, "((a_position.xy + 1.0) * 0.5)") {
		t.Errorf("norm coord not expanded:\n%s", got)
	}

	again := AdaptVertex(got, Options{})
	if strings.Count(again, "in vec4 a_position;") != 1 {
		t.Errorf("declaration duplicated on re-adaptation:\n%s", again)
	}
}

func TestAdaptVertex_GL2KeepsVarying(t *testing.T) {
	in := `varying vec2 coord;
void main() {
	coord = vec2(0.0);
}`
	got := AdaptVertex(in, Options{Profile: kode.ProfileGL2})
	if !strings.Contains(got, "varying vec2 coord;") {
		t.Errorf("GL2 varying must survive:\n%s", got)
	}
}

func TestAdaptVertex_UniformsForParams(t *testing.T) {
	params := []kode.Parameter{
		{Kind: kode.ParamClock, VariableName: "TIME"},
	}
	in := `void main() {
	gl_Position = vec4(sin(TIME));
}`
	got := AdaptVertex(in, Options{Params: params})
	if !strings.Contains(got, "uniform float TIME;") {
		t.Errorf("uniform declaration missing:\n%s", got)
	}
}

func TestAdaptVertex_NoMainAnchor(t *testing.T) {
	in := "float helper() { return 1.0; }"
	got := AdaptVertex(in, Options{})
	if strings.Contains(got, "gl_Position") {
		t.Errorf("must not inject position without a main anchor:\n%s", got)
	}
}
