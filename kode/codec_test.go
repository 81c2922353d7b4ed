// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Float Formatting Tests
// =============================================================================

func TestPyFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{-1, "-1.0"},
		{540, "540.0"},
		{0.5, "0.5"},
		{6.28319, "6.28319"},
		{1920, "1920.0"},
	}
	for _, tt := range tests {
		if got := pyFloat(tt.in); got != tt.want {
			t.Errorf("pyFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTrimFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{-1, "-1"},
		{0.01, "0.01"},
		{0.5, "0.5"},
	}
	for _, tt := range tests {
		if got := trimFloat(tt.in); got != tt.want {
			t.Errorf("trimFloat(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// =============================================================================
// Document Rendering Tests
// =============================================================================

func testProject() *Project {
	p := NewProject(ProfileGL3)
	p.SetResolution(1280, 720)
	p.Properties.Comment = "test shader"
	p.Properties.Author = "ISF v1.0"

	p.AddParam(Parameter{
		Kind:         ParamClock,
		DisplayName:  "Time",
		VariableName: "TIME",
		UIExpanded:   1,
		Props: []Property{
			{"running", 1},
			{"speed", 1.0},
			{"direction", 1},
		},
	})
	p.AddParam(Parameter{
		Kind:         ParamFloat2,
		DisplayName:  "Center",
		VariableName: "center",
		Props: []Property{
			{"value", Vec2{0.5, 0.5}},
			{"min", Vec2{0, 0}},
			{"max", Vec2{1, 1}},
		},
	})

	p.AddPass(RenderPass{
		Kind:          PassRender,
		Label:         "Main",
		Enabled:       1,
		PrimitiveType: "TRIANGLES",
		Width:         1280,
		Height:        720,
		Stages: []ShaderStage{
			{
				Kind:    StageVertex,
				Enabled: 1,
				Hidden:  1,
				Body: EmbeddedBody{Sources: []ShaderSource{
					{Profile: ProfileGL3, Code: "#version 150\nvoid main() {}\n"},
				}},
				Params: []Parameter{MVPParam()},
			},
			{
				Kind:    StageFragment,
				Enabled: 1,
				Body: EmbeddedBody{Sources: []ShaderSource{
					{Profile: ProfileGL3, Code: "#version 150\nout vec4 fragColor;\nvoid main() { fragColor = vec4(1.0); }\n"},
				}},
			},
		},
	})
	return p
}

func TestEncodeXML_Structure(t *testing.T) {
	xml, err := EncodeXML(testProject())
	require.NoError(t, err)

	s := string(xml)
	assert.True(t, strings.HasPrefix(s, "<?xml version='1.0' encoding='UTF-8'?>"),
		"declaration missing or wrong: %.60s", s)
	assert.Contains(t, s, `<klxml v="19" a="GL3">`)
	assert.Contains(t, s, "<document>")
	assert.Contains(t, s, "<creator>net.hexler.KodeLife</creator>")
	assert.Contains(t, s, "<comment>test shader</comment>")
	assert.Contains(t, s, `<param type="CLOCK">`)
	assert.Contains(t, s, "<speed>1.0</speed>", "float props keep a trailing .0")
	assert.Contains(t, s, "<running>1</running>", "int props have no decimal point")
	assert.Contains(t, s, `<pass type="RENDER">`)
	assert.Contains(t, s, `<stage type="FRAGMENT">`)
	assert.Contains(t, s, `<source profile="GL3">`)
	assert.NotContains(t, s, "\n  <", "document must not be indented")
}

func TestEncodeXML_Deterministic(t *testing.T) {
	first, err := EncodeXML(testProject())
	require.NoError(t, err)
	second, err := EncodeXML(testProject())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

// =============================================================================
// Round Trip Tests
// =============================================================================

func TestEncodeDecode_RoundTrip(t *testing.T) {
	original := testProject()

	data, err := Encode(original)
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)

	assert.Equal(t, original.Version, decoded.Version)
	assert.Equal(t, original.API, decoded.API)
	assert.Equal(t, original.Properties.Width, decoded.Properties.Width)
	assert.Equal(t, original.Properties.Height, decoded.Properties.Height)
	assert.Equal(t, original.Properties.Comment, decoded.Properties.Comment)
	assert.Equal(t, original.Properties.Author, decoded.Properties.Author)

	require.Len(t, decoded.Params, 2)
	clock := decoded.Params[0]
	assert.Equal(t, ParamClock, clock.Kind)
	assert.Equal(t, "TIME", clock.VariableName)
	assert.Equal(t, 1, clock.UIExpanded)
	speed, ok := clock.Prop("speed")
	require.True(t, ok)
	assert.Equal(t, 1.0, speed)
	running, ok := clock.Prop("running")
	require.True(t, ok)
	assert.Equal(t, 1, running)

	center := decoded.Params[1]
	value, ok := center.Prop("value")
	require.True(t, ok)
	assert.Equal(t, Vec2{0.5, 0.5}, value)

	require.Len(t, decoded.Passes, 1)
	pass := decoded.Passes[0]
	assert.Equal(t, "Main", pass.Label)
	assert.Equal(t, "TRIANGLES", pass.PrimitiveType)
	assert.Equal(t, 1280, pass.Width)
	assert.Equal(t, 720, pass.Height)

	require.Len(t, pass.Stages, 2)
	frag := pass.Stages[1]
	assert.Equal(t, StageFragment, frag.Kind)
	src, ok := frag.Source(ProfileGL3)
	require.True(t, ok)
	assert.Contains(t, src.Code, "fragColor")
}

func TestEncodeDecode_WatchedStage(t *testing.T) {
	p := NewProject(ProfileGL3)
	p.AddPass(RenderPass{
		Kind:    PassRender,
		Label:   "watched",
		Enabled: 1,
		Stages: []ShaderStage{
			{Kind: StageFragment, Enabled: 1, Body: WatchedBody{Path: "/tmp/shader.frag"}},
		},
	})

	data, err := Encode(p)
	require.NoError(t, err)
	decoded, err := Decode(data)
	require.NoError(t, err)

	require.Len(t, decoded.Passes, 1)
	require.Len(t, decoded.Passes[0].Stages, 1)
	body, ok := decoded.Passes[0].Stages[0].Body.(WatchedBody)
	require.True(t, ok, "stage body = %T, want WatchedBody", decoded.Passes[0].Stages[0].Body)
	assert.Equal(t, "/tmp/shader.frag", body.Path)
}

func TestDecode_NotZlib(t *testing.T) {
	_, err := Decode([]byte("not a container"))
	assert.Error(t, err)
}

func TestDecodeXML_WrongRoot(t *testing.T) {
	_, err := DecodeXML([]byte(`<?xml version='1.0'?><wrong/>`))
	assert.Error(t, err)
}

// =============================================================================
// Parameter Preset Tests
// =============================================================================

func TestMVPParam(t *testing.T) {
	p := MVPParam()
	assert.Equal(t, ParamMVP, p.Kind)
	assert.Equal(t, "mvp", p.VariableName)
}

func TestMouseParam_NestedProps(t *testing.T) {
	p := MouseParam("iMouse", true, true)
	assert.Equal(t, ParamMouseSimple, p.Kind)

	invert, ok := p.Prop("invert")
	require.True(t, ok)
	props, ok := invert.([]Property)
	require.True(t, ok, "invert = %T, want []Property", invert)
	assert.NotEmpty(t, props)
}

func TestShadertoyParams(t *testing.T) {
	params := ShadertoyParams()
	require.Len(t, params, 7)

	names := make(map[string]ParamKind, len(params))
	for _, p := range params {
		names[p.VariableName] = p.Kind
	}
	assert.Equal(t, ParamFrameResolution, names["iResolution"])
	assert.Equal(t, ParamClock, names["iTime"])
	assert.Equal(t, ParamMouseSimple, names["iMouse"])
	assert.Equal(t, ParamAudioSampleRate, names["iSampleRate"])
}

func TestClockParam(t *testing.T) {
	p := ClockParam("iTime", 2.0)
	assert.Equal(t, ParamClock, p.Kind)
	speed, ok := p.Prop("speed")
	require.True(t, ok)
	assert.Equal(t, 2.0, speed)
}

func TestResolutionParam(t *testing.T) {
	p := ResolutionParam("iResolution")
	assert.Equal(t, ParamFrameResolution, p.Kind)
	assert.Equal(t, "iResolution", p.VariableName)
}

func TestProject_Param(t *testing.T) {
	p := testProject()
	assert.NotNil(t, p.Param("TIME"))
	assert.Nil(t, p.Param("nope"))
}
