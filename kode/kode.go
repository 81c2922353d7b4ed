// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package kode

// Profile identifies a shader language/API variant a source is written for.
type Profile string

// Shader profiles supported by KodeLife.
const (
	ProfileDX9    Profile = "DX9"
	ProfileES3    Profile = "ES3"
	ProfileES3300 Profile = "ES3-300"
	ProfileES3310 Profile = "ES3-310"
	ProfileES3320 Profile = "ES3-320"
	ProfileGL2    Profile = "GL2"
	ProfileGL3    Profile = "GL3"
	ProfileMTL    Profile = "MTL"
)

// StageKind identifies a pipeline stage.
type StageKind string

// Pipeline stages.
const (
	StageVertex      StageKind = "VERTEX"
	StageTessControl StageKind = "TESS_CONTROL"
	StageTessEval    StageKind = "TESS_EVAL"
	StageGeometry    StageKind = "GEOMETRY"
	StageFragment    StageKind = "FRAGMENT"
	StageCompute     StageKind = "COMPUTE"
)

// PassKind distinguishes graphics from compute passes.
type PassKind string

const (
	PassRender  PassKind = "RENDER"
	PassCompute PassKind = "COMPUTE"
)

// ParamKind tags what a uniform Parameter carries. The values are the type
// attributes written into the container.
type ParamKind string

const (
	// Time and frame counters.
	ParamClock       ParamKind = "CLOCK"
	ParamFrameDelta  ParamKind = "FRAME_DELTA"
	ParamFrameNumber ParamKind = "FRAME_NUMBER"
	ParamDate        ParamKind = "DATE"

	// Resolution and pointer input.
	ParamFrameResolution ParamKind = "FRAME_RESOLUTION"
	ParamMouseSimple     ParamKind = "INPUT_MOUSE_SIMPLE"

	// Audio.
	ParamAudioSampleRate    ParamKind = "AUDIO_SAMPLE_RATE"
	ParamAudioSpectrumFull  ParamKind = "AUDIO_SPECTRUM_FULL"
	ParamAudioSpectrumSplit ParamKind = "AUDIO_SPECTRUM_SPLIT"

	// User constants.
	ParamFloat1    ParamKind = "CONSTANT_FLOAT1"
	ParamFloat2    ParamKind = "CONSTANT_FLOAT2"
	ParamFloat3    ParamKind = "CONSTANT_FLOAT3"
	ParamFloat4    ParamKind = "CONSTANT_FLOAT4"
	ParamTexture2D ParamKind = "CONSTANT_TEXTURE_2D"

	// Frame buffers. PrevPass backs persistent multi-pass buffers so they
	// carry last frame's contents forward (feedback).
	ParamPrevFrame ParamKind = "FRAME_PREV_FRAME"
	ParamPrevPass  ParamKind = "FRAME_PREV_PASS"

	// Transforms.
	ParamMVP ParamKind = "TRANSFORM_MVP"
)

// Vec2 is a 2-component vector property value.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a 3-component vector property value.
type Vec3 struct {
	X, Y, Z float64
}

// Vec4 is a 4-component vector property value.
type Vec4 struct {
	X, Y, Z, W float64
}

// Property is one entry of a Parameter's open property bag. Value may be an
// int, a float64, a string, a Vec2/Vec3/Vec4, or a nested []Property.
// Properties keep their declaration order; the container format is
// order-sensitive.
type Property struct {
	Name  string
	Value any
}

// Parameter describes one uniform exposed to shader code. Parameters are
// value objects; compare them by content.
type Parameter struct {
	Kind ParamKind

	// DisplayName is the label shown in the host UI.
	DisplayName string

	// VariableName is used verbatim in generated uniform declarations and
	// must be a valid shader identifier.
	VariableName string

	UIExpanded int
	Props      []Property
}

// Prop returns the named property value and whether it is present.
func (p *Parameter) Prop(name string) (any, bool) {
	for _, pr := range p.Props {
		if pr.Name == name {
			return pr.Value, true
		}
	}
	return nil, false
}

// SetProp sets or replaces a property, preserving the position of an
// existing entry.
func (p *Parameter) SetProp(name string, value any) {
	for i := range p.Props {
		if p.Props[i].Name == name {
			p.Props[i].Value = value
			return
		}
	}
	p.Props = append(p.Props, Property{Name: name, Value: value})
}

// ShaderSource is shader code for a specific profile. A stage holds at most
// one source per profile.
type ShaderSource struct {
	Profile Profile
	Code    string
}

// StageBody is what a stage executes: either embedded per-profile sources or
// an external file loaded and live-reloaded by the host. The two are
// mutually exclusive by construction.
type StageBody interface {
	stageBody()
}

// EmbeddedBody holds shader sources inline in the project.
type EmbeddedBody struct {
	Sources []ShaderSource
}

func (EmbeddedBody) stageBody() {}

// WatchedBody points the stage at an external file the host watches for
// changes.
type WatchedBody struct {
	Path string
}

func (WatchedBody) stageBody() {}

// ShaderStage is one pipeline stage of a pass.
type ShaderStage struct {
	Kind    StageKind
	Enabled int
	Hidden  int
	Body    StageBody
	Params  []Parameter
}

// Sources returns the embedded sources, or nil for a watched stage.
func (s *ShaderStage) Sources() []ShaderSource {
	if b, ok := s.Body.(EmbeddedBody); ok {
		return b.Sources
	}
	return nil
}

// Source returns the stage's code for a profile, if present.
func (s *ShaderStage) Source(profile Profile) (ShaderSource, bool) {
	for _, src := range s.Sources() {
		if src.Profile == profile {
			return src, true
		}
	}
	return ShaderSource{}, false
}

// RenderPass is a single render or compute operation. Passes run in the
// order they appear in the project.
type RenderPass struct {
	Kind          PassKind
	Label         string
	Enabled       int
	PrimitiveType string

	// Width and Height are the resolved render-target dimensions in pixels.
	Width  int
	Height int

	Stages []ShaderStage
	Params []Parameter
}

// Properties are the project-global settings block.
type Properties struct {
	Creator        string
	CreatorVersion string
	VersionMajor   int
	VersionMinor   int
	VersionPatch   int
	Author         string
	Comment        string
	Enabled        int
	Width          int
	Height         int
	Format         string
	ClearColor     Vec4
	AudioSource    int
	AudioFilePath  string
}

// DefaultProperties returns the settings KodeLife writes for a fresh
// project.
func DefaultProperties() Properties {
	return Properties{
		Creator:        "net.hexler.KodeLife",
		CreatorVersion: "1.2.3.202",
		VersionMajor:   1,
		VersionMinor:   1,
		VersionPatch:   1,
		Enabled:        1,
		Width:          1920,
		Height:         1080,
		Format:         "RGBA32F",
		ClearColor:     Vec4{0, 0, 0, 1},
	}
}

// FormatVersion is the klxml container version this package writes.
const FormatVersion = 19

// Project is a complete KodeLife document.
type Project struct {
	// Version is the container format version (FormatVersion for new
	// projects).
	Version int

	// API is the default graphics API profile, e.g. ProfileGL3.
	API Profile

	Properties Properties
	Params     []Parameter
	Passes     []RenderPass
}

// NewProject returns an empty project targeting the given API with default
// properties.
func NewProject(api Profile) *Project {
	return &Project{
		Version:    FormatVersion,
		API:        api,
		Properties: DefaultProperties(),
	}
}

// SetResolution sets the project's output dimensions.
func (p *Project) SetResolution(width, height int) {
	p.Properties.Width = width
	p.Properties.Height = height
}

// AddParam appends a global parameter, available to every pass.
func (p *Project) AddParam(param Parameter) {
	p.Params = append(p.Params, param)
}

// AddPass appends a render pass.
func (p *Project) AddPass(pass RenderPass) {
	p.Passes = append(p.Passes, pass)
}

// Param returns the global parameter with the given variable name, or nil.
func (p *Project) Param(variableName string) *Parameter {
	for i := range p.Params {
		if p.Params[i].VariableName == variableName {
			return &p.Params[i]
		}
	}
	return nil
}
