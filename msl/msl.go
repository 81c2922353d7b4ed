// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package msl

import (
	"fmt"
	"strings"

	"github.com/gogpu/klproj/kode"
)

// mslTypes maps parameter kinds to MSL uniform-struct member types.
// Texture2D is absent: textures bind as fragment function arguments, not
// buffer members.
var mslTypes = map[kode.ParamKind]string{
	kode.ParamClock:              "float",
	kode.ParamFrameDelta:         "float",
	kode.ParamFrameNumber:        "int",
	kode.ParamFrameResolution:    "float2",
	kode.ParamMouseSimple:        "float4",
	kode.ParamDate:               "float4",
	kode.ParamAudioSampleRate:    "float",
	kode.ParamAudioSpectrumSplit: "float3",
	kode.ParamAudioSpectrumFull:  "float",
	kode.ParamMVP:                "float4x4",
	kode.ParamFloat1:             "float",
	kode.ParamFloat2:             "float2",
	kode.ParamFloat3:             "float3",
	kode.ParamFloat4:             "float4",
}

// UniformType returns the MSL type a parameter kind occupies in the uniform
// buffer, if any.
func UniformType(kind kode.ParamKind) (string, bool) {
	t, ok := mslTypes[kind]
	return t, ok
}

// uniformStruct renders the members of a uniform buffer struct, one per
// parameter with a known MSL type.
func uniformStruct(params []kode.Parameter) string {
	var members []string
	for _, p := range params {
		if t, ok := mslTypes[p.Kind]; ok {
			members = append(members, "    "+t+" "+p.VariableName+";")
		}
	}
	if len(members) == 0 {
		return "    // No uniforms"
	}
	return strings.Join(members, "\n")
}

// VertexShader generates the standard Metal vertex stage: a passthrough of
// position, normal and texcoord attributes transformed by the mvp member of
// the uniform buffer.
func VertexShader(params []kode.Parameter) string {
	return fmt.Sprintf(`#include <metal_stdlib>
using namespace metal;

struct VS_INPUT
{
    float4 a_position [[attribute(0)]];
    float3 a_normal   [[attribute(1)]];
    float2 a_texcoord [[attribute(2)]];
};

struct VS_OUTPUT
{
    float4 v_position [[position]];
    float3 v_normal;
    float2 v_texcoord;
};

struct VS_UNIFORM
{
%s
};

vertex
VS_OUTPUT vs_main(
    VS_INPUT input [[stage_in]],
    constant VS_UNIFORM& u [[buffer(16)]])
{
    VS_OUTPUT out;
    out.v_position = u.mvp * input.a_position;
    out.v_normal   = input.a_normal;
    out.v_texcoord = input.a_texcoord;
    return out;
}
`, uniformStruct(params))
}

// defaultBody is the fragment body used when the caller supplies none.
const defaultBody = `float2 uv = fragCoord.xy / iResolution.xy;
    fragColor = float4(uv,0.5+0.5*sin(iTime),1.0);`

// FragmentShaderShadertoy generates a Metal fragment stage wrapping a
// Shadertoy-style mainImage function. Uniform buffer members are spread into
// mainImage arguments; textures bind as [[texture(i)]] arguments in
// declaration order. body is the mainImage body; when empty a placeholder
// gradient is used.
func FragmentShaderShadertoy(params, textures []kode.Parameter, body string) string {
	if body == "" {
		body = defaultBody
	}

	var sigParams, callArgs []string
	for _, p := range params {
		if t, ok := mslTypes[p.Kind]; ok {
			sigParams = append(sigParams, t+" "+p.VariableName)
			callArgs = append(callArgs, "u."+p.VariableName)
		}
	}
	signature := ""
	if len(sigParams) > 0 {
		signature = ",\n               " + strings.Join(sigParams, ", ")
	}
	args := ""
	if len(callArgs) > 0 {
		args = ", " + strings.Join(callArgs, ", ")
	}

	var texParams, texArgs, texBindings []string
	for i, p := range textures {
		texParams = append(texParams, "texture2d<float> "+p.VariableName)
		texArgs = append(texArgs, p.VariableName)
		texBindings = append(texBindings, fmt.Sprintf("    texture2d<float> %s [[texture(%d)]]", p.VariableName, i))
	}
	texSignature := ""
	texCallArgs := ""
	if len(texParams) > 0 {
		texSignature = ",\n               " + strings.Join(texParams, ", ")
		texCallArgs = ",\n              " + strings.Join(texArgs, ", ")
	}
	bindings := ""
	if len(texBindings) > 0 {
		bindings = ",\n    " + strings.Join(texBindings, ",\n    ")
	}

	return fmt.Sprintf(`#include <metal_stdlib>
using namespace metal;

struct FS_INPUT
{
    float3 v_normal;
    float2 v_texcoord;
};

struct FS_UNIFORM
{
%s
};

void mainImage(thread float4&, float2%s%s);

fragment
float4 fs_main(
    FS_INPUT In [[stage_in]],
    constant FS_UNIFORM& u[[buffer(16)]]%s)
{
    float4 col;
    mainImage(col, In.v_texcoord * u.iResolution%s%s);
    return col;
}

////////////////////////////////////////////////////////////////////////////////
////////////////////////////////////////////////////////////////////////////////

void mainImage(thread float4& fragColor, float2 fragCoord%s%s)
{
    %s
}
`, uniformStruct(params), signature, texSignature, bindings, args, texCallArgs, signature, texSignature, body)
}

// ComputeOutput names a write-access output texture and its binding slot.
type ComputeOutput struct {
	Name    string
	Binding int
}

// ComputeShader generates a Metal compute stage skeleton with the uniform
// buffer at slot 16 and the given output textures.
func ComputeShader(params []kode.Parameter, outputs []ComputeOutput) string {
	var texDecls []string
	for _, out := range outputs {
		texDecls = append(texDecls,
			fmt.Sprintf("    texture2d<float, access::write> %s [[texture(%d)]]", out.Name, out.Binding))
	}
	textures := ""
	if len(texDecls) > 0 {
		textures = ",\n" + strings.Join(texDecls, ",\n")
	}

	return fmt.Sprintf(`#include <metal_stdlib>
#include <simd/simd.h>

using namespace metal;

struct CS_UNIFORM
{
%s
};

kernel void cs_main(
    constant CS_UNIFORM& uniform [[buffer(16)]],
    uint3 globalInvocationID [[thread_position_in_grid]]%s)
{
    // Compute shader body
}
`, uniformStruct(params), textures)
}

// SamplerBindings renders the sampler declarations a Metal fragment function
// needs alongside its textures, one [[sampler(i)]] per texture parameter.
func SamplerBindings(textures []kode.Parameter) []string {
	var samplers []string
	for i, p := range textures {
		samplers = append(samplers, fmt.Sprintf("sampler %sSmplr [[sampler(%d)]]", p.VariableName, i))
	}
	return samplers
}

// VertexSource wraps VertexShader output as a Metal-profile ShaderSource.
func VertexSource(params []kode.Parameter) kode.ShaderSource {
	return kode.ShaderSource{Profile: kode.ProfileMTL, Code: VertexShader(params)}
}

// FragmentSourceShadertoy wraps FragmentShaderShadertoy output as a
// Metal-profile ShaderSource.
func FragmentSourceShadertoy(params, textures []kode.Parameter, body string) kode.ShaderSource {
	return kode.ShaderSource{Profile: kode.ProfileMTL, Code: FragmentShaderShadertoy(params, textures, body)}
}
