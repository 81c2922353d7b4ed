// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strings"

	"github.com/gogpu/klproj/kode"
)

// glslTypes is the closed mapping from parameter kinds to GLSL uniform
// types. Kinds absent from the table get no declaration (textures bound by
// other means, unsupported kinds). The table is part of the output
// compatibility contract; do not change entries without a format version
// bump.
var glslTypes = map[kode.ParamKind]string{
	kode.ParamClock:              "float",
	kode.ParamFrameDelta:         "float",
	kode.ParamFrameNumber:        "float",
	kode.ParamAudioSampleRate:    "float",
	kode.ParamFrameResolution:    "vec2",
	kode.ParamMouseSimple:        "vec4",
	kode.ParamDate:               "vec4",
	kode.ParamFloat1:             "float",
	kode.ParamFloat2:             "vec2",
	kode.ParamFloat3:             "vec3",
	kode.ParamFloat4:             "vec4",
	kode.ParamTexture2D:          "sampler2D",
	kode.ParamPrevFrame:          "sampler2D",
	kode.ParamPrevPass:           "sampler2D",
	kode.ParamAudioSpectrumFull:  "sampler2D",
	kode.ParamAudioSpectrumSplit: "sampler2D",
	kode.ParamMVP:                "mat4",
}

// UniformType returns the GLSL type a parameter kind declares as, if any.
func UniformType(kind kode.ParamKind) (string, bool) {
	t, ok := glslTypes[kind]
	return t, ok
}

// UniformDeclarations renders one uniform declaration per parameter whose
// kind maps to a GLSL type, in parameter order.
func UniformDeclarations(params []kode.Parameter) string {
	var decls []string
	for _, p := range params {
		if t, ok := glslTypes[p.Kind]; ok {
			decls = append(decls, "uniform "+t+" "+p.VariableName+";")
		}
	}
	return strings.Join(decls, "\n")
}

// missingUniformDeclarations renders declarations only for parameters the
// code does not already declare, keeping adaptation idempotent.
func missingUniformDeclarations(code string, params []kode.Parameter) string {
	var decls []string
	for _, p := range params {
		t, ok := glslTypes[p.Kind]
		if !ok {
			continue
		}
		decl := "uniform " + t + " " + p.VariableName + ";"
		if strings.Contains(code, decl) {
			continue
		}
		decls = append(decls, decl)
	}
	return strings.Join(decls, "\n")
}
