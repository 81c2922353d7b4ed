// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"fmt"

	"github.com/gogpu/klproj/glsl"
	"github.com/gogpu/klproj/isf"
	"github.com/gogpu/klproj/kode"
)

// Options configure one conversion.
type Options struct {
	// Profile is the target GLSL dialect. Zero value targets GL3.
	Profile kode.Profile

	// Width and Height are the project output dimensions. Zero values take
	// the host defaults (1920x1080).
	Width  int
	Height int

	// VertexSource, when non-empty, is a custom ISF vertex shader body that
	// replaces the generated passthrough vertex stage. It goes through the
	// same adaptation as the fragment body.
	VertexSource string
}

// Convert assembles a KodeLife project from a parsed ISF shader.
//
// The returned warnings describe recoverable problems where a documented
// fallback was applied; the project is valid either way. An error is returned
// only when the target profile cannot host adapted GLSL at all.
func Convert(shader *isf.Shader, opts Options) (*kode.Project, []Warning, error) {
	if opts.Profile == kode.ProfileMTL {
		return nil, nil, fmt.Errorf("convert: profile %s requires hand-written Metal sources", opts.Profile)
	}
	if opts.Profile == "" {
		opts.Profile = kode.ProfileGL3
	}

	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = kode.DefaultProperties().Width
	}
	if height <= 0 {
		height = kode.DefaultProperties().Height
	}

	project := kode.NewProject(opts.Profile)
	project.SetResolution(width, height)
	if shader.Description != "" {
		project.Properties.Comment = shader.Description
	}
	if shader.Vsn != "" {
		project.Properties.Author = "ISF v" + shader.Vsn
	}

	// Standard ISF globals first, then the declared inputs, in order.
	globals := standardParams()
	for _, in := range shader.Inputs {
		if p, ok := MapInput(in); ok {
			globals = append(globals, p)
		}
	}
	for _, p := range globals {
		project.AddParam(p)
	}

	plans, warnings := Resolve(shader.Passes, width, height)

	if len(shader.Passes) > 0 {
		for i, pass := range shader.Passes {
			plan := plans[i]
			passParams := append(append([]kode.Parameter{}, globals...), plan.Buffers...)

			label := pass.Description
			if label == "" {
				label = pass.Name
			}
			if label == "" {
				label = fmt.Sprintf("Pass %d", i+1)
			}
			if pass.Target != "" {
				label = label + " → " + pass.Target
			}

			p := kode.RenderPass{
				Kind:          kode.PassRender,
				Label:         label,
				Enabled:       1,
				PrimitiveType: "TRIANGLES",
				Width:         plan.Width,
				Height:        plan.Height,
				Stages: []kode.ShaderStage{
					vertexStage(passParams, opts),
					fragmentStage(shader.Body, passParams, i, opts),
				},
				Params: plan.Buffers,
			}
			project.AddPass(p)
		}
		return project, warnings, nil
	}

	label := singlePassLabel(shader)
	project.AddPass(kode.RenderPass{
		Kind:          kode.PassRender,
		Label:         label,
		Enabled:       1,
		PrimitiveType: "TRIANGLES",
		Width:         width,
		Height:        height,
		Stages: []kode.ShaderStage{
			vertexStage(globals, opts),
			fragmentStage(shader.Body, globals, -1, opts),
		},
	})
	return project, warnings, nil
}

// standardParams are the uniforms every ISF shader can reference without
// declaring them: TIME, RENDERSIZE, DATE, TIMEDELTA and FRAMEINDEX.
func standardParams() []kode.Parameter {
	return []kode.Parameter{
		{
			Kind:         kode.ParamClock,
			DisplayName:  "Time",
			VariableName: "TIME",
			UIExpanded:   1,
			Props: []kode.Property{
				{Name: "running", Value: 1},
				{Name: "speed", Value: 1.0},
				{Name: "direction", Value: 1},
			},
		},
		{
			Kind:         kode.ParamFrameResolution,
			DisplayName:  "Render Size",
			VariableName: "RENDERSIZE",
			UIExpanded:   1,
		},
		{
			Kind:         kode.ParamDate,
			DisplayName:  "Date",
			VariableName: "DATE",
		},
		{
			Kind:         kode.ParamFrameDelta,
			DisplayName:  "Time Delta",
			VariableName: "TIMEDELTA",
		},
		{
			Kind:         kode.ParamFrameNumber,
			DisplayName:  "Frame Index",
			VariableName: "FRAMEINDEX",
		},
	}
}

// vertexStage builds the hidden vertex stage: either the profile's default
// passthrough or the adapted custom vertex source. The stage carries the mvp
// matrix parameter the generated code multiplies by.
func vertexStage(params []kode.Parameter, opts Options) kode.ShaderStage {
	var code string
	if opts.VertexSource != "" {
		code = glsl.AdaptVertex(opts.VertexSource, glsl.Options{
			Profile: opts.Profile,
			Params:  params,
		})
	} else {
		code = glsl.DefaultVertexShader(opts.Profile)
	}
	return kode.ShaderStage{
		Kind:    kode.StageVertex,
		Enabled: 1,
		Hidden:  1,
		Body: kode.EmbeddedBody{Sources: []kode.ShaderSource{
			{Profile: opts.Profile, Code: code},
		}},
		Params: []kode.Parameter{kode.MVPParam()},
	}
}

// fragmentStage adapts the ISF fragment body for one pass. passIndex below
// zero means a single-pass shader and suppresses the PASSINDEX constant.
func fragmentStage(body string, params []kode.Parameter, passIndex int, opts Options) kode.ShaderStage {
	code := glsl.AdaptFragment(body, glsl.Options{
		Profile:   opts.Profile,
		Params:    params,
		PassIndex: passIndex,
	})
	return kode.ShaderStage{
		Kind:    kode.StageFragment,
		Enabled: 1,
		Body: kode.EmbeddedBody{Sources: []kode.ShaderSource{
			{Profile: opts.Profile, Code: code},
		}},
	}
}

// singlePassLabel labels the sole pass of a single-pass shader: the
// description when present (truncated to keep the UI readable), otherwise
// the shader's classification.
func singlePassLabel(shader *isf.Shader) string {
	if shader.Description != "" {
		label := shader.Description
		// Truncate by characters, not bytes; a byte slice could split a
		// multi-byte rune and leak invalid UTF-8 into the document.
		if runes := []rune(label); len(runes) > 30 {
			label = string(runes[:30])
		}
		return label
	}
	switch shader.Kind() {
	case isf.KindTransition:
		return "ISF Transition"
	case isf.KindFilter:
		return "ISF Filter"
	default:
		return "ISF Generator"
	}
}
