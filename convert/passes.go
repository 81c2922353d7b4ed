// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package convert

import (
	"fmt"

	"github.com/gogpu/klproj/isf"
	"github.com/gogpu/klproj/kode"
)

// Warning codes.
const (
	WarnDimension       = "dimension-evaluation-failure"
	WarnDuplicateTarget = "duplicate-target-name"
)

// Warning is a recoverable conversion problem. The converted project is still
// valid; the warning tells the caller which documented fallback was taken.
type Warning struct {
	Code    string
	Pass    int
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("pass %d: %s: %s", w.Pass, w.Code, w.Message)
}

// PassPlan is the resolved render plan for one ISF pass: its output
// dimensions and the buffer textures visible to its fragment stage.
type PassPlan struct {
	Index  int
	Width  int
	Height int

	// Buffers are the texture parameters for upstream render targets this
	// pass may sample, in declaration order, persistent targets first.
	Buffers []kode.Parameter
}

// Resolve computes the per-pass render plans for a multi-pass shader.
//
// A named TARGET becomes a texture parameter visible to later passes.
// Persistent targets survive across frames and are additionally visible to
// their own pass, so feedback loops work; transient targets are only visible
// strictly after the pass that renders them. WIDTH/HEIGHT expressions are
// evaluated against the project dimensions; an expression that fails to
// evaluate, or evaluates to a non-positive size, falls back to the project
// dimension and is reported as a Warning. A TARGET redeclaring an earlier
// pass's name is dropped with a Warning; the first declaration wins.
func Resolve(passes []isf.Pass, width, height int) ([]PassPlan, []Warning) {
	var warnings []Warning

	type target struct {
		name       string
		declared   int // pass index that renders into it
		persistent bool
	}
	var targets []target
	declaredAt := make(map[string]int)
	for i, pass := range passes {
		if pass.Target == "" {
			continue
		}
		// Target names must be unique; a redeclaration keeps the first
		// binding so downstream passes never see two parameters sharing
		// one variable name.
		if first, ok := declaredAt[pass.Target]; ok {
			warnings = append(warnings, Warning{
				Code:    WarnDuplicateTarget,
				Pass:    i,
				Message: fmt.Sprintf("target %q already declared by pass %d", pass.Target, first),
			})
			continue
		}
		declaredAt[pass.Target] = i
		targets = append(targets, target{
			name:       pass.Target,
			declared:   i,
			persistent: pass.Persistent,
		})
	}

	plans := make([]PassPlan, len(passes))
	for i, pass := range passes {
		plan := PassPlan{Index: i, Width: width, Height: height}

		if pass.Width != "" {
			plan.Width = resolveDimension(pass.Width, width, height, width, i, &warnings)
		}
		if pass.Height != "" {
			plan.Height = resolveDimension(pass.Height, width, height, height, i, &warnings)
		}

		// Persistent buffers first, visible from their declaring pass
		// onward; transient buffers only after their declaring pass.
		for _, t := range targets {
			if t.persistent && t.declared <= i {
				plan.Buffers = append(plan.Buffers, bufferParam(t.name, true))
			}
		}
		for _, t := range targets {
			if !t.persistent && t.declared < i {
				plan.Buffers = append(plan.Buffers, bufferParam(t.name, false))
			}
		}

		plans[i] = plan
	}
	return plans, warnings
}

// bufferParam builds the texture parameter for a named render target.
// Persistent targets bind as previous-pass textures so last frame's contents
// are available; transient targets bind as plain 2D textures filled within
// the current frame.
func bufferParam(name string, persistent bool) kode.Parameter {
	kind := kode.ParamTexture2D
	if persistent {
		kind = kode.ParamPrevPass
	}
	return kode.Parameter{
		Kind:         kind,
		DisplayName:  name,
		VariableName: name,
	}
}

func resolveDimension(expr string, width, height, fallback, pass int, warnings *[]Warning) int {
	v, err := EvalDimension(normalizeDimension(expr), width, height)
	if err != nil {
		*warnings = append(*warnings, Warning{
			Code:    WarnDimension,
			Pass:    pass,
			Message: err.Error(),
		})
		return fallback
	}
	if v <= 0 {
		*warnings = append(*warnings, Warning{
			Code:    WarnDimension,
			Pass:    pass,
			Message: fmt.Sprintf("expression %q evaluated to %d, using project dimension", expr, v),
		})
		return fallback
	}
	return v
}
