// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"strconv"
	"strings"

	"github.com/gogpu/klproj/kode"
)

// Options configure one adaptation run.
type Options struct {
	// Profile selects the GLSL dialect to emit. Zero value targets GL3.
	Profile kode.Profile

	// Params are the uniforms visible to this shader, in declaration order.
	// Every parameter whose kind maps to a GLSL type gets a uniform
	// declaration synthesized into the output.
	Params []kode.Parameter

	// PassIndex is the shader's position in a multi-pass sequence; it emits
	// a "const int PASSINDEX = N;" declaration. Negative means single-pass
	// and no declaration.
	PassIndex int
}

// AdaptFragment rewrites an ISF fragment shader body into plain GLSL for the
// target profile. It is deterministic and total: constructs it does not
// recognize pass through unchanged, and running it over its own output
// changes nothing.
func AdaptFragment(body string, opts Options) string {
	d := dialectFor(opts.Profile)

	rules := []Rule{
		unwrapVersionGuard(),
		replaceVarying(d.varyingAs),
		replaceFragNormCoord(),
	}
	rules = append(rules, imageMacroRules(d)...)
	rules = append(rules, booleanRules()...)

	code := applyRules(body, rules)
	code = ensureVersion(code, d)
	code = insertFragmentHeader(code, opts, d)

	if d.modernOut {
		code = strings.ReplaceAll(code, "gl_FragColor", "fragColor")
	}
	return code
}

// ensureVersion injects the dialect's #version directive (and the ES
// precision default) when the body has none.
func ensureVersion(code string, d dialect) string {
	if strings.Contains(code, "#version") {
		return code
	}
	header := d.version + "\n"
	if d.precision != "" && !strings.Contains(code, "precision ") {
		header += d.precision + "\n"
	}
	return header + code
}

// insertFragmentHeader synthesizes the uniform declarations, the PASSINDEX
// constant and the fragment output variable, directly after the #version
// directive. Declarations already present in the body are not repeated.
func insertFragmentHeader(code string, opts Options, d dialect) string {
	var header []string

	if decls := missingUniformDeclarations(code, opts.Params); decls != "" {
		header = append(header, decls)
	}
	if opts.PassIndex >= 0 && !strings.Contains(code, "const int PASSINDEX") {
		header = append(header, "const int PASSINDEX = "+strconv.Itoa(opts.PassIndex)+";")
	}
	if d.modernOut && !strings.Contains(code, "out vec4") {
		header = append(header, "out vec4 fragColor;")
	}

	if len(header) == 0 {
		return code
	}
	return insertAfterVersion(code, strings.Join(header, "\n"))
}

// insertAfterVersion splices a block in after the #version line, or at the
// very top when there is none. A default precision statement following the
// directive stays ahead of the block: ES float declarations need it in
// effect first.
func insertAfterVersion(code, block string) string {
	lines := strings.Split(code, "\n")
	idx := 0
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "#version") {
			idx = i + 1
			break
		}
	}
	for idx < len(lines) && strings.HasPrefix(strings.TrimSpace(lines[idx]), "precision ") {
		idx++
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:idx]...)
	out = append(out, block)
	out = append(out, lines[idx:]...)
	return strings.Join(out, "\n")
}
