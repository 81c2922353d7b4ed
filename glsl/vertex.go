// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"regexp"
	"strings"

	"github.com/gogpu/klproj/kode"
)

// positionDeclPattern matches an actual a_position attribute declaration.
// Expanded isf_FragNormCoord references mention a_position too, so a bare
// substring check would wrongly suppress synthesis.
var positionDeclPattern = regexp.MustCompile(`\b(?:in|attribute)\s+vec4\s+a_position\s*;`)

// AdaptVertex rewrites an ISF vertex shader body for the target profile:
// removes isf_vertShaderInit calls, resolves conditional varying blocks,
// synthesizes the position attribute, mvp uniform and a default gl_Position
// assignment when the body sets none.
func AdaptVertex(body string, opts Options) string {
	d := dialectFor(opts.Profile)

	rules := []Rule{}
	if d.modernOut {
		// Keep the modern branch of the version guard; vertex outputs
		// become "out".
		rules = append(rules, unwrapVersionGuard(), replaceVarying("out"))
	}
	rules = append(rules,
		removeVertShaderInit(),
		replaceVertexNormCoord(),
	)

	code := applyRules(body, rules)
	code = ensureVersion(code, d)
	code = insertVertexHeader(code, opts, d)
	code = ensurePosition(code)
	return code
}

// insertVertexHeader synthesizes the a_position attribute, the mvp uniform
// and the visible uniform declarations after the #version directive.
func insertVertexHeader(code string, opts Options, d dialect) string {
	var header []string

	if !positionDeclPattern.MatchString(code) {
		header = append(header, d.attribute+" vec4 a_position;")
	}
	if !hasMVPUniform(code) {
		header = append(header, "uniform mat4 mvp;")
	}
	if decls := missingUniformDeclarations(code, opts.Params); decls != "" {
		header = append(header, decls)
	}

	if len(header) == 0 {
		return code
	}
	return insertAfterVersion(code, strings.Join(header, "\n"))
}

func hasMVPUniform(code string) bool {
	for _, line := range strings.Split(code, "\n") {
		if strings.Contains(line, "uniform") && strings.Contains(line, "mvp") {
			return true
		}
	}
	return false
}

// ensurePosition adds the default gl_Position assignment as the first
// statement of main when the body never writes gl_Position. When the main
// anchor cannot be found the body is returned unmodified; a missing
// assignment is better than a corrupted shader.
func ensurePosition(code string) string {
	if strings.Contains(code, "gl_Position") {
		return code
	}

	lines := strings.Split(code, "\n")
	mainIdx := -1
	for i, line := range lines {
		if strings.Contains(line, "void main()") || strings.Contains(line, "void main (") {
			mainIdx = i
			break
		}
	}
	if mainIdx < 0 {
		return code
	}

	braceIdx := -1
	for i := mainIdx; i < len(lines); i++ {
		if strings.Contains(lines[i], "{") {
			braceIdx = i
			break
		}
	}
	if braceIdx < 0 {
		return code
	}

	out := make([]string, 0, len(lines)+1)
	out = append(out, lines[:braceIdx+1]...)
	out = append(out, "    gl_Position = mvp * a_position;")
	out = append(out, lines[braceIdx+1:]...)
	return strings.Join(out, "\n")
}

// DefaultVertexShader returns the minimal fullscreen passthrough vertex
// shader used when the ISF source ships no custom vertex stage.
func DefaultVertexShader(profile kode.Profile) string {
	d := dialectFor(profile)
	return d.version + "\n" +
		d.attribute + " vec4 a_position;\n" +
		"uniform mat4 mvp;\n" +
		"\n" +
		"void main() {\n" +
		"    gl_Position = mvp * a_position;\n" +
		"}\n"
}
