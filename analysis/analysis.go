// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package analysis

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/gogpu/klproj/kode"
)

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
	SeverityInfo    = "info"
)

// Check names accepted by Analyze.
const (
	CheckStructure     = "structure"
	CheckUniforms      = "uniforms"
	CheckUndefinedVars = "undefined_vars"
)

// Issue is a single finding.
type Issue struct {
	Severity string            `json:"severity"`
	Category string            `json:"category"`
	Message  string            `json:"message"`
	Pass     int               `json:"pass"` // -1 when not pass-specific
	Details  map[string]string `json:"details,omitempty"`
}

// FileResult collects the findings for one file.
type FileResult struct {
	Path   string  `json:"path"`
	Issues []Issue `json:"issues"`
}

// HasErrors reports whether any finding is error-level.
func (r *FileResult) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ErrorCount returns the number of error-level findings.
func (r *FileResult) ErrorCount() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			n++
		}
	}
	return n
}

// WarningCount returns the number of warning-level findings.
func (r *FileResult) WarningCount() int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == SeverityWarning {
			n++
		}
	}
	return n
}

// Analyzer runs checks over decoded projects. The zero value runs every
// check.
type Analyzer struct {
	// Checks selects which check families to run; empty means all.
	Checks []string
}

// AnalyzeFile decodes one .klproj file and analyzes it.
func (a *Analyzer) AnalyzeFile(path string) *FileResult {
	result := &FileResult{Path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Issues = append(result.Issues, Issue{
			Severity: SeverityError,
			Category: "extraction",
			Message:  fmt.Sprintf("cannot read file: %v", err),
			Pass:     -1,
		})
		return result
	}

	project, err := kode.Decode(data)
	if err != nil {
		result.Issues = append(result.Issues, Issue{
			Severity: SeverityError,
			Category: "extraction",
			Message:  fmt.Sprintf("cannot decode container: %v", err),
			Pass:     -1,
		})
		return result
	}

	result.Issues = append(result.Issues, a.Analyze(project)...)
	return result
}

// Analyze runs the configured checks over a decoded project.
func (a *Analyzer) Analyze(project *kode.Project) []Issue {
	var issues []Issue
	for _, check := range a.checks() {
		switch check {
		case CheckStructure:
			issues = append(issues, checkStructure(project)...)
		case CheckUniforms:
			issues = append(issues, checkUniforms(project)...)
		case CheckUndefinedVars:
			issues = append(issues, checkUndefinedVars(project)...)
		}
	}
	return issues
}

func (a *Analyzer) checks() []string {
	if len(a.Checks) > 0 {
		return a.Checks
	}
	return []string{CheckStructure, CheckUniforms, CheckUndefinedVars}
}

// checkStructure validates the document skeleton: global parameters with the
// standard ISF uniforms present, and at least one render pass.
func checkStructure(project *kode.Project) []Issue {
	var issues []Issue

	if len(project.Params) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Category: CheckStructure,
			Message:  "no global parameters",
			Pass:     -1,
		})
	}
	for _, expected := range []string{"TIME", "RENDERSIZE"} {
		if project.Param(expected) == nil {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Category: CheckStructure,
				Message:  "missing expected parameter: " + expected,
				Pass:     -1,
			})
		}
	}
	if len(project.Passes) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Category: CheckStructure,
			Message:  "no render passes",
			Pass:     -1,
		})
	}
	return issues
}

// checkUniforms validates each pass's fragment source: version directive,
// main entry point, an output variable, and a uniform declaration for every
// global parameter the code references.
func checkUniforms(project *kode.Project) []Issue {
	var issues []Issue

	for i := range project.Passes {
		code, ok := fragmentSource(&project.Passes[i])
		if !ok {
			continue
		}

		if !strings.Contains(code, "#version") {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Category: CheckUniforms,
				Message:  "no #version directive in shader",
				Pass:     i,
			})
		}
		if !strings.Contains(code, "void main()") && !strings.Contains(code, "void main(") {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Category: CheckUniforms,
				Message:  "no main() function found in shader",
				Pass:     i,
			})
		}
		if !strings.Contains(code, "fragColor") && !strings.Contains(code, "gl_FragColor") {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Category: CheckUniforms,
				Message:  "no output variable (fragColor or gl_FragColor) found",
				Pass:     i,
			})
		}
		if !strings.Contains(code, "uniform") {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Category: CheckUniforms,
				Message:  "no uniform declarations found in shader",
				Pass:     i,
			})
		}

		for _, param := range project.Params {
			name := param.VariableName
			if name == "" || !strings.Contains(code, name) {
				continue
			}
			if !hasUniformDeclaration(code, name) {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Category: CheckUniforms,
					Message:  fmt.Sprintf("parameter %q used but no uniform declaration found", name),
					Pass:     i,
					Details:  map[string]string{"parameter": name},
				})
			}
		}
	}
	return issues
}

var (
	uniformDeclPattern  = regexp.MustCompile(`uniform\s+(?:highp|mediump|lowp)?\s*\w+\s+(\w+)`)
	constDeclPattern    = regexp.MustCompile(`const\s+(?:highp|mediump|lowp)?\s*\w+\s+(\w+)`)
	lineCommentPattern  = regexp.MustCompile(`(?m)//.*$`)
	blockCommentPattern = regexp.MustCompile(`(?s)/\*.*?\*/`)
	identifierPattern   = regexp.MustCompile(`\b[a-zA-Z_][a-zA-Z0-9_]*\b`)
)

func hasUniformDeclaration(code, name string) bool {
	for _, m := range uniformDeclPattern.FindAllStringSubmatch(code, -1) {
		if m[1] == name {
			return true
		}
	}
	return false
}

// checkUndefinedVars scans fragment sources for identifiers that are neither
// declared uniforms, constants, global parameters, nor known GLSL builtins.
// It is a heuristic: local declarations inside function bodies are not
// tracked, so findings are warnings.
func checkUndefinedVars(project *kode.Project) []Issue {
	var issues []Issue

	declared := make(map[string]bool)
	for _, param := range project.Params {
		declared[param.VariableName] = true
	}

	for i := range project.Passes {
		code, ok := fragmentSource(&project.Passes[i])
		if !ok {
			continue
		}

		known := make(map[string]bool, len(declared))
		for name := range declared {
			known[name] = true
		}
		for _, m := range uniformDeclPattern.FindAllStringSubmatch(code, -1) {
			known[m[1]] = true
		}
		for _, m := range constDeclPattern.FindAllStringSubmatch(code, -1) {
			known[m[1]] = true
		}

		clean := lineCommentPattern.ReplaceAllString(code, "")
		clean = blockCommentPattern.ReplaceAllString(clean, "")

		seen := make(map[string]bool)
		var undefined []string
		for _, ident := range identifierPattern.FindAllString(clean, -1) {
			if seen[ident] || known[ident] || glslKeywords[ident] {
				continue
			}
			if isLocalDeclaration(clean, ident) {
				seen[ident] = true
				continue
			}
			seen[ident] = true
			undefined = append(undefined, ident)
		}
		sort.Strings(undefined)
		for _, name := range undefined {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Category: CheckUndefinedVars,
				Message:  "potentially undefined variable: " + name,
				Pass:     i,
				Details:  map[string]string{"variable": name},
			})
		}
	}
	return issues
}

// isLocalDeclaration reports whether an identifier appears as a declared
// local or function parameter somewhere in the code.
func isLocalDeclaration(code, ident string) bool {
	pattern := regexp.MustCompile(`\b(?:float|int|bool|vec[234]|mat[234]|sampler2D)\s+` + regexp.QuoteMeta(ident) + `\b`)
	return pattern.MatchString(code)
}

// fragmentSource returns the first embedded fragment source of a pass.
func fragmentSource(pass *kode.RenderPass) (string, bool) {
	for i := range pass.Stages {
		stage := &pass.Stages[i]
		if stage.Kind != kode.StageFragment {
			continue
		}
		sources := stage.Sources()
		if len(sources) == 0 {
			return "", false
		}
		return sources[0].Code, true
	}
	return "", false
}

// glslKeywords are identifiers the undefined-variable scan never reports:
// language keywords, builtin types and functions, and swizzle components.
var glslKeywords = buildKeywordSet(
	"void main if else for while do return break continue",
	"in out inout uniform const attribute varying",
	"float vec2 vec3 vec4 mat2 mat3 mat4 int bool sampler2D samplerCube",
	"true false",
	"gl_Position gl_FragCoord gl_FragColor fragColor",
	"texture texture2D textureSize mix clamp abs fract sin cos tan atan dot cross",
	"length normalize floor ceil mod min max step smoothstep sqrt pow exp exp2 log log2",
	"radians degrees sign distance reflect refract",
	"r g b a x y z w s t p q",
	"rg gb ba rb xy yz zw xw rgb rgba xyz xyzw",
)

func buildKeywordSet(groups ...string) map[string]bool {
	set := make(map[string]bool)
	for _, group := range groups {
		for _, word := range strings.Fields(group) {
			set[word] = true
		}
	}
	return set
}
