// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"regexp"
	"strings"
)

// Rule is one independent match-and-replace transformation. Rules must be
// total: when nothing matches, Apply returns its input unchanged.
type Rule interface {
	Name() string
	Apply(code string) string
}

// patternRule substitutes a regular expression with a template. The template
// uses $1, $2 capture references.
type patternRule struct {
	name    string
	pattern *regexp.Regexp
	replace string
}

func (r patternRule) Name() string { return r.name }

func (r patternRule) Apply(code string) string {
	return r.pattern.ReplaceAllString(code, r.replace)
}

// submatchRule substitutes via a function over the capture groups, for
// replacements that reuse a capture more than once.
type submatchRule struct {
	name    string
	pattern *regexp.Regexp
	expand  func(groups []string) string
}

func (r submatchRule) Name() string { return r.name }

func (r submatchRule) Apply(code string) string {
	return r.pattern.ReplaceAllStringFunc(code, func(match string) string {
		return r.expand(r.pattern.FindStringSubmatch(match))
	})
}

var (
	versionGuardPattern = regexp.MustCompile(
		`(?s)#if\s+__VERSION__\s*<=\s*120\s*\n(.*?)\n\s*#else\s*\n(.*?)\n\s*#endif`)

	varyingPattern = regexp.MustCompile(`\bvarying\s+`)

	fragNormCoordPattern = regexp.MustCompile(`\bisf_FragNormCoord\b`)

	imgThisPixelPattern     = regexp.MustCompile(`\bIMG_THIS_PIXEL\s*\(\s*(\w+)\s*\)`)
	imgNormThisPixelPattern = regexp.MustCompile(`\bIMG_NORM_THIS_PIXEL\s*\(\s*(\w+)\s*\)`)
	imgNormPixelPattern     = regexp.MustCompile(`\bIMG_NORM_PIXEL\s*\(\s*(\w+)\s*,\s*([^)]+)\)`)
	imgPixelPattern         = regexp.MustCompile(`\bIMG_PIXEL\s*\(\s*(\w+)\s*,\s*([^)]+)\)`)
	imgSizePattern          = regexp.MustCompile(`\bIMG_SIZE\s*\(\s*(\w+)\s*\)`)

	eqTruePattern  = regexp.MustCompile(`\s*==\s*true\b`)
	neFalsePattern = regexp.MustCompile(`\s*!=\s*false\b`)
	eqFalsePattern = regexp.MustCompile(`\s*==\s*false\b`)
	neTruePattern  = regexp.MustCompile(`\s*!=\s*true\b`)

	vertShaderInitPattern = regexp.MustCompile(`\bisf_vertShaderInit\s*\(\s*\)\s*;`)
)

// unwrapVersionGuard resolves the #if __VERSION__ <= 120 / #else / #endif
// blocks ISF sources use to switch between varying and in/out declarations,
// keeping the modern branch.
func unwrapVersionGuard() Rule {
	return submatchRule{
		name:    "unwrap-version-guard",
		pattern: versionGuardPattern,
		expand: func(groups []string) string {
			return strings.TrimSpace(groups[2])
		},
	}
}

// replaceVarying rewrites the legacy varying qualifier to the given modern
// one ("in " for fragment inputs, "out " for vertex outputs).
func replaceVarying(qualifier string) Rule {
	return patternRule{
		name:    "replace-varying",
		pattern: varyingPattern,
		replace: qualifier + " ",
	}
}

// replaceFragNormCoord expands the isf_FragNormCoord built-in to the
// normalized fragment coordinate relative to the resolution uniform.
func replaceFragNormCoord() Rule {
	return patternRule{
		name:    "frag-norm-coord",
		pattern: fragNormCoordPattern,
		replace: "(gl_FragCoord.xy / RENDERSIZE)",
	}
}

// imageMacroRules expands the ISF image sampling macros. Ordering matters:
// IMG_THIS_PIXEL and IMG_NORM_THIS_PIXEL share a token prefix with
// IMG_NORM_PIXEL/IMG_PIXEL and must be matched first. Size queries go
// through the dialect, which approximates with RENDERSIZE on profiles
// without textureSize.
func imageMacroRules(d dialect) []Rule {
	textureFn := d.textureFn
	return []Rule{
		patternRule{
			name:    "img-this-pixel",
			pattern: imgThisPixelPattern,
			replace: textureFn + "($1, gl_FragCoord.xy / RENDERSIZE)",
		},
		patternRule{
			name:    "img-norm-this-pixel",
			pattern: imgNormThisPixelPattern,
			replace: textureFn + "($1, gl_FragCoord.xy / RENDERSIZE)",
		},
		patternRule{
			name:    "img-norm-pixel",
			pattern: imgNormPixelPattern,
			replace: textureFn + "($1, $2)",
		},
		submatchRule{
			// IMG_PIXEL takes a pixel coordinate; normalize by the sampled
			// texture's own size, not the render target's.
			name:    "img-pixel",
			pattern: imgPixelPattern,
			expand: func(groups []string) string {
				image, coord := groups[1], groups[2]
				return textureFn + "(" + image + ", (" + coord + ") / " + d.sizeExpr(image) + ")"
			},
		},
		submatchRule{
			name:    "img-size",
			pattern: imgSizePattern,
			expand: func(groups []string) string {
				return d.sizeExpr(groups[1])
			},
		},
	}
}

// booleanRules normalizes comparisons against boolean literals. ISF booleans
// arrive as float uniforms, so literal comparisons are rewritten against 0.0.
func booleanRules() []Rule {
	return []Rule{
		patternRule{name: "eq-true", pattern: eqTruePattern, replace: " != 0.0"},
		patternRule{name: "ne-false", pattern: neFalsePattern, replace: " != 0.0"},
		patternRule{name: "eq-false", pattern: eqFalsePattern, replace: " == 0.0"},
		patternRule{name: "ne-true", pattern: neTruePattern, replace: " == 0.0"},
	}
}

// removeVertShaderInit drops calls to the ISF vertex framework initializer;
// the synthesized gl_Position assignment replaces it.
func removeVertShaderInit() Rule {
	return patternRule{
		name:    "remove-vert-shader-init",
		pattern: vertShaderInitPattern,
		replace: "",
	}
}

// replaceVertexNormCoord expands isf_FragNormCoord inside vertex shaders,
// where it is the normalized vertex position of the fullscreen quad.
func replaceVertexNormCoord() Rule {
	return patternRule{
		name:    "vertex-norm-coord",
		pattern: fragNormCoordPattern,
		replace: "((a_position.xy + 1.0) * 0.5)",
	}
}

func applyRules(code string, rules []Rule) string {
	for _, rule := range rules {
		code = rule.Apply(code)
	}
	return code
}
