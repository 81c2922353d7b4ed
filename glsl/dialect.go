// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import "github.com/gogpu/klproj/kode"

// dialect captures the per-profile differences the rewriter has to honor:
// version directive, sampling function, attribute qualifiers, and whether
// the profile uses an explicit fragment output variable.
type dialect struct {
	version   string // injected #version directive
	precision string // extra directive after #version, ES only
	textureFn string // texture sampling function name
	attribute string // vertex input qualifier
	varyingAs string // what a legacy varying becomes in fragment code
	modernOut bool   // synthesize "out vec4 fragColor;" and retire gl_FragColor

	// hasTextureSize reports whether the profile supports the textureSize
	// query. GLSL 120 does not; pixel-coordinate macros approximate the
	// sampled texture's size with RENDERSIZE there.
	hasTextureSize bool
}

// sizeExpr renders the expression for a sampled texture's dimensions.
func (d dialect) sizeExpr(image string) string {
	if d.hasTextureSize {
		return "vec2(textureSize(" + image + ", 0))"
	}
	return "RENDERSIZE"
}

func dialectFor(profile kode.Profile) dialect {
	switch profile {
	case kode.ProfileGL2, kode.ProfileDX9:
		return dialect{
			version:        "#version 120",
			textureFn:      "texture2D",
			attribute:      "attribute",
			varyingAs:      "varying",
			modernOut:      false,
			hasTextureSize: false,
		}
	case kode.ProfileES3, kode.ProfileES3300, kode.ProfileES3310, kode.ProfileES3320:
		return dialect{
			version:        "#version 300 es",
			precision:      "precision highp float;",
			textureFn:      "texture",
			attribute:      "in",
			varyingAs:      "in",
			modernOut:      true,
			hasTextureSize: true,
		}
	default: // GL3 and anything newer
		return dialect{
			version:        "#version 150",
			textureFn:      "texture",
			attribute:      "in",
			varyingAs:      "in",
			modernOut:      true,
			hasTextureSize: true,
		}
	}
}
