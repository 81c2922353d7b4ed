// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package convert turns parsed ISF shaders into KodeLife projects.
//
// The pipeline maps ISF inputs onto uniform parameters, resolves the
// multi-pass buffer graph (persistent vs. transient render targets, pass
// indices, dimension expressions), rewrites the shader body once per pass
// through the glsl package, and assembles the kode.Project ready for
// serialization.
//
// Conversion is a pure function of its inputs. Recoverable problems, such as
// an unevaluable dimension hint, degrade to documented defaults and surface
// as Warnings instead of aborting the file.
package convert
