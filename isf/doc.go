// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package isf parses Interactive Shader Format (ISF) sources.
//
// An ISF file is a GLSL fragment shader prefixed with a block comment that
// contains a JSON metadata object describing the shader's inputs, render
// passes, and imported images:
//
//	/*{
//	    "DESCRIPTION": "a gradient",
//	    "INPUTS": [ {"NAME": "speed", "TYPE": "float", "DEFAULT": 1.0} ]
//	}*/
//	void main() { ... }
//
// Parse extracts the metadata into a Shader and keeps the raw shader body
// for later rewriting. Parsing is a pure function of the input text.
package isf
