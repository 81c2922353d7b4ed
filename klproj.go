// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package klproj converts ISF (Interactive Shader Format) shaders into
// KodeLife project files.
//
// ISF shaders are GLSL fragment shaders with a JSON metadata block in a
// leading comment. The converter parses that metadata, maps the declared
// inputs onto uniform parameters, rewrites the shader body for the target
// GLSL dialect, resolves the multi-pass render graph, and serializes the
// result as a zlib-compressed klxml container (.klproj).
//
// Example usage:
//
//	source, _ := os.ReadFile("shader.fs")
//	result, err := klproj.Convert(string(source), klproj.Options{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("shader.klproj", result.Data, 0o644)
//
// For lower-level access use the subpackages directly: isf for parsing,
// convert for the mapping pipeline, glsl for shader adaptation and kode for
// the document model and container codec.
package klproj

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/klproj/convert"
	"github.com/gogpu/klproj/isf"
	"github.com/gogpu/klproj/kode"
)

// Options configure a conversion.
type Options struct {
	// Profile is the target GLSL dialect. Zero value targets GL3.
	Profile kode.Profile

	// Width and Height are the project output dimensions; zero values take
	// the 1920x1080 defaults.
	Width  int
	Height int

	// VertexSource is an optional custom ISF vertex shader body. When empty
	// a generated passthrough vertex stage is used.
	VertexSource string
}

// Result carries everything a conversion produced.
type Result struct {
	// Data is the serialized .klproj container.
	Data []byte

	// Project is the assembled document, for callers that want to inspect
	// or post-process it before writing.
	Project *kode.Project

	// Shader is the parsed ISF source the project was built from.
	Shader *isf.Shader

	// Warnings are the recoverable problems encountered; the project is
	// valid regardless.
	Warnings []convert.Warning
}

// Convert turns ISF source code into a serialized KodeLife project.
//
// The pipeline is:
//  1. Parse the ISF metadata header and shader body
//  2. Map inputs to uniform parameters and resolve the pass graph
//  3. Rewrite the GLSL for the target profile
//  4. Encode the document as a compressed klxml container
func Convert(source string, opts Options) (*Result, error) {
	shader, err := isf.Parse(source)
	if err != nil {
		return nil, err
	}
	return ConvertShader(shader, opts)
}

// ConvertShader converts an already-parsed ISF shader.
func ConvertShader(shader *isf.Shader, opts Options) (*Result, error) {
	project, warnings, err := convert.Convert(shader, convert.Options{
		Profile:      opts.Profile,
		Width:        opts.Width,
		Height:       opts.Height,
		VertexSource: opts.VertexSource,
	})
	if err != nil {
		return nil, err
	}

	data, err := kode.Encode(project)
	if err != nil {
		return nil, err
	}

	return &Result{
		Data:     data,
		Project:  project,
		Shader:   shader,
		Warnings: warnings,
	}, nil
}

// ConvertFile reads and converts one ISF file. A sibling file with the same
// base name and a .vs extension, when present, is used as the custom vertex
// shader unless opts already carries one.
func ConvertFile(path string, opts Options) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if opts.VertexSource == "" {
		if vs, err := os.ReadFile(vertexSiblingPath(path)); err == nil {
			opts.VertexSource = string(vs)
		}
	}

	return Convert(string(source), opts)
}

// vertexSiblingPath returns the .vs path paired with an ISF fragment file.
func vertexSiblingPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".vs"
}
