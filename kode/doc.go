// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package kode models KodeLife project documents and their .klproj container.
//
// A Project is a tree of global properties, uniform Parameters, and ordered
// RenderPasses holding ShaderStages; Encode serializes it to the zlib
// compressed XML container KodeLife reads, and Decode is the exact inverse.
// The element layout, tag names, and numeric formatting follow the format
// KodeLife's own parser expects and must not drift between releases.
package kode
