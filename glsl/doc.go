// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package glsl rewrites ISF shader bodies into plain GLSL.
//
// The rewriter is pattern-level: it expands ISF macros and built-ins,
// normalizes boolean-literal comparisons, and synthesizes the uniform
// declarations, version directive and output variable the target profile
// needs. It never parses the full grammar and never fails: unrecognized
// constructs pass through unchanged, and a missing insertion anchor leaves
// the affected text alone rather than corrupting it.
//
// Transformations run as an explicit ordered list of rules; the order is
// part of the contract (IMG_THIS_PIXEL must be expanded before IMG_PIXEL,
// boolean normalization assumes macros are already gone, and so on).
// Adapting already-adapted code is a no-op.
package glsl
