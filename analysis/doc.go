// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package analysis validates converted project files.
//
// It decodes a .klproj container back into the document model and runs
// structural and shader-level checks over it: expected global parameters,
// per-pass fragment sanity (#version, main, output variable), uniform
// declarations for every referenced parameter, and a heuristic scan for
// identifiers that nothing declares. Findings are graded issues, not errors;
// a converted file with warnings still loads.
package analysis
