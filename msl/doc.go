// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package msl generates Metal Shading Language shader sources for KodeLife
// stages.
//
// These are straight string templates around a uniform buffer struct built
// from kode Parameters; there is no ISF rewriting here. They exist so
// Metal-profile projects can be composed programmatically with the same
// parameter model the converter uses.
package msl
