// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package batch converts whole directories of ISF shaders.
//
// It discovers ISF files by extension and metadata header, runs conversions
// over a bounded worker pool, and aggregates per-file outcomes into a result
// that can be saved as a JSON report. A watch mode re-converts files as they
// change on disk.
package batch
