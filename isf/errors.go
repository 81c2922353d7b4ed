// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package isf

import "fmt"

// MalformedHeaderError reports source text that does not begin with an ISF
// metadata comment block. The file cannot be treated as ISF at all.
type MalformedHeaderError struct {
	// Reason describes what was wrong with the leading bytes.
	Reason string
}

func (e *MalformedHeaderError) Error() string {
	return "isf: malformed header: " + e.Reason
}

// InvalidMetadataError reports a metadata block whose JSON payload could not
// be decoded, or that is missing a required key.
type InvalidMetadataError struct {
	Reason string
	Err    error // underlying JSON decode error, if any
}

func (e *InvalidMetadataError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("isf: invalid metadata: %s: %v", e.Reason, e.Err)
	}
	return "isf: invalid metadata: " + e.Reason
}

func (e *InvalidMetadataError) Unwrap() error { return e.Err }
