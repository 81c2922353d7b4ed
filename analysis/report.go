// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package analysis

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// BatchResult aggregates per-file findings across a whole run.
type BatchResult struct {
	Files map[string]*FileResult `json:"files"`
}

// NewBatchResult returns an empty aggregate.
func NewBatchResult() *BatchResult {
	return &BatchResult{Files: make(map[string]*FileResult)}
}

// Add records one file's result under its base name.
func (b *BatchResult) Add(result *FileResult) {
	b.Files[filepath.Base(result.Path)] = result
}

// TotalFiles returns the number of analyzed files.
func (b *BatchResult) TotalFiles() int { return len(b.Files) }

// FilesWithErrors returns how many files have at least one error.
func (b *BatchResult) FilesWithErrors() int {
	n := 0
	for _, r := range b.Files {
		if r.HasErrors() {
			n++
		}
	}
	return n
}

// TotalErrors returns the error count across all files.
func (b *BatchResult) TotalErrors() int {
	n := 0
	for _, r := range b.Files {
		n += r.ErrorCount()
	}
	return n
}

// TotalWarnings returns the warning count across all files.
func (b *BatchResult) TotalWarnings() int {
	n := 0
	for _, r := range b.Files {
		n += r.WarningCount()
	}
	return n
}

// reportSummary is the header block of a saved report.
type reportSummary struct {
	TotalFiles      int `json:"total_files"`
	FilesWithErrors int `json:"files_with_errors"`
	TotalErrors     int `json:"total_errors"`
	TotalWarnings   int `json:"total_warnings"`
}

// SaveJSON writes the aggregate as an indented JSON report, creating parent
// directories as needed.
func (b *BatchResult) SaveJSON(path string) error {
	report := struct {
		Summary reportSummary          `json:"summary"`
		Files   map[string]*FileResult `json:"files"`
	}{
		Summary: reportSummary{
			TotalFiles:      b.TotalFiles(),
			FilesWithErrors: b.FilesWithErrors(),
			TotalErrors:     b.TotalErrors(),
			TotalWarnings:   b.TotalWarnings(),
		},
		Files: b.Files,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}
