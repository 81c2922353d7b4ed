// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/gogpu/klproj"
	"github.com/gogpu/klproj/kode"
)

// ErrExists is returned for an output that already exists when overwriting
// is disabled.
var ErrExists = errors.New("output file already exists")

// Failure pairs an input file with why it was not converted.
type Failure struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Result aggregates the outcomes of one batch run.
type Result struct {
	Successful []string  `json:"successful"`
	Failed     []Failure `json:"failed"`
	Skipped    []Failure `json:"skipped"`

	mu sync.Mutex
}

// TotalProcessed returns how many files the run touched.
func (r *Result) TotalProcessed() int {
	return len(r.Successful) + len(r.Failed) + len(r.Skipped)
}

func (r *Result) addSuccess(path string) {
	r.mu.Lock()
	r.Successful = append(r.Successful, path)
	r.mu.Unlock()
}

func (r *Result) addFailed(file, reason string) {
	r.mu.Lock()
	r.Failed = append(r.Failed, Failure{File: file, Reason: reason})
	r.mu.Unlock()
}

func (r *Result) addSkipped(file, reason string) {
	r.mu.Lock()
	r.Skipped = append(r.Skipped, Failure{File: file, Reason: reason})
	r.mu.Unlock()
}

// SaveJSON writes the run report, creating parent directories as needed.
func (r *Result) SaveJSON(path string) error {
	total := r.TotalProcessed()
	rate := 0.0
	if total > 0 {
		rate = float64(len(r.Successful)) / float64(total) * 100
	}
	report := struct {
		Successful []string  `json:"successful"`
		Failed     []Failure `json:"failed"`
		Skipped    []Failure `json:"skipped"`
		Summary    struct {
			TotalProcessed int    `json:"total_processed"`
			Successful     int    `json:"successful"`
			Failed         int    `json:"failed"`
			Skipped        int    `json:"skipped"`
			SuccessRate    string `json:"success_rate"`
		} `json:"summary"`
	}{
		Successful: r.Successful,
		Failed:     r.Failed,
		Skipped:    r.Skipped,
	}
	report.Summary.TotalProcessed = total
	report.Summary.Successful = len(r.Successful)
	report.Summary.Failed = len(r.Failed)
	report.Summary.Skipped = len(r.Skipped)
	report.Summary.SuccessRate = fmt.Sprintf("%.1f%%", rate)

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

// Converter converts many ISF files into one output directory.
type Converter struct {
	// OutputDir receives the .klproj files; created on first use.
	OutputDir string

	// Profile, Width and Height are passed through to each conversion.
	Profile kode.Profile
	Width   int
	Height  int

	// Overwrite replaces existing outputs instead of skipping them.
	Overwrite bool

	// Jobs bounds the worker pool; values below 1 run sequentially.
	Jobs int

	// Logger receives per-file progress; nil uses slog.Default.
	Logger *slog.Logger
}

func (c *Converter) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return slog.Default()
}

// OutputPath returns where a given input converts to: the sanitized base
// name under OutputDir with a .klproj extension.
func (c *Converter) OutputPath(inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(c.OutputDir, sanitizeName(base)+".klproj")
}

// sanitizeName keeps alphanumerics, dashes and underscores; everything else
// becomes an underscore.
func sanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}

// ConvertFile converts one input and writes its output, returning the output
// path. An existing output returns ErrExists unless Overwrite is set.
func (c *Converter) ConvertFile(inputPath string) (string, error) {
	outputPath := c.OutputPath(inputPath)

	if !c.Overwrite {
		if _, err := os.Stat(outputPath); err == nil {
			return "", ErrExists
		}
	}

	result, err := klproj.ConvertFile(inputPath, klproj.Options{
		Profile: c.Profile,
		Width:   c.Width,
		Height:  c.Height,
	})
	if err != nil {
		return "", err
	}
	for _, w := range result.Warnings {
		c.logger().Warn("conversion warning",
			"file", inputPath, "code", w.Code, "pass", w.Pass, "detail", w.Message)
	}

	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(outputPath, result.Data, 0o644); err != nil {
		return "", err
	}
	return outputPath, nil
}

// Run converts every file over a bounded worker pool, continuing past
// individual failures.
func (c *Converter) Run(files []string) *Result {
	jobs := c.Jobs
	if jobs < 1 {
		jobs = 1
	}
	if jobs > len(files) {
		jobs = len(files)
	}

	result := &Result{}
	work := make(chan string)

	var wg sync.WaitGroup
	for i := 0; i < jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range work {
				c.runOne(path, result)
			}
		}()
	}
	for _, path := range files {
		work <- path
	}
	close(work)
	wg.Wait()

	return result
}

func (c *Converter) runOne(path string, result *Result) {
	outputPath, err := c.ConvertFile(path)
	switch {
	case err == nil:
		c.logger().Info("converted", "input", path, "output", outputPath)
		result.addSuccess(outputPath)
	case errors.Is(err, ErrExists):
		c.logger().Debug("skipped", "input", path, "reason", err)
		result.addSkipped(path, err.Error())
	default:
		c.logger().Error("conversion failed", "input", path, "error", err)
		result.addFailed(path, err.Error())
	}
}
