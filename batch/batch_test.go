// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package batch

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/klproj/kode"
)

const testShader = `/*{
	"DESCRIPTION": "Gradient",
	"INPUTS": []
}*/

void main() {
	gl_FragColor = vec4(isf_FragNormCoord, 0.0, 1.0);
}
`

func writeShader(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// =============================================================================
// Discovery Tests
// =============================================================================

func TestScan(t *testing.T) {
	dir := t.TempDir()
	writeShader(t, dir, "good.fs", testShader)
	writeShader(t, dir, "other.frag", testShader)
	writeShader(t, dir, "plain.glsl", "void main() {}") // no ISF header
	writeShader(t, dir, "notes.txt", testShader)        // wrong extension

	sub := filepath.Join(dir, "nested")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	writeShader(t, sub, "deep.fs", testShader)

	infos, err := Scan([]string{dir}, nil)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(infos) != 3 {
		names := make([]string, len(infos))
		for i, info := range infos {
			names[i] = info.Path
		}
		t.Fatalf("len(infos) = %d (%v), want 3", len(infos), names)
	}
	for _, info := range infos {
		if info.Multipass {
			t.Errorf("%s flagged multipass", info.Path)
		}
		if info.Description != "Gradient" {
			t.Errorf("%s description = %q", info.Path, info.Description)
		}
	}
}

func TestScan_MissingDirIgnored(t *testing.T) {
	infos, err := Scan([]string{"/does/not/exist"}, nil)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(infos) != 0 {
		t.Errorf("len(infos) = %d, want 0", len(infos))
	}
}

func TestScan_Multipass(t *testing.T) {
	dir := t.TempDir()
	writeShader(t, dir, "multi.fs", `/*{
	"PASSES": [{"TARGET": "bufA"}, {}]
}*/
void main() { gl_FragColor = vec4(1.0); }
`)
	infos, err := Scan([]string{dir}, nil)
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(infos) != 1 || !infos[0].Multipass || infos[0].Passes != 2 {
		t.Errorf("infos = %+v", infos)
	}
}

func TestFilterCategory(t *testing.T) {
	infos := []Info{
		{Path: "a.fs", Categories: []string{"Generator"}},
		{Path: "b.fs", Categories: []string{"Blur", "Filter"}},
		{Path: "c.fs"},
	}
	got := FilterCategory(infos, "filter")
	if len(got) != 1 || got[0].Path != "b.fs" {
		t.Errorf("FilterCategory() = %+v", got)
	}
}

// =============================================================================
// Converter Tests
// =============================================================================

func TestConverter_OutputPath(t *testing.T) {
	c := &Converter{OutputDir: "/out"}
	tests := []struct {
		in   string
		want string
	}{
		{"/shaders/plasma.fs", "/out/plasma.klproj"},
		{"/shaders/my shader (v2).fs", "/out/my_shader__v2_.klproj"},
	}
	for _, tt := range tests {
		if got := c.OutputPath(tt.in); got != tt.want {
			t.Errorf("OutputPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConverter_ConvertFile(t *testing.T) {
	dir := t.TempDir()
	input := writeShader(t, dir, "gradient.fs", testShader)

	c := &Converter{
		OutputDir: filepath.Join(dir, "out"),
		Profile:   kode.ProfileGL3,
		Width:     1280,
		Height:    720,
		Logger:    quietLogger(),
	}

	outputPath, err := c.ConvertFile(input)
	if err != nil {
		t.Fatalf("ConvertFile() error = %v", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatal(err)
	}
	project, err := kode.Decode(data)
	if err != nil {
		t.Fatalf("output is not a valid container: %v", err)
	}
	if project.Properties.Width != 1280 {
		t.Errorf("width = %d, want 1280", project.Properties.Width)
	}
}

func TestConverter_SkipsExisting(t *testing.T) {
	dir := t.TempDir()
	input := writeShader(t, dir, "gradient.fs", testShader)

	c := &Converter{OutputDir: dir, Logger: quietLogger()}
	if _, err := c.ConvertFile(input); err != nil {
		t.Fatalf("first ConvertFile() error = %v", err)
	}
	if _, err := c.ConvertFile(input); err != ErrExists {
		t.Fatalf("second ConvertFile() error = %v, want ErrExists", err)
	}

	c.Overwrite = true
	if _, err := c.ConvertFile(input); err != nil {
		t.Fatalf("overwriting ConvertFile() error = %v", err)
	}
}

func TestConverter_Run(t *testing.T) {
	dir := t.TempDir()
	good1 := writeShader(t, dir, "one.fs", testShader)
	good2 := writeShader(t, dir, "two.fs", testShader)
	bad := writeShader(t, dir, "bad.fs", "void main() {}")

	c := &Converter{
		OutputDir: filepath.Join(dir, "out"),
		Jobs:      4,
		Logger:    quietLogger(),
	}
	result := c.Run([]string{good1, good2, bad})

	if len(result.Successful) != 2 {
		t.Errorf("Successful = %v, want 2 entries", result.Successful)
	}
	if len(result.Failed) != 1 || !strings.HasSuffix(result.Failed[0].File, "bad.fs") {
		t.Errorf("Failed = %v", result.Failed)
	}
	if result.TotalProcessed() != 3 {
		t.Errorf("TotalProcessed() = %d, want 3", result.TotalProcessed())
	}
}

func TestResult_SaveJSON(t *testing.T) {
	result := &Result{
		Successful: []string{"a.klproj"},
		Failed:     []Failure{{File: "b.fs", Reason: "no header"}},
	}
	path := filepath.Join(t.TempDir(), "report", "run.json")
	if err := result.SaveJSON(path); err != nil {
		t.Fatalf("SaveJSON() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"success_rate": "50.0%"`, `"total_processed": 2`, "no header"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("report missing %q:\n%s", want, data)
		}
	}
}
