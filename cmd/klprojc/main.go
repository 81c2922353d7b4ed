// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command klprojc converts ISF shaders to KodeLife .klproj files.
//
// Usage:
//
//	klprojc [options] <input>
//
// The input is a single ISF file or a directory. Directories are scanned
// recursively for ISF files and converted over a worker pool; a sibling
// .vs file next to a fragment shader is picked up as its vertex stage.
//
// Examples:
//
//	klprojc shader.fs                    # Convert next to the input
//	klprojc -o out/ -jobs 8 shaders/     # Batch convert a directory
//	klprojc -watch shaders/              # Re-convert on changes
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/gogpu/klproj"
	"github.com/gogpu/klproj/batch"
	"github.com/gogpu/klproj/kode"
)

var (
	output    = flag.String("o", "", "output file or directory (default: next to input)")
	api       = flag.String("api", "GL3", "target profile: GL2, GL3, ES3, ES31, ES32 or DX9")
	width     = flag.Int("width", 1920, "project width in pixels")
	height    = flag.Int("height", 1080, "project height in pixels")
	overwrite = flag.Bool("overwrite", false, "replace existing .klproj outputs")
	jobs      = flag.Int("jobs", 4, "parallel conversions for directory input")
	watch     = flag.Bool("watch", false, "keep running and re-convert on changes")
	report    = flag.String("report", "", "write a JSON conversion report to this path")
	verbose   = flag.Bool("v", false, "verbose logging")
)

var profiles = map[string]kode.Profile{
	"GL2":  kode.ProfileGL2,
	"GL3":  kode.ProfileGL3,
	"ES3":  kode.ProfileES3,
	"ES31": kode.ProfileES3310,
	"ES32": kode.ProfileES3320,
	"DX9":  kode.ProfileDX9,
}

func main() {
	flag.Usage = usage
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Error: no input specified")
		usage()
		os.Exit(1)
	}
	inputPath := args[0]

	profile, ok := profiles[strings.ToUpper(*api)]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown profile %q\n", *api)
		os.Exit(1)
	}

	info, err := os.Stat(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if info.IsDir() {
		os.Exit(runBatch(inputPath, profile, logger))
	}
	os.Exit(runSingle(inputPath, profile))
}

// runSingle converts one ISF file.
func runSingle(inputPath string, profile kode.Profile) int {
	outputPath := *output
	if outputPath == "" {
		ext := filepath.Ext(inputPath)
		outputPath = strings.TrimSuffix(inputPath, ext) + ".klproj"
	}
	if !*overwrite {
		if _, err := os.Stat(outputPath); err == nil {
			fmt.Fprintf(os.Stderr, "Error: %s exists (use -overwrite to replace)\n", outputPath)
			return 1
		}
	}

	result, err := klproj.ConvertFile(inputPath, klproj.Options{
		Profile: profile,
		Width:   *width,
		Height:  *height,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Conversion error: %v\n", err)
		return 1
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	if err := os.WriteFile(outputPath, result.Data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return 1
	}
	fmt.Printf("Converted %s to %s (%d bytes)\n", inputPath, outputPath, len(result.Data))
	return 0
}

// runBatch converts every ISF file under a directory.
func runBatch(dir string, profile kode.Profile, logger *slog.Logger) int {
	outputDir := *output
	if outputDir == "" {
		outputDir = dir
	}

	converter := &batch.Converter{
		OutputDir: outputDir,
		Profile:   profile,
		Width:     *width,
		Height:    *height,
		Overwrite: *overwrite,
		Jobs:      *jobs,
		Logger:    logger,
	}

	infos, err := batch.Scan([]string{dir}, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error scanning %s: %v\n", dir, err)
		return 1
	}
	files := make([]string, len(infos))
	for i, info := range infos {
		files[i] = info.Path
	}

	result := converter.Run(files)
	fmt.Printf("Converted %d of %d files (%d failed, %d skipped)\n",
		len(result.Successful), result.TotalProcessed(), len(result.Failed), len(result.Skipped))

	if *report != "" {
		if err := result.SaveJSON(*report); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing report: %v\n", err)
			return 1
		}
	}

	if *watch {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		watcher := &batch.Watcher{Converter: converter}
		if err := watcher.Watch(ctx, dir); err != nil && ctx.Err() == nil {
			fmt.Fprintf(os.Stderr, "Watch error: %v\n", err)
			return 1
		}
		return 0
	}

	if len(result.Failed) > 0 {
		return 1
	}
	return 0
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: klprojc [options] <input>\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  klprojc shader.fs                Convert a single shader\n")
	fmt.Fprintf(os.Stderr, "  klprojc -o out/ shaders/         Batch convert a directory\n")
	fmt.Fprintf(os.Stderr, "  klprojc -watch -o out/ shaders/  Re-convert on changes\n")
}
