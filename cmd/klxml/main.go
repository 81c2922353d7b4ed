// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Command klxml inspects KodeLife .klproj containers.
//
// Usage:
//
//	klxml extract <input.klproj> <output.xml>
//	klxml verify <input.klproj>
//	klxml analyze <input.klproj>...
//
// extract decompresses the container and writes the raw XML document;
// verify decompresses, decodes it through the document model, and prints
// the XML to stdout; analyze runs structural checks over one or more
// containers and reports the findings.
package main

import (
	"bytes"
	"compress/zlib"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/gogpu/klproj/analysis"
	"github.com/gogpu/klproj/kode"
)

func main() {
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	switch args[0] {
	case "extract":
		if len(args) != 3 {
			fmt.Fprintln(os.Stderr, "Error: extract needs an input and an output path")
			os.Exit(1)
		}
		os.Exit(extract(args[1], args[2]))
	case "verify":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Error: verify needs an input path")
			os.Exit(1)
		}
		os.Exit(verify(args[1]))
	case "analyze":
		if len(args) < 2 {
			fmt.Fprintln(os.Stderr, "Error: analyze needs at least one input path")
			os.Exit(1)
		}
		os.Exit(analyze(args[1:]))
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", args[0])
		usage()
		os.Exit(1)
	}
}

// extract decompresses a container to its XML document.
func extract(inputPath, outputPath string) int {
	xmlData, err := decompress(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if err := os.WriteFile(outputPath, xmlData, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
		return 1
	}
	fmt.Printf("Extracted: %s -> %s (%d bytes)\n", inputPath, outputPath, len(xmlData))
	return 0
}

// verify decodes the container through the document model and dumps the XML.
func verify(inputPath string) int {
	data, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	project, err := kode.Decode(data)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decode error: %v\n", err)
		return 1
	}

	xmlData, err := decompress(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	os.Stdout.Write(xmlData)
	fmt.Fprintf(os.Stderr, "OK: api=%s params=%d passes=%d\n",
		project.API, len(project.Params), len(project.Passes))
	return 0
}

// analyze runs the structural checks over each container and prints the
// findings. The exit code is nonzero when any file has error-level issues.
func analyze(paths []string) int {
	a := &analysis.Analyzer{}
	exit := 0
	for _, path := range paths {
		result := a.AnalyzeFile(path)
		if len(result.Issues) == 0 {
			fmt.Printf("%s: OK\n", path)
			continue
		}
		for _, issue := range result.Issues {
			if issue.Pass >= 0 {
				fmt.Printf("%s: %s: pass %d: %s\n", path, issue.Severity, issue.Pass, issue.Message)
			} else {
				fmt.Printf("%s: %s: %s\n", path, issue.Severity, issue.Message)
			}
		}
		if result.HasErrors() {
			exit = 1
		}
	}
	return exit
}

func decompress(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: klxml <command> [args]\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  extract <input.klproj> <output.xml>  Decompress to XML\n")
	fmt.Fprintf(os.Stderr, "  verify <input.klproj>                Decode and display\n")
	fmt.Fprintf(os.Stderr, "  analyze <input.klproj>...            Run structural checks\n")
}
