// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package batch

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gogpu/klproj/isf"
)

// DefaultExtensions are the file extensions scanned for ISF shaders.
var DefaultExtensions = []string{".fs", ".frag", ".glsl"}

// Info describes one discovered ISF file.
type Info struct {
	Path        string
	Multipass   bool
	Passes      int
	Description string
	Categories  []string
}

// Name returns the file name without extension.
func (i Info) Name() string {
	base := filepath.Base(i.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Scan walks the given directories and returns every file that carries a
// valid ISF metadata header. Files with a matching extension but no parseable
// header are skipped, as are unreadable files; discovery never fails on file
// content. extensions defaults to DefaultExtensions when empty.
func Scan(dirs []string, extensions []string) ([]Info, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[ext] = true
	}

	var infos []Info
	for _, dir := range dirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			if !extSet[filepath.Ext(path)] {
				return nil
			}
			source, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			shader, err := isf.Parse(string(source))
			if err != nil {
				return nil
			}
			infos = append(infos, Info{
				Path:        path,
				Multipass:   len(shader.Passes) > 0,
				Passes:      len(shader.Passes),
				Description: shader.Description,
				Categories:  shader.Categories,
			})
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return infos, nil
}

// FilterCategory returns the shaders tagged with the given category,
// case-insensitively.
func FilterCategory(infos []Info, category string) []Info {
	var out []Info
	for _, info := range infos {
		for _, c := range info.Categories {
			if strings.EqualFold(c, category) {
				out = append(out, info)
				break
			}
		}
	}
	return out
}
