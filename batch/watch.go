// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package batch

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-converts ISF files as they change on disk. Each write or create
// event on a file with a matching extension triggers one conversion through
// the embedded Converter, with Overwrite forced on so edits replace earlier
// outputs.
type Watcher struct {
	Converter *Converter

	// Extensions filters which files trigger conversion; empty means
	// DefaultExtensions.
	Extensions []string
}

// Watch converts on changes under the given directories until the context is
// canceled. Conversion failures are logged and watching continues; only
// watcher-level failures end the loop early.
func (w *Watcher) Watch(ctx context.Context, dirs ...string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return err
		}
	}

	extensions := w.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}
	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[ext] = true
	}

	conv := *w.Converter
	conv.Overwrite = true
	log := conv.logger()

	log.Info("watching for changes", "dirs", dirs)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) {
				continue
			}
			if !extSet[filepath.Ext(event.Name)] {
				continue
			}
			if outputPath, err := conv.ConvertFile(event.Name); err != nil {
				log.Error("reconversion failed", "input", event.Name, "error", err)
			} else {
				log.Info("reconverted", "input", event.Name, "output", outputPath)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "error", err)
		}
	}
}
