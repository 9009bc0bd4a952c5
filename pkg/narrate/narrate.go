// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package narrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/narrate/pkg/config"
	"github.com/walteh/narrate/pkg/filetype"
	"github.com/walteh/narrate/pkg/log"
	"github.com/walteh/narrate/pkg/project"
	"github.com/walteh/narrate/pkg/report"
	"github.com/walteh/narrate/pkg/status"
	"github.com/walteh/narrate/pkg/summarize"
)

// NoKeyFiles is rendered when the key-file pass finds nothing.
const NoKeyFiles = "No key analysis files were found in the project."

// Options wires a Dispatcher to the run's shared state.
type Options struct {
	Document   *report.Document
	Summarizer *summarize.Summarizer
	Processed  *status.ProcessedFileSet
	Skipper    *project.Skipper
	Console    *log.Logger // optional progress output

	CodePreviewLines int
	CSVPreviewRows   int
}

// 🚦 Dispatcher routes files to their handler and records every file it
// hands out, so no file is narrated twice.
type Dispatcher struct {
	opts     Options
	handlers map[filetype.Kind]Handler
}

// 🏭 New builds a dispatcher with the handler for every kind.
func New(opts Options) *Dispatcher {
	if opts.CodePreviewLines <= 0 {
		opts.CodePreviewLines = 30
	}
	if opts.CSVPreviewRows <= 0 {
		opts.CSVPreviewRows = 10
	}
	if opts.Processed == nil {
		opts.Processed = status.NewProcessedFileSet()
	}
	env := &env{doc: opts.Document, summarizer: opts.Summarizer, opts: &opts}
	return &Dispatcher{
		opts: opts,
		handlers: map[filetype.Kind]Handler{
			filetype.Code:        &codeHandler{env},
			filetype.Notebook:    &notebookHandler{env},
			filetype.Image:       &imageHandler{env},
			filetype.Spreadsheet: &spreadsheetHandler{env},
			filetype.CSV:         &csvHandler{env},
			filetype.WordDoc:     &wordHandler{env},
			filetype.Markdown:    &markdownHandler{env},
			filetype.Other:       &otherHandler{env},
		},
	}
}

// Processed returns the set of files handed to a handler so far.
func (d *Dispatcher) Processed() *status.ProcessedFileSet { return d.opts.Processed }

// 📨 Dispatch narrates one file unless it was already processed. Handler
// failures are rendered inline and never returned.
func (d *Dispatcher) Dispatch(ctx context.Context, path string, key bool) {
	if d.opts.Processed.Contains(path) {
		return
	}

	kind := filetype.Classify(path)
	if err := d.opts.Processed.Add(path, status.FileInfo{Kind: kind.String(), Key: key}); err != nil {
		return
	}

	err := d.handlers[kind].Render(ctx, path)

	st := status.StatusNarrated
	switch {
	case err != nil:
		st = status.StatusFailed
		zerolog.Ctx(ctx).Error().Err(err).Str("path", path).Str("kind", kind.String()).Msg("error processing file")
		d.opts.Document.AddParagraph(fmt.Sprintf("Error processing this %s: %v", kind.Noun(), err))
	case kind == filetype.Other:
		st = status.StatusListed
	}
	d.opts.Processed.Update(path, st, err)

	if d.opts.Console != nil {
		d.opts.Console.LogFileEvent(ctx, log.FileEvent{Path: path, Kind: kind.String(), Status: st, Key: key, Err: err})
	}
}

// 🔑 ProcessKeyFiles narrates the files matching each key pattern, in
// pattern order and sorted path order within a pattern.
func (d *Dispatcher) ProcessKeyFiles(ctx context.Context, root string, keyFiles []config.KeyFile) error {
	logger := zerolog.Ctx(ctx)
	d.opts.Document.AddHeading("Key File Analysis", 1)

	fsys := os.DirFS(root)
	found := false
	for _, kf := range keyFiles {
		matches, err := doublestar.Glob(fsys, kf.Pattern, doublestar.WithFilesOnly())
		if err != nil {
			logger.Warn().Err(err).Str("pattern", kf.Pattern).Msg("invalid key file pattern")
			continue
		}
		slices.Sort(matches)

		for _, m := range matches {
			path := filepath.Join(root, filepath.FromSlash(m))
			if d.opts.Skipper != nil && d.opts.Skipper.Skip(path) {
				continue
			}
			if d.opts.Processed.Contains(path) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return errors.Errorf("processing key files: %w", err)
			}
			found = true
			d.opts.Document.AddHeading(fmt.Sprintf("%s: %s", kf.Title, filepath.Base(path)), 2)
			d.Dispatch(ctx, path, true)
		}
	}

	if !found {
		d.opts.Document.AddParagraph(NoKeyFiles)
	}
	return nil
}

// 📂 ExploreDirectory narrates every unprocessed file of dir in sorted
// order, then recurses into its subdirectories in sorted order. A non-empty
// title opens a level-1 section. Only context cancellation is returned.
func (d *Dispatcher) ExploreDirectory(ctx context.Context, dir, title string) error {
	doc := d.opts.Document
	if title != "" {
		doc.AddHeading(title, 1)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("dir", dir).Msg("error exploring directory")
		doc.AddParagraph(fmt.Sprintf("Error exploring this directory: %v", err))
		return nil
	}

	var files, dirs []string
	for _, e := range entries {
		if d.opts.Skipper != nil && d.opts.Skipper.SkipEntry(filepath.Join(dir, e.Name())) {
			continue
		}
		if e.IsDir() {
			dirs = append(dirs, e.Name())
		} else {
			files = append(files, e.Name())
		}
	}

	if len(files) > 0 || len(dirs) > 0 {
		doc.AddParagraph(fmt.Sprintf("Directory contains %d files and %d subdirectories", len(files), len(dirs)))
		if len(files) > 0 {
			doc.AddParagraph("Files:")
			doc.AddParagraph(strings.Join(files, ", "))
		}
		if len(dirs) > 0 {
			doc.AddParagraph("Subdirectories:")
			doc.AddParagraph(strings.Join(dirs, ", "))
		}
	}

	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("exploring %s: %w", dir, err)
		}
		d.Dispatch(ctx, filepath.Join(dir, name), false)
	}

	for _, name := range dirs {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("exploring %s: %w", dir, err)
		}
		doc.AddHeading("Subdirectory: "+name, 2)
		if err := d.ExploreDirectory(ctx, filepath.Join(dir, name), ""); err != nil {
			return err
		}
	}
	return nil
}
