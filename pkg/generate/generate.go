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

package generate

import (
	"cmp"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/narrate/pkg/config"
	"github.com/walteh/narrate/pkg/extract"
	"github.com/walteh/narrate/pkg/log"
	"github.com/walteh/narrate/pkg/narrate"
	"github.com/walteh/narrate/pkg/project"
	"github.com/walteh/narrate/pkg/report"
	"github.com/walteh/narrate/pkg/status"
	"github.com/walteh/narrate/pkg/summarize"
)

// Fixed report texts.
const (
	TOCPlaceholder      = "The table of contents will be automatically generated."
	AdditionalFilesName = "Additional Project Files"
	coverDateLayout     = "January 02, 2006, 15:04:05"
)

// Options configures one run.
type Options struct {
	Config     *config.Config
	Summarizer *summarize.Summarizer
	Renderer   report.Renderer  // defaults to a PDFRenderer
	Console    *log.Logger      // progress output, discarded when nil
	Now        func() time.Time // defaults to time.Now
}

// Result describes a finished run.
type Result struct {
	Output    string
	Context   *project.Context
	Processed *status.ProcessedFileSet
	Elements  int
}

// 🚀 Run scans the project, narrates it and writes the report. When
// assembly fails part way, whatever was accumulated is still written before
// the error is returned.
func Run(ctx context.Context, opts Options) (*Result, error) {
	logger := zerolog.Ctx(ctx)

	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("generate: config is required")
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Console == nil {
		opts.Console = log.New(io.Discard, io.Discard, zerolog.Disabled)
	}
	root, err := filepath.Abs(cfg.ProjectRoot)
	if err != nil {
		return nil, errors.Errorf("resolving project root: %w", err)
	}

	skipper := project.NewSkipper(root, cfg.CacheDirs, cfg.OutputPath(), cfg.AssetsPath(), cfg.LogPath())

	pctx, err := project.Scan(ctx, root, skipper)
	if err != nil {
		return nil, errors.Errorf("building project context: %w", err)
	}

	doc := report.NewDocument(cfg.AssetsPath(), *logger)
	defer doc.Cleanup()
	if err := doc.MarkContextBuilt(); err != nil {
		return nil, err
	}

	opts.Console.StartProgress(pctx.EligibleFiles())

	dispatcher := narrate.New(narrate.Options{
		Document:         doc,
		Summarizer:       opts.Summarizer,
		Skipper:          skipper,
		Console:          opts.Console,
		CodePreviewLines: cfg.CodePreviewLines,
		CSVPreviewRows:   cfg.CSVPreviewRows,
	})

	a := &assembler{
		cfg:        cfg,
		root:       root,
		doc:        doc,
		summarizer: opts.Summarizer,
		dispatcher: dispatcher,
		skipper:    skipper,
		pctx:       pctx,
		console:    opts.Console,
		now:        opts.Now,
	}

	renderer := opts.Renderer
	if renderer == nil {
		renderer = &report.PDFRenderer{Title: cfg.Title, Created: opts.Now()}
	}

	if err := a.assemble(ctx); err != nil {
		logger.Error().Err(err).Msg("error processing project")
		opts.Console.Errorf("report incomplete: %v", err)
		// the run context may be canceled, the partial report is still written
		if ferr := doc.Finalize(context.WithoutCancel(ctx), renderer, cfg.OutputPath()); ferr != nil {
			logger.Error().Err(ferr).Msg("failed to save partial report")
			opts.Console.Error("failed to save partial report")
		} else {
			opts.Console.Warningf("partial report saved to %s", cfg.OutputPath())
		}
		return nil, errors.Errorf("generating report: %w", err)
	}

	if err := doc.Finalize(ctx, renderer, cfg.OutputPath()); err != nil {
		return nil, err
	}
	opts.Console.Infof("narrated %d of %d files", dispatcher.Processed().Len(), pctx.EligibleFiles())

	return &Result{
		Output:    cfg.OutputPath(),
		Context:   pctx,
		Processed: dispatcher.Processed(),
		Elements:  doc.Len(),
	}, nil
}

type assembler struct {
	cfg        *config.Config
	root       string
	doc        *report.Document
	summarizer *summarize.Summarizer
	dispatcher *narrate.Dispatcher
	skipper    *project.Skipper
	pctx       *project.Context
	console    *log.Logger
	now        func() time.Time
}

func (a *assembler) section(title string) {
	a.console.Section(title)
}

func (a *assembler) assemble(ctx context.Context) error {
	a.cover()
	a.doc.PageBreak()
	a.tableOfContents()
	a.doc.PageBreak()

	structure := project.Structure(ctx, a.skipper, project.DefaultStructureDepth)

	a.section("Executive Summary")
	a.doc.AddHeading("Executive Summary", 1)
	a.doc.AddParagraph(a.summarizer.Summarize(ctx, summarize.ExecutiveSummaryPrompt(structure)))
	a.doc.PageBreak()

	a.section("Project Overview")
	a.doc.AddHeading("Project Overview", 1)
	a.doc.AddParagraph(a.summarizer.Summarize(ctx, summarize.OverviewPrompt(structure)))

	a.section("Key File Analysis")
	if err := a.dispatcher.ProcessKeyFiles(ctx, a.root, a.cfg.KeyFiles); err != nil {
		return err
	}

	for _, s := range a.cfg.Sections {
		a.doc.PageBreak()
		dir := filepath.Join(a.root, s.Dir)
		if !isDir(dir) || a.skipper.Skip(dir) {
			continue
		}
		a.section(s.Title)
		if err := a.dispatcher.ExploreDirectory(ctx, dir, s.Title); err != nil {
			return err
		}
	}

	if err := a.additionalFiles(ctx); err != nil {
		return err
	}

	a.doc.PageBreak()
	a.section("Conclusions and Recommendations")
	a.conclusion(ctx)
	return ctx.Err()
}

// cover lays out the title page.
func (a *assembler) cover() {
	a.doc.AddSpacer(100)
	a.doc.AddStyled(a.cfg.Title, report.StyleTitle)
	a.doc.AddSpacer(0.3 * report.Inch)
	a.doc.AddStyled(a.cfg.Subtitle, report.StyleSubtitle)
	a.doc.AddSpacer(2 * report.Inch)
	a.doc.AddStyled("Generated on: "+a.now().Format(coverDateLayout), report.StyleCoverInfo)
	a.doc.AddSpacer(0.5 * report.Inch)
	a.doc.AddSpacer(3 * report.Inch)
	a.doc.AddStyled(a.cfg.FooterNote, report.StyleCoverFooter)
}

func (a *assembler) tableOfContents() {
	a.doc.AddHeading("Table of Contents", 1)
	a.doc.AddSpacer(0.3 * report.Inch)
	a.doc.AddStyled(TOCPlaceholder, report.StyleItalic)
	a.doc.AddSpacer(0.5 * report.Inch)
}

// 🧺 additionalFiles narrates what neither the key-file pass nor a
// configured section reached, grouped by directory.
func (a *assembler) additionalFiles(ctx context.Context) error {
	covered := map[string]bool{}
	for _, s := range a.cfg.Sections {
		// a file named like a section is not covered by the section loop
		if dir := filepath.Join(a.root, s.Dir); isDir(dir) && !a.skipper.Skip(dir) {
			covered[dir] = true
		}
	}

	var remaining []string
	err := filepath.WalkDir(a.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() && path != a.root {
				return fs.SkipDir
			}
			return nil
		}
		if path == a.root {
			return nil
		}
		if a.skipper.SkipEntry(path) || covered[path] {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() && !a.dispatcher.Processed().Contains(path) {
			remaining = append(remaining, path)
		}
		return nil
	})
	if err != nil {
		return errors.Errorf("walking project root: %w", err)
	}
	if len(remaining) == 0 {
		return nil
	}
	slices.SortStableFunc(remaining, func(x, y string) int {
		return cmp.Or(cmp.Compare(filepath.Dir(x), filepath.Dir(y)), cmp.Compare(x, y))
	})

	a.section(AdditionalFilesName)
	a.doc.PageBreak()
	a.doc.AddHeading(AdditionalFilesName, 1)

	lastDir := a.root
	for _, path := range remaining {
		if err := ctx.Err(); err != nil {
			return errors.Errorf("narrating additional files: %w", err)
		}
		if dir := filepath.Dir(path); dir != lastDir {
			rel, _ := filepath.Rel(a.root, dir)
			a.doc.AddHeading("Directory: "+filepath.ToSlash(rel), 2)
			lastDir = dir
		}
		a.dispatcher.Dispatch(ctx, path, false)
	}
	return nil
}

func (a *assembler) conclusion(ctx context.Context) {
	topics, terms := a.pctx.Topics, a.pctx.KeyTerms

	a.doc.AddHeading("Conclusions and Recommendations", 1)
	for _, p := range extract.Paragraphs(a.summarizer.Summarize(ctx, summarize.ConclusionPrompt(topics, terms))) {
		a.doc.AddParagraph(p)
	}

	a.doc.AddHeading("Recommendations for Next Steps", 2)
	for _, item := range extract.ListItems(a.summarizer.Summarize(ctx, summarize.RecommendationsPrompt(topics, terms))) {
		a.doc.AddBullet(item)
	}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
