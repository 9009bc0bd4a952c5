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

package report

import (
	"bytes"
	"context"
	"io"
	"os"
	"slices"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/narrate/pkg/fsutil"
)

// Phase is the lifecycle state of a Document.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseContextBuilt
	PhaseAssembling
	PhaseFinalized
)

func (p Phase) String() string {
	switch p {
	case PhaseContextBuilt:
		return "context-built"
	case PhaseAssembling:
		return "assembling"
	case PhaseFinalized:
		return "finalized"
	default:
		return "uninitialized"
	}
}

var (
	ErrPhase            = errors.Base("invalid report phase")
	ErrAlreadyFinalized = errors.Base("report already finalized")
)

// Renderer turns an element sequence into a paginated document.
type Renderer interface {
	Render(ctx context.Context, elements []Element, w io.Writer) error
}

// 📑 Document is the append-only element sequence of one run.
//
// Appends are accepted in the ContextBuilt and Assembling phases; the first
// append moves the document to Assembling. Anything appended in another
// phase is dropped and logged.
type Document struct {
	elements  []Element
	phase     Phase
	dropped   int
	assetsDir string
	assets    []string
	logger    zerolog.Logger
}

// 🏭 NewDocument creates an empty document. Converted images are written
// under assetsDir.
func NewDocument(assetsDir string, logger zerolog.Logger) *Document {
	return &Document{assetsDir: assetsDir, logger: logger}
}

// Phase returns the current lifecycle phase.
func (d *Document) Phase() Phase { return d.phase }

// Dropped returns how many appends were rejected by the phase rules.
func (d *Document) Dropped() int { return d.dropped }

// Len returns the number of elements.
func (d *Document) Len() int { return len(d.elements) }

// Elements returns a copy of the sequence.
func (d *Document) Elements() []Element {
	return slices.Clone(d.elements)
}

// MarkContextBuilt moves an uninitialized document to ContextBuilt.
func (d *Document) MarkContextBuilt() error {
	if d.phase != PhaseUninitialized {
		return errors.WithDetails(ErrPhase, "phase", d.phase.String(), "want", PhaseUninitialized.String())
	}
	d.phase = PhaseContextBuilt
	return nil
}

func (d *Document) append(els ...Element) bool {
	switch d.phase {
	case PhaseContextBuilt:
		d.phase = PhaseAssembling
	case PhaseAssembling:
	default:
		d.dropped += len(els)
		d.logger.Warn().Str("phase", d.phase.String()).Int("elements", len(els)).Msg("dropping append outside assembly")
		return false
	}
	d.elements = append(d.elements, els...)
	return true
}

// AddHeading appends a heading. Level-1 headings are preceded by a spacer
// and a horizontal rule; deeper levels by a small spacer.
func (d *Document) AddHeading(text string, level int) {
	level = min(max(level, 1), 3)
	if level == 1 {
		d.append(
			Element{Kind: KindSpacer, Height: 0.3 * Inch},
			Element{Kind: KindRule},
			Element{Kind: KindHeading, Level: 1, Text: text},
		)
		return
	}
	d.append(
		Element{Kind: KindSpacer, Height: 0.1 * Inch},
		Element{Kind: KindHeading, Level: level, Text: text},
	)
}

// AddParagraph appends a normal paragraph.
func (d *Document) AddParagraph(text string) {
	d.AddStyled(text, StyleNormal)
}

// AddStyled appends a paragraph with the given style.
func (d *Document) AddStyled(text string, style Style) {
	d.append(Element{Kind: KindParagraph, Text: text, Style: style})
}

// AddCode appends a monospaced code block.
func (d *Document) AddCode(code string) {
	d.append(Element{Kind: KindCode, Text: code})
}

// AddBullet appends a bullet item.
func (d *Document) AddBullet(text string) {
	d.append(Element{Kind: KindBullet, Text: text})
}

// AddTable appends a table with a highlighted header and alternating row
// shading. Empty tables are ignored.
func (d *Document) AddTable(rows [][]string) {
	if len(rows) == 0 {
		return
	}
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = slices.Clone(r)
	}
	d.append(
		Element{Kind: KindTable, Table: &Table{Rows: cp, HighlightHeader: true, Alternate: true}},
		Element{Kind: KindSpacer, Height: 0.25 * Inch},
	)
}

// AddSpacer appends vertical space in points.
func (d *Document) AddSpacer(height float64) {
	d.append(Element{Kind: KindSpacer, Height: height})
}

// PageBreak starts a new page. Renderers skip it on an empty page.
func (d *Document) PageBreak() {
	d.append(Element{Kind: KindPageBreak})
}

// 💾 Finalize renders the sequence into memory and writes it to path
// atomically. Finalized is terminal: a second call fails.
func (d *Document) Finalize(ctx context.Context, r Renderer, path string) error {
	switch d.phase {
	case PhaseFinalized:
		return errors.WithDetails(ErrAlreadyFinalized, "path", path)
	case PhaseUninitialized:
		return errors.WithDetails(ErrPhase, "phase", d.phase.String(), "want", PhaseAssembling.String())
	}
	d.phase = PhaseFinalized

	var buf bytes.Buffer
	if err := r.Render(ctx, d.Elements(), &buf); err != nil {
		return errors.Errorf("rendering report: %w", err)
	}
	if err := fsutil.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Info().Str("path", path).Int("elements", len(d.elements)).Int("bytes", buf.Len()).Msg("report written")
	return nil
}

// Cleanup removes the files the document wrote into the assets directory,
// and the directory itself when it is left empty.
func (d *Document) Cleanup() {
	for _, p := range d.assets {
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			d.logger.Warn().Err(err).Str("path", p).Msg("removing asset")
		}
	}
	d.assets = nil
	if d.assetsDir != "" {
		// only succeeds when empty
		_ = os.Remove(d.assetsDir)
	}
}
