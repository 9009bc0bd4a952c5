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
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// Page geometry in points.
const (
	marginLeft   = 54.0
	marginRight  = 54.0
	marginTop    = 72.0
	marginBottom = 54.0

	footerInset = 50.0
)

type rgb struct{ r, g, b int }

var (
	colorBlack     = rgb{0, 0, 0}
	colorDarkBlue  = rgb{0, 0, 139}
	colorNavy      = rgb{0, 0, 128}
	colorLightGrey = rgb{211, 211, 211}
	colorGrey      = rgb{128, 128, 128}
	colorDarkGrey  = rgb{169, 169, 169}
	colorLightBlue = rgb{173, 216, 230}
	colorSlateGrey = rgb{47, 79, 79}
	colorWhite     = rgb{255, 255, 255}
)

type font struct {
	family  string
	style   string
	size    float64
	leading float64
	color   rgb
	align   string
	after   float64
}

var headingFonts = map[int]font{
	1: {"Helvetica", "B", 18, 22, colorDarkBlue, "L", 12},
	2: {"Helvetica", "B", 14, 18, colorNavy, "L", 10},
	3: {"Helvetica", "B", 12, 14, colorDarkBlue, "L", 8},
}

var paragraphFonts = map[Style]font{
	StyleNormal:      {"Helvetica", "", 10, 14, colorBlack, "L", 8},
	StyleItalic:      {"Helvetica", "I", 10, 14, colorBlack, "L", 8},
	StyleCaption:     {"Helvetica", "I", 9, 12, colorSlateGrey, "C", 10},
	StyleTitle:       {"Helvetica", "B", 24, 30, colorDarkBlue, "C", 0},
	StyleSubtitle:    {"Helvetica", "B", 18, 22, colorNavy, "C", 0},
	StyleCoverInfo:   {"Helvetica", "", 12, 16, colorBlack, "C", 0},
	StyleCoverFooter: {"Helvetica", "", 10, 12, colorDarkGrey, "C", 0},
}

// 🖨️ PDFRenderer lays the element sequence out on A4 pages. Every page but
// the cover carries a "Page X of N" footer above a thin rule.
type PDFRenderer struct {
	Title   string
	Created time.Time
}

// footerText is the running page label; {nb} is replaced by the page count.
func footerText(page int) string {
	return fmt.Sprintf("Page %d of {nb}", page)
}

// Render implements Renderer.
func (r *PDFRenderer) Render(ctx context.Context, elements []Element, w io.Writer) error {
	pdf, err := r.layout(ctx, elements)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return errors.Errorf("writing pdf: %w", err)
	}
	return nil
}

func (r *PDFRenderer) layout(ctx context.Context, elements []Element) (*fpdf.Fpdf, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(marginLeft, marginTop, marginRight)
	pdf.SetAutoPageBreak(true, marginBottom)
	pdf.AliasNbPages("")
	if r.Title != "" {
		pdf.SetTitle(r.Title, true)
	}
	pdf.SetCreator("narrate", true)
	if !r.Created.IsZero() {
		pdf.SetCreationDate(r.Created)
		pdf.SetModificationDate(r.Created)
	}

	l := &layout{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		logger: zerolog.Ctx(ctx),
	}
	l.pageW, l.pageH = pdf.GetPageSize()

	pdf.SetFooterFunc(func() {
		if pdf.PageNo() == 1 {
			return
		}
		y := l.pageH - 30
		pdf.SetDrawColor(colorLightGrey.r, colorLightGrey.g, colorLightGrey.b)
		pdf.SetLineWidth(0.5)
		pdf.Line(footerInset, y, l.pageW-footerInset, y)
		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(colorDarkGrey.r, colorDarkGrey.g, colorDarkGrey.b)
		pdf.SetXY(footerInset, l.pageH-27)
		pdf.CellFormat(l.pageW-2*footerInset, 9, footerText(pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	l.newPage()
	for i, el := range elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		l.element(el)
		if err := pdf.Error(); err != nil {
			return nil, errors.Errorf("laying out element %d (%s): %w", i, el.Kind, err)
		}
	}
	return pdf, nil
}

type layout struct {
	pdf          *fpdf.Fpdf
	tr           func(string) string
	logger       *zerolog.Logger
	pageW, pageH float64
	fresh        bool
}

func (l *layout) width() float64 { return l.pageW - marginLeft - marginRight }

func (l *layout) bottom() float64 { return l.pageH - marginBottom }

func (l *layout) newPage() {
	l.pdf.AddPage()
	l.fresh = true
}

func (l *layout) ensure(h float64) {
	if !l.fresh && l.pdf.GetY()+h > l.bottom() {
		l.newPage()
	}
}

func (l *layout) setFont(f font) {
	l.pdf.SetFont(f.family, f.style, f.size)
	l.pdf.SetTextColor(f.color.r, f.color.g, f.color.b)
}

func (l *layout) text(s string, f font) {
	l.setFont(f)
	l.pdf.SetX(marginLeft)
	l.pdf.MultiCell(0, f.leading, l.tr(s), "", f.align, false)
	if f.after > 0 {
		l.pdf.Ln(f.after)
	}
	l.fresh = false
}

func (l *layout) element(el Element) {
	switch el.Kind {
	case KindHeading:
		f, ok := headingFonts[el.Level]
		if !ok {
			f = headingFonts[3]
		}
		l.ensure(f.leading * 3)
		l.text(el.Text, f)
	case KindParagraph:
		f, ok := paragraphFonts[el.Style]
		if !ok {
			f = paragraphFonts[StyleNormal]
		}
		l.text(el.Text, f)
	case KindCode:
		l.code(el.Text)
	case KindBullet:
		l.bullet(el.Text)
	case KindImage:
		l.image(el.Image)
	case KindTable:
		l.table(el.Table)
	case KindSpacer:
		l.spacer(el.Height)
	case KindRule:
		l.rule()
	case KindPageBreak:
		if !l.fresh {
			l.newPage()
		}
	}
}

func (l *layout) spacer(h float64) {
	if l.pdf.GetY()+h > l.bottom() {
		if !l.fresh {
			l.newPage()
		}
		return
	}
	l.pdf.Ln(h)
}

func (l *layout) rule() {
	l.ensure(20)
	l.pdf.Ln(10)
	y := l.pdf.GetY()
	l.pdf.SetDrawColor(colorLightGrey.r, colorLightGrey.g, colorLightGrey.b)
	l.pdf.SetLineWidth(1)
	l.pdf.Line(marginLeft, y, l.pageW-marginRight, y)
	l.pdf.Ln(10)
	l.fresh = false
}

func (l *layout) code(code string) {
	code = strings.ReplaceAll(code, "\t", "    ")
	l.pdf.Ln(6)
	l.pdf.SetFont("Courier", "", 9)
	l.pdf.SetTextColor(colorBlack.r, colorBlack.g, colorBlack.b)
	l.pdf.SetFillColor(colorLightGrey.r, colorLightGrey.g, colorLightGrey.b)
	l.pdf.SetDrawColor(colorGrey.r, colorGrey.g, colorGrey.b)
	l.pdf.SetLineWidth(1)
	l.pdf.SetX(marginLeft + 20)
	l.pdf.MultiCell(l.width()-40, 12, l.tr(code), "1", "L", true)
	l.pdf.Ln(10)
	l.fresh = false
}

func (l *layout) bullet(text string) {
	f := paragraphFonts[StyleNormal]
	l.setFont(f)
	l.ensure(f.leading)
	l.pdf.SetX(marginLeft + 5)
	l.pdf.CellFormat(15, f.leading, l.tr("•"), "", 0, "L", false, 0, "")
	l.pdf.MultiCell(l.width()-20, f.leading, l.tr(text), "", "L", false)
	l.pdf.Ln(2)
	l.fresh = false
}

func (l *layout) image(img *Image) {
	opts := fpdf.ImageOptions{ReadDpi: false}
	info := l.pdf.RegisterImageOptions(img.Path, opts)
	if !l.pdf.Ok() || info == nil || info.Width() <= 0 {
		err := l.pdf.Error()
		l.pdf.ClearError()
		l.logger.Warn().Err(err).Str("path", img.Path).Msg("image could not be embedded")
		l.text("[image unavailable: "+filepath.Base(img.Path)+"]", paragraphFonts[StyleCaption])
		return
	}

	w, h := img.Width, img.Height
	if w <= 0 {
		w = FallbackImageWidth
	}
	if h <= 0 {
		h = w * info.Height() / info.Width()
		if h > MaxImageHeight {
			w = w * MaxImageHeight / h
			h = MaxImageHeight
		}
	}

	l.ensure(h)
	x := (l.pageW - w) / 2
	y := l.pdf.GetY()
	l.pdf.ImageOptions(img.Path, x, y, w, h, false, opts, 0, "")
	l.pdf.SetY(y + h + 4)
	l.fresh = false
}

func (l *layout) table(t *Table) {
	cols := 0
	for _, row := range t.Rows {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return
	}

	const rowH = 16.0
	colW := l.width() / float64(cols)
	l.pdf.SetDrawColor(colorLightGrey.r, colorLightGrey.g, colorLightGrey.b)
	l.pdf.SetLineWidth(0.5)

	for i, row := range t.Rows {
		l.ensure(rowH)
		header := i == 0
		fill := colorWhite
		textColor := colorBlack
		style := ""
		size := 9.0
		switch {
		case header:
			style, size = "B", 10
			if t.HighlightHeader {
				fill, textColor = colorLightBlue, colorDarkBlue
			}
		case t.Alternate && i%2 == 1:
			fill = colorLightGrey
		}

		l.pdf.SetFont("Helvetica", style, size)
		l.pdf.SetFillColor(fill.r, fill.g, fill.b)
		l.pdf.SetTextColor(textColor.r, textColor.g, textColor.b)
		l.pdf.SetX(marginLeft)
		for c := 0; c < cols; c++ {
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			l.pdf.CellFormat(colW, rowH, l.fit(l.tr(cell), colW-4), "1", 0, "L", true, 0, "")
		}
		l.pdf.Ln(rowH)
		l.fresh = false
	}
}

// fit shortens s with a trailing "..." until it fits in width.
func (l *layout) fit(s string, width float64) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if l.pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 {
		s = s[:len(s)-1]
		if l.pdf.GetStringWidth(s+"...") <= width {
			return s + "..."
		}
	}
	return ""
}
