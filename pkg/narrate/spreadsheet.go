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
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/narrate/pkg/summarize"
)

// Workbook display limits.
const (
	maxSheets      = 3
	maxPreviewRows = 6
	maxPreviewCols = 10
	maxHeaderCols  = 15
	largeSheetRows = 1000
	largeSheetCols = 50
)

// sheetScan is what one streaming pass over a sheet learns.
type sheetScan struct {
	rows int
	cols int
	head [][]string
}

// scanSheet counts rows and columns of sheet and keeps the first keep rows.
func scanSheet(f *excelize.File, sheet string, keep int) (*sheetScan, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, errors.Errorf("reading sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	scan := &sheetScan{}
	for rows.Next() {
		cols, err := rows.Columns()
		if err != nil {
			return nil, errors.Errorf("reading row %d of %q: %w", scan.rows+1, sheet, err)
		}
		scan.rows++
		scan.cols = max(scan.cols, len(cols))
		if len(scan.head) < keep {
			scan.head = append(scan.head, cols)
		}
	}
	if err := rows.Error(); err != nil {
		return nil, errors.Errorf("reading sheet %q: %w", sheet, err)
	}
	return scan, nil
}

// cell returns column c of row r, empty when the row is short.
func (s *sheetScan) cell(r, c int) string {
	if r >= len(s.head) || c >= len(s.head[r]) {
		return ""
	}
	return s.head[r][c]
}

// 📊 spreadsheetHandler previews the first sheets of a workbook.
type spreadsheetHandler struct{ *env }

func (h *spreadsheetHandler) Render(ctx context.Context, path string) error {
	name := filepath.Base(path)
	h.doc.AddHeading("Excel File: "+name, 2)

	f, err := excelize.OpenFile(path)
	if err != nil {
		return errors.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	h.doc.AddParagraph(fmt.Sprintf("Contains %d sheets: %s", len(sheets), strings.Join(sheets, ", ")))

	for _, sheet := range head(sheets, maxSheets) {
		h.doc.AddHeading("Sheet: "+sheet, 3)

		scan, err := scanSheet(f, sheet, maxPreviewRows)
		if err != nil {
			return err
		}

		if scan.rows < largeSheetRows && scan.cols < largeSheetCols {
			h.preview(scan)
			continue
		}

		h.doc.AddParagraph(fmt.Sprintf("Sheet is too large to display: %d rows x %d columns", scan.rows, scan.cols))
		n := min(maxHeaderCols, scan.cols)
		headers := make([]string, n)
		for c := range n {
			headers[c] = scan.cell(0, c)
			if headers[c] == "" {
				headers[c] = fmt.Sprintf("Column %d", c+1)
			}
		}
		h.doc.AddParagraph("Column headers:")
		h.doc.AddParagraph(strings.Join(headers, ", "))
		if scan.cols > maxHeaderCols {
			h.doc.AddParagraph(notShown(scan.cols-maxHeaderCols, "columns"))
		}
	}

	if len(sheets) > maxSheets {
		h.doc.AddParagraph(notShown(len(sheets)-maxSheets, "sheets"))
	}

	interpretation := h.summarize(ctx, summarize.WorkbookPrompt(name, sheets))
	h.doc.AddParagraph("Possible content interpretation:")
	h.doc.AddParagraph(interpretation)
	return nil
}

func (h *spreadsheetHandler) preview(scan *sheetScan) {
	rows := min(maxPreviewRows, scan.rows)
	cols := min(maxPreviewCols, scan.cols)
	if rows == 0 || cols == 0 {
		return
	}

	table := make([][]string, rows)
	for r := range rows {
		table[r] = make([]string, cols)
		for c := range cols {
			table[r][c] = scan.cell(r, c)
		}
	}

	h.doc.AddParagraph(fmt.Sprintf("Preview of first %d rows and %d columns:", rows, cols))
	h.doc.AddTable(table)
	if scan.cols > cols {
		h.doc.AddParagraph(notShown(scan.cols-cols, "columns"))
	}
	if scan.rows > rows {
		h.doc.AddParagraph(notShown(scan.rows-rows, "rows"))
	}
}
