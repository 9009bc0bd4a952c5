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
	"archive/zip"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/walteh/narrate/pkg/config"
	"github.com/walteh/narrate/pkg/project"
	"github.com/walteh/narrate/pkg/report"
	"github.com/walteh/narrate/pkg/status"
	"github.com/walteh/narrate/pkg/summarize"
)

type stubClient struct{ answer string }

func (s stubClient) Name() string { return "stub" }

func (s stubClient) Complete(context.Context, string, string) (string, error) {
	return s.answer, nil
}

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func testDispatcher(t *testing.T, root string) (*Dispatcher, *report.Document) {
	t.Helper()
	doc := report.NewDocument(filepath.Join(t.TempDir(), "assets"), zerolog.New(zerolog.NewTestWriter(t)))
	require.NoError(t, doc.MarkContextBuilt())
	d := New(Options{
		Document:   doc,
		Summarizer: summarize.New(stubClient{answer: "a summary"}),
		Skipper:    project.NewSkipper(root, []string{"__pycache__"}),
	})
	return d, doc
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func texts(doc *report.Document, kind report.ElementKind) []string {
	var out []string
	for _, el := range doc.Elements() {
		if el.Kind == kind {
			out = append(out, el.Text)
		}
	}
	return out
}

func tables(doc *report.Document) []*report.Table {
	var out []*report.Table
	for _, el := range doc.Elements() {
		if el.Kind == report.KindTable {
			out = append(out, el.Table)
		}
	}
	return out
}

func count(items []string, want string) int {
	n := 0
	for _, s := range items {
		if s == want {
			n++
		}
	}
	return n
}

func TestCSV(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	tests := []struct {
		name       string
		content    string
		paragraphs []string
		tableRows  int
		errPrefix  string
	}{
		{
			name: "strict_preview",
			content: func() string {
				var b strings.Builder
				b.WriteString("id,score,group\n")
				for i := 1; i <= 12; i++ {
					fmt.Fprintf(&b, "%d,%d.5,g%d\n", i, i, i%3)
				}
				return b.String()
			}(),
			paragraphs: []string{"Contains 12 rows and 3 columns", "Columns:", "id, score, group", "Data preview (first 10 rows):"},
			tableRows:  11,
		},
		{
			name:       "ragged_falls_back",
			content:    "a,b\n1,2,3\n4\n",
			paragraphs: []string{"Contains 2 rows and 2 columns", "Columns:", "a, b"},
		},
		{
			name:       "header_only",
			content:    "x,y\n",
			paragraphs: []string{"Contains 0 rows and 2 columns", "Columns:", "x, y"},
		},
		{
			name:      "empty",
			content:   "",
			errPrefix: "Error processing this CSV file: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, doc := testDispatcher(t, dir)
			path := writeFile(t, filepath.Join(dir, tt.name+".csv"), tt.content)

			d.Dispatch(ctx, path, false)

			paras := texts(doc, report.KindParagraph)
			info, ok := d.Processed().Get(path)
			require.True(t, ok)

			if tt.errPrefix != "" {
				require.Len(t, paras, 1)
				assert.True(t, strings.HasPrefix(paras[0], tt.errPrefix), paras[0])
				assert.Equal(t, status.StatusFailed, info.Status)
				return
			}

			assert.Equal(t, status.StatusNarrated, info.Status)
			want := append(tt.paragraphs, "Possible data interpretation:", "a summary")
			assert.Equal(t, want, paras)

			tbls := tables(doc)
			if tt.tableRows == 0 {
				assert.Empty(t, tbls)
				return
			}
			require.Len(t, tbls, 1)
			assert.Len(t, tbls[0].Rows, tt.tableRows)
			assert.Equal(t, []string{"id", "score", "group"}, tbls[0].Rows[0])
		})
	}
}

func TestCountLines(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"a\n", 1},
		{"a\nb", 2},
		{"a\r\nb\r\n", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, countLines([]byte(tt.in)), "%q", tt.in)
	}
}

func TestCode(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	d, doc := testDispatcher(t, dir)

	lines := make([]string, 35)
	for i := range lines {
		lines[i] = fmt.Sprintf("x%d = %d", i, i)
	}
	path := writeFile(t, filepath.Join(dir, "train.py"), strings.Join(lines, "\n"))

	d.Dispatch(ctx, path, false)

	assert.Equal(t, []string{"File: train.py"}, texts(doc, report.KindHeading))
	assert.Equal(t, []string{
		"Code Summary:",
		"a summary",
		"Code Sample (first 30 lines):",
		"(... 5 more lines not shown ...)",
	}, texts(doc, report.KindParagraph))

	code := texts(doc, report.KindCode)
	require.Len(t, code, 1)
	assert.Equal(t, strings.Join(lines[:30], "\n"), code[0])
}

func TestImage(t *testing.T) {
	ctx := testContext(t)

	tests := []struct {
		name    string
		file    string
		content string // empty leaves the file missing
	}{
		{name: "missing", file: "scatter_plot.png"},
		{name: "undecodable", file: "bar_chart.png", content: "not a png at all"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			d, doc := testDispatcher(t, dir)

			path := filepath.Join(dir, tt.file)
			if tt.content != "" {
				writeFile(t, path, tt.content)
			}
			d.Dispatch(ctx, path, false)

			assert.Equal(t, []string{"Image: " + tt.file}, texts(doc, report.KindHeading))
			assert.Equal(t, []string{
				"Failed to add image: " + tt.file,
				"Possible interpretation:",
				"a summary",
			}, texts(doc, report.KindParagraph))
			for _, el := range doc.Elements() {
				assert.NotEqual(t, report.KindImage, el.Kind, "no image element should be appended")
			}

			info, ok := d.Processed().Get(path)
			require.True(t, ok)
			assert.Equal(t, status.StatusNarrated, info.Status)
		})
	}
}

func TestNotebook(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	t.Run("no_cells", func(t *testing.T) {
		d, doc := testDispatcher(t, dir)
		path := writeFile(t, filepath.Join(dir, "broken.ipynb"), `{"metadata": {}}`)
		d.Dispatch(ctx, path, false)
		assert.Equal(t, []string{"Notebook does not have a valid format (no 'cells' found)"}, texts(doc, report.KindParagraph))
	})

	t.Run("structure", func(t *testing.T) {
		d, doc := testDispatcher(t, dir)
		path := writeFile(t, filepath.Join(dir, "Clusters.ipynb"), `{
 "cells": [
  {"cell_type": "markdown", "source": ["# Segments\n", "## Setup\n"]},
  {"cell_type": "code", "source": "import pandas as pd\nfrom sklearn.cluster import KMeans\nKMeans(3).fit(df)\nplt.show()"}
 ],
 "metadata": {}
}`)
		d.Dispatch(ctx, path, false)

		assert.Equal(t, []string{
			"Notebook Analysis: Clusters.ipynb",
			"Notebook Structure",
			"Notebook Technical Content",
			"Notebook Summary:",
		}, texts(doc, report.KindHeading))

		paras := texts(doc, report.KindParagraph)
		assert.Equal(t, "Notebook contains 2 cells (1 markdown, 1 code)", paras[0])
		assert.Equal(t, "• Segments", paras[1])
		assert.Equal(t, "  • Setup", paras[2])
		assert.Contains(t, paras, "Key libraries: pandas, KMeans")
		assert.Equal(t, "a summary", paras[len(paras)-1])
	})
}

func TestSpreadsheet(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	d, doc := testDispatcher(t, dir)

	f := excelize.NewFile()
	for r := 1; r <= 8; r++ {
		row := make([]interface{}, 12)
		for c := range row {
			row[c] = fmt.Sprintf("r%dc%d", r, c+1)
		}
		cell, err := excelize.CoordinatesToCellName(1, r)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	for _, name := range []string{"B", "C", "D"} {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
	}
	path := filepath.Join(dir, "results.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	d.Dispatch(ctx, path, false)

	assert.Equal(t, []string{
		"Excel File: results.xlsx",
		"Sheet: Sheet1",
		"Sheet: B",
		"Sheet: C",
	}, texts(doc, report.KindHeading))

	paras := texts(doc, report.KindParagraph)
	assert.Equal(t, "Contains 4 sheets: Sheet1, B, C, D", paras[0])
	assert.Contains(t, paras, "Preview of first 6 rows and 10 columns:")
	assert.Contains(t, paras, "(... 2 more columns not shown ...)")
	assert.Contains(t, paras, "(... 2 more rows not shown ...)")
	assert.Contains(t, paras, "(... 1 more sheets not shown ...)")
	assert.Equal(t, []string{"Possible content interpretation:", "a summary"}, paras[len(paras)-2:])

	tbls := tables(doc)
	require.Len(t, tbls, 1)
	require.Len(t, tbls[0].Rows, 6)
	assert.Len(t, tbls[0].Rows[0], 10)
	assert.Equal(t, "r6c10", tbls[0].Rows[5][9])
}

func TestWordDocument(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	d, doc := testDispatcher(t, dir)

	path := filepath.Join(dir, "notes.docx")
	out, err := os.Create(path)
	require.NoError(t, err)
	zw := zip.NewWriter(out)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		`<w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Method</w:t></w:r></w:p>` +
		`<w:p><w:r><w:t>We surveyed alumni.</w:t></w:r></w:p>` +
		`</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())

	d.Dispatch(ctx, path, false)

	assert.Equal(t, []string{
		"Document contains 2 paragraphs and 1 headings",
		"Document structure:",
		"- Method",
		"Document introduction:",
		"Method",
		"We surveyed alumni.",
		"Document Summary:",
		"a summary",
	}, texts(doc, report.KindParagraph))
}

func TestMarkdown(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	d, doc := testDispatcher(t, dir)

	content := "# Results\n\nSome text.\n\n## Next\n\n```\n# not a heading\n```\n"
	path := writeFile(t, filepath.Join(dir, "README.md"), content)
	d.Dispatch(ctx, path, false)

	assert.Equal(t, []string{
		"File content:",
		"Markdown structure:",
		"- # Results",
		"- ## Next",
		"Content preview:",
		content,
		"Document Summary:",
		"a summary",
	}, texts(doc, report.KindParagraph))
}

func TestOther(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()
	d, doc := testDispatcher(t, dir)

	path := writeFile(t, filepath.Join(dir, "notes.txt"), "0123456789")
	d.Dispatch(ctx, path, false)

	assert.Equal(t, []string{"File: notes.txt"}, texts(doc, report.KindHeading))
	assert.Equal(t, []string{"Type: .txt, Size: 0.01 KB"}, texts(doc, report.KindParagraph))

	info, ok := d.Processed().Get(path)
	require.True(t, ok)
	assert.Equal(t, status.StatusListed, info.Status)
}

func TestKeyFilesThenExplore(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Code", "Plots.do"), "graph twoway scatter y x")
	writeFile(t, filepath.Join(root, "Code", "load.py"), "import pandas")
	writeFile(t, filepath.Join(root, "Code", ".hidden.py"), "secret")
	writeFile(t, filepath.Join(root, "Code", "__pycache__", "load.pyc"), "")
	writeFile(t, filepath.Join(root, "Code", "lib", "util.py"), "def f(): pass")

	d, doc := testDispatcher(t, root)

	err := d.ProcessKeyFiles(ctx, root, []config.KeyFile{
		{Pattern: "**/Plots.do", Title: "Plots Analysis"},
		{Pattern: "**/*.do", Title: "Stata Script"},
	})
	require.NoError(t, err)

	require.NoError(t, d.ExploreDirectory(ctx, filepath.Join(root, "Code"), "Code Analysis"))

	headings := texts(doc, report.KindHeading)
	assert.Equal(t, []string{
		"Key File Analysis",
		"Plots Analysis: Plots.do",
		"File: Plots.do",
		"Code Analysis",
		"File: load.py",
		"Subdirectory: lib",
		"File: util.py",
	}, headings)

	paras := texts(doc, report.KindParagraph)
	assert.Equal(t, 1, count(paras, "Directory contains 2 files and 1 subdirectories"))
	assert.Equal(t, 1, count(paras, "Plots.do, load.py"))
	assert.Equal(t, 1, count(paras, "lib"))
	assert.Equal(t, 3, d.Processed().Len())

	info, ok := d.Processed().Get(filepath.Join(root, "Code", "Plots.do"))
	require.True(t, ok)
	assert.True(t, info.Key)
}

func TestKeyFilesNone(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	d, doc := testDispatcher(t, root)

	require.NoError(t, d.ProcessKeyFiles(ctx, root, config.DefaultKeyFiles()))
	assert.Equal(t, []string{NoKeyFiles}, texts(doc, report.KindParagraph))
}

func TestExploreErrors(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "a")

	t.Run("missing_directory", func(t *testing.T) {
		d, doc := testDispatcher(t, root)
		require.NoError(t, d.ExploreDirectory(testContext(t), filepath.Join(root, "nope"), ""))
		paras := texts(doc, report.KindParagraph)
		require.Len(t, paras, 1)
		assert.True(t, strings.HasPrefix(paras[0], "Error exploring this directory: "))
	})

	t.Run("canceled", func(t *testing.T) {
		d, _ := testDispatcher(t, root)
		ctx, cancel := context.WithCancel(testContext(t))
		cancel()
		err := d.ExploreDirectory(ctx, root, "")
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, d.Processed().Len())
	})
}
