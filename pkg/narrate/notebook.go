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

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/narrate/pkg/extract"
	"github.com/walteh/narrate/pkg/notebook"
	"github.com/walteh/narrate/pkg/summarize"
)

const maxNotebookHeadings = 10

// 📓 notebookHandler narrates a Jupyter notebook.
type notebookHandler struct{ *env }

func (h *notebookHandler) Render(ctx context.Context, path string) error {
	nb, err := notebook.Read(path)
	if err != nil {
		if errors.Is(err, notebook.ErrNoCells) {
			h.doc.AddParagraph("Notebook does not have a valid format (no 'cells' found)")
			return nil
		}
		return err
	}

	markdownCells := nb.Sources(notebook.TypeMarkdown)
	codeCells := nb.Sources(notebook.TypeCode)

	h.doc.AddHeading("Notebook Analysis: "+filepath.Base(path), 2)
	h.doc.AddParagraph(fmt.Sprintf("Notebook contains %d cells (%d markdown, %d code)",
		len(nb.Cells), len(markdownCells), len(codeCells)))

	info := extract.NotebookContent(codeCells)
	headings := extract.MarkdownHeadings(markdownCells)

	if len(headings) > 0 {
		h.doc.AddHeading("Notebook Structure", 3)
		for i, hd := range headings {
			if i == maxNotebookHeadings {
				h.doc.AddParagraph(notShown(len(headings)-maxNotebookHeadings, "headings"))
				break
			}
			h.doc.AddParagraph(strings.Repeat("  ", hd.Level-1) + "• " + hd.Text)
		}
	}

	if !info.Empty() {
		h.doc.AddHeading("Notebook Technical Content", 3)
		for _, line := range []struct {
			label string
			items []string
		}{
			{"Key libraries", info.Imports},
			{"Custom functions", info.Functions},
			{"Visualization methods", info.Visualizations},
			{"Analysis techniques", info.ModelTypes},
			{"Data operations", info.DataOperations},
		} {
			if len(line.items) > 0 {
				h.doc.AddParagraph(line.label + ": " + strings.Join(line.items, ", "))
			}
		}
	}

	prompt := summarize.NotebookPrompt(
		extract.AnalysisType(info),
		info,
		headings,
		strings.Join(head(markdownCells, 3), "\n"),
		strings.Join(head(codeCells, 3), "\n"),
	)
	summary := h.summarize(ctx, prompt)

	h.doc.AddHeading("Notebook Summary:", 3)
	for _, p := range extract.Paragraphs(summary) {
		h.doc.AddParagraph(extract.CleanMarkdown(p))
	}
	return nil
}

func head[T any](s []T, n int) []T {
	if len(s) > n {
		return s[:n]
	}
	return s
}
