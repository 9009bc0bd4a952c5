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

	"github.com/walteh/narrate/pkg/extract"
	"github.com/walteh/narrate/pkg/summarize"
)

const (
	maxDocumentHeadings   = 10
	maxDocumentParagraphs = 5
	documentSampleParas   = 10
	markdownPreviewChars  = 1000
)

// 📝 wordHandler narrates a .docx file from its body XML.
type wordHandler struct{ *env }

func (h *wordHandler) Render(ctx context.Context, path string) error {
	name := filepath.Base(path)
	h.doc.AddHeading("Word Document: "+name, 2)

	wd, err := extract.ReadWordDocument(path)
	if err != nil {
		return err
	}

	h.doc.AddParagraph(fmt.Sprintf("Document contains %d paragraphs and %d headings", len(wd.Paragraphs), len(wd.Headings)))

	if len(wd.Headings) > 0 {
		h.doc.AddParagraph("Document structure:")
		for _, hd := range head(wd.Headings, maxDocumentHeadings) {
			h.doc.AddParagraph("- " + hd)
		}
		if len(wd.Headings) > maxDocumentHeadings {
			h.doc.AddParagraph(notShown(len(wd.Headings)-maxDocumentHeadings, "headings"))
		}
	}

	if len(wd.Paragraphs) > 0 {
		h.doc.AddParagraph("Document introduction:")
		for _, p := range head(wd.Paragraphs, maxDocumentParagraphs) {
			h.doc.AddParagraph(p)
		}
		if len(wd.Paragraphs) > maxDocumentParagraphs {
			h.doc.AddParagraph(notShown(len(wd.Paragraphs)-maxDocumentParagraphs, "paragraphs"))
		}
	}

	sample := strings.Join(head(wd.Paragraphs, documentSampleParas), "\n")
	summary := h.summarize(ctx, summarize.DocumentPrompt(name, wd.Headings, sample))
	h.doc.AddParagraph("Document Summary:")
	h.doc.AddParagraph(summary)
	return nil
}

// 📘 markdownHandler lists a markdown file's headings and previews it.
type markdownHandler struct{ *env }

func (h *markdownHandler) Render(ctx context.Context, path string) error {
	name := filepath.Base(path)
	h.doc.AddHeading("Markdown File: "+name, 2)

	content, err := readText(path)
	if err != nil {
		return err
	}

	h.doc.AddParagraph("File content:")

	if headings := extract.DocumentHeadings([]byte(content)); len(headings) > 0 {
		h.doc.AddParagraph("Markdown structure:")
		for _, hd := range headings {
			h.doc.AddParagraph("- " + hd.String())
		}
	}

	preview := extract.Prefix(content, markdownPreviewChars)
	if len(preview) < len(content) {
		preview += "..."
	}
	h.doc.AddParagraph("Content preview:")
	h.doc.AddParagraph(preview)

	summary := h.summarize(ctx, summarize.MarkdownPrompt(name, content))
	h.doc.AddParagraph("Document Summary:")
	h.doc.AddParagraph(summary)
	return nil
}
