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

	"github.com/walteh/narrate/pkg/filetype"
	"github.com/walteh/narrate/pkg/summarize"
)

var languages = map[string]string{
	".py":  "Python",
	".r":   "R",
	".do":  "Stata",
	".sql": "SQL",
	".sh":  "shell",
	".jl":  "Julia",
	".m":   "MATLAB",
}

// Language names the language of a code file for prompts.
func Language(path string) string {
	if l, ok := languages[filetype.Ext(path)]; ok {
		return l
	}
	return "source"
}

// 💻 codeHandler summarizes a source file and shows its head.
type codeHandler struct{ *env }

func (h *codeHandler) Render(ctx context.Context, path string) error {
	h.doc.AddHeading("File: "+filepath.Base(path), 2)

	content, err := readText(path)
	if err != nil {
		return err
	}

	summary := h.summarize(ctx, summarize.CodePrompt(Language(path), content))
	h.doc.AddParagraph("Code Summary:")
	h.doc.AddParagraph(summary)

	limit := h.opts.CodePreviewLines
	lines := strings.Split(content, "\n")
	sample := lines
	if len(sample) > limit {
		sample = sample[:limit]
	}
	h.doc.AddParagraph(fmt.Sprintf("Code Sample (first %d lines):", limit))
	h.doc.AddCode(strings.Join(sample, "\n"))
	if len(lines) > limit {
		h.doc.AddParagraph(notShown(len(lines)-limit, "lines"))
	}
	return nil
}
