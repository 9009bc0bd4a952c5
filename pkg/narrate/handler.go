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
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/narrate/pkg/report"
	"github.com/walteh/narrate/pkg/summarize"
)

// 🧩 Handler renders one file into the report. A returned error is
// rendered inline by the dispatcher.
type Handler interface {
	Render(ctx context.Context, path string) error
}

// env is the state every handler shares.
type env struct {
	doc        *report.Document
	summarizer *summarize.Summarizer
	opts       *Options
}

func (e *env) summarize(ctx context.Context, prompt string) string {
	return e.summarizer.Summarize(ctx, prompt)
}

// notShown is the elision note used under every truncated listing.
func notShown(n int, what string) string {
	return fmt.Sprintf("(... %d more %s not shown ...)", n, what)
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Errorf("reading %s: %w", filepath.Base(path), err)
	}
	return strings.ToValidUTF8(string(data), ""), nil
}

// 📄 otherHandler lists a file by type and size.
type otherHandler struct{ *env }

func (h *otherHandler) Render(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.Errorf("stat: %w", err)
	}
	ext := filepath.Ext(path)
	if ext == "" {
		ext = "none"
	}
	h.doc.AddHeading("File: "+filepath.Base(path), 3)
	h.doc.AddParagraph(fmt.Sprintf("Type: %s, Size: %.2f KB", ext, float64(info.Size())/1024))
	return nil
}
