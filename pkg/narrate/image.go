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
	"path/filepath"

	"github.com/walteh/narrate/pkg/extract"
	"github.com/walteh/narrate/pkg/summarize"
)

// 🖼️ imageHandler embeds an image and guesses what a plot shows.
type imageHandler struct{ *env }

func (h *imageHandler) Render(ctx context.Context, path string) error {
	name := filepath.Base(path)
	h.doc.AddHeading("Image: "+name, 3)

	if !h.doc.AddImage(path, name) {
		h.doc.AddParagraph("Failed to add image: " + name)
	}

	if extract.IsPlotName(name) {
		interpretation := h.summarize(ctx, summarize.ImagePrompt(name))
		h.doc.AddParagraph("Possible interpretation:")
		h.doc.AddParagraph(interpretation)
	}
	return nil
}
