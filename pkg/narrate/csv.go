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
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/narrate/pkg/summarize"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// 🧮 csvHandler describes a CSV file and previews its first records.
type csvHandler struct{ *env }

func (h *csvHandler) Render(ctx context.Context, path string) error {
	name := filepath.Base(path)
	h.doc.AddHeading("CSV File: "+name, 2)

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Errorf("reading csv: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	columns, err := h.strict(data)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("strict csv read failed, falling back to lenient reader")
		if columns, err = h.lenient(data); err != nil {
			return err
		}
	}

	interpretation := h.summarize(ctx, summarize.CSVPrompt(name, columns))
	h.doc.AddParagraph("Possible data interpretation:")
	h.doc.AddParagraph(interpretation)
	return nil
}

// strict reads the header and the preview records with a rectangular
// reader. Nothing is rendered unless the whole preview parses.
func (h *csvHandler) strict(data []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	header, err := r.Read()
	if err != nil {
		return nil, errors.Errorf("reading header: %w", err)
	}

	var records [][]string
	for len(records) < h.opts.CSVPreviewRows {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Errorf("reading record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}

	h.doc.AddParagraph(fmt.Sprintf("Contains %d rows and %d columns", max(countLines(data)-1, 0), len(header)))
	h.doc.AddParagraph("Columns:")
	h.doc.AddParagraph(strings.Join(header, ", "))

	if len(records) > 0 {
		table := append([][]string{header}, records...)
		h.doc.AddParagraph(fmt.Sprintf("Data preview (first %d rows):", h.opts.CSVPreviewRows))
		h.doc.AddTable(table)
	}
	return header, nil
}

// lenient accepts ragged records and stray quotes and only counts rows.
func (h *csvHandler) lenient(data []byte) ([]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err != nil {
		return nil, errors.Errorf("reading header: %w", err)
	}

	count := 0
	for {
		_, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, errors.Errorf("reading record %d: %w", count+1, err)
		}
		count++
	}

	h.doc.AddParagraph(fmt.Sprintf("Contains %d rows and %d columns", count, len(header)))
	h.doc.AddParagraph("Columns:")
	h.doc.AddParagraph(strings.Join(header, ", "))
	return header, nil
}

// countLines counts lines the way a line iterator does: a trailing
// fragment without a newline is a line.
func countLines(data []byte) int {
	n := bytes.Count(data, []byte{'\n'})
	if len(data) > 0 && data[len(data)-1] != '\n' {
		n++
	}
	return n
}
