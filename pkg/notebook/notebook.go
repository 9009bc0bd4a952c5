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

// Package notebook reads and writes Jupyter .ipynb files. Only cell type and
// source are interpreted; every other field is carried through unchanged.
package notebook

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"gitlab.com/tozd/go/errors"

	"github.com/walteh/narrate/pkg/fsutil"
)

// Cell types.
const (
	TypeMarkdown = "markdown"
	TypeCode     = "code"
)

// ErrNoCells is returned when the document has no "cells" field.
var ErrNoCells = errors.Base("notebook does not have a valid format (no 'cells' found)")

// 📓 Notebook is a parsed .ipynb document.
type Notebook struct {
	Cells []*Cell
	rest  map[string]json.RawMessage
}

// Cell is one notebook cell. Type is empty when the cell has no cell_type.
type Cell struct {
	Type      string
	Source    string
	HasSource bool

	sourceList bool
	rest       map[string]json.RawMessage
}

// Read loads and parses the notebook at path.
func Read(path string) (*Notebook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading notebook: %w", err)
	}
	return Parse(data)
}

// Parse decodes notebook JSON.
func Parse(data []byte) (*Notebook, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, errors.Errorf("parsing notebook json: %w", err)
	}

	rawCells, ok := top["cells"]
	if !ok {
		return nil, ErrNoCells
	}
	delete(top, "cells")

	var cells []map[string]json.RawMessage
	if err := json.Unmarshal(rawCells, &cells); err != nil {
		return nil, errors.Errorf("parsing cells: %w", err)
	}

	nb := &Notebook{rest: top, Cells: make([]*Cell, 0, len(cells))}
	for i, raw := range cells {
		c, err := parseCell(raw)
		if err != nil {
			return nil, errors.Errorf("parsing cell %d: %w", i, err)
		}
		nb.Cells = append(nb.Cells, c)
	}
	return nb, nil
}

func parseCell(raw map[string]json.RawMessage) (*Cell, error) {
	if raw == nil {
		raw = map[string]json.RawMessage{}
	}
	c := &Cell{rest: raw}

	if t, ok := raw["cell_type"]; ok {
		if err := json.Unmarshal(t, &c.Type); err != nil {
			return nil, errors.Errorf("parsing cell_type: %w", err)
		}
		delete(raw, "cell_type")
	}

	src, ok := raw["source"]
	if !ok {
		return c, nil
	}
	delete(raw, "source")
	c.HasSource = true

	trimmed := bytes.TrimSpace(src)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var lines []string
		if err := json.Unmarshal(src, &lines); err != nil {
			return nil, errors.Errorf("parsing source lines: %w", err)
		}
		c.Source = strings.Join(lines, "")
		c.sourceList = true
		return c, nil
	}
	if err := json.Unmarshal(src, &c.Source); err != nil {
		return nil, errors.Errorf("parsing source: %w", err)
	}
	return c, nil
}

// Sources returns the source of every cell of the given type that has one.
func (nb *Notebook) Sources(cellType string) []string {
	var out []string
	for _, c := range nb.Cells {
		if c.Type == cellType && c.HasSource {
			out = append(out, c.Source)
		}
	}
	return out
}

// Marshal encodes the notebook with one-space indentation. Non-ASCII text
// is written as-is.
func (nb *Notebook) Marshal() ([]byte, error) {
	top := make(map[string]any, len(nb.rest)+1)
	for k, v := range nb.rest {
		top[k] = v
	}

	cells := make([]map[string]any, 0, len(nb.Cells))
	for _, c := range nb.Cells {
		m := make(map[string]any, len(c.rest)+2)
		for k, v := range c.rest {
			m[k] = v
		}
		if c.Type != "" {
			m["cell_type"] = c.Type
		}
		if c.HasSource {
			if c.sourceList {
				m["source"] = SplitLines(c.Source)
			} else {
				m["source"] = c.Source
			}
		}
		cells = append(cells, m)
	}
	top["cells"] = cells

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", " ")
	if err := enc.Encode(top); err != nil {
		return nil, errors.Errorf("encoding notebook: %w", err)
	}
	return buf.Bytes(), nil
}

// Write encodes the notebook and replaces path atomically.
func (nb *Notebook) Write(path string) error {
	data, err := nb.Marshal()
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, data); err != nil {
		return errors.Errorf("writing notebook: %w", err)
	}
	return nil
}

// SplitLines splits s into lines that keep their trailing newline, the way
// notebook sources are stored as lists.
func SplitLines(s string) []string {
	lines := []string{}
	for s != "" {
		i := strings.IndexByte(s, '\n')
		if i < 0 {
			lines = append(lines, s)
			break
		}
		lines = append(lines, s[:i+1])
		s = s[i+1:]
	}
	return lines
}
