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

// Package filetype maps file paths onto the closed set of narration kinds.
package filetype

import (
	"path/filepath"
	"strings"
)

// Kind is the handler category of a file.
type Kind int

const (
	Other Kind = iota
	Code
	Notebook
	Image
	Spreadsheet
	CSV
	WordDoc
	Markdown
)

// Kinds lists every kind in declaration order.
var Kinds = []Kind{Other, Code, Notebook, Image, Spreadsheet, CSV, WordDoc, Markdown}

var byExt = map[string]Kind{
	".py":       Code,
	".r":        Code,
	".do":       Code,
	".sql":      Code,
	".sh":       Code,
	".jl":       Code,
	".m":        Code,
	".ipynb":    Notebook,
	".png":      Image,
	".jpg":      Image,
	".jpeg":     Image,
	".gif":      Image,
	".bmp":      Image,
	".xlsx":     Spreadsheet,
	".xls":      Spreadsheet,
	".xlsm":     Spreadsheet,
	".csv":      CSV,
	".docx":     WordDoc,
	".md":       Markdown,
	".markdown": Markdown,
}

// Classify returns the kind for path based on its extension.
func Classify(path string) Kind {
	if k, ok := byExt[Ext(path)]; ok {
		return k
	}
	return Other
}

// Ext returns the lower-cased extension of path, including the dot.
func Ext(path string) string {
	return strings.ToLower(filepath.Ext(path))
}

func (k Kind) String() string {
	switch k {
	case Code:
		return "code"
	case Notebook:
		return "notebook"
	case Image:
		return "image"
	case Spreadsheet:
		return "spreadsheet"
	case CSV:
		return "csv"
	case WordDoc:
		return "word-doc"
	case Markdown:
		return "markdown"
	default:
		return "other"
	}
}

// Label is the human name used in report text, e.g. "CSV File".
func (k Kind) Label() string {
	switch k {
	case Code:
		return "Code File"
	case Notebook:
		return "Notebook"
	case Image:
		return "Image"
	case Spreadsheet:
		return "Excel File"
	case CSV:
		return "CSV File"
	case WordDoc:
		return "Word Document"
	case Markdown:
		return "Markdown File"
	default:
		return "File"
	}
}

// Noun names the kind inside sentences, e.g. "Error processing this CSV file".
func (k Kind) Noun() string {
	switch k {
	case Notebook:
		return "notebook"
	case Image:
		return "image"
	case Spreadsheet:
		return "Excel file"
	case CSV:
		return "CSV file"
	case WordDoc:
		return "Word document"
	case Markdown:
		return "Markdown file"
	default:
		return "file"
	}
}

// IsData reports whether the extension buckets the file as a data file.
func IsData(path string) bool {
	switch Ext(path) {
	case ".csv", ".xlsx", ".xls":
		return true
	}
	return false
}

// IsVisualization reports whether the extension buckets the file as a visualization.
func IsVisualization(path string) bool {
	switch Ext(path) {
	case ".png", ".jpg", ".jpeg", ".gif":
		return true
	}
	return false
}
