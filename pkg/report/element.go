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

package report

// ElementKind tags an Element.
type ElementKind int

const (
	KindHeading ElementKind = iota
	KindParagraph
	KindCode
	KindBullet
	KindImage
	KindTable
	KindSpacer
	KindRule
	KindPageBreak
)

func (k ElementKind) String() string {
	switch k {
	case KindHeading:
		return "heading"
	case KindParagraph:
		return "paragraph"
	case KindCode:
		return "code"
	case KindBullet:
		return "bullet"
	case KindImage:
		return "image"
	case KindTable:
		return "table"
	case KindSpacer:
		return "spacer"
	case KindRule:
		return "rule"
	case KindPageBreak:
		return "page-break"
	default:
		return "unknown"
	}
}

// Style selects the typeface of a paragraph.
type Style int

const (
	StyleNormal Style = iota
	StyleItalic
	StyleCaption
	StyleTitle
	StyleSubtitle
	StyleCoverInfo
	StyleCoverFooter
)

// Points per inch.
const Inch = 72.0

// 🧱 Element is one node of the report. Only the fields relevant to Kind
// are set; elements are never mutated after they are appended.
type Element struct {
	Kind   ElementKind
	Level  int     // heading level, 1 to 3
	Text   string  // heading, paragraph, code and bullet text
	Style  Style   // paragraph style
	Height float64 // spacer height in points
	Image  *Image
	Table  *Table
}

// Image is a picture with its display size in points. A zero Height is
// derived from the picture's aspect ratio at render time.
type Image struct {
	Path   string
	Width  float64
	Height float64
}

// Table is a grid of cells; the first row is the header.
type Table struct {
	Rows            [][]string
	HighlightHeader bool
	Alternate       bool
}
