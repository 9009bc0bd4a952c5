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

package extract

import (
	"archive/zip"
	"encoding/xml"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
)

const docxBody = "word/document.xml"

// ErrNoDocumentBody is returned when a .docx archive has no word/document.xml.
var ErrNoDocumentBody = errors.Base("document body not found")

// 📄 WordDocument holds the non-empty paragraphs of a .docx file and the
// text of paragraphs styled as headings.
type WordDocument struct {
	Paragraphs []string
	Headings   []string
}

// ReadWordDocument opens a .docx archive and extracts its paragraphs.
func ReadWordDocument(path string) (*WordDocument, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, errors.Errorf("opening document: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != docxBody {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, errors.Errorf("opening %s: %w", docxBody, err)
		}
		defer rc.Close()
		return ParseWordXML(rc)
	}
	return nil, errors.WithDetails(ErrNoDocumentBody, "path", path)
}

// ParseWordXML walks a WordprocessingML body. Paragraph text is the
// concatenation of its w:t runs; w:tab and w:br become whitespace.
func ParseWordXML(r io.Reader) (*WordDocument, error) {
	dec := xml.NewDecoder(r)
	doc := &WordDocument{}

	var (
		inPara  bool
		inText  bool
		style   string
		current strings.Builder
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Errorf("parsing document xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				style = ""
				current.Reset()
			case "pStyle":
				for _, a := range t.Attr {
					if a.Name.Local == "val" {
						style = a.Value
					}
				}
			case "t":
				inText = true
			case "tab":
				if inPara {
					current.WriteByte('\t')
				}
			case "br", "cr":
				if inPara {
					current.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				inPara = false
				text := current.String()
				if strings.TrimSpace(text) != "" {
					doc.Paragraphs = append(doc.Paragraphs, text)
				}
				if strings.HasPrefix(strings.ToLower(style), "heading") {
					doc.Headings = append(doc.Headings, text)
				}
			}
		case xml.CharData:
			if inPara && inText {
				current.Write(t)
			}
		}
	}
	return doc, nil
}
