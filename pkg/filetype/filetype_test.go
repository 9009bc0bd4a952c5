package filetype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want Kind
	}{
		{"Code/analysis.py", Code},
		{"Code/Plots.do", Code},
		{"model.R", Code},
		{"query.SQL", Code},
		{"Cluster_Analysis.ipynb", Notebook},
		{"plot.PNG", Image},
		{"scan.bmp", Image},
		{"book.xlsx", Spreadsheet},
		{"old.xls", Spreadsheet},
		{"results.csv", CSV},
		{"paper.docx", WordDoc},
		{"README.md", Markdown},
		{"notes.markdown", Markdown},
		{"archive.zip", Other},
		{"Makefile", Other},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.path), "kind should match")
		})
	}
}

func TestKindText(t *testing.T) {
	seen := map[string]bool{}
	for _, k := range Kinds {
		assert.NotEmpty(t, k.Label(), "label should not be empty")
		assert.False(t, seen[k.String()], "names should be unique")
		seen[k.String()] = true
	}
	assert.Equal(t, "CSV File", CSV.Label())
	assert.Equal(t, "Excel File", Spreadsheet.Label())
	assert.Equal(t, "word-doc", WordDoc.String())
	assert.Equal(t, "Word document", WordDoc.Noun())
	assert.Equal(t, "file", Code.Noun())
}

func TestBuckets(t *testing.T) {
	assert.True(t, IsData("a/b.CSV"))
	assert.True(t, IsData("a/b.xls"))
	assert.False(t, IsData("a/b.xlsm"))
	assert.True(t, IsVisualization("x.jpeg"))
	assert.False(t, IsVisualization("x.bmp"))
}
