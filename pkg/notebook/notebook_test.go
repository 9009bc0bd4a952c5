package notebook

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
 "cells": [
  {"cell_type": "markdown", "metadata": {}, "source": ["# Título\n", "intro"]},
  {"cell_type": "code", "execution_count": 3, "metadata": {"tags": ["x"]}, "outputs": [], "source": "x = 1 < 2\nprint(x)"},
  {"metadata": {}},
  {"cell_type": "raw", "source": []}
 ],
 "metadata": {"kernelspec": {"name": "python3"}},
 "nbformat": 4,
 "nbformat_minor": 5
}`

func TestParse(t *testing.T) {
	nb, err := Parse([]byte(sample))
	require.NoError(t, err, "parsing notebook")
	require.Len(t, nb.Cells, 4, "all cells kept")

	assert.Equal(t, []string{"# Título\nintro"}, nb.Sources(TypeMarkdown))
	assert.Equal(t, []string{"x = 1 < 2\nprint(x)"}, nb.Sources(TypeCode))
	assert.Equal(t, "", nb.Cells[2].Type, "missing cell_type is empty")
	assert.False(t, nb.Cells[2].HasSource)
	assert.True(t, nb.Cells[3].HasSource)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		is   error
	}{
		{"not_json", `{`, nil},
		{"no_cells", `{"metadata": {}}`, ErrNoCells},
		{"cells_not_list", `{"cells": 3}`, nil},
		{"bad_source", `{"cells": [{"cell_type": "code", "source": 5}]}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
		})
	}
}

func TestMarshalPreservesFields(t *testing.T) {
	nb, err := Parse([]byte(sample))
	require.NoError(t, err)

	nb.Cells[1].Source = "y = 2 < 3\nprint(y)\n"
	nb.Cells[0].Source = "# Nuevo\n"

	path := filepath.Join(t.TempDir(), "out.ipynb")
	require.NoError(t, nb.Write(path), "writing notebook")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n \"cells\": [", "one space indentation")
	assert.Contains(t, string(data), "Nuevo", "non-ascii and content written")
	assert.Contains(t, string(data), "2 < 3", "html should not be escaped")

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.EqualValues(t, 4, decoded["nbformat"])
	cells := decoded["cells"].([]any)
	code := cells[1].(map[string]any)
	assert.Equal(t, "y = 2 < 3\nprint(y)\n", code["source"], "string sources stay strings")
	assert.EqualValues(t, 3, code["execution_count"])
	md := cells[0].(map[string]any)
	assert.Equal(t, []any{"# Nuevo\n"}, md["source"], "list sources stay lists")
	_, hasType := cells[2].(map[string]any)["cell_type"]
	assert.False(t, hasType, "missing cell_type is not invented")

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, nb.Sources(TypeCode), again.Sources(TypeCode))
}

func TestWriteReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.ipynb")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0644))

	nb, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, nb.Write(path), "writing over an existing notebook")

	again, err := Read(path)
	require.NoError(t, err, "written notebook should parse")
	assert.Equal(t, nb.Sources(TypeCode), again.Sources(TypeCode))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files should be left behind")
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a\n", "b\n", "c"}, SplitLines("a\nb\nc"))
	assert.Equal(t, []string{"a\n"}, SplitLines("a\n"))
	assert.Equal(t, []string{}, SplitLines(""))
}
