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

package generate

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/narrate/pkg/config"
	"github.com/walteh/narrate/pkg/log"
	"github.com/walteh/narrate/pkg/narrate"
	"github.com/walteh/narrate/pkg/report"
	"github.com/walteh/narrate/pkg/summarize"
)

type stubClient struct{ answer string }

func (s stubClient) Name() string { return "stub" }

func (s stubClient) Complete(context.Context, string, string) (string, error) {
	return s.answer, nil
}

// cancelingClient cancels the run on its first call.
type cancelingClient struct{ cancel context.CancelFunc }

func (c cancelingClient) Name() string { return "canceling" }

func (c cancelingClient) Complete(context.Context, string, string) (string, error) {
	c.cancel()
	return "partial", nil
}

type recordRenderer struct {
	elements []report.Element
}

func (r *recordRenderer) Render(_ context.Context, elements []report.Element, w io.Writer) error {
	r.elements = elements
	_, err := w.Write([]byte("%PDF-stub"))
	return err
}

func (r *recordRenderer) texts(kind report.ElementKind) []string {
	var out []string
	for _, el := range r.elements {
		if el.Kind == kind {
			out = append(out, el.Text)
		}
	}
	return out
}

var fixedClock = func() time.Time { return time.Date(2025, time.March, 4, 9, 30, 0, 0, time.UTC) }

func testContext(t *testing.T) context.Context {
	return zerolog.New(zerolog.NewTestWriter(t)).WithContext(context.Background())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 20, 10))))
	writeFile(t, path, buf.String())
}

func sampleProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Code", "analysis.py"), "import pandas as pd\nprint(pd)\n")
	writeFile(t, filepath.Join(root, "Code", "__pycache__", "analysis.cpython-312.pyc"), "")
	writeFile(t, filepath.Join(root, "Data", "survey.csv"), "id,answer\n1,yes\n2,no\n")
	writeFile(t, filepath.Join(root, "Output", "model_performance_v1.csv"), "model,score\nkmeans,0.8\n")
	writePNG(t, filepath.Join(root, "Output", "cluster_plot.png"))
	writeFile(t, filepath.Join(root, "Notes", "todo.txt"), "finish")
	writeFile(t, filepath.Join(root, "README.md"), "# Survey\n")
	writeFile(t, filepath.Join(root, ".git", "config"), "[core]")
	return root
}

func TestRunEmptyProject(t *testing.T) {
	ctx := testContext(t)
	root := t.TempDir()
	rr := &recordRenderer{}

	res, err := Run(ctx, Options{
		Config:     config.Default(root),
		Summarizer: summarize.New(stubClient{answer: "summary"}),
		Renderer:   rr,
		Now:        fixedClock,
	})
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Table of Contents",
		"Executive Summary",
		"Project Overview",
		"Key File Analysis",
		"Conclusions and Recommendations",
		"Recommendations for Next Steps",
	}, rr.texts(report.KindHeading))

	paras := rr.texts(report.KindParagraph)
	assert.Contains(t, paras, narrate.NoKeyFiles)
	assert.Contains(t, paras, "Generated on: March 04, 2025, 09:30:00")
	assert.Contains(t, paras, TOCPlaceholder)
	assert.Equal(t, []string{"summary"}, rr.texts(report.KindBullet))

	assert.Equal(t, 0, res.Processed.Len())
	assert.Equal(t, 0, res.Context.EligibleFiles())

	data, err := os.ReadFile(filepath.Join(root, "Project_Summary_Report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "%PDF-stub", string(data))
}

func TestRunVisitsEveryFileOnce(t *testing.T) {
	ctx := testContext(t)
	root := sampleProject(t)
	rr := &recordRenderer{}

	res, err := Run(ctx, Options{
		Config:     config.Default(root),
		Summarizer: summarize.New(stubClient{answer: "summary"}),
		Renderer:   rr,
		Now:        fixedClock,
	})
	require.NoError(t, err)

	assert.Equal(t, 6, res.Context.EligibleFiles())
	assert.Equal(t, res.Context.EligibleFiles(), res.Processed.Len())

	headings := rr.texts(report.KindHeading)
	assert.Equal(t, []string{
		"Table of Contents",
		"Executive Summary",
		"Project Overview",
		"Key File Analysis",
		"Model Performance Analysis: model_performance_v1.csv",
		"CSV File: model_performance_v1.csv",
		"Code Analysis",
		"File: analysis.py",
		"Data Analysis",
		"CSV File: survey.csv",
		"Results Analysis",
		"Image: cluster_plot.png",
		AdditionalFilesName,
		"Markdown File: README.md",
		"Directory: Notes",
		"File: todo.txt",
		"Conclusions and Recommendations",
		"Recommendations for Next Steps",
	}, headings)

	info, ok := res.Processed.Get(filepath.Join(root, "Output", "model_performance_v1.csv"))
	require.True(t, ok)
	assert.True(t, info.Key)

	t.Run("section_name_is_a_file", func(t *testing.T) {
		root := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(root, "Output"), []byte("plain file"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("notes"), 0o644))
		rr := &recordRenderer{}

		res, err := Run(ctx, Options{
			Config:     config.Default(root),
			Summarizer: summarize.New(stubClient{answer: "summary"}),
			Renderer:   rr,
			Now:        fixedClock,
		})
		require.NoError(t, err)

		assert.Equal(t, 2, res.Context.EligibleFiles())
		assert.Equal(t, res.Context.EligibleFiles(), res.Processed.Len(), "every eligible file should be narrated")
		assert.True(t, res.Processed.Contains(filepath.Join(root, "Output")), "file named like a section should be narrated")
		assert.Contains(t, rr.texts(report.KindHeading), "File: Output")
	})
}

func TestRunDeterministic(t *testing.T) {
	ctx := testContext(t)
	root := sampleProject(t)

	run := func() []report.Element {
		rr := &recordRenderer{}
		_, err := Run(ctx, Options{
			Config:     config.Default(root),
			Summarizer: summarize.New(stubClient{answer: "summary\n\n1. Do more"}),
			Renderer:   rr,
			Now:        fixedClock,
		})
		require.NoError(t, err)
		return rr.elements
	}

	first := run()
	second := run()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("report differs between runs (-first +second):\n%s", diff)
	}
}

func TestRunPartialSaveOnCancel(t *testing.T) {
	root := sampleProject(t)
	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()
	rr := &recordRenderer{}
	console := &bytes.Buffer{}

	_, err := Run(ctx, Options{
		Config:     config.Default(root),
		Summarizer: summarize.New(cancelingClient{cancel: cancel}),
		Renderer:   rr,
		Console:    log.New(console, io.Discard, zerolog.InfoLevel),
		Now:        fixedClock,
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, console.String(), "report incomplete: ")
	assert.Contains(t, console.String(), "partial report saved to "+filepath.Join(root, "Project_Summary_Report.pdf"))

	_, statErr := os.Stat(filepath.Join(root, "Project_Summary_Report.pdf"))
	require.NoError(t, statErr, "partial report should be written")

	headings := rr.texts(report.KindHeading)
	assert.Contains(t, headings, "Key File Analysis")
	assert.NotContains(t, headings, "Conclusions and Recommendations")
}

func TestRunWritesPDF(t *testing.T) {
	ctx := testContext(t)
	root := sampleProject(t)

	console := &bytes.Buffer{}

	res, err := Run(ctx, Options{
		Config:  config.Default(root),
		Console: log.New(console, io.Discard, zerolog.InfoLevel),
		Now:     fixedClock,
	})
	require.NoError(t, err)
	assert.Contains(t, console.String(), "narrated 6 of 6 files")

	data, err := os.ReadFile(res.Output)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")), "output should be a pdf")
	assert.NoDirExists(t, filepath.Join(root, "temp_report_assets"))
}
