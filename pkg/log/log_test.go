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

package log

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/narrate/pkg/status"
	"gitlab.com/tozd/go/errors"
)

func TestLogger(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_file_event",
			op: func(t *testing.T, logger *Logger) {
				logger.StartProgress(2)
				logger.LogFileEvent(context.Background(), FileEvent{
					Path:   "/project/Data/survey.csv",
					Kind:   "csv",
					Status: status.StatusNarrated,
				})
			},
			wantLogs: []string{
				"📝 Narrated survey.csv (csv) ⏳ Progress: 1/2 (50%)",
			},
		},
		{
			name: "log_failed_event_completes_progress",
			op: func(t *testing.T, logger *Logger) {
				logger.StartProgress(1)
				logger.LogFileEvent(context.Background(), FileEvent{
					Path:   "/project/Code/broken.ipynb",
					Kind:   "notebook",
					Status: status.StatusFailed,
					Err:    errors.New("bad json"),
				})
			},
			wantLogs: []string{
				"❌ Failed broken.ipynb (notebook) ✅ Progress: 1/1 (100%)",
			},
		},
		{
			name: "log_section",
			op: func(t *testing.T, logger *Logger) {
				logger.Section("Code Analysis")
			},
			wantLogs: []string{
				"◆ Code Analysis",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("scanning project")
				logger.Warning("no summarizer configured")
				logger.Error("report not saved")
				logger.Success("report saved")
			},
			wantLogs: []string{
				"ℹ️  scanning project",
				"⚠️  no summarizer configured",
				"❌ report not saved",
				"✅ report saved",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("found %d files", 12)
				logger.Warningf("skipped %s", "cache")
				logger.Errorf("cannot open %s", "a.xlsx")
				logger.Successf("wrote %s", "report.pdf")
			},
			wantLogs: []string{
				"ℹ️  found 12 files",
				"⚠️  skipped cache",
				"❌ cannot open a.xlsx",
				"✅ wrote report.pdf",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("building project context")
			},
			wantLogs: []string{
				"narrate • building project context",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("before")
				logger.LogNewline()
				logger.Info("after")
			},
			wantLogs: []string{
				"ℹ️  before",
				"",
				"ℹ️  after",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, io.Discard, zerolog.InfoLevel)

			tt.op(t, logger)

			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerStructuredSink(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	sink := &bytes.Buffer{}
	logger := New(io.Discard, sink, zerolog.InfoLevel)
	logger.StartProgress(3)
	logger.LogFileEvent(context.Background(), FileEvent{
		Path:   "/project/Output/confusion_matrix.png",
		Kind:   "image",
		Status: status.StatusNarrated,
		Key:    true,
	})

	lines := strings.Split(strings.TrimSpace(sink.String()), "\n")
	require.Len(t, lines, 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "/project/Output/confusion_matrix.png", entry["file"])
	assert.Equal(t, "image", entry["kind"])
	assert.Equal(t, "narrated", entry["status"])
	assert.Equal(t, true, entry["key_file"])
	assert.Equal(t, float64(1), entry["processed"])
	assert.Equal(t, float64(3), entry["total"])
	assert.Contains(t, entry, "time")
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, io.Discard, zerolog.InfoLevel)

	ctx := NewContext(context.Background(), logger)

	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")
	assert.NotEqual(t, zerolog.Disabled, zerolog.Ctx(ctx).GetLevel(), "zerolog logger should be attached too")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}
