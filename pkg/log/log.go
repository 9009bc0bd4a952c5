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
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/narrate/pkg/status"
)

// 🎨 Display configuration
const (
	fileIndent = 4 // spaces to indent file entries
)

// 🎯 FileEvent represents the outcome of narrating one file
type FileEvent struct {
	Path   string            // Absolute file path
	Kind   string            // Classification label
	Status status.FileStatus // Outcome
	Key    bool              // Narrated during the key-file pass
	Err    error             // Handler error, if any
}

// 🎯 Logger writes progress lines to the console and structured lines to a log sink
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	formatter status.Formatter
	mu        sync.Mutex

	total     int
	processed int
}

// 🏭 New creates a new logger. Structured JSON lines go to sink, human
// readable progress goes to console.
func New(console io.Writer, sink io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(sink).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:      zlog,
		console:   console,
		formatter: status.NewDefaultFormatter(),
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger, and its zerolog logger, to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	ctx = l.zlog.WithContext(ctx)
	return context.WithValue(ctx, contextKey{}, l)
}

// Zerolog returns the structured logger.
func (l *Logger) Zerolog() *zerolog.Logger {
	return &l.zlog
}

// 📝 StartProgress resets the progress counter
func (l *Logger) StartProgress(total int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.total = total
	l.processed = 0
	l.zlog.Info().Int("total", total).Msg(l.formatter.FormatProgress(0, total))
}

// 📝 LogFileEvent logs the outcome of narrating a file and advances progress
func (l *Logger) LogFileEvent(ctx context.Context, ev FileEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.processed++

	symbolColor := color.FgGreen
	switch ev.Status {
	case status.StatusFailed:
		symbolColor = color.FgRed
	case status.StatusListed:
		symbolColor = color.FgYellow
	}

	line := l.formatter.FormatFileEvent(ev.Path, ev.Kind, ev.Status)
	progress := l.formatter.FormatProgress(l.processed, l.total)
	fmt.Fprintf(l.console, "%*s%s %s\n", fileIndent, "",
		color.New(symbolColor).Sprint(line),
		color.New(color.Faint).Sprint(progress))

	event := l.zlog.Info()
	if ev.Err != nil {
		event = l.zlog.Error().Err(ev.Err)
	}
	event.
		Str("file", ev.Path).
		Str("kind", ev.Kind).
		Str("status", ev.Status.String()).
		Bool("key_file", ev.Key).
		Int("processed", l.processed).
		Int("total", l.total).
		Msg("file narrated")
}

// 📝 Section prints a section banner
func (l *Logger) Section(title string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintf(l.console, "%s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(title))

	l.zlog.Info().Str("section", title).Msg("starting section")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("narrate")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
