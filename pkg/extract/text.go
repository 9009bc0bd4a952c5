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
	"regexp"
	"strings"
)

var (
	boldStars   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	boldUnders  = regexp.MustCompile(`__(.*?)__`)
	italStars   = regexp.MustCompile(`\*(.*?)\*`)
	italUnders  = regexp.MustCompile(`_(.*?)_`)
	mdHeading   = regexp.MustCompile(`(?m)^#+\s+(.*?)$`)
	mdNumbered  = regexp.MustCompile(`(?m)^\d+\.\s+(.*?)$`)
	mdDash      = regexp.MustCompile(`(?m)^\-\s+(.*?)$`)
	mdStar      = regexp.MustCompile(`(?m)^\*\s+(.*?)$`)
	listMarkers = regexp.MustCompile(`^[\d\-\.\s]+`)
)

// Unique keeps the first occurrence of each item and at most limit items.
// A limit <= 0 keeps everything.
func Unique(items []string, limit int) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Prefix returns the first n runes of s.
func Prefix(s string, n int) string {
	if n < 0 || len(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// 🧹 CleanMarkdown strips emphasis and heading markers and turns list items
// into "• " bullets.
func CleanMarkdown(text string) string {
	if text == "" {
		return ""
	}
	text = boldStars.ReplaceAllString(text, "$1")
	text = boldUnders.ReplaceAllString(text, "$1")
	text = italStars.ReplaceAllString(text, "$1")
	text = italUnders.ReplaceAllString(text, "$1")
	text = mdHeading.ReplaceAllString(text, "$1")
	text = mdNumbered.ReplaceAllString(text, "• $1")
	text = mdDash.ReplaceAllString(text, "• $1")
	text = mdStar.ReplaceAllString(text, "• $1")
	return text
}

// Paragraphs splits text on blank lines and drops empty blocks.
func Paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

// ListItems splits text into lines and strips leading numbering or dashes.
func ListItems(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(listMarkers.ReplaceAllString(line, ""))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

var plotWords = []string{"plot", "figure", "chart", "scatter", "bar", "histogram", "heatmap", "cluster"}

// IsPlotName reports whether a file name suggests a plot.
func IsPlotName(name string) bool {
	lower := strings.ToLower(name)
	for _, w := range plotWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
