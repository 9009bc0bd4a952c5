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

// MaxItems bounds every extracted notebook list.
const MaxItems = 5

var (
	importRegex   = regexp.MustCompile(`import\s+(\w+)|from\s+(\w+)\s+import`)
	functionRegex = regexp.MustCompile(`def\s+(\w+)\s*\(`)
	headingRegex  = regexp.MustCompile(`(?m)^(#+)\s+(.*?)$`)

	vizPatterns   = []string{"plt.", "sns.", ".plot(", ".imshow(", ".figure", "px.", ".scatter(", ".bar(", ".hist("}
	modelPatterns = []string{"LinearRegression", "RandomForest", "LogisticRegression", "KMeans", "DBSCAN", "cluster",
		"SVC", "DecisionTree", "XGBoost", "model.fit", "train_test_split"}
	dataPatterns = []string{"pd.read_", "DataFrame", ".groupby", ".pivot", ".merge", ".join", ".concat", ".value_counts()"}
)

// 📓 NotebookInfo is the technical content found in a notebook's code cells.
// Every list is deduplicated in first-seen order and bounded to MaxItems.
type NotebookInfo struct {
	Imports        []string
	Functions      []string
	Visualizations []string
	ModelTypes     []string
	DataOperations []string
}

// Empty reports whether nothing was found.
func (n NotebookInfo) Empty() bool {
	return len(n.Imports)+len(n.Functions)+len(n.Visualizations)+len(n.ModelTypes)+len(n.DataOperations) == 0
}

// Heading is a markdown heading with its level (number of '#').
type Heading struct {
	Level int
	Text  string
}

// 🔍 NotebookContent scans code cells for imports, function definitions and
// the fixed visualization, model and data-operation patterns.
func NotebookContent(codeCells []string) NotebookInfo {
	var imports, functions, viz, models, ops []string

	for _, code := range codeCells {
		for _, m := range importRegex.FindAllStringSubmatch(code, -1) {
			if m[1] != "" {
				imports = append(imports, m[1])
			} else if m[2] != "" {
				imports = append(imports, m[2])
			}
		}
		for _, m := range functionRegex.FindAllStringSubmatch(code, -1) {
			functions = append(functions, m[1])
		}
		for _, p := range vizPatterns {
			if strings.Contains(code, p) {
				viz = append(viz, strings.Trim(p, ".()"))
			}
		}
		for _, p := range modelPatterns {
			if strings.Contains(code, p) {
				models = append(models, p)
			}
		}
		for _, p := range dataPatterns {
			if strings.Contains(code, p) {
				ops = append(ops, p)
			}
		}
	}

	return NotebookInfo{
		Imports:        Unique(imports, MaxItems),
		Functions:      Unique(functions, MaxItems),
		Visualizations: Unique(viz, MaxItems),
		ModelTypes:     Unique(models, MaxItems),
		DataOperations: Unique(ops, MaxItems),
	}
}

// MarkdownHeadings returns the '#' headings of the given markdown cells in
// document order.
func MarkdownHeadings(cells []string) []Heading {
	var out []Heading
	for _, md := range cells {
		for _, m := range headingRegex.FindAllStringSubmatch(md, -1) {
			out = append(out, Heading{Level: len(m[1]), Text: strings.TrimSpace(m[2])})
		}
	}
	return out
}

// AnalysisType guesses the notebook's analysis from its model types and
// function names. Empty when nothing matches.
func AnalysisType(info NotebookInfo) string {
	switch {
	case anyContains(info.ModelTypes, "cluster"):
		return "clustering analysis"
	case anyContains(info.ModelTypes, "regress"):
		return "regression analysis"
	case anyContains(info.ModelTypes, "classif"):
		return "classification analysis"
	case anyContains(info.Functions, "feature", "importance"):
		return "feature importance analysis"
	}
	return ""
}

func anyContains(items []string, subs ...string) bool {
	for _, item := range items {
		lower := strings.ToLower(item)
		for _, s := range subs {
			if strings.Contains(lower, s) {
				return true
			}
		}
	}
	return false
}
