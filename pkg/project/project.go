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

package project

import (
	"context"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/narrate/pkg/filetype"
)

// Analysis topics detected in notebooks.
const (
	TopicClustering        = "clustering"
	TopicFeatureImportance = "feature importance"
	TopicRegression        = "regression"
	TopicClassification    = "classification"
)

var (
	modelHints = []string{"model", "train", "predict", "cluster"}
	termRegex  = regexp.MustCompile(`[a-z]+`)
	stopTerms  = map[string]bool{"data": true, "file": true, "test": true, "train": true}
)

// 📊 Context is the pre-computed summary of the project tree.
// It is built once by Scan and read-only afterwards.
type Context struct {
	Root               string
	DataFiles          []string
	VisualizationFiles []string
	ModelFiles         []string
	Topics             []string
	KeyTerms           []string

	// Files holds every eligible file, sorted.
	Files []string
}

// EligibleFiles is the number of files the walk accepted.
func (c *Context) EligibleFiles() int { return len(c.Files) }

// 🔍 Scan walks root once and buckets files into a Context.
func Scan(ctx context.Context, root string, skipper *Skipper) (*Context, error) {
	logger := zerolog.Ctx(ctx)

	root, err := filepath.Abs(root)
	if err != nil {
		return nil, errors.Errorf("resolving root: %w", err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Errorf("reading project root: %w", err)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("project root %q is not a directory", root)
	}

	data := map[string]struct{}{}
	viz := map[string]struct{}{}
	models := map[string]struct{}{}
	topics := map[string]struct{}{}
	terms := map[string]struct{}{}
	var files []string

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn().Err(err).Str("path", path).Msg("skipping unreadable entry")
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if path == root {
			return nil
		}
		if skipper.SkipEntry(path) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		files = append(files, path)
		name := strings.ToLower(d.Name())

		switch {
		case filetype.IsData(path):
			data[path] = struct{}{}
			addTerms(terms, name)
		case filetype.IsVisualization(path):
			viz[path] = struct{}{}
		case filetype.Ext(path) == ".py" && containsAny(name, modelHints...):
			models[path] = struct{}{}
			addTerms(terms, name)
		case filetype.Classify(path) == filetype.Notebook:
			found, err := sniffNotebook(path)
			if err != nil {
				logger.Warn().Err(err).Str("path", path).Msg("could not scan notebook")
				return nil
			}
			for _, t := range found {
				topics[t] = struct{}{}
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Errorf("walking project: %w", err)
	}

	slices.Sort(files)
	pc := &Context{
		Root:               root,
		DataFiles:          sortedKeys(data),
		VisualizationFiles: sortedKeys(viz),
		ModelFiles:         sortedKeys(models),
		Topics:             sortedKeys(topics),
		KeyTerms:           sortedKeys(terms),
		Files:              files,
	}

	logger.Info().
		Strs("topics", pc.Topics).
		Int("eligible_files", pc.EligibleFiles()).
		Msg("project context built")

	return pc, nil
}

// sniffNotebook searches the raw notebook text for analysis topics.
func sniffNotebook(path string) ([]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading notebook: %w", err)
	}
	content := strings.ToLower(string(raw))

	var found []string
	if strings.Contains(content, "cluster") {
		found = append(found, TopicClustering)
	}
	if containsAny(content, "feature_importance", "feature importance") {
		found = append(found, TopicFeatureImportance)
	}
	if strings.Contains(content, "regression") {
		found = append(found, TopicRegression)
	}
	if strings.Contains(content, "classification") {
		found = append(found, TopicClassification)
	}
	return found, nil
}

// KeyTerms returns the lowercase alphabetic runs of a file name (extension
// excluded) longer than three characters, minus the stoplist.
func KeyTerms(name string) []string {
	set := map[string]struct{}{}
	addTerms(set, strings.ToLower(name))
	return sortedKeys(set)
}

func addTerms(set map[string]struct{}, name string) {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	for _, term := range termRegex.FindAllString(name, -1) {
		if len(term) > 3 && !stopTerms[term] {
			set[term] = struct{}{}
		}
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]struct{}) []string {
	return slices.Sorted(maps.Keys(m))
}
