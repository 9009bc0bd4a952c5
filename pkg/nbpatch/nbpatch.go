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

// Package nbpatch rewrites the code cells of a notebook with ordered
// regular-expression rules.
package nbpatch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/narrate/pkg/notebook"
	"github.com/walteh/narrate/pkg/text"
)

// RuleSet is the on-disk rules file.
type RuleSet struct {
	Rules []text.Rule `yaml:"rules"`
}

// CellResult is the outcome for one code cell.
type CellResult struct {
	Index   int
	Changed bool
	Counts  map[string]int
}

// Report summarizes a patch run.
type Report struct {
	Input  string
	Output string
	Cells  []CellResult
	Counts map[string]int // per rule, across all cells
}

// Changed reports how many cells were rewritten.
func (r *Report) Changed() int {
	n := 0
	for _, c := range r.Cells {
		if c.Changed {
			n++
		}
	}
	return n
}

// 📜 LoadRules reads and validates a YAML rules file.
func LoadRules(path string) ([]text.Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading rules: %w", err)
	}

	var set RuleSet
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&set); err != nil {
		return nil, errors.Errorf("parsing rules %s: %w", filepath.Base(path), err)
	}
	if len(set.Rules) == 0 {
		return nil, errors.Errorf("rules file %s has no rules", filepath.Base(path))
	}
	if err := text.NewRegexpReplacer().ValidateRules(set.Rules); err != nil {
		return nil, err
	}
	return set.Rules, nil
}

// rulesFor keeps the rules whose file filter matches name.
func rulesFor(name string, rules []text.Rule) ([]text.Rule, error) {
	out := make([]text.Rule, 0, len(rules))
	for i, r := range rules {
		if r.FileFilterGlob != "" {
			ok, err := doublestar.Match(r.FileFilterGlob, name)
			if err != nil {
				return nil, errors.Errorf("rule %s: bad file filter: %w", text.RuleName(i, r), err)
			}
			if !ok {
				continue
			}
		}
		// keep the positional name stable after filtering
		r.Name = text.RuleName(i, r)
		out = append(out, r)
	}
	return out, nil
}

// 🩹 Patch applies rules to every code cell of nb in place. name is the
// notebook's file name, matched against each rule's file filter.
func Patch(ctx context.Context, nb *notebook.Notebook, name string, rules []text.Rule, replacer text.Replacer) (*Report, error) {
	logger := zerolog.Ctx(ctx)

	active, err := rulesFor(name, rules)
	if err != nil {
		return nil, err
	}

	report := &Report{Counts: map[string]int{}}
	for i, cell := range nb.Cells {
		if cell.Type != notebook.TypeCode || !cell.HasSource {
			continue
		}

		res, err := replacer.Replace(ctx, strings.NewReader(cell.Source), active)
		if err != nil {
			return nil, errors.Errorf("cell %d: %w", i, err)
		}

		cr := CellResult{Index: i, Changed: res.WasModified, Counts: res.Counts}
		report.Cells = append(report.Cells, cr)
		for k, v := range res.Counts {
			report.Counts[k] += v
		}

		if res.WasModified {
			cell.Source = string(res.ModifiedContent)
			logger.Debug().Int("cell", i).Interface("counts", res.Counts).Msg("cell patched")
		}
	}
	return report, nil
}

// PatchFile reads the notebook at in, patches it and writes it to out.
func PatchFile(ctx context.Context, in, out string, rules []text.Rule) (*Report, error) {
	nb, err := notebook.Read(in)
	if err != nil {
		return nil, err
	}

	report, err := Patch(ctx, nb, filepath.Base(in), rules, text.NewRegexpReplacer())
	if err != nil {
		return nil, err
	}
	report.Input, report.Output = in, out

	if err := nb.Write(out); err != nil {
		return nil, err
	}

	zerolog.Ctx(ctx).Info().
		Str("input", in).
		Str("output", out).
		Int("cells_changed", report.Changed()).
		Msg("notebook patched")
	return report, nil
}
