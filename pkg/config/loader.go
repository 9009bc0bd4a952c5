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

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// DefaultFileName is looked up in the project root when no config path is given.
const DefaultFileName = ".narrate.yaml"

// 🔌 Parser decodes one configuration format
type Parser interface {
	CanParse(filename string) bool
	Parse(ctx context.Context, data []byte, filename string) (*Config, error)
}

var (
	parsersMu sync.RWMutex
	parsers   []Parser
)

// Register adds a parser to the registry.
func Register(p Parser) {
	parsersMu.Lock()
	defer parsersMu.Unlock()
	parsers = append(parsers, p)
}

func parserFor(filename string) (Parser, error) {
	parsersMu.RLock()
	defer parsersMu.RUnlock()
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p, nil
		}
	}
	return nil, errors.Errorf("unsupported file extension %q", filepath.Ext(filename))
}

// 📥 Load reads and validates the configuration file at path.
// The format is chosen by extension: .yaml/.yml, .hcl or .json.
func Load(ctx context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	p, err := parserFor(path)
	if err != nil {
		return nil, err
	}

	cfg, err := p.Parse(ctx, data, path)
	if err != nil {
		return nil, err
	}
	cfg.location = path

	if err := cfg.Validate(); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// 📦 LoadOrDefault loads path when given. Otherwise it loads the default file
// from projectRoot if present and falls back to built-in defaults.
// A non-empty projectRoot always overrides project_root from the file.
func LoadOrDefault(ctx context.Context, path, projectRoot string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(projectRoot, DefaultFileName)
	}

	cfg, err := Load(ctx, path)
	if err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("no config file, using defaults")
		return Default(projectRoot), nil
	}

	switch {
	case projectRoot != "":
		cfg.ProjectRoot = projectRoot
	case cfg.ProjectRoot != "" && !filepath.IsAbs(cfg.ProjectRoot):
		cfg.ProjectRoot = filepath.Join(filepath.Dir(path), cfg.ProjectRoot)
	case cfg.ProjectRoot == "":
		cfg.ProjectRoot = filepath.Dir(path)
	}
	cfg.ProjectRoot = filepath.Clean(cfg.ProjectRoot)

	return cfg, nil
}

func hasSuffix(filename string, exts ...string) bool {
	name := strings.ToLower(strings.TrimSpace(filename))
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
