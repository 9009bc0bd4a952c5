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
	"path/filepath"
	"strings"
)

// 🚫 Skipper decides which entries are excluded from every walk.
// Hidden entries, cache directories and the run's own artifacts are skipped.
type Skipper struct {
	root      string
	cacheDirs map[string]bool
	artifacts map[string]bool
}

// NewSkipper builds a skipper for root. Artifacts are paths produced by the
// run itself (report, assets dir, log file); relative ones resolve under root.
func NewSkipper(root string, cacheDirs []string, artifacts ...string) *Skipper {
	s := &Skipper{
		root:      filepath.Clean(root),
		cacheDirs: make(map[string]bool, len(cacheDirs)),
		artifacts: make(map[string]bool, len(artifacts)),
	}
	for _, d := range cacheDirs {
		s.cacheDirs[d] = true
	}
	for _, a := range artifacts {
		if a == "" {
			continue
		}
		if !filepath.IsAbs(a) {
			a = filepath.Join(s.root, a)
		}
		s.artifacts[filepath.Clean(a)] = true
	}
	return s
}

// Root returns the directory the skipper was built for.
func (s *Skipper) Root() string { return s.root }

// SkipEntry reports whether a single walk entry should be excluded.
func (s *Skipper) SkipEntry(path string) bool {
	if s.artifacts[filepath.Clean(path)] {
		return true
	}
	return s.skipName(filepath.Base(path))
}

// Skip reports whether path or any of its parents below the root is excluded.
func (s *Skipper) Skip(path string) bool {
	path = filepath.Clean(path)
	if s.artifacts[path] {
		return true
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return s.skipName(filepath.Base(path))
	}
	cur := s.root
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		cur = filepath.Join(cur, part)
		if s.skipName(part) || s.artifacts[cur] {
			return true
		}
	}
	return false
}

func (s *Skipper) skipName(name string) bool {
	return strings.HasPrefix(name, ".") || s.cacheDirs[name]
}
