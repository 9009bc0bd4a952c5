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
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// DefaultStructureDepth limits how deep Structure descends.
const DefaultStructureDepth = 3

// 🌳 Structure renders the project tree as indented "Directory: rel/" and
// "File: rel" lines. Directories deeper than maxDepth are listed but not opened.
func Structure(ctx context.Context, skipper *Skipper, maxDepth int) string {
	var lines []string
	root := skipper.Root()

	var explore func(dir string, depth int)
	explore = func(dir string, depth int) {
		entries, err := os.ReadDir(dir)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("dir", dir).Msg("error exploring directory for structure")
			return
		}
		indent := strings.Repeat("  ", depth)
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			if skipper.SkipEntry(path) {
				continue
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = path
			}
			rel = filepath.ToSlash(rel)
			if e.IsDir() {
				lines = append(lines, indent+"Directory: "+rel+"/")
				if depth < maxDepth {
					explore(path, depth+1)
				}
				continue
			}
			lines = append(lines, indent+"File: "+rel)
		}
	}

	explore(root, 0)
	return strings.Join(lines, "\n")
}
