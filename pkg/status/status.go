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

package status

import (
	"path/filepath"
	"sort"

	"gitlab.com/tozd/go/errors"
)

// 📊 FileStatus represents the outcome of narrating a file
type FileStatus int

const (
	StatusUnknown  FileStatus = iota
	StatusNarrated            // File was rendered into the report
	StatusFailed              // Handler failed, an inline error note was rendered
	StatusListed              // File was only listed (type and size)
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusNarrated:
		return "narrated"
	case StatusFailed:
		return "failed"
	case StatusListed:
		return "listed"
	default:
		return "unknown"
	}
}

// 📄 FileInfo contains what the report knows about a processed file
type FileInfo struct {
	Path   string     // Absolute path to the file
	Kind   string     // Classification label (code, notebook, ...)
	Status FileStatus // Outcome
	Key    bool       // Whether the file was narrated in the key-file pass
	Error  error      // Handler error, if any
}

// ErrAlreadyProcessed is returned by Add when a path is already in the set.
var ErrAlreadyProcessed = errors.Base("file already processed")

// 🗂️ ProcessedFileSet records every file already rendered into the report.
// A path is never narrated twice: the key-file pass and the directory walk
// both consult the set before handing a file to a handler.
type ProcessedFileSet struct {
	files map[string]FileInfo
	order []string
}

// 🏭 NewProcessedFileSet creates an empty set
func NewProcessedFileSet() *ProcessedFileSet {
	return &ProcessedFileSet{
		files: make(map[string]FileInfo),
	}
}

func normalize(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// 🔍 Contains reports whether path was already processed
func (s *ProcessedFileSet) Contains(path string) bool {
	_, ok := s.files[normalize(path)]
	return ok
}

// ➕ Add records path. It fails if the path is already present.
func (s *ProcessedFileSet) Add(path string, info FileInfo) error {
	key := normalize(path)
	if _, ok := s.files[key]; ok {
		return errors.WithDetails(ErrAlreadyProcessed, "path", key)
	}
	info.Path = key
	s.files[key] = info
	s.order = append(s.order, key)
	return nil
}

// 🔄 Update changes the recorded outcome of an already processed path
func (s *ProcessedFileSet) Update(path string, status FileStatus, err error) {
	key := normalize(path)
	info, ok := s.files[key]
	if !ok {
		return
	}
	info.Status = status
	info.Error = err
	s.files[key] = info
}

// Get returns the recorded info for path.
func (s *ProcessedFileSet) Get(path string) (FileInfo, bool) {
	info, ok := s.files[normalize(path)]
	return info, ok
}

// Len returns the number of processed files.
func (s *ProcessedFileSet) Len() int {
	return len(s.files)
}

// 📋 List returns the processed files in the order they were added
func (s *ProcessedFileSet) List() []FileInfo {
	out := make([]FileInfo, 0, len(s.order))
	for _, key := range s.order {
		out = append(out, s.files[key])
	}
	return out
}

// Paths returns the processed paths sorted lexically.
func (s *ProcessedFileSet) Paths() []string {
	out := make([]string, 0, len(s.order))
	out = append(out, s.order...)
	sort.Strings(out)
	return out
}

// 📈 CountByKind tallies processed files per classification label
func (s *ProcessedFileSet) CountByKind() map[string]int {
	counts := make(map[string]int)
	for _, info := range s.files {
		counts[info.Kind]++
	}
	return counts
}
