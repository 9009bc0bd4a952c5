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

package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	tests := []struct {
		name   string
		writes []string
		want   string
	}{
		{name: "creates_parent_dirs", writes: []string{"one"}, want: "one"},
		{name: "replaces_existing", writes: []string{"one", "two"}, want: "two"},
		{name: "empty_content", writes: []string{"one", ""}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "a")
			path := filepath.Join(dir, "b.txt")
			for _, w := range tt.writes {
				require.NoError(t, WriteFileAtomic(path, []byte(w)), "writing file")
			}

			got, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got), "content should match last write")

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0644), info.Mode().Perm(), "mode should be 0644")

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			require.Len(t, entries, 1, "no temp files should be left behind")
			assert.Equal(t, "b.txt", entries[0].Name())
		})
	}
}

func TestWriteFileAtomicFailure(t *testing.T) {
	dir := t.TempDir()
	// a directory in the way makes the rename fail
	path := filepath.Join(dir, "taken")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "child"), 0755))

	err := WriteFileAtomic(path, []byte("x"))
	require.Error(t, err, "renaming over a non-empty directory should fail")
	assert.Contains(t, err.Error(), "renaming temp file")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp file should be removed on failure")
}
