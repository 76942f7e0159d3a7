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
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func setupTestContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.TestWriter{T: t}).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func TestManager_WriteFileAtomic(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, dir string)
		content  string
		wantMode os.FileMode
	}{
		{
			name:     "new_file",
			content:  "hello\n",
			wantMode: 0644,
		},
		{
			name: "keeps_mode",
			setup: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "target.txt"), []byte("old"), 0600))
				require.NoError(t, os.Chmod(filepath.Join(dir, "target.txt"), 0600))
			},
			content:  "new",
			wantMode: 0600,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestContext(t)
			dir := t.TempDir()
			if tt.setup != nil {
				tt.setup(t, dir)
			}

			mgr := New(dir)
			require.NoError(t, mgr.WriteFileAtomic(ctx, "target.txt", []byte(tt.content)))

			got, err := mgr.ReadFile(ctx, "target.txt")
			require.NoError(t, err)
			assert.Equal(t, tt.content, string(got))

			fi, err := os.Stat(filepath.Join(dir, "target.txt"))
			require.NoError(t, err)
			assert.Equal(t, tt.wantMode, fi.Mode().Perm())

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "temp file should not be left behind")
		})
	}
}

func TestManager_BackupRestore(t *testing.T) {
	ctx := setupTestContext(t)
	dir := t.TempDir()
	mgr := New(dir)

	require.NoError(t, mgr.BackupFile(ctx, "missing.txt"), "backing up a missing file is a no-op")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("original"), 0644))
	require.NoError(t, mgr.BackupFile(ctx, "a.txt"))
	require.NoError(t, mgr.WriteFileAtomic(ctx, "a.txt", []byte("changed")))

	backup, err := os.ReadFile(filepath.Join(dir, "a.txt.bak"))
	require.NoError(t, err)
	assert.Equal(t, "original", string(backup))

	require.NoError(t, mgr.RestoreFile(ctx, "a.txt"))
	got, err := mgr.ReadFile(ctx, "a.txt")
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))

	exists, err := mgr.FileExists(ctx, "a.txt.bak")
	require.NoError(t, err)
	assert.False(t, exists, "restore should remove the backup")

	err = mgr.RestoreFile(ctx, "a.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "backup file does not exist")
}

func TestManager_Tracking(t *testing.T) {
	ctx := setupTestContext(t)
	mgr := New(t.TempDir())

	var wg sync.WaitGroup
	paths := []string{"c.go", "a.md", "b.py", "d.txt"}
	statuses := []FileStatus{StatusModified, StatusUnchanged, StatusSkipped, StatusFailed}
	mgr.StartOperation(ctx, len(paths))
	for i := range paths {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			info := FileInfo{Status: statuses[i]}
			if statuses[i] == StatusFailed {
				info.Error = errors.New("boom")
			}
			mgr.TrackFile(ctx, paths[i], info)
			mgr.Increment(ctx)
		}(i)
	}
	wg.Wait()
	mgr.FinishOperation(ctx)

	files, err := mgr.ListFiles(ctx)
	require.NoError(t, err)
	require.Len(t, files, 4)
	assert.Equal(t, []string{"a.md", "b.py", "c.go", "d.txt"}, []string{files[0].Path, files[1].Path, files[2].Path, files[3].Path})

	info, err := mgr.GetFileInfo(ctx, "c.go")
	require.NoError(t, err)
	assert.Equal(t, StatusModified, info.Status)

	_, err = mgr.GetFileInfo(ctx, "nope")
	require.Error(t, err)

	assert.Equal(t, map[FileStatus]int{
		StatusModified:  1,
		StatusUnchanged: 1,
		StatusSkipped:   1,
		StatusFailed:    1,
	}, mgr.Summary())

	processed, total := mgr.Progress()
	assert.Equal(t, 4, processed)
	assert.Equal(t, 4, total)
}

func TestChecksum(t *testing.T) {
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", Checksum(nil))
	assert.NotEqual(t, Checksum([]byte("a")), Checksum([]byte("b")))
}
