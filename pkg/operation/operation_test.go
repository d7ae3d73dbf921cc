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

package operation

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/walteh/rewriterc/pkg/config"
	"github.com/walteh/rewriterc/pkg/log"
	"github.com/walteh/rewriterc/pkg/scan"
	"github.com/walteh/rewriterc/pkg/status"
	"github.com/walteh/rewriterc/pkg/text"
	"gitlab.com/tozd/go/errors"
)

// 🔧 MockStore is a mock implementation of the status.FileStore interface
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	result := m.Called(ctx, path)
	rc, _ := result.Get(0).(io.ReadCloser)
	return rc, result.Error(1)
}

func (m *MockStore) WriteFile(ctx context.Context, path string, content []byte) error {
	result := m.Called(ctx, path, content)
	return result.Error(0)
}

// 🧪 failingOpenFS fails Open for one path
type failingOpenFS struct {
	billy.Filesystem
	path string
}

func (f *failingOpenFS) Open(path string) (billy.File, error) {
	if filepath.Clean(path) == f.path {
		return nil, os.ErrPermission
	}
	return f.Filesystem.Open(path)
}

const (
	authoredByOld = "/**\n * 作者：马丁\n * 加项目群：123456\n */\npublic class A {}\n"
	authoredByNew = "/**\n * 作者：杨潇\n */\npublic class A {}\n"
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
	require.NoError(t, err)
	return string(data)
}

func newRewriter(t *testing.T, fs billy.Filesystem, store status.FileStore, dryRun bool) (*Rewriter, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	console := &bytes.Buffer{}
	r, err := New(Options{
		Files:     scan.NewWalker(fs, cfg.Extension, nil),
		Store:     store,
		Replacer:  text.NewRuleReplacer(),
		Rules:     cfg.Rules(),
		Console:   log.New(console, zerolog.Nop()),
		Extension: cfg.Extension,
		DryRun:    dryRun,
	})
	require.NoError(t, err)
	return r, console
}

func TestRewriter_Run(t *testing.T) {
	tests := []struct {
		name         string
		files        map[string]string
		wantFiles    map[string]string
		wantModified []string
		wantFound    int
	}{
		{
			name: "rewrites_matching_files",
			files: map[string]string{
				"src/A.java": authoredByOld,
				"src/B.java": "class B {}\n",
			},
			wantFiles: map[string]string{
				"src/A.java": authoredByNew,
				"src/B.java": "class B {}\n",
			},
			wantModified: []string{"src/A.java"},
			wantFound:    2,
		},
		{
			name: "crlf_terminators",
			files: map[string]string{
				"A.java": "/**\r\n * 作者：马丁\r\n * 加项目群：123\r\n */\r\n",
			},
			wantFiles: map[string]string{
				"A.java": "/**\r\n * 作者：杨潇\r\n */\r\n",
			},
			wantModified: []string{"A.java"},
			wantFound:    1,
		},
		{
			name: "other_extensions_ignored",
			files: map[string]string{
				"README.md":  authoredByOld,
				"A.java.bak": authoredByOld,
				"A.java":     authoredByOld,
			},
			wantFiles: map[string]string{
				"README.md":  authoredByOld,
				"A.java.bak": authoredByOld,
				"A.java":     authoredByNew,
			},
			wantModified: []string{"A.java"},
			wantFound:    1,
		},
		{
			name: "empty_tree",
			files: map[string]string{
				"docs/readme.txt": "nothing here",
			},
			wantFiles: map[string]string{
				"docs/readme.txt": "nothing here",
			},
			wantFound: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, tt.files)

			fs := osfs.New(dir)
			r, _ := newRewriter(t, fs, status.NewStore(fs), false)

			summary, err := r.Run(testContext(t))
			require.NoError(t, err)

			assert.Equal(t, tt.wantFound, summary.Discovered)
			assert.Equal(t, 0, summary.FailedCount())
			modified := make([]string, 0, len(summary.Modified))
			for _, p := range summary.Modified {
				modified = append(modified, filepath.ToSlash(p))
			}
			assert.ElementsMatch(t, tt.wantModified, modified)

			for name, want := range tt.wantFiles {
				assert.Equal(t, want, readFile(t, dir, name), "content of %s", name)
			}
		})
	}
}

func TestRewriter_Run_Idempotent(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"A.java": authoredByOld})

	fs := osfs.New(dir)
	r, _ := newRewriter(t, fs, status.NewStore(fs), false)
	ctx := testContext(t)

	first, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, first.ModifiedCount())

	second, err := r.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.ModifiedCount())
	assert.Equal(t, 1, second.Unchanged)
	assert.Equal(t, authoredByNew, readFile(t, dir, "A.java"))
}

func TestRewriter_Run_NoOpLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"A.java": "class A {}\n"})

	store := &MockStore{}
	store.On("Open", mock.Anything, "A.java").Return(io.NopCloser(strings.NewReader("class A {}\n")), nil)

	r, _ := newRewriter(t, osfs.New(dir), store, false)
	summary, err := r.Run(testContext(t))
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Unchanged)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "WriteFile", mock.Anything, mock.Anything, mock.Anything)
}

func TestRewriter_Run_ErrorIsolation(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"A.java": authoredByOld,
		"B.java": authoredByOld,
		"C.java": authoredByOld,
	})

	fs := &failingOpenFS{Filesystem: osfs.New(dir), path: "B.java"}
	r, console := newRewriter(t, fs, status.NewStore(fs), false)

	summary, err := r.Run(testContext(t))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Discovered)
	assert.Equal(t, 2, summary.Succeeded())
	require.Equal(t, 1, summary.FailedCount())
	assert.Equal(t, "B.java", summary.Failed[0].Path)
	assert.True(t, errors.Is(summary.Failed[0].Err, os.ErrPermission))

	assert.Equal(t, authoredByNew, readFile(t, dir, "A.java"))
	assert.Equal(t, authoredByOld, readFile(t, dir, "B.java"))
	assert.Equal(t, authoredByNew, readFile(t, dir, "C.java"))
	assert.Contains(t, console.String(), "B.java")
}

func TestRewriter_Run_WriteFailure(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"A.java": authoredByOld})

	store := &MockStore{}
	store.On("Open", mock.Anything, "A.java").Return(io.NopCloser(strings.NewReader(authoredByOld)), nil)
	store.On("WriteFile", mock.Anything, "A.java", []byte(authoredByNew)).Return(errors.New("disk full"))

	r, _ := newRewriter(t, osfs.New(dir), store, false)
	summary, err := r.Run(testContext(t))
	require.NoError(t, err)

	assert.Equal(t, 0, summary.ModifiedCount())
	require.Equal(t, 1, summary.FailedCount())
	assert.ErrorContains(t, summary.Failed[0].Err, "writing A.java")
	assert.ErrorContains(t, summary.Failed[0].Err, "disk full")
	store.AssertExpectations(t)
}

func TestRewriter_Run_DryRun(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"A.java": authoredByOld})

	fs := osfs.New(dir)
	r, console := newRewriter(t, fs, status.NewStore(fs), true)

	summary, err := r.Run(testContext(t))
	require.NoError(t, err)

	assert.True(t, summary.DryRun)
	assert.Equal(t, 1, summary.ModifiedCount())
	assert.Equal(t, authoredByOld, readFile(t, dir, "A.java"), "dry run must not write")
	assert.Contains(t, console.String(), "-  * 加项目群：123456")
	assert.Contains(t, console.String(), "dry run complete")
}

func TestRewriter_Run_UnreadableRoot(t *testing.T) {
	fs := osfs.New(filepath.Join(t.TempDir(), "missing"))
	r, console := newRewriter(t, fs, status.NewStore(fs), false)

	summary, err := r.Run(testContext(t))
	require.Error(t, err)
	assert.Nil(t, summary)
	assert.True(t, errors.Is(err, scan.ErrRoot))
	assert.NotContains(t, console.String(), "complete")
}

func TestProcessFile(t *testing.T) {
	tests := []struct {
		name       string
		content    string
		dryRun     bool
		wantStatus status.FileStatus
		wantDiff   bool
	}{
		{
			name:       "unchanged",
			content:    "class A {}\n",
			wantStatus: status.StatusUnchanged,
		},
		{
			name:       "modified",
			content:    authoredByOld,
			wantStatus: status.StatusModified,
		},
		{
			name:       "modified_dry_run_has_diff",
			content:    authoredByOld,
			dryRun:     true,
			wantStatus: status.StatusModified,
			wantDiff:   true,
		},
		{
			name:       "invalid_utf8",
			content:    "作者：马丁\xff\n",
			wantStatus: status.StatusFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFiles(t, dir, map[string]string{"A.java": tt.content})

			fs := osfs.New(dir)
			r, _ := newRewriter(t, fs, status.NewStore(fs), tt.dryRun)

			result := r.ProcessFile(testContext(t), "A.java")
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.Equal(t, "A.java", result.Path)
			if tt.wantDiff {
				assert.NotEmpty(t, result.Diff)
			} else {
				assert.Empty(t, result.Diff)
			}
			if tt.wantStatus == status.StatusFailed {
				assert.True(t, errors.Is(result.Err, text.ErrInvalidEncoding))
				assert.Equal(t, tt.content, readFile(t, dir, "A.java"))
			}
		})
	}
}

func TestNew(t *testing.T) {
	fs := osfs.New(t.TempDir())
	valid := func() Options {
		return Options{
			Files:    scan.NewWalker(fs, ".java", nil),
			Store:    status.NewStore(fs),
			Replacer: text.NewRuleReplacer(),
			Rules:    config.Default().Rules(),
			Console:  log.New(io.Discard, zerolog.Nop()),
		}
	}

	tests := []struct {
		name        string
		modify      func(o *Options)
		errContains string
	}{
		{name: "valid", modify: func(o *Options) {}},
		{name: "missing_files", modify: func(o *Options) { o.Files = nil }, errContains: "file source is required"},
		{name: "missing_store", modify: func(o *Options) { o.Store = nil }, errContains: "store is required"},
		{name: "missing_replacer", modify: func(o *Options) { o.Replacer = nil }, errContains: "replacer is required"},
		{name: "missing_console", modify: func(o *Options) { o.Console = nil }, errContains: "console logger is required"},
		{name: "no_rules", modify: func(o *Options) { o.Rules = nil }, errContains: "at least one rule is required"},
		{
			name:        "invalid_rule",
			modify:      func(o *Options) { o.Rules = []text.Rule{text.NewLiteralRule("", "x")} },
			errContains: "from is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := valid()
			tt.modify(&opts)
			r, err := New(opts)
			if tt.errContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, r)
		})
	}
}
