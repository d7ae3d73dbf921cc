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

package scan

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

var (
	// ErrRoot matches every *RootError
	ErrRoot = errors.New("root directory unavailable")

	ErrRootNotFound     = errors.New("root directory does not exist")
	ErrRootNotDirectory = errors.New("root is not a directory")
)

// 🛑 RootError is a failure that makes the whole tree unreadable
type RootError struct {
	Path string
	Err  error
}

func (e *RootError) Error() string {
	return fmt.Sprintf("root %s: %v", e.Path, e.Err)
}

func (e *RootError) Unwrap() error {
	return e.Err
}

// Is makes errors.Is(err, ErrRoot) hold for any root failure
func (e *RootError) Is(target error) bool {
	return target == ErrRoot
}

// rootPath is the walk root inside the billy filesystem
const rootPath = "."

// 🚧 WalkError is a failure to read one path below the root
type WalkError struct {
	Path string
	Err  error
}

func (e *WalkError) Error() string {
	return fmt.Sprintf("walking %s: %v", e.Path, e.Err)
}

func (e *WalkError) Unwrap() error {
	return e.Err
}

// 📂 OpenRoot checks that path is an existing directory and returns a
// filesystem rooted at it together with its absolute path
func OpenRoot(path string) (billy.Filesystem, string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", errors.WithStack(&RootError{Path: path, Err: err})
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			err = ErrRootNotFound
		}
		return nil, "", errors.WithStack(&RootError{Path: abs, Err: err})
	}
	if !info.IsDir() {
		return nil, "", errors.WithStack(&RootError{Path: abs, Err: ErrRootNotDirectory})
	}

	return osfs.New(abs), abs, nil
}

// 🚶 Walker enumerates the files of a tree whose name ends with an extension
type Walker struct {
	fs        billy.Filesystem
	extension string
	exclude   []string
}

// 🏭 NewWalker creates a new walker. Exclude patterns use doublestar syntax
// and are matched against slash separated paths relative to the root.
func NewWalker(fs billy.Filesystem, extension string, exclude []string) *Walker {
	return &Walker{
		fs:        fs,
		extension: extension,
		exclude:   exclude,
	}
}

// 🔍 Files returns the matching files in lexicographic order. A nested
// directory that cannot be read yields a *WalkError and the walk goes on;
// an unreadable root yields an error wrapping ErrRoot and ends the sequence.
// Every call walks the tree again.
func (w *Walker) Files(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		logger := zerolog.Ctx(ctx)

		if _, err := w.fs.Stat(rootPath); err != nil {
			yield("", errors.WithStack(&RootError{Path: w.fs.Root(), Err: err}))
			return
		}

		stopped := false
		err := util.Walk(w.fs, rootPath, func(path string, info os.FileInfo, err error) error {
			if path == rootPath {
				return err
			}

			if err != nil {
				if !yield(path, &WalkError{Path: path, Err: err}) {
					stopped = true
					return filepath.SkipAll
				}
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if w.excluded(path) {
				logger.Debug().Str("path", path).Msg("excluded by pattern")
				if info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			if !info.Mode().IsRegular() || !strings.HasSuffix(info.Name(), w.extension) {
				return nil
			}

			if !yield(path, nil) {
				stopped = true
				return filepath.SkipAll
			}
			return nil
		})

		if err != nil && !stopped && !errors.Is(err, filepath.SkipAll) {
			yield("", errors.WithStack(&RootError{Path: w.fs.Root(), Err: err}))
		}
	}
}

// 📋 Collect walks the whole tree and returns the matching files and the
// per-path walk errors. Only a root failure is returned as error.
func (w *Walker) Collect(ctx context.Context) ([]string, []*WalkError, error) {
	var (
		files    []string
		failures []*WalkError
	)
	for path, err := range w.Files(ctx) {
		if err != nil {
			var werr *WalkError
			if errors.As(err, &werr) {
				failures = append(failures, werr)
				continue
			}
			return nil, nil, err
		}
		files = append(files, path)
	}
	return files, failures, nil
}

// excluded reports whether path matches one of the exclude patterns
func (w *Walker) excluded(path string) bool {
	slashed := filepath.ToSlash(path)
	for _, pattern := range w.exclude {
		matched, err := doublestar.Match(pattern, slashed)
		if err != nil {
			continue
		}
		if matched {
			return true
		}
	}
	return false
}
