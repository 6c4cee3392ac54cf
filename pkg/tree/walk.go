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

// Package tree copies and compares files and directory trees on an afero filesystem.
package tree

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// VCSDir is never traversed by Copy or Compare.
const VCSDir = ".git"

var (
	// ErrNotFound is returned when the source of a copy does not exist.
	ErrNotFound = errors.Base("path not found")
	// ErrKindMismatch is returned when a file is compared against a directory.
	ErrKindMismatch = errors.Base("cannot compare a file with a directory")
)

// 🔧 Options are shared by Copy and Compare
type Options struct {
	// Ignore holds doublestar globs matched against slash separated paths
	// relative to the tree root. Matching directories are not descended into.
	Ignore []string
}

// 🔍 skip reports whether rel should be left out of a walk
func (o Options) skip(rel string) bool {
	if filepath.Base(rel) == VCSDir {
		return true
	}
	slashed := filepath.ToSlash(rel)
	for _, pattern := range o.Ignore {
		// bad patterns are rejected when settings load, so a match error is a miss
		if ok, err := doublestar.Match(pattern, slashed); err == nil && ok {
			return true
		}
	}
	return false
}

// stat returns the file info for path, with ok=false when it does not exist.
func stat(fs afero.Fs, path string) (os.FileInfo, bool, error) {
	info, err := fs.Stat(path)
	if err == nil {
		return info, true, nil
	}
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	return nil, false, errors.Errorf("stat %s: %w", path, err)
}

// 📂 ListFiles returns every file under root as sorted relative paths.
func ListFiles(fs afero.Fs, root string, opts Options) ([]string, error) {
	var files []string
	err := afero.Walk(fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return errors.Errorf("walking %s: %w", path, err)
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return errors.Errorf("relative path for %s: %w", path, err)
		}
		if info.IsDir() {
			if rel != "." && opts.skip(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if opts.skip(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
