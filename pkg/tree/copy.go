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

package tree

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// CopyOptions control how Copy treats existing destination files.
type CopyOptions struct {
	Options
	Overwrite bool // replace destination files that already exist
	DryRun    bool // record what would happen without writing
}

// 📦 CopyReport is the per-file breakdown of a Copy
type CopyReport struct {
	Source  string
	Dest    string
	Copied  []string         // relative paths written (or that would be, in a dry run)
	Skipped []string         // relative paths left alone because they already existed
	Failed  map[string]error // relative paths that could not be copied
}

func newReport(source, dest string) *CopyReport {
	return &CopyReport{Source: source, Dest: dest, Failed: map[string]error{}}
}

func (r *CopyReport) record(rel string, copied bool, err error) {
	switch {
	case err != nil:
		r.Failed[rel] = err
	case copied:
		r.Copied = append(r.Copied, rel)
	default:
		r.Skipped = append(r.Skipped, rel)
	}
}

// OK reports whether every file was copied or skipped without error.
func (r *CopyReport) OK() bool {
	return len(r.Failed) == 0
}

// AllSkipped reports whether nothing was copied because everything already existed.
func (r *CopyReport) AllSkipped() bool {
	return r.OK() && len(r.Copied) == 0 && len(r.Skipped) > 0
}

// FailedPaths returns the failed relative paths in sorted order.
func (r *CopyReport) FailedPaths() []string {
	paths := make([]string, 0, len(r.Failed))
	for p := range r.Failed {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Err summarizes the failures, or returns nil when there were none.
func (r *CopyReport) Err() error {
	if r.OK() {
		return nil
	}
	paths := r.FailedPaths()
	first := paths[0]
	if len(paths) == 1 {
		return errors.Errorf("copying %s: %w", first, r.Failed[first])
	}
	return errors.Errorf("%d files failed, first %s: %w", len(paths), first, r.Failed[first])
}

// 🚚 Copy copies a file or directory tree from source to dest.
//
// Directories named .git and paths matching opts.Ignore are never copied.
// Without opts.Overwrite existing destination files are left untouched and
// reported as skipped. Errors on individual files are collected in the report
// and do not stop the remaining files; only a missing source is returned as an
// error, wrapping ErrNotFound.
func Copy(fs afero.Fs, source, dest string, opts CopyOptions) (*CopyReport, error) {
	info, ok, err := stat(fs, source)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Errorf("%s: %w", source, ErrNotFound)
	}

	report := newReport(source, dest)

	if !info.IsDir() {
		copied, err := copyFile(fs, source, dest, info.Mode().Perm(), opts)
		report.record(filepath.Base(source), copied, err)
		return report, nil
	}

	walkErr := afero.Walk(fs, source, func(path string, fi os.FileInfo, err error) error {
		rel, relErr := filepath.Rel(source, path)
		if relErr != nil {
			report.Failed[path] = relErr
			return nil
		}
		if err != nil {
			// returning nil here skips an unreadable directory and keeps walking its siblings
			report.Failed[rel] = err
			return nil
		}

		if fi.IsDir() {
			if rel != "." && opts.skip(rel) {
				return filepath.SkipDir
			}
			if opts.DryRun {
				return nil
			}
			if err := fs.MkdirAll(filepath.Join(dest, rel), fi.Mode().Perm()|0o700); err != nil {
				report.Failed[rel] = errors.Errorf("creating directory: %w", err)
				return filepath.SkipDir
			}
			return nil
		}

		if opts.skip(rel) {
			return nil
		}
		copied, err := copyFile(fs, path, filepath.Join(dest, rel), fi.Mode().Perm(), opts)
		report.record(rel, copied, err)
		return nil
	})
	if walkErr != nil {
		return report, errors.Errorf("walking %s: %w", source, walkErr)
	}
	return report, nil
}

// copyFile returns copied=false when dst exists and overwriting is off.
func copyFile(fs afero.Fs, src, dst string, perm os.FileMode, opts CopyOptions) (bool, error) {
	exists, err := afero.Exists(fs, dst)
	if err != nil {
		return false, errors.Errorf("checking destination: %w", err)
	}
	if exists && !opts.Overwrite {
		return false, nil
	}
	if opts.DryRun {
		return true, nil
	}

	data, err := afero.ReadFile(fs, src)
	if err != nil {
		return false, errors.Errorf("reading source: %w", err)
	}
	if err := fs.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return false, errors.Errorf("creating parent directories: %w", err)
	}
	if err := afero.WriteFile(fs, dst, data, perm); err != nil {
		return false, errors.Errorf("writing destination: %w", err)
	}
	// WriteFile only applies perm to new files
	if err := fs.Chmod(dst, perm); err != nil {
		return false, errors.Errorf("setting permissions: %w", err)
	}
	return true, nil
}
