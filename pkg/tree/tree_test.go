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
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"
)

func writeFiles(t *testing.T, fs afero.Fs, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(root, rel), []byte(content), 0o644))
	}
}

func readFile(t *testing.T, fs afero.Fs, path string) string {
	t.Helper()
	data, err := afero.ReadFile(fs, path)
	require.NoError(t, err)
	return string(data)
}

// failingFs fails every open for writing of a path with the given base name
type failingFs struct {
	afero.Fs
	base string
}

func (f failingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if filepath.Base(name) == f.base && flag&(os.O_WRONLY|os.O_RDWR) != 0 {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func TestListFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/src", map[string]string{
		"b.txt":          "b",
		"a/c.txt":        "c",
		".git/HEAD":      "ref",
		"a/.git/config":  "x",
		"cache/skip.log": "x",
	})

	files, err := ListFiles(fs, "/src", Options{Ignore: []string{"cache"}})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join("a", "c.txt"), "b.txt"}, files, "vcs and ignored dirs should be skipped and paths sorted")
}

func TestCompareFiles(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		target      string
		wantChanged bool
		wantAdded   int
		wantRemoved int
	}{
		{name: "identical", source: "a\nb\n", target: "a\nb\n"},
		{name: "both_empty", source: "", target: ""},
		{name: "line_added", source: "a\nb\nc\n", target: "a\nc\n", wantChanged: true, wantAdded: 1},
		{name: "line_removed", source: "a\n", target: "a\nz\n", wantChanged: true, wantRemoved: 1},
		{name: "line_modified", source: "a\nB\nc\n", target: "a\nb\nc\n", wantChanged: true, wantAdded: 1, wantRemoved: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFiles(t, fs, "/", map[string]string{"src": tt.source, "dst": tt.target})

			diffs, err := Compare(fs, "/src", "/dst", Options{})
			require.NoError(t, err)
			require.Len(t, diffs, 1, "two files should always yield one diff")

			d := diffs[0]
			assert.Equal(t, PresenceBoth, d.Presence)
			assert.Equal(t, tt.wantChanged, d.HasChanges())
			added, removed := d.Stats()
			assert.Equal(t, tt.wantAdded, added, "added lines")
			assert.Equal(t, tt.wantRemoved, removed, "removed lines")
		})
	}
}

func TestCompareDirectionOfChanges(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/", map[string]string{"src": "keep\nnew\n", "dst": "keep\nold\n"})

	diffs, err := Compare(fs, "/src", "/dst", Options{})
	require.NoError(t, err)
	require.Len(t, diffs, 1)

	var added, removed []string
	for _, c := range diffs[0].Changes {
		switch c.Kind {
		case Added:
			added = append(added, c.Lines()...)
		case Removed:
			removed = append(removed, c.Lines()...)
		}
	}
	assert.Equal(t, []string{"new"}, added, "lines only in the source are added")
	assert.Equal(t, []string{"old"}, removed, "lines only in the target are removed")
}

func TestCompareMissing(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/", map[string]string{"only": "x"})

	diffs, err := Compare(fs, "/nope1", "/nope2", Options{})
	require.NoError(t, err)
	assert.Empty(t, diffs, "neither side existing yields nothing")

	diffs, err = Compare(fs, "/only", "/nope", Options{})
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, PresenceSourceOnly, diffs[0].Presence)
	assert.Empty(t, diffs[0].Changes, "one sided diffs carry no line changes")

	diffs, err = Compare(fs, "/nope", "/only", Options{})
	require.NoError(t, err)
	require.Len(t, diffs, 1)
	assert.Equal(t, PresenceTargetOnly, diffs[0].Presence)
	assert.Equal(t, "/only", diffs[0].TargetPath)
	assert.Equal(t, "/nope", diffs[0].SourcePath)
}

func TestCompareKindMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/", map[string]string{"file": "x", "dir/a": "y"})

	_, err := Compare(fs, "/file", "/dir", Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrKindMismatch))
}

func TestCompareDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/src", map[string]string{
		"same.txt":      "same\n",
		"changed.txt":   "one\ntwo\n",
		"src_only.txt":  "s\n",
		"sub/deep.txt":  "deep\n",
		".git/HEAD":     "a",
		"ignored/x.txt": "x",
	})
	writeFiles(t, fs, "/dst", map[string]string{
		"same.txt":     "same\n",
		"changed.txt":  "one\n",
		"dst_only.txt": "d\n",
		"sub/deep.txt": "deep\n",
		".git/HEAD":    "b",
	})

	diffs, err := Compare(fs, "/src", "/dst", Options{Ignore: []string{"ignored"}})
	require.NoError(t, err)

	got := map[string]Presence{}
	var order []string
	for _, d := range diffs {
		got[d.RelPath] = d.Presence
		order = append(order, d.RelPath)
	}
	assert.Equal(t, map[string]Presence{
		"changed.txt":  PresenceBoth,
		"dst_only.txt": PresenceTargetOnly,
		"src_only.txt": PresenceSourceOnly,
	}, got)
	assert.Equal(t, []string{"changed.txt", "dst_only.txt", "src_only.txt"}, order, "diffs should be sorted by path")
}

func TestCompareIdenticalDirectories(t *testing.T) {
	fs := afero.NewMemMapFs()
	files := map[string]string{"a.txt": "x", "sub/b.txt": "y"}
	writeFiles(t, fs, "/left", files)
	writeFiles(t, fs, "/right", files)

	diffs, err := Compare(fs, "/left", "/right", Options{})
	require.NoError(t, err)
	assert.Empty(t, diffs)
}

func TestCopyThenCompareScenario(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/src", map[string]string{"a.txt": "x", "sub/b.txt": "y"})
	require.NoError(t, fs.MkdirAll("/dst", 0o755))

	diffs, err := Compare(fs, "/src", "/dst", Options{})
	require.NoError(t, err)
	require.Len(t, diffs, 2)
	for _, d := range diffs {
		assert.Equal(t, PresenceSourceOnly, d.Presence, "%s should be source only", d.RelPath)
	}

	report, err := Copy(fs, "/src", "/dst", CopyOptions{Overwrite: true})
	require.NoError(t, err)
	assert.True(t, report.OK())
	assert.ElementsMatch(t, []string{"a.txt", filepath.Join("sub", "b.txt")}, report.Copied)

	diffs, err = Compare(fs, "/src", "/dst", Options{})
	require.NoError(t, err)
	assert.Empty(t, diffs, "copy then compare should report no differences")
}

func TestCopyFile(t *testing.T) {
	tests := []struct {
		name        string
		existing    *string
		overwrite   bool
		wantContent string
		wantCopied  bool
	}{
		{name: "new_destination", wantContent: "fresh", wantCopied: true},
		{name: "existing_no_overwrite", existing: ptr("old"), wantContent: "old"},
		{name: "existing_overwrite", existing: ptr("old"), overwrite: true, wantContent: "fresh", wantCopied: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			writeFiles(t, fs, "/", map[string]string{"src/file": "fresh"})
			if tt.existing != nil {
				writeFiles(t, fs, "/", map[string]string{"out/deep/file": *tt.existing})
			}

			report, err := Copy(fs, "/src/file", "/out/deep/file", CopyOptions{Overwrite: tt.overwrite})
			require.NoError(t, err)
			assert.True(t, report.OK())
			assert.Equal(t, tt.wantCopied, len(report.Copied) == 1)
			assert.Equal(t, !tt.wantCopied, report.AllSkipped())
			assert.Equal(t, tt.wantContent, readFile(t, fs, "/out/deep/file"))
		})
	}
}

func TestCopyIdempotent(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/src", map[string]string{"a": "1", "b/c": "2"})

	_, err := Copy(fs, "/src", "/dst", CopyOptions{Overwrite: true})
	require.NoError(t, err)
	first := readFile(t, fs, "/dst/b/c")

	_, err = Copy(fs, "/src", "/dst", CopyOptions{Overwrite: true})
	require.NoError(t, err)
	assert.Equal(t, first, readFile(t, fs, "/dst/b/c"))
	assert.Equal(t, "1", readFile(t, fs, "/dst/a"))
}

func TestCopySkipsVCSAndIgnored(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/src", map[string]string{
		"config.toml":    "theme",
		".git/HEAD":      "ref",
		"themes/x.toml":  "x",
		"runtime/a.scm":  "a",
		"runtime/b.scm":  "b",
		"runtime/keep.t": "k",
	})

	report, err := Copy(fs, "/src", "/dst", CopyOptions{Overwrite: true, Options: Options{Ignore: []string{"runtime/*.scm"}}})
	require.NoError(t, err)
	assert.True(t, report.OK())

	exists, err := afero.DirExists(fs, "/dst/.git")
	require.NoError(t, err)
	assert.False(t, exists, ".git should never be copied")

	exists, err = afero.Exists(fs, "/dst/runtime/a.scm")
	require.NoError(t, err)
	assert.False(t, exists, "ignored globs should not be copied")

	assert.Equal(t, "k", readFile(t, fs, "/dst/runtime/keep.t"))
	assert.Equal(t, "x", readFile(t, fs, "/dst/themes/x.toml"))
}

func TestCopyMissingSource(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := Copy(fs, "/missing", "/dst", CopyOptions{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestCopyDirectoryNoOverwriteLeavesExisting(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/src", map[string]string{"a": "new a", "b": "new b"})
	writeFiles(t, fs, "/dst", map[string]string{"a": "old a"})

	report, err := Copy(fs, "/src", "/dst", CopyOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, report.Copied)
	assert.Equal(t, []string{"a"}, report.Skipped)
	assert.Equal(t, "old a", readFile(t, fs, "/dst/a"))
	assert.Equal(t, "new b", readFile(t, fs, "/dst/b"))
}

func TestCopyDryRun(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, "/src", map[string]string{"a": "1", "sub/b": "2"})

	report, err := Copy(fs, "/src", "/dst", CopyOptions{Overwrite: true, DryRun: true})
	require.NoError(t, err)
	assert.Len(t, report.Copied, 2)

	exists, err := afero.Exists(fs, "/dst")
	require.NoError(t, err)
	assert.False(t, exists, "dry run should not write anything")
}

func TestCopyContinuesAfterFailure(t *testing.T) {
	mem := afero.NewMemMapFs()
	writeFiles(t, mem, "/src", map[string]string{"a": "1", "bad": "2", "z": "3"})
	fs := failingFs{Fs: mem, base: "bad"}

	report, err := Copy(fs, "/src", "/dst", CopyOptions{Overwrite: true})
	require.NoError(t, err)
	assert.False(t, report.OK())
	assert.Equal(t, []string{"bad"}, report.FailedPaths())
	assert.ElementsMatch(t, []string{"a", "z"}, report.Copied, "siblings of a failed file are still copied")
	require.Error(t, report.Err())
	assert.True(t, strings.Contains(report.Err().Error(), "bad"))

	src, err := afero.ReadFile(mem, "/src/bad")
	require.NoError(t, err)
	assert.Equal(t, "2", string(src), "source is never modified")
}

func TestCopyPreservesMode(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/src/run.sh", []byte("#!/bin/sh"), 0o755))

	_, err := Copy(fs, "/src", "/dst", CopyOptions{Overwrite: true})
	require.NoError(t, err)

	info, err := fs.Stat("/dst/run.sh")
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

func TestLineDiffRuns(t *testing.T) {
	changes := LineDiff("a\nb\nc\n", "a\nx\ny\nc\n")
	var kinds []ChangeKind
	for _, c := range changes {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []ChangeKind{Unchanged, Removed, Added, Unchanged}, kinds)
	assert.Equal(t, []string{"x", "y"}, changes[2].Lines(), "contiguous added lines form one run")
}

func ptr(s string) *string { return &s }
