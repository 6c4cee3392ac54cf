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
	"bytes"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"
)

// 📍 Presence tells which side of a comparison a file exists on
type Presence int

const (
	PresenceBoth Presence = iota
	PresenceSourceOnly
	PresenceTargetOnly
)

func (p Presence) String() string {
	switch p {
	case PresenceSourceOnly:
		return "source only"
	case PresenceTargetOnly:
		return "target only"
	default:
		return "both"
	}
}

// ChangeKind classifies a run of lines in an edit script.
type ChangeKind int

const (
	Unchanged ChangeKind = iota
	Added                // present in the source, missing from the target
	Removed              // present in the target, missing from the source
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unchanged"
	}
}

// 📝 LineChange is a contiguous run of lines sharing one kind
type LineChange struct {
	Kind ChangeKind
	Text string
}

// Lines splits the run into individual lines without their terminators.
func (c LineChange) Lines() []string {
	if c.Text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(c.Text, "\n"), "\n")
}

// 📊 FileDiff describes how one file differs between source and target
type FileDiff struct {
	SourcePath string
	TargetPath string
	RelPath    string // relative to the compared roots, empty for single files
	Presence   Presence
	Changes    []LineChange
}

// HasChanges reports whether copying source over target would change anything.
func (d FileDiff) HasChanges() bool {
	if d.Presence != PresenceBoth {
		return true
	}
	for _, c := range d.Changes {
		if c.Kind != Unchanged {
			return true
		}
	}
	return false
}

// Stats counts added and removed lines.
func (d FileDiff) Stats() (added, removed int) {
	for _, c := range d.Changes {
		switch c.Kind {
		case Added:
			added += len(c.Lines())
		case Removed:
			removed += len(c.Lines())
		}
	}
	return added, removed
}

// Name is the path to show for this diff.
func (d FileDiff) Name() string {
	if d.RelPath != "" {
		return d.RelPath
	}
	if d.Presence == PresenceTargetOnly {
		return d.TargetPath
	}
	return d.SourcePath
}

// 🔍 Compare describes what copying source over target would change.
//
// Two files always yield exactly one FileDiff. Two directories yield one
// FileDiff per differing relative path, sorted, with identical files left
// out. When only one side exists every file on it is reported one-sided;
// when neither exists the result is empty.
func Compare(fs afero.Fs, source, target string, opts Options) ([]FileDiff, error) {
	srcInfo, srcOK, err := stat(fs, source)
	if err != nil {
		return nil, err
	}
	tgtInfo, tgtOK, err := stat(fs, target)
	if err != nil {
		return nil, err
	}

	switch {
	case !srcOK && !tgtOK:
		return nil, nil
	case srcOK && !tgtOK:
		return oneSided(fs, source, target, srcInfo.IsDir(), PresenceSourceOnly, opts)
	case !srcOK && tgtOK:
		return oneSided(fs, target, source, tgtInfo.IsDir(), PresenceTargetOnly, opts)
	}

	if srcInfo.IsDir() != tgtInfo.IsDir() {
		return nil, errors.Errorf("%s and %s: %w", source, target, ErrKindMismatch)
	}

	if !srcInfo.IsDir() {
		diff, err := compareFiles(fs, source, target)
		if err != nil {
			return nil, err
		}
		return []FileDiff{diff}, nil
	}

	return compareDirs(fs, source, target, opts)
}

// oneSided reports everything under existing as present on one side only.
func oneSided(fs afero.Fs, existing, missing string, isDir bool, presence Presence, opts Options) ([]FileDiff, error) {
	side := func(rel string) FileDiff {
		e, m := existing, missing
		if rel != "" {
			e, m = filepath.Join(existing, rel), filepath.Join(missing, rel)
		}
		d := FileDiff{RelPath: rel, Presence: presence, SourcePath: e, TargetPath: m}
		if presence == PresenceTargetOnly {
			d.SourcePath, d.TargetPath = m, e
		}
		return d
	}

	if !isDir {
		return []FileDiff{side("")}, nil
	}

	files, err := ListFiles(fs, existing, opts)
	if err != nil {
		return nil, errors.Errorf("listing %s: %w", existing, err)
	}
	diffs := make([]FileDiff, 0, len(files))
	for _, rel := range files {
		diffs = append(diffs, side(rel))
	}
	return diffs, nil
}

func compareDirs(fs afero.Fs, source, target string, opts Options) ([]FileDiff, error) {
	srcFiles, err := ListFiles(fs, source, opts)
	if err != nil {
		return nil, errors.Errorf("listing %s: %w", source, err)
	}
	tgtFiles, err := ListFiles(fs, target, opts)
	if err != nil {
		return nil, errors.Errorf("listing %s: %w", target, err)
	}

	inSource := make(map[string]bool, len(srcFiles))
	inTarget := make(map[string]bool, len(tgtFiles))
	union := make([]string, 0, len(srcFiles)+len(tgtFiles))
	for _, rel := range srcFiles {
		inSource[rel] = true
		union = append(union, rel)
	}
	for _, rel := range tgtFiles {
		inTarget[rel] = true
		if !inSource[rel] {
			union = append(union, rel)
		}
	}
	sort.Strings(union)

	var diffs []FileDiff
	for _, rel := range union {
		s, t := filepath.Join(source, rel), filepath.Join(target, rel)
		switch {
		case !inTarget[rel]:
			diffs = append(diffs, FileDiff{SourcePath: s, TargetPath: t, RelPath: rel, Presence: PresenceSourceOnly})
		case !inSource[rel]:
			diffs = append(diffs, FileDiff{SourcePath: s, TargetPath: t, RelPath: rel, Presence: PresenceTargetOnly})
		default:
			d, err := compareFiles(fs, s, t)
			if err != nil {
				return nil, err
			}
			if !d.HasChanges() {
				continue
			}
			d.RelPath = rel
			diffs = append(diffs, d)
		}
	}
	return diffs, nil
}

func compareFiles(fs afero.Fs, source, target string) (FileDiff, error) {
	src, err := afero.ReadFile(fs, source)
	if err != nil {
		return FileDiff{}, errors.Errorf("reading %s: %w", source, err)
	}
	tgt, err := afero.ReadFile(fs, target)
	if err != nil {
		return FileDiff{}, errors.Errorf("reading %s: %w", target, err)
	}

	d := FileDiff{SourcePath: source, TargetPath: target, Presence: PresenceBoth}
	if bytes.Equal(src, tgt) {
		if len(src) > 0 {
			d.Changes = []LineChange{{Kind: Unchanged, Text: string(src)}}
		}
		return d, nil
	}
	d.Changes = LineDiff(string(tgt), string(src))
	return d, nil
}

// LineDiff computes the line-level edit script turning from into to.
func LineDiff(from, to string) []LineChange {
	var lines []string
	index := map[string]rune{}
	a := encodeLines(from, &lines, index)
	b := encodeLines(to, &lines, index)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMainRunes(a, b, false)

	changes := make([]LineChange, 0, len(diffs))
	for _, d := range diffs {
		text := decodeLines(d.Text, lines)
		if text == "" {
			continue
		}
		kind := Unchanged
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			kind = Added
		case diffmatchpatch.DiffDelete:
			kind = Removed
		}
		changes = append(changes, LineChange{Kind: kind, Text: text})
	}
	return changes
}

// encodeLines maps every distinct line to one rune so the character diff
// works on whole lines. Surrogate code points are skipped since they do not
// survive a round trip through a Go string.
func encodeLines(text string, lines *[]string, index map[string]rune) []rune {
	var out []rune
	for _, line := range strings.SplitAfter(text, "\n") {
		if line == "" {
			continue
		}
		r, ok := index[line]
		if !ok {
			r = rune(len(*lines))
			if r >= 0xD800 {
				r += 0x800
			}
			index[line] = r
			*lines = append(*lines, line)
		}
		out = append(out, r)
	}
	return out
}

func decodeLines(encoded string, lines []string) string {
	var b strings.Builder
	for _, r := range encoded {
		i := int(r)
		if i >= 0xE000 {
			i -= 0x800
		}
		if i < len(lines) {
			b.WriteString(lines[i])
		}
	}
	return b.String()
}

// Changed filters diffs down to the ones with changes.
func Changed(diffs []FileDiff) []FileDiff {
	var out []FileDiff
	for _, d := range diffs {
		if d.HasChanges() {
			out = append(out, d)
		}
	}
	return out
}
