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

// Package registry holds the fixed table of managed configuration files.
package registry

import (
	"path/filepath"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// ErrNotFound is returned when a name matches no registry entry.
var ErrNotFound = errors.Base("config not found")

// 📦 Kind tells whether an entry is a single file or a directory tree
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	default:
		return "file"
	}
}

// 📍 Anchor is the root a system path is relative to
type Anchor int

const (
	AnchorHome       Anchor = iota // relative to the user's home directory
	AnchorConfigHome               // relative to the XDG config home (~/.config)
)

// 🗂️ Paths are the roots every entry is resolved against
type Paths struct {
	Home       string // user home directory
	ConfigHome string // usually Home/.config
	Repo       string // root of the dotfiles repository
	Backups    string // root of dated snapshots, defaults to Repo/backups
}

// BackupsDir returns the backup root, falling back to Repo/backups.
func (p Paths) BackupsDir() string {
	if p.Backups != "" {
		return p.Backups
	}
	return filepath.Join(p.Repo, "backups")
}

// ConfigsDir returns the repo directory holding tracked configs.
func (p Paths) ConfigsDir() string {
	return filepath.Join(p.Repo, "configs")
}

// 🎯 Definition is one static registry row. Paths are slash separated and relative.
type Definition struct {
	Name    string
	Aliases []string
	Anchor  Anchor
	System  string // relative to the anchor
	Repo    string // relative to <repo>/configs
	Kind    Kind
}

// ConfigEntry is a Definition resolved to absolute paths.
type ConfigEntry struct {
	Name       string
	Aliases    []string
	SystemPath string
	RepoPath   string
	RepoRel    string // path under configs/, reused for backup snapshots
	Kind       Kind
}

// IsDir reports whether the entry is a directory tree.
func (e ConfigEntry) IsDir() bool {
	return e.Kind == KindDirectory
}

// BackupPath returns where this entry lives inside the snapshot for date.
func (e ConfigEntry) BackupPath(p Paths, date string) string {
	return filepath.Join(p.BackupsDir(), date, e.RepoRel)
}

var definitions = []Definition{
	{
		Name:    "helix",
		Aliases: []string{"hx"},
		Anchor:  AnchorConfigHome,
		System:  "helix",
		Repo:    "helix",
		Kind:    KindDirectory,
	},
	{
		Name:   "tmux",
		Anchor: AnchorConfigHome,
		System: "tmux/tmux.conf",
		Repo:   "tmux/tmux.conf",
		Kind:   KindFile,
	},
	{
		Name:    "bashrc",
		Aliases: []string{"bash"},
		Anchor:  AnchorHome,
		System:  ".bashrc",
		Repo:    "bashrc",
		Kind:    KindFile,
	},
}

// Definitions returns a copy of the static table in display order.
func Definitions() []Definition {
	out := make([]Definition, len(definitions))
	copy(out, definitions)
	return out
}

// Resolve turns a definition into absolute paths under p.
func (d Definition) Resolve(p Paths) ConfigEntry {
	root := p.Home
	if d.Anchor == AnchorConfigHome {
		root = p.ConfigHome
		if root == "" {
			root = filepath.Join(p.Home, ".config")
		}
	}
	return ConfigEntry{
		Name:       d.Name,
		Aliases:    append([]string(nil), d.Aliases...),
		SystemPath: filepath.Join(root, filepath.FromSlash(d.System)),
		RepoPath:   filepath.Join(p.ConfigsDir(), filepath.FromSlash(d.Repo)),
		RepoRel:    filepath.FromSlash(d.Repo),
		Kind:       d.Kind,
	}
}

// 🗃️ Registry resolves the static table against a set of paths
type Registry struct {
	paths Paths
}

// New creates a registry rooted at p.
func New(p Paths) *Registry {
	return &Registry{paths: p}
}

// Paths returns the roots the registry resolves against.
func (r *Registry) Paths() Paths {
	return r.paths
}

// List returns every entry in table order.
func (r *Registry) List() []ConfigEntry {
	out := make([]ConfigEntry, 0, len(definitions))
	for _, d := range definitions {
		out = append(out, d.Resolve(r.paths))
	}
	return out
}

// Get looks an entry up by name or alias, case-insensitively.
func (r *Registry) Get(name string) (ConfigEntry, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, d := range definitions {
		if d.Name == n {
			return d.Resolve(r.paths), nil
		}
		for _, a := range d.Aliases {
			if a == n {
				return d.Resolve(r.paths), nil
			}
		}
	}
	return ConfigEntry{}, errors.Errorf("%q: %w", name, ErrNotFound)
}

// Select returns all entries for "" or "all", otherwise the single named entry.
func (r *Registry) Select(target string) ([]ConfigEntry, error) {
	switch strings.ToLower(strings.TrimSpace(target)) {
	case "", "all":
		return r.List(), nil
	}
	e, err := r.Get(target)
	if err != nil {
		return nil, err
	}
	return []ConfigEntry{e}, nil
}

// IsName reports whether s names a registry entry or alias.
func IsName(s string) bool {
	_, err := New(Paths{}).Get(s)
	return err == nil
}
