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

// Package tools checks whether the external programs the managed configs
// rely on are present on this machine.
package tools

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"
)

// 🔧 Tool describes one external dependency
type Tool struct {
	Name     string
	Command  string // executable looked up on PATH
	Marker   string // path that must exist instead, ~ is the home directory
	Config   string // registry entry this tool belongs to, if any
	Optional bool
	Hint     string
	HelpURL  string
}

// 📋 Status is the outcome of checking one Tool
type Status struct {
	Name      string
	Installed bool
	Optional  bool
	Location  string // resolved executable or marker path
	Detail    string // remediation hint when missing
	HelpURL   string
}

// Defaults is the fixed list of tools checked by verify.
var Defaults = []Tool{
	{
		Name:    "hx",
		Command: "hx",
		Config:  "helix",
		Hint:    "install the helix editor",
		HelpURL: "https://docs.helix-editor.com/install.html",
	},
	{
		Name:    "tmux",
		Command: "tmux",
		Config:  "tmux",
		Hint:    "install tmux with your package manager",
		HelpURL: "https://github.com/tmux/tmux/wiki/Installing",
	},
	{
		Name:     "tpm",
		Marker:   "~/.config/tmux/plugins/tpm",
		Config:   "tmux",
		Optional: true,
		Hint:     "git clone https://github.com/tmux-plugins/tpm ~/.config/tmux/plugins/tpm",
		HelpURL:  "https://github.com/tmux-plugins/tpm",
	},
	{
		Name:    "bash",
		Command: "bash",
		Config:  "bashrc",
		Hint:    "install bash with your package manager",
		HelpURL: "https://www.gnu.org/software/bash/",
	},
	{
		Name:    "git",
		Command: "git",
		Hint:    "install git with your package manager",
		HelpURL: "https://git-scm.com/downloads",
	},
	{
		Name:     "fzf",
		Command:  "fzf",
		Config:   "bashrc",
		Optional: true,
		Hint:     "install fzf for fuzzy history search",
		HelpURL:  "https://github.com/junegunn/fzf#installation",
	},
}

// Find returns the default tool with the given name.
func Find(name string) (Tool, bool) {
	for _, t := range Defaults {
		if t.Name == name {
			return t, true
		}
	}
	return Tool{}, false
}

// ForConfig returns the default tools tied to a registry entry.
func ForConfig(config string) []Tool {
	var out []Tool
	for _, t := range Defaults {
		if t.Config == config {
			out = append(out, t)
		}
	}
	return out
}

// 🔍 Checker resolves tools against a search path and home directory
type Checker struct {
	Fs      afero.Fs
	Path    string // PATH style list of directories
	Home    string
	Windows bool
}

// NewChecker builds a checker for the current process environment.
func NewChecker(fs afero.Fs, home string) *Checker {
	return &Checker{
		Fs:      fs,
		Path:    os.Getenv("PATH"),
		Home:    home,
		Windows: runtime.GOOS == "windows",
	}
}

// Check reports whether t is installed. It never fails: anything that
// cannot be resolved counts as missing.
func (c *Checker) Check(t Tool) Status {
	st := Status{Name: t.Name, Optional: t.Optional}

	if t.Marker != "" {
		path := c.expand(t.Marker)
		if ok, err := afero.Exists(c.Fs, path); err == nil && ok {
			st.Installed = true
			st.Location = path
		}
	} else if loc, ok := c.LookPath(t.Command); ok {
		st.Installed = true
		st.Location = loc
	}

	if !st.Installed {
		st.Detail = t.Hint
		st.HelpURL = t.HelpURL
	}
	return st
}

// CheckAll checks every tool in order.
func (c *Checker) CheckAll(list []Tool) []Status {
	out := make([]Status, 0, len(list))
	for _, t := range list {
		out = append(out, c.Check(t))
	}
	return out
}

// LookPath searches the checker's path for an executable regular file.
func (c *Checker) LookPath(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if strings.ContainsRune(name, filepath.Separator) {
		return name, c.executable(name)
	}
	for _, dir := range filepath.SplitList(c.Path) {
		if dir == "" {
			continue
		}
		candidate := filepath.Join(dir, name)
		if c.executable(candidate) {
			return candidate, true
		}
		if c.Windows {
			for _, ext := range []string{".exe", ".cmd", ".bat"} {
				if c.executable(candidate + ext) {
					return candidate + ext, true
				}
			}
		}
	}
	return "", false
}

func (c *Checker) executable(path string) bool {
	info, err := c.Fs.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if c.Windows {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

func (c *Checker) expand(path string) string {
	if path == "~" {
		return c.Home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(c.Home, filepath.FromSlash(path[2:]))
	}
	return path
}
