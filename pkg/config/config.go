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

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/mitchellh/go-homedir"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/dotcfg/pkg/registry"
	"gitlab.com/tozd/go/errors"
)

// DefaultFile is looked up in the repo root when no settings file is given.
const DefaultFile = ".dotcfg.yaml"

// 🔌 Parser is the interface for settings parsers
type Parser interface {
	// 📝 Parse decodes settings from bytes. env supplies values the format may reference.
	Parse(ctx context.Context, data []byte, env Env) (*Settings, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 🌱 Env holds the defaults settings fall back to
type Env struct {
	Home string // user home directory
	Repo string // dotfiles repository root
}

// 📚 Settings is the optional on-disk configuration
type Settings struct {
	Home    string   `json:"home,omitempty" yaml:"home,omitempty" toml:"home,omitempty" hcl:"home,optional"`
	Repo    string   `json:"repo,omitempty" yaml:"repo,omitempty" toml:"repo,omitempty" hcl:"repo,optional"`
	Backups string   `json:"backups,omitempty" yaml:"backups,omitempty" toml:"backups,omitempty" hcl:"backups,optional"`
	Ignore  []string `json:"ignore,omitempty" yaml:"ignore,omitempty" toml:"ignore,omitempty" hcl:"ignore,optional"`

	location string
}

// Location returns the file the settings were read from, empty for defaults.
func (s *Settings) Location() string {
	return s.location
}

// Defaults returns settings built only from env.
func Defaults(env Env) *Settings {
	return &Settings{Home: env.Home, Repo: env.Repo}
}

// 🎯 Load reads settings from path. When required is false a missing file
// yields Defaults(env) instead of an error.
func Load(ctx context.Context, fs afero.Fs, path string, env Env, required bool) (*Settings, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Bool("required", required).Msg("loading settings")

	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			logger.Debug().Str("path", path).Msg("no settings file, using defaults")
			s := Defaults(env)
			if err := s.Validate(); err != nil {
				return nil, errors.Errorf("validating defaults: %w", err)
			}
			return s, nil
		}
		return nil, errors.Errorf("reading settings file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	s, err := p.Parse(ctx, data, env)
	if err != nil {
		return nil, errors.Errorf("parsing settings: %w", err)
	}
	s.location = path

	// relative paths in a settings file are relative to the file
	s.applyDefaults(env, filepath.Dir(path))
	if err := s.Validate(); err != nil {
		return nil, errors.Errorf("validating settings: %w", err)
	}
	return s, nil
}

func (s *Settings) applyDefaults(env Env, base string) {
	if s.Home == "" {
		s.Home = env.Home
	} else {
		s.Home = absolute(s.Home, base)
	}
	if s.Repo == "" {
		s.Repo = env.Repo
	} else {
		s.Repo = absolute(s.Repo, base)
	}
	if s.Backups != "" {
		s.Backups = absolute(s.Backups, base)
	}
}

func absolute(path, base string) string {
	expanded, err := homedir.Expand(path)
	if err == nil {
		path = expanded
	}
	if !filepath.IsAbs(path) && base != "" {
		path = filepath.Join(base, path)
	}
	return filepath.Clean(path)
}

// 🔍 Validate checks if the settings are usable
func (s *Settings) Validate() error {
	if s.Home == "" {
		return errors.Errorf("home is required")
	}
	if s.Repo == "" {
		return errors.Errorf("repo is required")
	}
	for _, pattern := range s.Ignore {
		if strings.TrimSpace(pattern) == "" {
			return errors.Errorf("ignore: empty pattern")
		}
		if !doublestar.ValidatePattern(pattern) {
			return errors.Errorf("ignore: invalid pattern %q", pattern)
		}
	}

	s.Home = filepath.Clean(s.Home)
	s.Repo = filepath.Clean(s.Repo)
	return nil
}

// 🗂️ Paths resolves the settings into registry roots. The XDG config home is
// only honoured when home is the real home directory.
func (s *Settings) Paths() registry.Paths {
	p := registry.Paths{
		Home:    s.Home,
		Repo:    s.Repo,
		Backups: s.Backups,
	}
	if real, err := homedir.Dir(); err == nil && filepath.Clean(real) == s.Home {
		p.ConfigHome = xdg.ConfigHome
	} else {
		p.ConfigHome = filepath.Join(s.Home, ".config")
	}
	return p
}

// DefaultEnv builds the environment from the process: $DOTCFG_REPO or the
// working directory for the repo, and the user's home directory.
func DefaultEnv() (Env, error) {
	home, err := homedir.Dir()
	if err != nil {
		return Env{}, errors.Errorf("finding home directory: %w", err)
	}
	repo := os.Getenv("DOTCFG_REPO")
	if repo == "" {
		repo, err = os.Getwd()
		if err != nil {
			return Env{}, errors.Errorf("finding working directory: %w", err)
		}
	}
	repo, err = homedir.Expand(repo)
	if err != nil {
		return Env{}, errors.Errorf("expanding repo path: %w", err)
	}
	abs, err := filepath.Abs(repo)
	if err != nil {
		return Env{}, errors.Errorf("getting absolute repo path: %w", err)
	}
	return Env{Home: home, Repo: abs}, nil
}
