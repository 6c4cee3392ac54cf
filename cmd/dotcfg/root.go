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

package main

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/jonboulle/clockwork"
	"github.com/mattn/go-isatty"
	"github.com/mitchellh/go-homedir"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/walteh/dotcfg/cmd/dotcfg/commands"
	"github.com/walteh/dotcfg/cmd/dotcfg/opts"
	"github.com/walteh/dotcfg/pkg/config"
	"github.com/walteh/dotcfg/pkg/log"
	"github.com/walteh/dotcfg/pkg/operation"
	"github.com/walteh/dotcfg/pkg/registry"
	"github.com/walteh/dotcfg/pkg/tools"
	"gitlab.com/tozd/go/errors"
)

// 🔌 deps are the process level inputs of the CLI
type deps struct {
	fs     afero.Fs
	clock  clockwork.Clock
	env    func() (config.Env, error)
	path   string // PATH used to look tools up
	out    io.Writer
	errOut io.Writer
	tty    bool // out is a terminal
}

func osDeps() deps {
	return deps{
		fs:     afero.NewOsFs(),
		clock:  clockwork.NewRealClock(),
		env:    config.DefaultEnv,
		path:   os.Getenv("PATH"),
		out:    os.Stdout,
		errOut: os.Stderr,
		tty:    isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}
}

// 🚩 rootFlags are the persistent flags shared by every command
type rootFlags struct {
	repo    string
	home    string
	config  string
	debug   bool
	noColor bool
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, f *rootFlags) {
	flags := cmd.PersistentFlags()
	flags.StringVar(&f.repo, "repo", "", "dotfiles repository root (default $DOTCFG_REPO or the current directory)")
	flags.StringVar(&f.home, "home", "", "home directory the configs are installed into")
	flags.StringVarP(&f.config, "config", "c", "", "settings file (default <repo>/"+config.DefaultFile+")")
	flags.BoolVar(&f.debug, "debug", false, "enable debug logging")
	flags.BoolVar(&f.noColor, "no-color", false, "disable colored output")
}

// newRootCmd builds the command tree. The shared options are filled in just
// before a command runs, once flags are parsed.
func newRootCmd(d deps) *cobra.Command {
	f := &rootFlags{}
	ro := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "dotcfg",
		Short: "Keep dotfiles in sync between this machine and a repository",
		Long: `dotcfg copies a fixed set of configs (helix, tmux, bashrc) between the
live system, the configs/ directory of a repository and dated backups/
snapshots, and checks that the tools they rely on are installed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			setupColor(f.noColor || !d.tty)
			ctx := setupLogging(cmd.Context(), d.errOut, f.debug)

			built, err := newRootOpts(ctx, d, f)
			if err != nil {
				return err
			}
			*ro = *built
			cmd.SetContext(log.NewContext(ctx, built.Logger))
			return nil
		},
	}
	cmd.SetOut(d.out)
	cmd.SetErr(d.errOut)

	addRootFlags(cmd, f)

	cmd.AddCommand(
		commands.NewBackupCmd(ro),
		commands.NewSyncCmd(ro),
		commands.NewInstallCmd(ro),
		commands.NewVerifyCmd(ro),
		commands.NewDiffCmd(ro),
		commands.NewBackupsCmd(ro),
	)

	return cmd
}

// newRootOpts loads settings and wires the operator. Flags win over the
// settings file, which wins over the environment.
func newRootOpts(ctx context.Context, d deps, f *rootFlags) (*opts.RootOpts, error) {
	env, err := d.env()
	if err != nil {
		return nil, errors.Errorf("reading environment: %w", err)
	}

	repo, err := flagPath(f.repo)
	if err != nil {
		return nil, errors.Errorf("--repo: %w", err)
	}
	home, err := flagPath(f.home)
	if err != nil {
		return nil, errors.Errorf("--home: %w", err)
	}
	if repo != "" {
		env.Repo = repo
	}
	if home != "" {
		env.Home = home
	}

	path, required := f.config, true
	if path == "" {
		path, required = filepath.Join(env.Repo, config.DefaultFile), false
	} else if path, err = flagPath(path); err != nil {
		return nil, errors.Errorf("--config: %w", err)
	}

	settings, err := config.Load(ctx, d.fs, path, env, required)
	if err != nil {
		return nil, err
	}
	if repo != "" {
		settings.Repo = repo
	}
	if home != "" {
		settings.Home = home
	}

	logger := log.New(d.out, *zerolog.Ctx(ctx))
	paths := settings.Paths()

	checker := tools.NewChecker(d.fs, paths.Home)
	checker.Path = d.path

	op, err := operation.New(operation.Options{
		Fs:       d.fs,
		Registry: registry.New(paths),
		Checker:  checker,
		Clock:    d.clock,
		Logger:   logger,
		Ignore:   settings.Ignore,
	})
	if err != nil {
		return nil, errors.Errorf("creating operator: %w", err)
	}

	zerolog.Ctx(ctx).Debug().
		Str("settings", settings.Location()).
		Str("home", paths.Home).
		Str("repo", paths.Repo).
		Msg("resolved paths")

	return &opts.RootOpts{Settings: settings, Logger: logger, Operator: op}, nil
}

// flagPath expands ~ and makes a flag path absolute.
func flagPath(p string) (string, error) {
	if p == "" {
		return "", nil
	}
	expanded, err := homedir.Expand(p)
	if err != nil {
		return "", err
	}
	return filepath.Abs(expanded)
}

// setupLogging configures zerolog based on flags. Diagnostics go to errOut and
// stay silent unless debug is set.
func setupLogging(ctx context.Context, errOut io.Writer, debug bool) context.Context {
	level := zerolog.Disabled
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: errOut, NoColor: color.NoColor}).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger.WithContext(ctx)
}

func setupColor(disable bool) {
	if !disable {
		return
	}
	color.NoColor = true
	pterm.DisableStyling()
}
