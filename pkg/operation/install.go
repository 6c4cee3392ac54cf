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
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/dotcfg/pkg/registry"
	"github.com/walteh/dotcfg/pkg/status"
	"github.com/walteh/dotcfg/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

// InstallOptions configure Install
type InstallOptions struct {
	Target   string // entry name, alias or "all"
	From     string // backup date to install from instead of the repo
	DryRun   bool   // report what would change without copying
	Force    bool   // overwrite existing system files
	NoVerify bool   // skip the checks before and after copying
	ShowDiff bool   // print the differences before copying
}

// 📥 Install copies repo configs, or a backup snapshot, onto the system.
// Existing system files are kept unless Force is set.
func (o *operator) Install(ctx context.Context, opts InstallOptions) (*status.Report, error) {
	entries, err := o.reg.Select(opts.Target)
	if err != nil {
		return nil, err
	}
	if opts.From != "" {
		if _, err := ParseDate(opts.From); err != nil {
			return nil, err
		}
	}

	paths := o.reg.Paths()
	report := status.NewReport("install")

	origin := paths.ConfigsDir()
	if opts.From != "" {
		origin = filepath.Join(paths.BackupsDir(), opts.From)
	}
	header := "installing configs from " + origin
	if opts.DryRun {
		header += " (dry run)"
	}
	o.logger.Header(header)

	// a snapshot that does not exist fails every entry rather than skipping it
	var preErr error
	if opts.From != "" && !opts.NoVerify {
		ok, err := afero.DirExists(o.fs, origin)
		switch {
		case err != nil:
			preErr = errors.Errorf("checking backup %s: %w", opts.From, err)
		case !ok:
			preErr = errors.Errorf("backup %s not found in %s", opts.From, paths.BackupsDir())
		}
		if preErr != nil {
			o.logger.Errorf("%s, run dotcfg backups to list snapshots", preErr)
		}
	}

	o.runner.Run(ctx, report, entries, func(ctx context.Context, e registry.ConfigEntry) status.Result {
		if preErr != nil {
			return status.Failed(e.Name, preErr)
		}

		source := e.RepoPath
		if opts.From != "" {
			source = e.BackupPath(paths, opts.From)
		}

		exists, err := afero.Exists(o.fs, source)
		if err != nil {
			return status.Failed(e.Name, errors.Errorf("checking %s: %w", source, err))
		}
		if !exists {
			return status.Skipped(e.Name, "not found at "+source)
		}

		if opts.ShowDiff {
			if err := o.showDiff(e, source); err != nil {
				return status.Failed(e.Name, err)
			}
		}

		rep, err := tree.Copy(o.fs, source, e.SystemPath, tree.CopyOptions{
			Options:   o.treeOpt,
			Overwrite: opts.Force,
			DryRun:    opts.DryRun,
		})
		if err != nil {
			if errors.Is(err, tree.ErrNotFound) {
				return status.Skipped(e.Name, "not found at "+source)
			}
			return status.Failed(e.Name, err)
		}
		if !rep.OK() {
			return status.Failed(e.Name, rep.Err())
		}

		if opts.DryRun {
			for _, rel := range rep.Copied {
				o.logger.Step("would install " + rel)
			}
			for _, rel := range rep.Skipped {
				o.logger.Step("would keep existing " + rel)
			}
		}

		if rep.AllSkipped() {
			return status.Skipped(e.Name, "already exists, use --force to overwrite")
		}
		if len(rep.Copied) == 0 {
			return status.Success(e.Name, "nothing to install")
		}

		if !opts.DryRun && !opts.NoVerify {
			if err := o.verifyCopied(rep, e.IsDir()); err != nil {
				return status.Failed(e.Name, err)
			}
		}

		zerolog.Ctx(ctx).Debug().Strs("copied", rep.Copied).Strs("skipped", rep.Skipped).Msg("installed")

		detail := "installed " + plural(len(rep.Copied), "file")
		if opts.DryRun {
			detail = "would install " + plural(len(rep.Copied), "file")
		}
		if n := len(rep.Skipped); n > 0 {
			detail += ", kept " + plural(n, "existing file")
		}
		return status.Success(e.Name, detail)
	})

	return o.finish(report)
}

// showDiff prints what installing source would change on the system.
func (o *operator) showDiff(e registry.ConfigEntry, source string) error {
	diffs, err := tree.Compare(o.fs, source, e.SystemPath, o.treeOpt)
	if err != nil {
		return err
	}
	changed := tree.Changed(diffs)
	if len(changed) == 0 {
		return nil
	}
	o.logger.Section(e.Name)
	for _, d := range changed {
		o.logger.LogDiff(d)
	}
	return nil
}

// verifyCopied re-reads every file a copy wrote and checks it matches its source.
func (o *operator) verifyCopied(rep *tree.CopyReport, isDir bool) error {
	var mismatched []string
	for _, rel := range rep.Copied {
		src, dst := rep.Source, rep.Dest
		if isDir {
			src, dst = filepath.Join(rep.Source, rel), filepath.Join(rep.Dest, rel)
		}
		a, err := afero.ReadFile(o.fs, src)
		if err != nil {
			return errors.Errorf("verifying %s: %w", rel, err)
		}
		b, err := afero.ReadFile(o.fs, dst)
		if err != nil {
			return errors.Errorf("verifying %s: %w", rel, err)
		}
		if !bytes.Equal(a, b) {
			mismatched = append(mismatched, rel)
		}
	}
	if len(mismatched) > 0 {
		return errors.Errorf("verification failed: %s differs after copy", plural(len(mismatched), "file"))
	}
	return nil
}
