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
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/walteh/dotcfg/pkg/registry"
	"github.com/walteh/dotcfg/pkg/status"
	"github.com/walteh/dotcfg/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

// 💾 Backup copies the system configs into backups/<today>. A second backup on
// the same day replaces the first.
func (o *operator) Backup(ctx context.Context, target string) (*status.Report, error) {
	entries, err := o.reg.Select(target)
	if err != nil {
		return nil, err
	}

	date := o.today()
	paths := o.reg.Paths()
	report := status.NewReport("backup")
	o.logger.Header("backing up system configs to " + filepath.Join(paths.BackupsDir(), date))

	o.runner.Run(ctx, report, entries, func(ctx context.Context, e registry.ConfigEntry) status.Result {
		dest := e.BackupPath(paths, date)

		exists, err := afero.Exists(o.fs, e.SystemPath)
		if err != nil {
			return status.Failed(e.Name, errors.Errorf("checking %s: %w", e.SystemPath, err))
		}
		if !exists {
			return status.Skipped(e.Name, "not found at "+e.SystemPath)
		}

		replacing, err := afero.Exists(o.fs, dest)
		if err != nil {
			return status.Failed(e.Name, errors.Errorf("checking %s: %w", dest, err))
		}

		rep, err := o.snapshot(e.SystemPath, dest)
		if err != nil {
			if errors.Is(err, tree.ErrNotFound) {
				return status.Skipped(e.Name, "not found at "+e.SystemPath)
			}
			return status.Failed(e.Name, err)
		}
		if replacing {
			o.logger.Warningf("replaced the %s snapshot taken earlier today", e.Name)
		}

		zerolog.Ctx(ctx).Debug().Str("dest", dest).Int("files", len(rep.Copied)).Msg("backed up")
		return status.Success(e.Name, "saved "+plural(len(rep.Copied), "file"))
	})

	return o.finish(report)
}

// snapshot copies source into dest through a staging sibling, so a failed
// copy leaves an earlier snapshot of dest untouched.
func (o *operator) snapshot(source, dest string) (*tree.CopyReport, error) {
	staging := filepath.Join(filepath.Dir(dest), "."+filepath.Base(dest)+".partial")
	if err := o.fs.RemoveAll(staging); err != nil {
		return nil, errors.Errorf("clearing staging area: %w", err)
	}
	defer func() { _ = o.fs.RemoveAll(staging) }()

	opts := tree.CopyOptions{Options: o.treeOpt, Overwrite: true}
	staged, err := tree.Copy(o.fs, source, staging, opts)
	if err != nil {
		return nil, err
	}
	if !staged.OK() {
		return nil, staged.Err()
	}

	if err := o.fs.RemoveAll(dest); err != nil {
		return nil, errors.Errorf("clearing previous snapshot: %w", err)
	}
	rep, err := tree.Copy(o.fs, staging, dest, opts)
	if err != nil {
		return nil, errors.Errorf("moving snapshot into place: %w", err)
	}
	if !rep.OK() {
		return nil, rep.Err()
	}
	rep.Source = source
	return rep, nil
}

// 📚 Backups lists snapshot directory names that are valid dates, newest first.
func (o *operator) Backups(ctx context.Context) ([]string, error) {
	root := o.reg.Paths().BackupsDir()
	infos, err := afero.ReadDir(o.fs, root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Errorf("reading %s: %w", root, err)
	}

	var dates []string
	for _, info := range infos {
		if !info.IsDir() {
			continue
		}
		if _, err := ParseDate(info.Name()); err != nil {
			zerolog.Ctx(ctx).Debug().Str("dir", info.Name()).Msg("ignoring non-date directory in backups")
			continue
		}
		dates = append(dates, info.Name())
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}
