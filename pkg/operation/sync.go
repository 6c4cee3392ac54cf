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

	"github.com/spf13/afero"
	"github.com/walteh/dotcfg/pkg/registry"
	"github.com/walteh/dotcfg/pkg/status"
	"github.com/walteh/dotcfg/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

// SyncOptions configure Sync
type SyncOptions struct {
	Target string // entry name, alias or "all"
	DryRun bool   // report what would change without copying
}

// 🔄 Sync copies system configs into the repo. A missing system config is
// reported and skipped; identical configs are left alone.
func (o *operator) Sync(ctx context.Context, opts SyncOptions) (*status.Report, error) {
	entries, err := o.reg.Select(opts.Target)
	if err != nil {
		return nil, err
	}

	report := status.NewReport("sync")
	header := "syncing system configs into " + o.reg.Paths().ConfigsDir()
	if opts.DryRun {
		header += " (dry run)"
	}
	o.logger.Header(header)

	o.runner.Run(ctx, report, entries, func(ctx context.Context, e registry.ConfigEntry) status.Result {
		exists, err := afero.Exists(o.fs, e.SystemPath)
		if err != nil {
			return status.Failed(e.Name, errors.Errorf("checking %s: %w", e.SystemPath, err))
		}
		if !exists {
			return status.Skipped(e.Name, "not found at "+e.SystemPath)
		}

		diffs, err := tree.Compare(o.fs, e.SystemPath, e.RepoPath, o.treeOpt)
		if err != nil {
			return status.Failed(e.Name, err)
		}
		changes := pending(diffs)
		if len(changes) == 0 {
			return status.Success(e.Name, "no changes")
		}

		if opts.DryRun {
			for _, d := range changes {
				o.logger.Step(describe(d, "would create", "would update") + " " + d.Name())
			}
			return status.Success(e.Name, "would update "+plural(len(changes), "file"))
		}

		rep, err := tree.Copy(o.fs, e.SystemPath, e.RepoPath, tree.CopyOptions{Options: o.treeOpt, Overwrite: true})
		if err != nil {
			if errors.Is(err, tree.ErrNotFound) {
				return status.Skipped(e.Name, "not found at "+e.SystemPath)
			}
			return status.Failed(e.Name, err)
		}
		if !rep.OK() {
			return status.Failed(e.Name, rep.Err())
		}
		return status.Success(e.Name, "updated "+plural(len(changes), "file"))
	})

	return o.finish(report)
}

// describe picks the verb for a pending diff.
func describe(d tree.FileDiff, create, update string) string {
	if d.Presence == tree.PresenceSourceOnly {
		return create
	}
	return update
}
