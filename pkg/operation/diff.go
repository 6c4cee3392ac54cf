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

// 🔍 Diff prints what installing the repo configs would change on the system.
// Differences are reported as warnings so they never fail the run.
func (o *operator) Diff(ctx context.Context, target string) (*status.Report, error) {
	entries, err := o.reg.Select(target)
	if err != nil {
		return nil, err
	}

	report := status.NewReport("diff")
	o.logger.Header("comparing " + o.reg.Paths().ConfigsDir() + " with the system")

	o.runner.Run(ctx, report, entries, func(ctx context.Context, e registry.ConfigEntry) status.Result {
		repoExists, err := afero.Exists(o.fs, e.RepoPath)
		if err != nil {
			return status.Failed(e.Name, errors.Errorf("checking %s: %w", e.RepoPath, err))
		}
		sysExists, err := afero.Exists(o.fs, e.SystemPath)
		if err != nil {
			return status.Failed(e.Name, errors.Errorf("checking %s: %w", e.SystemPath, err))
		}
		if !repoExists && !sysExists {
			return status.Skipped(e.Name, "not in repo or on system")
		}

		diffs, err := tree.Compare(o.fs, e.RepoPath, e.SystemPath, o.treeOpt)
		if err != nil {
			return status.Failed(e.Name, err)
		}
		changed := tree.Changed(diffs)
		if len(changed) == 0 {
			return status.Success(e.Name, "in sync")
		}

		for _, d := range changed {
			o.logger.LogDiff(d)
		}
		return status.Warning(e.Name, plural(len(changed), "file")+" differ")
	})

	return o.finish(report)
}
