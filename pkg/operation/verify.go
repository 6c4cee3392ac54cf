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

	"github.com/spf13/afero"
	"github.com/walteh/dotcfg/pkg/registry"
	"github.com/walteh/dotcfg/pkg/status"
	"github.com/walteh/dotcfg/pkg/tools"
	"gitlab.com/tozd/go/errors"
)

// ✅ Verify checks the installed configs and the tools they rely on. target is
// "all", a registry name or alias, or the name of a single tool.
func (o *operator) Verify(ctx context.Context, target string) (*status.Report, error) {
	var (
		entries []registry.ConfigEntry
		list    []tools.Tool
	)
	switch {
	case target == "" || target == "all":
		entries = o.reg.List()
		list = tools.Defaults
	case registry.IsName(target):
		e, err := o.reg.Get(target)
		if err != nil {
			return nil, err
		}
		entries = []registry.ConfigEntry{e}
		list = tools.ForConfig(e.Name)
	default:
		t, ok := tools.Find(target)
		if !ok {
			return nil, errors.Errorf("%q is neither a config nor a known tool: %w", target, registry.ErrNotFound)
		}
		list = []tools.Tool{t}
	}

	report := status.NewReport("verify")
	o.logger.Header("verifying configs and tools")

	if len(entries) > 0 {
		o.logger.Section("configs")
		o.runner.Run(ctx, report, entries, o.verifyConfig)
	}

	if len(list) > 0 {
		o.logger.Section("tools")
		for _, st := range o.checker.CheckAll(list) {
			o.runner.Record(report, toolResult(st))
		}
	}

	return o.finish(report)
}

// verifyConfig compares the system copy of an entry with the repo copy.
func (o *operator) verifyConfig(_ context.Context, e registry.ConfigEntry) status.Result {
	exists, err := afero.Exists(o.fs, e.SystemPath)
	if err != nil {
		return status.Failed(e.Name, errors.Errorf("checking %s: %w", e.SystemPath, err))
	}
	if !exists {
		return status.Failed(e.Name, errors.Errorf("missing at %s", e.SystemPath))
	}

	if e.IsDir() {
		ok, err := afero.DirExists(o.fs, e.SystemPath)
		if err != nil {
			return status.Failed(e.Name, errors.Errorf("checking %s: %w", e.SystemPath, err))
		}
		if !ok {
			return status.Failed(e.Name, errors.Errorf("%s is not a directory", e.SystemPath))
		}
		return status.Success(e.Name, "present at "+e.SystemPath)
	}

	system, err := afero.ReadFile(o.fs, e.SystemPath)
	if err != nil {
		return status.Failed(e.Name, errors.Errorf("reading %s: %w", e.SystemPath, err))
	}

	inRepo, err := afero.Exists(o.fs, e.RepoPath)
	if err != nil {
		return status.Failed(e.Name, errors.Errorf("checking %s: %w", e.RepoPath, err))
	}
	if !inRepo {
		return status.Warning(e.Name, "not tracked in repo, run sync")
	}

	repo, err := afero.ReadFile(o.fs, e.RepoPath)
	if err != nil {
		return status.Failed(e.Name, errors.Errorf("reading %s: %w", e.RepoPath, err))
	}
	if !bytes.Equal(system, repo) {
		return status.Warning(e.Name, "differs from repo, run diff to inspect")
	}
	return status.Success(e.Name, "matches repo")
}

// toolResult maps a tool check onto a report entry. Missing optional tools
// only warn.
func toolResult(st tools.Status) status.Result {
	res := status.Result{Name: st.Name, Kind: "tool"}
	switch {
	case st.Installed:
		res.Outcome = status.OutcomeSuccess
		res.Detail = st.Location
	case st.Optional:
		res.Outcome = status.OutcomeWarning
		res.Detail = "optional, " + st.Detail
		res.HelpURL = st.HelpURL
	default:
		res.Outcome = status.OutcomeFailed
		res.Detail = st.Detail
		res.HelpURL = st.HelpURL
	}
	return res
}
