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
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/walteh/dotcfg/pkg/log"
	"github.com/walteh/dotcfg/pkg/registry"
	"github.com/walteh/dotcfg/pkg/status"
	"github.com/walteh/dotcfg/pkg/tools"
	"github.com/walteh/dotcfg/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

// DateLayout names backup snapshot directories.
const DateLayout = "2006-01-02"

// ErrFailed is returned by commands whose report contains a failure.
var ErrFailed = errors.Base("one or more steps failed")

// 🎯 Operator defines the dotcfg commands
type Operator interface {
	// Backup copies system configs into today's snapshot
	Backup(ctx context.Context, target string) (*status.Report, error)
	// Sync copies system configs into the repo
	Sync(ctx context.Context, opts SyncOptions) (*status.Report, error)
	// Install copies repo (or snapshot) configs onto the system
	Install(ctx context.Context, opts InstallOptions) (*status.Report, error)
	// Verify checks tools and drift between system and repo
	Verify(ctx context.Context, target string) (*status.Report, error)
	// Diff shows what install would change
	Diff(ctx context.Context, target string) (*status.Report, error)
	// Backups lists snapshot dates, newest first
	Backups(ctx context.Context) ([]string, error)
}

// 🔧 Options contains the dependencies of the operator
type Options struct {
	// Fs is the filesystem every copy and comparison runs against
	Fs afero.Fs
	// Registry resolves the managed configs
	Registry *registry.Registry
	// Checker resolves external tools
	Checker *tools.Checker
	// Clock dates backups
	Clock clockwork.Clock
	// Logger prints results
	Logger *log.Logger
	// Ignore holds extra globs skipped by copy and compare
	Ignore []string
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (Operator, error) {
	if opts.Fs == nil {
		return nil, errors.Errorf("filesystem is required")
	}
	if opts.Registry == nil {
		return nil, errors.Errorf("registry is required")
	}
	if opts.Logger == nil {
		return nil, errors.Errorf("logger is required")
	}
	if opts.Checker == nil {
		opts.Checker = tools.NewChecker(opts.Fs, opts.Registry.Paths().Home)
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &operator{
		fs:      opts.Fs,
		reg:     opts.Registry,
		checker: opts.Checker,
		clock:   opts.Clock,
		logger:  opts.Logger,
		runner:  NewRunner(opts.Logger),
		treeOpt: tree.Options{Ignore: opts.Ignore},
	}, nil
}

// 🎮 operator implements the Operator interface
type operator struct {
	fs      afero.Fs
	reg     *registry.Registry
	checker *tools.Checker
	clock   clockwork.Clock
	logger  *log.Logger
	runner  *Runner
	treeOpt tree.Options
}

// today is the snapshot name for backups taken now.
func (o *operator) today() string {
	return o.clock.Now().Format(DateLayout)
}

// ParseDate validates a snapshot name.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, errors.Errorf("invalid backup date %q, want YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// 🚨 FailedError is returned by a command whose report contains a failure.
// It unwraps to ErrFailed and its cause is the first failed entry.
type FailedError struct {
	Report *status.Report
}

func (e *FailedError) Error() string {
	return e.Report.Command + ": " + ErrFailed.Error() + ": " + e.Report.Err().Error()
}

func (e *FailedError) Unwrap() error {
	return ErrFailed
}

// Cause returns the error of the first failed entry.
func (e *FailedError) Cause() error {
	return e.Report.Err()
}

// finish prints the summary and turns a failed report into a FailedError.
func (o *operator) finish(report *status.Report) (*status.Report, error) {
	o.logger.Summary(report)
	if report.Failed() {
		return report, &FailedError{Report: report}
	}
	return report, nil
}

// pending drops diffs a copy would not act on: files that only exist at the destination.
func pending(diffs []tree.FileDiff) []tree.FileDiff {
	var out []tree.FileDiff
	for _, d := range diffs {
		if d.Presence == tree.PresenceTargetOnly || !d.HasChanges() {
			continue
		}
		out = append(out, d)
	}
	return out
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return strconv.Itoa(n) + " " + word + "s"
}
