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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/dotcfg/pkg/status"
	"github.com/walteh/dotcfg/pkg/tree"
	"gitlab.com/tozd/go/errors"
)

func plain(t *testing.T) {
	t.Helper()
	color.NoColor = true
	pterm.DisableStyling()
	t.Cleanup(func() {
		color.NoColor = false
		pterm.EnableStyling()
	})
}

func lines(buf *bytes.Buffer) []string {
	out := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	for i := range out {
		out[i] = strings.TrimRight(out[i], " ")
	}
	return out
}

func TestLogger(t *testing.T) {
	plain(t)

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_result",
			op: func(t *testing.T, logger *Logger) {
				logger.LogResult(status.Success("helix", "copied 2 files"))
				logger.LogResult(status.Failed("tmux", errors.New("permission denied")))
			},
			wantLogs: []string{
				"  ✓ helix        success   copied 2 files",
				"  ✗ tmux         failed    permission denied",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error 100%")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error 100%",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("syncing system configs into the repo")
				logger.Section("helix")
			},
			wantLogs: []string{
				"dotcfg • syncing system configs into the repo",
				"◆ helix",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.Nop())

			tt.op(t, logger)

			assert.Equal(t, tt.wantLogs, lines(buf))
		})
	}
}

func TestLoggerContext(t *testing.T) {
	logger := New(io.Discard, zerolog.Nop())

	ctx := NewContext(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx), "logger from context should be the same instance")

	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestSummary(t *testing.T) {
	plain(t)

	tests := []struct {
		name    string
		results []status.Result
		want    string
	}{
		{name: "success", results: []status.Result{status.Success("a", "")}, want: "sync: success (1 success)"},
		{name: "warnings", results: []status.Result{status.Warning("a", "")}, want: "sync: success with warnings (1 warning)"},
		{name: "failure", results: []status.Result{status.Failed("a", errors.New("x"))}, want: "sync: failure (1 failed)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			r := status.NewReport("sync")
			for _, res := range tt.results {
				r.Add(res)
			}
			New(buf, zerolog.Nop()).Summary(r)
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestLogDiff(t *testing.T) {
	plain(t)

	buf := &bytes.Buffer{}
	logger := New(buf, zerolog.Nop())

	logger.LogDiff(tree.FileDiff{RelPath: "themes/new.toml", Presence: tree.PresenceSourceOnly})
	logger.LogDiff(tree.FileDiff{RelPath: "old.toml", Presence: tree.PresenceTargetOnly})
	logger.LogDiff(tree.FileDiff{
		RelPath:  "config.toml",
		Presence: tree.PresenceBoth,
		Changes:  tree.LineDiff("a\nb\nc\nd\ne\nf\ng\nh\n", "a\nb\nc\nd\ne\nf\ng\nX\n"),
	})

	got := lines(buf)
	require.Len(t, got, 9)
	assert.Equal(t, "    + themes/new.toml (new)", got[0])
	assert.Equal(t, "    - old.toml (only at destination)", got[1])
	assert.Equal(t, "    ⟳ config.toml +1 -1", got[2])
	assert.Equal(t, "      ⋮ 4 unchanged lines", got[3])
	assert.Equal(t, []string{"      e", "      f", "      g"}, got[4:7])
	assert.Equal(t, "    - h", got[7])
	assert.Equal(t, "    + X", got[8])
}

func TestCollapse(t *testing.T) {
	in := []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10"}

	assert.Equal(t, []string{"1", "2", "3", "⋮ 4 unchanged lines", "8", "9", "10"}, collapse(in, false, false))
	assert.Equal(t, []string{"⋮ 7 unchanged lines", "8", "9", "10"}, collapse(in, true, false))
	assert.Equal(t, []string{"1", "2", "3", "⋮ 7 unchanged lines"}, collapse(in, false, true))
	assert.Equal(t, []string{"a", "b"}, collapse([]string{"a", "b"}, false, false))
}
