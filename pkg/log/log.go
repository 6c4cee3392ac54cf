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
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog"
	"github.com/walteh/dotcfg/pkg/status"
	"github.com/walteh/dotcfg/pkg/tree"
)

// 🎨 Display configuration
const (
	diffIndent   = 4 // spaces before diff lines
	contextLines = 3 // unchanged lines kept around each change
)

// 🎯 Logger writes user facing output to the console and mirrors it to zerolog
type Logger struct {
	zlog      zerolog.Logger
	console   io.Writer
	formatter status.Formatter
	mu        sync.Mutex
}

// 🏭 New creates a new logger
func New(console io.Writer, zlog zerolog.Logger) *Logger {
	return &Logger{
		zlog:      zlog,
		console:   console,
		formatter: status.NewDefaultFormatter(),
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 LogResult prints one result line
func (l *Logger) LogResult(res status.Result) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fmt.Fprintln(l.console, l.formatter.FormatResult(res))

	ev := l.zlog.Info()
	switch res.Outcome {
	case status.OutcomeFailed:
		ev = l.zlog.Error().Err(res.Err)
	case status.OutcomeWarning:
		ev = l.zlog.Warn()
	}
	ev.Str("name", res.Name).
		Str("kind", res.Kind).
		Str("outcome", res.Outcome.String()).
		Str("detail", res.Detail).
		Msg("result")
}

// 📝 Summary prints the verdict line of a report
func (l *Logger) Summary(r *status.Report) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := l.formatter.FormatSummary(r)
	var printer *pterm.PrefixPrinter
	switch r.Verdict() {
	case status.VerdictFailure:
		printer = pterm.Error.WithWriter(l.console)
	case status.VerdictWarnings:
		printer = pterm.Warning.WithWriter(l.console)
	default:
		printer = pterm.Success.WithWriter(l.console)
	}
	fmt.Fprintln(l.console)
	printer.Println(msg)

	l.zlog.Info().
		Str("command", r.Command).
		Str("verdict", r.Verdict().String()).
		Int("results", len(r.Results)).
		Msg("command complete")
}

// 📝 LogDiff prints a file diff, collapsing long unchanged runs
func (l *Logger) LogDiff(d tree.FileDiff) {
	l.mu.Lock()
	defer l.mu.Unlock()

	pad := strings.Repeat(" ", diffIndent)
	switch d.Presence {
	case tree.PresenceSourceOnly:
		fmt.Fprintf(l.console, "%s%s %s\n", pad, color.GreenString("+"), color.New(color.Bold).Sprintf("%s (new)", d.Name()))
		return
	case tree.PresenceTargetOnly:
		fmt.Fprintf(l.console, "%s%s %s\n", pad, color.RedString("-"), color.New(color.Bold).Sprintf("%s (only at destination)", d.Name()))
		return
	}

	added, removed := d.Stats()
	fmt.Fprintf(l.console, "%s%s %s %s\n", pad,
		color.BlueString("⟳"),
		color.New(color.Bold).Sprint(d.Name()),
		color.New(color.Faint).Sprintf("+%d -%d", added, removed))

	for i, c := range d.Changes {
		lines := c.Lines()
		switch c.Kind {
		case tree.Added:
			for _, line := range lines {
				fmt.Fprintf(l.console, "%s%s\n", pad, color.GreenString("+ %s", line))
			}
		case tree.Removed:
			for _, line := range lines {
				fmt.Fprintf(l.console, "%s%s\n", pad, color.RedString("- %s", line))
			}
		default:
			for _, line := range collapse(lines, i == 0, i == len(d.Changes)-1) {
				fmt.Fprintf(l.console, "%s%s\n", pad, color.New(color.Faint).Sprintf("  %s", line))
			}
		}
	}

	l.zlog.Debug().
		Str("source", d.SourcePath).
		Str("target", d.TargetPath).
		Int("added", added).
		Int("removed", removed).
		Msg("diff")
}

// collapse keeps the context lines next to changes and folds the rest.
func collapse(lines []string, first, last bool) []string {
	keepHead, keepTail := contextLines, contextLines
	if first {
		keepHead = 0
	}
	if last {
		keepTail = 0
	}
	if len(lines) <= keepHead+keepTail+1 {
		return lines
	}
	out := append([]string{}, lines[:keepHead]...)
	out = append(out, fmt.Sprintf("⋮ %d unchanged lines", len(lines)-keepHead-keepTail))
	return append(out, lines[len(lines)-keepTail:]...)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("dotcfg")
	fmt.Fprintf(l.console, "%s %s\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Section logs a sub heading such as an entry name
func (l *Logger) Section(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%s %s\n", color.New(color.FgMagenta).Sprint("◆"), color.New(color.Bold).Sprint(msg))
}

// 📝 Step logs an indented detail line under the current entry
func (l *Logger) Step(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "%s%s %s\n", strings.Repeat(" ", diffIndent), color.New(color.Faint).Sprint("→"), msg)
	l.zlog.Debug().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
