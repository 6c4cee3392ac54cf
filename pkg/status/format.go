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

package status

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// 🎨 Display configuration
const (
	indent      = 2  // spaces before each result line
	nameWidth   = 12 // width of the name column
	statusWidth = 9  // width of the outcome column
)

// Formatter turns results into display lines
type Formatter interface {
	FormatResult(r Result) string
	FormatSummary(r *Report) string
}

// DefaultFormatter renders one colored line per result
type DefaultFormatter struct{}

// NewDefaultFormatter creates a new DefaultFormatter
func NewDefaultFormatter() *DefaultFormatter {
	return &DefaultFormatter{}
}

// Symbol returns the colored marker for an outcome.
func Symbol(o Outcome) string {
	switch o {
	case OutcomeSuccess:
		return color.GreenString("✓")
	case OutcomeSkipped:
		return color.HiBlackString("-")
	case OutcomeWarning:
		return color.YellowString("!")
	case OutcomeFailed:
		return color.RedString("✗")
	default:
		return "?"
	}
}

func outcomeColor(o Outcome) func(format string, a ...interface{}) string {
	switch o {
	case OutcomeSuccess:
		return color.GreenString
	case OutcomeWarning:
		return color.YellowString
	case OutcomeFailed:
		return color.RedString
	default:
		return color.HiBlackString
	}
}

// FormatResult formats a result as "  ✓ name         success   detail"
func (f *DefaultFormatter) FormatResult(r Result) string {
	line := fmt.Sprintf("%s%s %s %s",
		strings.Repeat(" ", indent),
		Symbol(r.Outcome),
		fmt.Sprintf("%-*s", nameWidth, r.Name),
		outcomeColor(r.Outcome)("%-*s", statusWidth, r.Outcome.String()),
	)
	if r.Detail != "" {
		line += " " + r.Detail
	}
	if r.HelpURL != "" {
		line += " " + color.New(color.Faint).Sprintf("(%s)", r.HelpURL)
	}
	return strings.TrimRight(line, " ")
}

// FormatSummary formats the one line summary of a report
func (f *DefaultFormatter) FormatSummary(r *Report) string {
	parts := []string{}
	for _, o := range []Outcome{OutcomeSuccess, OutcomeSkipped, OutcomeWarning, OutcomeFailed} {
		if n := r.Count(o); n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, o))
		}
	}
	if len(parts) == 0 {
		parts = append(parts, "nothing to do")
	}
	return fmt.Sprintf("%s: %s (%s)", r.Command, r.Verdict(), strings.Join(parts, ", "))
}
