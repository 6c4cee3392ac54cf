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
	"gitlab.com/tozd/go/errors"
)

// 📊 Outcome is the result of processing one entry
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeSkipped         // nothing to do, e.g. source missing or destination kept
	OutcomeWarning         // worth telling the user, never fails a run
	OutcomeFailed
)

// String returns a string representation of Outcome
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeWarning:
		return "warning"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 Result records what happened to one config entry or tool
type Result struct {
	Name    string  // entry or tool name
	Kind    string  // "config" or "tool", used for grouping output
	Outcome Outcome // what happened
	Detail  string  // short message shown next to the name
	HelpURL string  // documentation link for missing tools
	Err     error   // underlying error for failures
}

// Success builds a successful result.
func Success(name, detail string) Result {
	return Result{Name: name, Outcome: OutcomeSuccess, Detail: detail}
}

// Skipped builds a skipped result.
func Skipped(name, detail string) Result {
	return Result{Name: name, Outcome: OutcomeSkipped, Detail: detail}
}

// Warning builds a warning result.
func Warning(name, detail string) Result {
	return Result{Name: name, Outcome: OutcomeWarning, Detail: detail}
}

// Failed builds a failed result carrying err.
func Failed(name string, err error) Result {
	r := Result{Name: name, Outcome: OutcomeFailed, Err: err}
	if err != nil {
		r.Detail = err.Error()
	}
	return r
}

// 🏁 Verdict is the aggregate outcome of a run
type Verdict int

const (
	VerdictSuccess Verdict = iota
	VerdictWarnings
	VerdictFailure
)

func (v Verdict) String() string {
	switch v {
	case VerdictWarnings:
		return "success with warnings"
	case VerdictFailure:
		return "failure"
	default:
		return "success"
	}
}

// 📋 Report collects results in the order they were produced
type Report struct {
	Command string
	Results []Result
}

// NewReport creates an empty report for a command.
func NewReport(command string) *Report {
	return &Report{Command: command}
}

// Add appends a result.
func (r *Report) Add(res Result) {
	r.Results = append(r.Results, res)
}

// Count returns how many results have the given outcome.
func (r *Report) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}

// Verdict derives the aggregate outcome. Only failures make a run fail.
func (r *Report) Verdict() Verdict {
	switch {
	case r.Count(OutcomeFailed) > 0:
		return VerdictFailure
	case r.Count(OutcomeWarning) > 0:
		return VerdictWarnings
	default:
		return VerdictSuccess
	}
}

// Failed reports whether any result failed.
func (r *Report) Failed() bool {
	return r.Verdict() == VerdictFailure
}

// Err returns nil unless the run failed, in which case it wraps the first failure.
func (r *Report) Err() error {
	for _, res := range r.Results {
		if res.Outcome != OutcomeFailed {
			continue
		}
		if res.Err != nil {
			return errors.Errorf("%s: %w", res.Name, res.Err)
		}
		return errors.Errorf("%s: %s", res.Name, res.Detail)
	}
	return nil
}
