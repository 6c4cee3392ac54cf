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

	"github.com/rs/zerolog"
	"github.com/walteh/dotcfg/pkg/log"
	"github.com/walteh/dotcfg/pkg/registry"
	"github.com/walteh/dotcfg/pkg/status"
)

// EntryFunc processes one config entry and describes what happened.
type EntryFunc func(ctx context.Context, entry registry.ConfigEntry) status.Result

// 🏃 Runner applies an EntryFunc to entries one after another
type Runner struct {
	logger *log.Logger
}

// 🏗️ NewRunner creates a new runner
func NewRunner(logger *log.Logger) *Runner {
	return &Runner{logger: logger}
}

// 🏃 Run processes every entry in order, logging and recording each result.
// A failing entry never stops the ones after it.
func (r *Runner) Run(ctx context.Context, report *status.Report, entries []registry.ConfigEntry, fn EntryFunc) {
	for _, entry := range entries {
		ectx := zerolog.Ctx(ctx).With().Str("config", entry.Name).Logger().WithContext(ctx)

		res := fn(ectx, entry)
		if res.Name == "" {
			res.Name = entry.Name
		}
		if res.Kind == "" {
			res.Kind = "config"
		}

		zerolog.Ctx(ectx).Debug().Str("outcome", res.Outcome.String()).Msg("entry processed")
		r.Record(report, res)
	}
}

// Record logs a result and adds it to the report.
func (r *Runner) Record(report *status.Report, res status.Result) {
	r.logger.LogResult(res)
	report.Add(res)
}
