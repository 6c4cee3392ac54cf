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

package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/dotcfg/cmd/dotcfg/opts"
)

// NewDiffCmd creates a new diff command
func NewDiffCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [all|helix|tmux|bashrc]",
		Short: "Show how the system differs from the repo",
		Long: `Diff prints, line by line, what install --force would change on the
system. Differences never fail the run.`,
	}

	addTargets(cmd, func(cmd *cobra.Command, target string) error {
		ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "diff").Logger().WithContext(cmd.Context())
		_, err := opts.Operator.Diff(ctx, target)
		return err
	})

	return cmd
}
