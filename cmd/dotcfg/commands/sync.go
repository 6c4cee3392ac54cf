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
	"github.com/walteh/dotcfg/pkg/operation"
)

// NewSyncCmd creates a new sync command
func NewSyncCmd(opts *opts.RootOpts) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "sync [all|helix|tmux|bashrc]",
		Short: "Copy system configs into the repo",
		Long: `Sync copies the live configs into configs/ so they can be committed.
It will:
1. Skip configs that are missing from the system
2. Report configs that already match as "no changes"
3. Overwrite the repo copy of everything else`,
	}
	cmd.PersistentFlags().BoolVarP(&dryRun, "dryrun", "d", false, "show what would change without copying")

	addTargets(cmd, func(cmd *cobra.Command, target string) error {
		ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "sync").Logger().WithContext(cmd.Context())
		_, err := opts.Operator.Sync(ctx, operation.SyncOptions{Target: target, DryRun: dryRun})
		return err
	})

	return cmd
}
