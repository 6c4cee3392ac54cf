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

// NewBackupCmd creates a new backup command
func NewBackupCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "backup [all|helix|tmux|bashrc]",
		Short: "Snapshot system configs into backups/<date>",
		Long: `Backup copies the live configs into backups/YYYY-MM-DD inside the repo.
Configs missing from the system are skipped. Running backup twice on the same
day replaces that day's snapshot.`,
	}

	addTargets(cmd, func(cmd *cobra.Command, target string) error {
		ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "backup").Logger().WithContext(cmd.Context())
		_, err := opts.Operator.Backup(ctx, target)
		return err
	})

	return cmd
}
