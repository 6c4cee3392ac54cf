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

// NewInstallCmd creates a new install command
func NewInstallCmd(opts *opts.RootOpts) *cobra.Command {
	var o operation.InstallOptions

	cmd := &cobra.Command{
		Use:   "install [all|helix|tmux|bashrc]",
		Short: "Copy repo configs onto the system",
		Long: `Install copies configs/ (or a snapshot picked with --from) onto the system.
Existing system files are kept unless --force is given. After copying, every
installed file is compared with its source unless --no-verify is given.`,
		Example: `  dotcfg install tmux --diff --dryrun
  dotcfg install all --from 2025-01-02 --force`,
	}
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&o.DryRun, "dryrun", "d", false, "show what would change without copying")
	flags.BoolVarP(&o.Force, "force", "f", false, "overwrite existing system files")
	flags.BoolVar(&o.NoVerify, "no-verify", false, "skip the checks before and after copying")
	flags.BoolVar(&o.ShowDiff, "diff", false, "print the differences before copying")
	flags.StringVar(&o.From, "from", "", "install from backups/<date> instead of configs/")

	addTargets(cmd, func(cmd *cobra.Command, target string) error {
		ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "install").Logger().WithContext(cmd.Context())
		run := o
		run.Target = target
		_, err := opts.Operator.Install(ctx, run)
		return err
	})

	return cmd
}
