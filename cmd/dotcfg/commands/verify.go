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

// NewVerifyCmd creates a new verify command
func NewVerifyCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [all|helix|tmux|bashrc|<tool>]",
		Short: "Check installed configs and required tools",
		Long: `Verify checks that the configs are installed and match the repo, and that
the tools they rely on are on PATH. Missing required tools or configs fail the
run; optional tools and drifted files only warn.`,
	}

	addTargets(cmd, func(cmd *cobra.Command, target string) error {
		ctx := zerolog.Ctx(cmd.Context()).With().Str("command", "verify").Logger().WithContext(cmd.Context())
		_, err := opts.Operator.Verify(ctx, target)
		return err
	})

	return cmd
}
