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
	"fmt"

	"github.com/spf13/cobra"
	"github.com/walteh/dotcfg/cmd/dotcfg/opts"
	"github.com/walteh/dotcfg/pkg/log"
)

// NewBackupsCmd creates a new backups command
func NewBackupsCmd(opts *opts.RootOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "backups",
		Short: "List backup snapshots, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dates, err := opts.Operator.Backups(cmd.Context())
			if err != nil {
				return err
			}
			if len(dates) == 0 {
				log.FromContext(cmd.Context()).Infof("no backups yet in %s, run dotcfg backup", opts.Settings.Paths().BackupsDir())
				return nil
			}
			for _, d := range dates {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
}
