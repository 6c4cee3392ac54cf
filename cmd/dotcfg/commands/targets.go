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
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/dotcfg/pkg/registry"
)

// targetFunc runs a command against one target: "all" or a registry name.
type targetFunc func(cmd *cobra.Command, target string) error

// addTargets wires the per-config subcommands (helix, tmux, bashrc, all) onto
// parent and lets parent take the same names as a positional argument.
func addTargets(parent *cobra.Command, run targetFunc) {
	parent.Args = cobra.MaximumNArgs(1)
	parent.RunE = func(cmd *cobra.Command, args []string) error {
		target := "all"
		if len(args) == 1 {
			target = args[0]
		}
		return run(cmd, target)
	}

	verb := strings.Fields(parent.Use)[0]
	for _, d := range registry.Definitions() {
		name := d.Name
		parent.AddCommand(&cobra.Command{
			Use:     name,
			Aliases: d.Aliases,
			Short:   verb + " the " + name + " config",
			Args:    cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return run(cmd, name)
			},
		})
	}
	parent.AddCommand(&cobra.Command{
		Use:   "all",
		Short: verb + " every config",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, "all")
		},
	})
}
