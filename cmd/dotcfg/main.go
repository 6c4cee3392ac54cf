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

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/walteh/dotcfg/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

func main() {
	os.Exit(run(context.Background(), osDeps(), os.Args[1:]))
}

// run executes the CLI and maps the result to an exit code.
func run(ctx context.Context, d deps, args []string) int {
	cmd := newRootCmd(d)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		// failed reports have already printed their summary
		if !errors.Is(err, operation.ErrFailed) {
			fmt.Fprintln(d.errOut, color.New(color.FgRed).Sprint("✗ ")+err.Error())
		}
		return 1
	}
	return 0
}
