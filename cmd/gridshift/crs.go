// Copyright 2025 gridlab LLC
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
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/gridlab/gridshift/pkg/crs"
)

// newCRSCmd creates the crs command
func newCRSCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "crs [query]",
		Short: "Search the built-in coordinate system catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog := crs.NewBuiltinCatalog()
			matches := catalog.Search(strings.Join(args, " "))
			if len(matches) == 0 {
				return errors.Errorf("no coordinate systems matched %q", strings.Join(args, " "))
			}
			for _, id := range matches {
				fmt.Fprintln(cmd.OutOrStdout(), id.String())
			}
			return nil
		},
	}
}
