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
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/gridlab/gridshift/pkg/log"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gridshift",
		Short: "A tool for re-projecting seismic grid files between coordinate systems",
		Long: `gridshift reads exported seismic grid and fault files, re-projects their
X/Y coordinates between coordinate reference systems, and writes the results
while preserving the original file layout line for line.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(setupContext(cmd.Context()))
		},
	}

	// Add shared flags
	addRootFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(
		newTransformCmd(),
		newCRSCmd(),
		newVersionCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.New(os.Stderr, defaultLevel()).Errorf("command failed: %v", err)
		os.Exit(1)
	}
}
