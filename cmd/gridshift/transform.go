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
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/gridlab/gridshift/pkg/batch"
	"github.com/gridlab/gridshift/pkg/config"
	"github.com/gridlab/gridshift/pkg/crs"
	"github.com/gridlab/gridshift/pkg/geodesy"
	"github.com/gridlab/gridshift/pkg/log"
	"github.com/gridlab/gridshift/pkg/pipeline"
)

// newTransformCmd creates the transform command
func newTransformCmd() *cobra.Command {
	var (
		yes        bool
		sourceEPSG int
		targetEPSG int
		outputDir  string
		workers    int
	)

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Re-project every grid file named by the config",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			console := log.FromContext(ctx)

			cfg, err := config.Load(ctx, configFile)
			if err != nil {
				return errors.Errorf("loading config: %w", err)
			}

			// Flag overrides win over the config file
			if sourceEPSG > 0 {
				cfg.SourceEPSG = sourceEPSG
			}
			if targetEPSG > 0 {
				cfg.TargetEPSG = targetEPSG
			}
			if outputDir != "" {
				cfg.OutputDir = outputDir
			}
			if workers > 0 {
				cfg.Workers = workers
			}

			files, err := expandInputs(cfg.Inputs)
			if err != nil {
				return err
			}

			catalog := crs.NewBuiltinCatalog()
			src := identify(catalog, cfg.SourceEPSG)
			dst := identify(catalog, cfg.TargetEPSG)

			transformer := geodesy.NewTransformer(geodesy.TransformerOptions{
				Engine: geodesy.NewWGS84Engine(),
				Strict: cfg.Strict,
			})

			coordinator, err := batch.New(batch.Options{
				Pipeline: pipeline.New(transformer),
				Workers:  cfg.Workers,
			})
			if err != nil {
				return errors.Errorf("creating coordinator: %w", err)
			}

			overwrite := pipeline.OverwritePrompt
			if yes || cfg.Overwrite == config.OverwriteAlways {
				overwrite = pipeline.OverwriteAlways
			}

			console.Header("transforming grid coordinates")
			console.StartBatchOperation(ctx, log.BatchOperation{
				SourceCRS: src.String(),
				TargetCRS: dst.String(),
				OutputDir: cfg.OutputDir,
				Files:     len(files),
			})

			summary, err := coordinator.Run(ctx, batch.Job{
				Files:      files,
				SrcCRS:     src,
				DstCRS:     dst,
				OutputDir:  cfg.OutputDir,
				Overwrite:  overwrite,
				Confirm:    confirmOverwrite(console),
				SampleSize: cfg.SampleSize,
				Precision:  cfg.Precision,
			}, func(p batch.Progress) {
				zerolog.Ctx(ctx).Debug().
					Int("completed", p.FilesCompleted).
					Int("total", p.FilesTotal).
					Int("lines", p.LinesProcessed).
					Msg("batch progress")
			})
			if err != nil {
				return errors.Errorf("running batch: %w", err)
			}

			reportSummary(cmd, console, summary)
			console.EndBatchOperation(ctx)

			if summary.Cancelled {
				return errors.Errorf("batch cancelled")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "overwrite existing outputs without asking")
	cmd.Flags().IntVar(&sourceEPSG, "source-epsg", 0, "override the source EPSG code")
	cmd.Flags().IntVar(&targetEPSG, "target-epsg", 0, "override the target EPSG code")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "override the output directory")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "override the worker count")

	return cmd
}

// expandInputs resolves glob patterns into a sorted, de-duplicated file list
func expandInputs(patterns []string) ([]string, error) {
	seen := map[string]bool{}
	var files []string
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, errors.Errorf("expanding pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files = append(files, m)
			}
		}
	}
	if len(files) == 0 {
		return nil, errors.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

// identify resolves an EPSG code against the catalog, falling back to a bare
// identifier for codes the catalog does not carry
func identify(catalog crs.Catalog, code int) crs.Identifier {
	id, err := catalog.Lookup(code)
	if err != nil {
		return crs.New(code, "")
	}
	return id
}

// confirmOverwrite asks the overwrite question on stdin
func confirmOverwrite(console *log.Logger) pipeline.ConfirmFunc {
	reader := bufio.NewReader(os.Stdin)
	return func(path string) bool {
		console.Warningf("%s already exists, overwrite? [y/N]: ", path)
		answer, err := reader.ReadString('\n')
		if err != nil {
			return false
		}
		answer = strings.ToLower(strings.TrimSpace(answer))
		return answer == "y" || answer == "yes"
	}
}

// reportSummary prints one console line per file plus batch totals
func reportSummary(cmd *cobra.Command, console *log.Logger, summary batch.Summary) {
	ctx := cmd.Context()

	for _, file := range summary.Files {
		op := log.FileOperation{
			Path:        file.Source,
			Format:      file.Format.String(),
			Status:      "TRANSFORMED",
			Transformed: file.LinesTransformed,
			Failed:      file.LinesFailed,
			Fallback:    file.FallbackCount,
		}
		if file.Skipped {
			op.Status = "SKIPPED"
			op.IsSkipped = true
		}
		console.LogFileOperation(ctx, op)
	}
	for _, failure := range summary.Failures {
		console.LogFileOperation(ctx, log.FileOperation{
			Path:     failure.Path,
			Status:   "FAILED",
			IsFailed: true,
		})
	}

	console.LogNewline()
	if summary.FallbackCount > 0 {
		console.Warningf("%d points used the approximate datum shift", summary.FallbackCount)
	}
	if summary.LinesFailed > 0 {
		console.Warningf("%d lines could not be transformed", summary.LinesFailed)
	}
	if len(summary.Failures) > 0 {
		console.Errorf("%d files failed", len(summary.Failures))
	}
	console.Successf("%d files processed, %d lines transformed",
		summary.FilesProcessed, summary.LinesTransformed)
}
