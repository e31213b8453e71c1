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

package batch

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"

	"github.com/gridlab/gridshift/pkg/crs"
	"github.com/gridlab/gridshift/pkg/pipeline"
)

// 📋 Job is one batch invocation: a fixed file set under one CRS pair.
// Jobs are single-shot and never mutated after Run begins.
type Job struct {
	Files      []string                 // Input file paths
	SrcCRS     crs.Identifier           // Source coordinate system for every file
	DstCRS     crs.Identifier           // Target coordinate system for every file
	OutputDir  string                   // Directory receiving the transformed files
	Overwrite  pipeline.OverwritePolicy // Destination overwrite policy
	Confirm    pipeline.ConfirmFunc     // Blocking overwrite question, forwarded per file
	SampleSize int                      // Detection sample size, 0 for the default
	Precision  int                      // Coordinate decimal fallback, 0 for the default
}

// 📈 Progress is an immutable snapshot of batch counters. The live counters
// are owned exclusively by the coordinator.
type Progress struct {
	FilesTotal     int
	FilesCompleted int
	LinesProcessed int
	LinesFailed    int
}

// 📣 Sink receives a progress snapshot after each file completes
type Sink func(Progress)

// ❌ FileFailure records one file that could not be processed
type FileFailure struct {
	Path   string
	Reason string
}

// 📊 Summary is the consolidated outcome of a batch run
type Summary struct {
	FilesProcessed     int // Files that ran to completion, including skips and failures
	FilesSkipped       int // Files skipped (unknown format, overwrite declined)
	LinesTransformed   int
	LinesPassedThrough int
	LinesFailed        int
	PrimaryCount       int
	FallbackCount      int
	Files              []pipeline.Summary // Per-file summaries, completion order
	Failures           []FileFailure      // Per-file failures with reasons
	Cancelled          bool               // Run stopped early by the caller
}

// 🔧 Options configures a coordinator
type Options struct {
	// Pipeline processes each file. Required.
	Pipeline *pipeline.Pipeline
	// Workers bounds file-level parallelism. Defaults to 1 for strict
	// sequential semantics.
	Workers int
}

// 🎛️ Coordinator drives the pipeline over a job's file set
type Coordinator struct {
	pipeline *pipeline.Pipeline
	workers  int
}

// 🏭 New creates a coordinator with the given options
func New(opts Options) (*Coordinator, error) {
	if opts.Pipeline == nil {
		return nil, errors.Errorf("pipeline is required")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Coordinator{pipeline: opts.Pipeline, workers: workers}, nil
}

// Run processes every file in the job. One file's failure never stops the
// others; only cancellation ends the run early, and then with a partial
// summary marked Cancelled.
func (c *Coordinator) Run(ctx context.Context, job Job, sink Sink) (Summary, error) {
	logger := zerolog.Ctx(ctx)

	if job.OutputDir == "" {
		return Summary{}, errors.Errorf("output directory is required")
	}

	logger.Info().
		Int("files", len(job.Files)).
		Str("src", job.SrcCRS.String()).
		Str("dst", job.DstCRS.String()).
		Str("output_dir", job.OutputDir).
		Int("workers", c.workers).
		Msg("starting batch")

	var (
		mu       sync.Mutex
		agg      Summary
		progress = Progress{FilesTotal: len(job.Files)}
	)

	g := &errgroup.Group{}
	g.SetLimit(c.workers)

	for _, file := range job.Files {
		// Cancellation is cooperative and checked between files only
		if ctx.Err() != nil {
			mu.Lock()
			agg.Cancelled = true
			mu.Unlock()
			break
		}

		file := file
		g.Go(func() error {
			// A task acquired before cancellation may still be waiting on
			// the pool, re-check before doing any work
			if ctx.Err() != nil {
				mu.Lock()
				agg.Cancelled = true
				mu.Unlock()
				return nil
			}

			summary, err := c.pipeline.Run(ctx, pipeline.Options{
				Source:      file,
				Destination: filepath.Join(job.OutputDir, filepath.Base(file)),
				SrcCRS:      job.SrcCRS,
				DstCRS:      job.DstCRS,
				Overwrite:   job.Overwrite,
				Confirm:     job.Confirm,
				SampleSize:  job.SampleSize,
				Precision:   job.Precision,
			})

			mu.Lock()
			agg.FilesProcessed++
			if err != nil {
				agg.Failures = append(agg.Failures, FileFailure{Path: file, Reason: err.Error()})
			} else {
				agg.Files = append(agg.Files, summary)
				if summary.Skipped {
					agg.FilesSkipped++
				}
				agg.LinesTransformed += summary.LinesTransformed
				agg.LinesPassedThrough += summary.LinesPassedThrough
				agg.LinesFailed += summary.LinesFailed
				agg.PrimaryCount += summary.PrimaryCount
				agg.FallbackCount += summary.FallbackCount
			}
			progress.FilesCompleted++
			progress.LinesProcessed += summary.LinesTransformed + summary.LinesPassedThrough + summary.LinesFailed
			progress.LinesFailed += summary.LinesFailed
			snapshot := progress
			mu.Unlock()

			if err != nil {
				zerolog.Ctx(ctx).Error().Err(err).Str("file", file).Msg("file failed, batch continues")
			}
			if sink != nil {
				sink(snapshot)
			}
			return nil
		})
	}

	// Worker errors are folded into the summary, never returned
	_ = g.Wait()

	if ctx.Err() != nil {
		agg.Cancelled = true
	}

	zerolog.Ctx(ctx).Info().
		Int("processed", agg.FilesProcessed).
		Int("skipped", agg.FilesSkipped).
		Int("failures", len(agg.Failures)).
		Bool("cancelled", agg.Cancelled).
		Msg("batch complete")

	return agg, nil
}
