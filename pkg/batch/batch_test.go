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
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gridlab/gridshift/pkg/crs"
	"github.com/gridlab/gridshift/pkg/geodesy"
	"github.com/gridlab/gridshift/pkg/pipeline"
)

var (
	nad27South = crs.New(32025, "NAD27 / Oklahoma South")
	nad83South = crs.New(32104, "NAD83 / Oklahoma South")
)

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t))
	return logger.WithContext(context.Background())
}

func newCoordinator(t *testing.T, workers int) *Coordinator {
	t.Helper()
	p := pipeline.New(geodesy.NewTransformer(geodesy.TransformerOptions{}))
	c, err := New(Options{Pipeline: p, Workers: workers})
	require.NoError(t, err)
	return c
}

func writeGrid(t *testing.T, dir, name string, lines int) string {
	t.Helper()
	content := ""
	for i := 0; i < lines; i++ {
		content += "100.00,200.00,1.5778\n"
	}
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewRequiresPipeline(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline is required")
}

func TestRunRequiresOutputDir(t *testing.T) {
	c := newCoordinator(t, 1)
	_, err := c.Run(testContext(t), Job{Files: []string{"a.dat"}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output directory is required")
}

func TestRunContinuesPastFileFailure(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "out")

	file1 := writeGrid(t, tmpDir, "a.dat", 2)
	file2 := filepath.Join(tmpDir, "missing.dat") // never created
	file3 := writeGrid(t, tmpDir, "c.dat", 3)

	c := newCoordinator(t, 1)
	summary, err := c.Run(testContext(t), Job{
		Files:     []string{file1, file2, file3},
		SrcCRS:    nad27South,
		DstCRS:    nad83South,
		OutputDir: outDir,
		Overwrite: pipeline.OverwriteAlways,
	}, nil)
	require.NoError(t, err, "a per-file failure must not fail the batch")

	assert.Equal(t, 3, summary.FilesProcessed)
	require.Len(t, summary.Failures, 1, "exactly one failure should be recorded")
	assert.Equal(t, file2, summary.Failures[0].Path)
	assert.Contains(t, summary.Failures[0].Reason, "opening input")

	for _, name := range []string{"a.dat", "c.dat"} {
		_, statErr := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, statErr, "output for %s should exist", name)
	}
	_, statErr := os.Stat(filepath.Join(outDir, "missing.dat"))
	assert.True(t, os.IsNotExist(statErr), "failed file should produce no output")

	assert.Equal(t, 5, summary.LinesTransformed)
	assert.Equal(t, 5, summary.FallbackCount, "no engine configured, the table served every point")
	assert.False(t, summary.Cancelled)
}

func TestRunEmitsProgressSnapshots(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "out")

	files := []string{
		writeGrid(t, tmpDir, "a.dat", 1),
		writeGrid(t, tmpDir, "b.dat", 2),
		writeGrid(t, tmpDir, "c.dat", 3),
	}

	var snapshots []Progress
	c := newCoordinator(t, 1)
	_, err := c.Run(testContext(t), Job{
		Files:     files,
		SrcCRS:    nad27South,
		DstCRS:    nad27South,
		OutputDir: outDir,
		Overwrite: pipeline.OverwriteAlways,
	}, func(p Progress) {
		snapshots = append(snapshots, p)
	})
	require.NoError(t, err)

	require.Len(t, snapshots, 3, "one snapshot per completed file")
	for i, snap := range snapshots {
		assert.Equal(t, 3, snap.FilesTotal)
		assert.Equal(t, i+1, snap.FilesCompleted, "completion count should be monotonic")
	}
	assert.Equal(t, 6, snapshots[2].LinesProcessed)
	assert.Equal(t, 0, snapshots[2].LinesFailed)
}

func TestRunCancellationBetweenFiles(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "out")

	files := make([]string, 5)
	names := []string{"a.dat", "b.dat", "c.dat", "d.dat", "e.dat"}
	for i, name := range names {
		files[i] = writeGrid(t, tmpDir, name, 1)
	}

	ctx, cancel := context.WithCancel(testContext(t))
	defer cancel()

	c := newCoordinator(t, 1)
	summary, err := c.Run(ctx, Job{
		Files:     files,
		SrcCRS:    nad27South,
		DstCRS:    nad27South,
		OutputDir: outDir,
		Overwrite: pipeline.OverwriteAlways,
	}, func(p Progress) {
		// Request cancellation as soon as the first file completes
		cancel()
	})
	require.NoError(t, err)

	assert.True(t, summary.Cancelled, "summary should be marked cancelled")
	assert.Equal(t, 1, summary.FilesProcessed, "only the first file should have run")

	for _, name := range names[1:] {
		_, statErr := os.Stat(filepath.Join(outDir, name))
		assert.True(t, os.IsNotExist(statErr), "no output should be written for %s", name)
	}
}

func TestRunCountsSkippedFiles(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "out")

	grid := writeGrid(t, tmpDir, "grid.dat", 2)
	notes := filepath.Join(tmpDir, "notes.txt")
	require.NoError(t, os.WriteFile(notes, []byte("free-form notes\nno data here\n"), 0644))

	c := newCoordinator(t, 1)
	summary, err := c.Run(testContext(t), Job{
		Files:     []string{grid, notes},
		SrcCRS:    nad27South,
		DstCRS:    nad27South,
		OutputDir: outDir,
		Overwrite: pipeline.OverwriteAlways,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.FilesProcessed)
	assert.Equal(t, 1, summary.FilesSkipped, "unrecognized format should be a skip, not a failure")
	assert.Empty(t, summary.Failures)
}

func TestRunParallelWorkers(t *testing.T) {
	tmpDir := t.TempDir()
	outDir := filepath.Join(tmpDir, "out")

	var files []string
	names := []string{"a.dat", "b.dat", "c.dat", "d.dat"}
	for _, name := range names {
		files = append(files, writeGrid(t, tmpDir, name, 2))
	}

	c := newCoordinator(t, 4)
	summary, err := c.Run(testContext(t), Job{
		Files:     files,
		SrcCRS:    nad27South,
		DstCRS:    nad83South,
		OutputDir: outDir,
		Overwrite: pipeline.OverwriteAlways,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.FilesProcessed)
	assert.Equal(t, 8, summary.LinesTransformed)
	assert.Len(t, summary.Files, 4, "every file should report a summary")
	for _, name := range names {
		_, statErr := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, statErr)
	}
}
