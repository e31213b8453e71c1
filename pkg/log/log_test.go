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

package log

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_file_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogFileOperation(context.Background(), FileOperation{
					Path:        "grid.dat",
					Format:      "comma-separated",
					Status:      "TRANSFORMED",
					Transformed: 3,
				})
			},
			wantLogs: []string{
				"✓ grid.dat                            comma-separated  TRANSFORMED",
			},
		},
		{
			name: "log_batch_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartBatchOperation(context.Background(), BatchOperation{
					SourceCRS: "EPSG:32025 - NAD27 Oklahoma South",
					TargetCRS: "EPSG:32104 - NAD83 Oklahoma South",
					OutputDir: "/tmp/out",
					Files:     4,
				})
			},
			wantLogs: []string{
				"[transforming 4 files]",
				"◆ EPSG:32025 - NAD27 Oklahoma South → EPSG:32104 - NAD83 Oklahoma South",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Warningf("warning %s", "test")
				logger.Errorf("error %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"⚠️  warning test",
				"❌ error test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("transforming grid coordinates")
			},
			wantLogs: []string{
				"gridshift • transforming grid coordinates",
			},
		},
		{
			name: "log_newline",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("first")
				logger.LogNewline()
				logger.Info("second")
			},
			wantLogs: []string{
				"ℹ️  first",
				"",
				"ℹ️  second",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			// Perform operation
			tt.op(t, logger)

			// Check output
			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}

func TestLoggerContext(t *testing.T) {
	// Create logger
	logger := New(io.Discard, zerolog.InfoLevel)

	// Add to context
	ctx := context.Background()
	ctx = NewContext(ctx, logger)

	// Get from context
	got := FromContext(ctx)
	assert.Same(t, logger, got, "logger from context should be the same instance")

	// Check panic on missing logger
	assert.Panics(t, func() {
		FromContext(context.Background())
	}, "FromContext should panic when logger is missing")
}

func TestFileOperationFormatting(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name string
		op   FileOperation
		want string
	}{
		{
			name: "transformed_file",
			op: FileOperation{
				Path:        "grid.dat",
				Format:      "comma-separated",
				Status:      "TRANSFORMED",
				Transformed: 3,
			},
			want: "✓ grid.dat                            comma-separated  TRANSFORMED",
		},
		{
			name: "fallback_file",
			op: FileOperation{
				Path:        "faults.dat",
				Format:      "fixed-width",
				Status:      "TRANSFORMED",
				Transformed: 3,
				Fallback:    3,
			},
			want: "⟳ faults.dat                          fixed-width      TRANSFORMED",
		},
		{
			name: "skipped_file",
			op: FileOperation{
				Path:      "notes.txt",
				Format:    "unknown",
				Status:    "SKIPPED",
				IsSkipped: true,
			},
			want: "- notes.txt                           unknown          SKIPPED",
		},
		{
			name: "failed_file",
			op: FileOperation{
				Path:     "missing.dat",
				Format:   "comma-separated",
				Status:   "FAILED",
				IsFailed: true,
			},
			want: "✗ missing.dat                         comma-separated  FAILED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			// Log operation
			logger.LogFileOperation(context.Background(), tt.op)

			// Check output
			output := strings.TrimSpace(buf.String())
			assert.Equal(t, tt.want, output, "formatted output should match")
		})
	}
}
