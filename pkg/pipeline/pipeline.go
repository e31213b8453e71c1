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

package pipeline

import (
	"bufio"
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/gridlab/gridshift/pkg/crs"
	"github.com/gridlab/gridshift/pkg/geodesy"
	"github.com/gridlab/gridshift/pkg/gridfile"
)

// 🔒 OverwritePolicy controls behavior when the destination already exists
type OverwritePolicy int

const (
	OverwritePrompt OverwritePolicy = iota // Ask the caller before replacing
	OverwriteAlways                        // Replace without asking
)

// ❓ ConfirmFunc is the blocking overwrite question posed to the caller.
// The pipeline suspends until it returns.
type ConfirmFunc func(path string) bool

// Raw lines scanned at most while gathering the detection sample
const maxSampleLines = 200

// 🔧 Options configures a single file run
type Options struct {
	Source      string          // Input file path
	Destination string          // Output file path
	SrcCRS      crs.Identifier  // Source coordinate system
	DstCRS      crs.Identifier  // Target coordinate system
	Overwrite   OverwritePolicy // Destination overwrite policy
	Confirm     ConfirmFunc     // Overwrite question, required for OverwritePrompt
	SampleSize  int             // Detection sample size, 0 for the default
	Precision   int             // Decimals for coordinates without their own, 0 for the default
}

// 📊 Summary is the per-file outcome
type Summary struct {
	Source             string
	Destination        string
	Format             gridfile.Format
	DepthDomain        gridfile.DepthDomain
	LinesTransformed   int // Records with substituted coordinates
	LinesPassedThrough int // Headers, comments and blanks copied verbatim
	LinesFailed        int // Unparsable lines and dropped points
	PrimaryCount       int // Points served by the primary engine
	FallbackCount      int // Points served by the approximate fallback
	Skipped            bool
	SkipReason         string
}

// 🔄 Pipeline transforms grid files one at a time
type Pipeline struct {
	transformer *geodesy.Transformer
}

// 🏭 New creates a pipeline around a coordinate transformer
func New(transformer *geodesy.Transformer) *Pipeline {
	return &Pipeline{transformer: transformer}
}

// Run streams one file from source to destination. Line-level problems are
// recovered and counted; only I/O failures are returned as errors, and those
// are fatal for this file alone.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Summary, error) {
	logger := zerolog.Ctx(ctx)
	summary := Summary{Source: opts.Source, Destination: opts.Destination}

	if opts.Source == "" || opts.Destination == "" {
		return summary, errors.Errorf("source and destination are required")
	}

	in, err := os.Open(opts.Source)
	if err != nil {
		return summary, errors.Errorf("opening input: %w", err)
	}
	defer in.Close()

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	// Detection buffers only the leading lines, the rest stays streamed
	sample, err := readSample(scanner, opts.SampleSize)
	if err != nil {
		return summary, errors.Errorf("reading sample: %w", err)
	}

	summary.Format = gridfile.DetectFormat(sample, gridfile.DetectOptions{SampleSize: opts.SampleSize})
	if summary.Format == gridfile.FormatUnknown {
		summary.Skipped = true
		summary.SkipReason = "file format not recognized"
		logger.Warn().Str("file", opts.Source).Msg("format not recognized, skipping file")
		return summary, nil
	}

	proceed, err := p.checkOverwrite(opts)
	if err != nil {
		return summary, err
	}
	if !proceed {
		summary.Skipped = true
		summary.SkipReason = "overwrite declined"
		logger.Info().Str("file", opts.Destination).Msg("overwrite declined, skipping file")
		return summary, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Destination), 0755); err != nil {
		return summary, errors.Errorf("creating output directory: %w", err)
	}

	// Write to a temp file, rename on success (atomic replace)
	tempPath := opts.Destination + ".tmp"
	out, err := os.Create(tempPath)
	if err != nil {
		return summary, errors.Errorf("creating temp output: %w", err)
	}
	writer := bufio.NewWriter(out)

	fail := func(cause error) (Summary, error) {
		out.Close()
		os.Remove(tempPath)
		return summary, cause
	}

	var zValues []float64
	process := func(raw string) error {
		ln := gridfile.ParseLine(raw, summary.Format)
		switch ln.Kind {
		case gridfile.KindHeader, gridfile.KindComment:
			summary.LinesPassedThrough++
			return writeLine(writer, ln.Raw)

		case gridfile.KindUnparsable:
			// Recoverable: the line is preserved verbatim and counted
			summary.LinesFailed++
			logger.Debug().Str("reason", ln.Reason).Str("line", ln.Raw).Msg("unparsable line passed through")
			return writeLine(writer, ln.Raw)

		case gridfile.KindRecord:
			res, terr := p.transformer.Transform(ctx, ln.X, ln.Y, opts.SrcCRS, opts.DstCRS)
			if terr != nil {
				// Point-level failure: the line is dropped with a recorded reason
				summary.LinesFailed++
				logger.Warn().Err(terr).Str("line", ln.Raw).Msg("no transform available, dropping line")
				return nil
			}
			switch res.Method {
			case geodesy.MethodPrimary:
				summary.PrimaryCount++
			case geodesy.MethodFallback:
				summary.FallbackCount++
			}
			if len(ln.Aux) > 0 && ln.Aux[0].HasValue {
				zValues = append(zValues, ln.Aux[0].Value)
			}
			summary.LinesTransformed++
			return writeLine(writer, ln.RenderPrecision(res.X, res.Y, opts.Precision))
		}
		return nil
	}

	for _, raw := range sample {
		if err := process(raw); err != nil {
			return fail(errors.Errorf("writing output: %w", err))
		}
	}
	for scanner.Scan() {
		if err := process(scanner.Text()); err != nil {
			return fail(errors.Errorf("writing output: %w", err))
		}
	}
	if err := scanner.Err(); err != nil {
		return fail(errors.Errorf("reading input: %w", err))
	}

	if err := writer.Flush(); err != nil {
		return fail(errors.Errorf("flushing output: %w", err))
	}
	if err := out.Close(); err != nil {
		os.Remove(tempPath)
		return summary, errors.Errorf("closing output: %w", err)
	}
	if err := os.Rename(tempPath, opts.Destination); err != nil {
		os.Remove(tempPath)
		return summary, errors.Errorf("renaming temp output: %w", err)
	}

	summary.DepthDomain = gridfile.ClassifyDepthDomain(zValues)

	logger.Debug().
		Str("file", opts.Source).
		Str("format", summary.Format.String()).
		Int("transformed", summary.LinesTransformed).
		Int("failed", summary.LinesFailed).
		Int("fallback", summary.FallbackCount).
		Msg("file transformed")

	return summary, nil
}

// checkOverwrite enforces the overwrite policy. Returns false when the
// caller declined.
func (p *Pipeline) checkOverwrite(opts Options) (bool, error) {
	if opts.Overwrite == OverwriteAlways {
		return true, nil
	}
	if _, err := os.Stat(opts.Destination); os.IsNotExist(err) {
		return true, nil
	} else if err != nil {
		return false, errors.Errorf("checking destination: %w", err)
	}
	if opts.Confirm == nil {
		return false, errors.Errorf("destination %s exists and no overwrite confirmation is available", opts.Destination)
	}
	// Blocking question to the caller, the pipeline suspends here
	return opts.Confirm(opts.Destination), nil
}

// readSample buffers the raw leading lines needed for format detection
func readSample(scanner *bufio.Scanner, sampleSize int) ([]string, error) {
	if sampleSize <= 0 {
		sampleSize = gridfile.DefaultSampleSize
	}

	var raw []string
	candidates := 0
	for len(raw) < maxSampleLines && candidates < sampleSize {
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		raw = append(raw, line)
		if t := trimLine(line); t != "" && !isCommentLine(t) {
			candidates++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return raw, nil
}

func trimLine(s string) string {
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t' || s[0] == '\r') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func isCommentLine(trimmed string) bool {
	switch trimmed[0] {
	case '!', '@', '#':
		return true
	}
	return false
}

func writeLine(w *bufio.Writer, line string) error {
	if _, err := w.WriteString(line); err != nil {
		return err
	}
	return w.WriteByte('\n')
}
