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

package gridfile

import (
	"strconv"
	"strings"
)

// 📄 Format classifies the line layout of a grid file
type Format int

const (
	FormatUnknown        Format = iota // Neither heuristic matched, transformation disabled
	FormatCommaSeparated               // X,Y,aux1[,aux2,...]
	FormatFixedWidth                   // Whitespace-column-aligned X Y aux1 aux2 ...
)

// String returns a string representation of Format
func (f Format) String() string {
	switch f {
	case FormatCommaSeparated:
		return "comma-separated"
	case FormatFixedWidth:
		return "fixed-width"
	default:
		return "unknown"
	}
}

// Detection defaults. The heuristic shape is fixed, the constants are ours.
const (
	DefaultSampleSize = 10
	defaultMajority   = 0.5
)

// Recognized header/comment markers in seismic grid exports
var defaultCommentPrefixes = []string{"!", "@", "#"}

// 🔧 DetectOptions tunes the format heuristic
type DetectOptions struct {
	// SampleSize is the number of candidate lines to examine. Defaults to
	// DefaultSampleSize.
	SampleSize int
	// Majority is the fraction of candidates that must pass a test,
	// exceeded strictly. Defaults to 0.5.
	Majority float64
	// CommentPrefixes are markers for lines excluded from sampling.
	// Defaults to "!", "@", "#".
	CommentPrefixes []string
}

func (o DetectOptions) withDefaults() DetectOptions {
	if o.SampleSize <= 0 {
		o.SampleSize = DefaultSampleSize
	}
	if o.Majority <= 0 {
		o.Majority = defaultMajority
	}
	if o.CommentPrefixes == nil {
		o.CommentPrefixes = defaultCommentPrefixes
	}
	return o
}

// 🔍 DetectFormat classifies a file from a sample of its leading lines.
// Pure function over the sample, never raises. Worst case is FormatUnknown.
func DetectFormat(lines []string, opts DetectOptions) Format {
	opts = opts.withDefaults()

	var candidates []string
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || hasAnyPrefix(trimmed, opts.CommentPrefixes) {
			continue
		}
		candidates = append(candidates, trimmed)
		if len(candidates) >= opts.SampleSize {
			break
		}
	}

	if len(candidates) == 0 {
		return FormatUnknown
	}

	commaPasses := 0
	fixedPasses := 0
	for _, line := range candidates {
		if isCommaNumericLine(line) {
			commaPasses++
		} else if isFixedWidthNumericLine(line) {
			fixedPasses++
		}
	}

	total := float64(len(candidates))
	if float64(commaPasses)/total > opts.Majority {
		return FormatCommaSeparated
	}
	if float64(fixedPasses)/total > opts.Majority {
		return FormatFixedWidth
	}
	return FormatUnknown
}

// isCommaNumericLine reports whether the line splits into at least three
// comma-delimited numeric tokens
func isCommaNumericLine(line string) bool {
	parts := strings.Split(line, ",")
	if len(parts) < 3 {
		return false
	}
	for _, part := range parts {
		if !isNumericToken(strings.TrimSpace(part)) {
			return false
		}
	}
	return true
}

// isFixedWidthNumericLine reports whether the line splits into at least three
// whitespace-delimited numeric tokens
func isFixedWidthNumericLine(line string) bool {
	if strings.Contains(line, ",") {
		return false
	}
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return false
	}
	for _, field := range fields {
		if !isNumericToken(field) {
			return false
		}
	}
	return true
}

func isNumericToken(tok string) bool {
	if tok == "" {
		return false
	}
	_, err := strconv.ParseFloat(tok, 64)
	return err == nil
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
