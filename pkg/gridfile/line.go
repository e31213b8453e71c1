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
	"unicode"
)

// 🏷️ Kind discriminates the parsed line variants
type Kind int

const (
	KindHeader     Kind = iota // Blank or non-data leading line, copied through
	KindComment                // Line starting with a recognized comment marker
	KindRecord                 // Parsed coordinate record
	KindUnparsable             // Data-shaped line whose X/Y could not be parsed
)

// String returns a string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindHeader:
		return "header"
	case KindComment:
		return "comment"
	case KindRecord:
		return "record"
	case KindUnparsable:
		return "unparsable"
	default:
		return "unknown"
	}
}

// 📦 Field is one auxiliary value: the original text span plus a parsed
// numeric shadow when the text is numeric
type Field struct {
	Raw      string  // Original token text, verbatim
	Value    float64 // Parsed shadow value, valid when HasValue
	HasValue bool
}

// DefaultPrecision is the decimal count used for coordinates whose source
// token carries no decimal point
const DefaultPrecision = 5

// 📄 Line is one parsed line of a grid file. The raw text is always retained,
// so rendering a line without transformation reproduces the input.
type Line struct {
	Kind   Kind
	Raw    string // Original line, without trailing newline
	Reason string // Why the line is KindUnparsable

	// Record fields, valid when Kind == KindRecord
	X   float64
	Y   float64
	Aux []Field

	format  Format
	rawX    string // original X token, verbatim
	rawY    string // original Y token, verbatim
	xStart  int    // byte offsets of the coordinate spans in Raw,
	xEnd    int    // used for fixed-width layout preservation
	yStart  int
	yEnd    int
	auxTail string // raw text after the Y span (fixed-width only)
}

// 🔍 ParseLine converts one classified line into a Line. It never errors:
// anything that cannot be parsed comes back as KindHeader, KindComment or
// KindUnparsable with the original text preserved.
func ParseLine(raw string, format Format) Line {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Line{Kind: KindHeader, Raw: raw}
	}
	if hasAnyPrefix(trimmed, defaultCommentPrefixes) {
		return Line{Kind: KindComment, Raw: raw}
	}

	switch format {
	case FormatCommaSeparated:
		return parseCommaLine(raw)
	case FormatFixedWidth:
		return parseFixedWidthLine(raw)
	default:
		return Line{Kind: KindUnparsable, Raw: raw, Reason: "file format is unknown"}
	}
}

func parseCommaLine(raw string) Line {
	parts := strings.Split(raw, ",")
	if len(parts) < 3 {
		return Line{
			Kind:   KindUnparsable,
			Raw:    raw,
			Reason: "expected X, Y and at least one data field",
		}
	}

	x, errX := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errX != nil || errY != nil {
		return Line{
			Kind:   KindUnparsable,
			Raw:    raw,
			Reason: "first two fields are not numeric",
		}
	}

	aux := make([]Field, 0, len(parts)-2)
	for _, part := range parts[2:] {
		aux = append(aux, newField(part))
	}

	return Line{
		Kind:   KindRecord,
		Raw:    raw,
		X:      x,
		Y:      y,
		Aux:    aux,
		format: FormatCommaSeparated,
		rawX:   parts[0],
		rawY:   parts[1],
	}
}

func parseFixedWidthLine(raw string) Line {
	spans := tokenSpans(raw)
	if len(spans) < 3 {
		return Line{
			Kind:   KindUnparsable,
			Raw:    raw,
			Reason: "expected X, Y and at least one data column",
		}
	}

	xTok := raw[spans[0][0]:spans[0][1]]
	yTok := raw[spans[1][0]:spans[1][1]]
	x, errX := strconv.ParseFloat(xTok, 64)
	y, errY := strconv.ParseFloat(yTok, 64)
	if errX != nil || errY != nil {
		return Line{
			Kind:   KindUnparsable,
			Raw:    raw,
			Reason: "first two columns are not numeric",
		}
	}

	tail := raw[spans[1][1]:]
	aux := make([]Field, 0, len(spans)-2)
	for _, span := range spans[2:] {
		aux = append(aux, newField(raw[span[0]:span[1]]))
	}

	return Line{
		Kind:    KindRecord,
		Raw:     raw,
		X:       x,
		Y:       y,
		Aux:     aux,
		format:  FormatFixedWidth,
		rawX:    xTok,
		rawY:    yTok,
		xStart:  spans[0][0],
		xEnd:    spans[0][1],
		yStart:  spans[1][0],
		yEnd:    spans[1][1],
		auxTail: tail,
	}
}

// 📝 Render re-serializes the line, substituting the transformed coordinate
// pair. Non-record lines render verbatim. A coordinate that is numerically
// unchanged reuses its original token text, so identity transformations are
// byte-identical.
func (ln Line) Render(x, y float64) string {
	return ln.RenderPrecision(x, y, DefaultPrecision)
}

// RenderPrecision is Render with an explicit decimal count for coordinate
// tokens that carry no decimals of their own
func (ln Line) RenderPrecision(x, y float64, precision int) string {
	if ln.Kind != KindRecord {
		return ln.Raw
	}
	if precision <= 0 {
		precision = DefaultPrecision
	}

	switch ln.format {
	case FormatCommaSeparated:
		out := make([]string, 0, len(ln.Aux)+2)
		out = append(out, renderCoordinate(x, ln.X, ln.rawX, precision))
		out = append(out, renderCoordinate(y, ln.Y, ln.rawY, precision))
		for _, f := range ln.Aux {
			out = append(out, f.Raw)
		}
		return strings.Join(out, ",")

	case FormatFixedWidth:
		xText := padLeft(renderCoordinate(x, ln.X, ln.rawX, precision), ln.xEnd-ln.xStart)
		yText := padLeft(renderCoordinate(y, ln.Y, ln.rawY, precision), ln.yEnd-ln.yStart)
		return ln.Raw[:ln.xStart] + xText + ln.Raw[ln.xEnd:ln.yStart] + yText + ln.auxTail

	default:
		return ln.Raw
	}
}

// renderCoordinate formats a transformed value with the same decimal count as
// the original token, reusing the token itself when the value is unchanged
func renderCoordinate(v, orig float64, rawToken string, precision int) string {
	if v == orig {
		return rawToken
	}
	return strconv.FormatFloat(v, 'f', tokenDecimals(rawToken, precision), 64)
}

// tokenDecimals counts the decimals of a plain decimal token. Tokens without
// a decimal point (or in exponent form) get the fallback precision.
func tokenDecimals(tok string, fallback int) int {
	tok = strings.TrimSpace(tok)
	if strings.ContainsAny(tok, "eE") {
		return fallback
	}
	dot := strings.IndexByte(tok, '.')
	if dot < 0 {
		return fallback
	}
	return len(tok) - dot - 1
}

func padLeft(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", width-len(s)) + s
}

func newField(raw string) Field {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Field{Raw: raw}
	}
	return Field{Raw: raw, Value: v, HasValue: true}
}

// tokenSpans returns [start, end) byte offsets of whitespace-delimited tokens
func tokenSpans(s string) [][2]int {
	var spans [][2]int
	start := -1
	for i, r := range s {
		if unicode.IsSpace(r) {
			if start >= 0 {
				spans = append(spans, [2]int{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		spans = append(spans, [2]int{start, len(s)})
	}
	return spans
}
