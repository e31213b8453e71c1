/*
Package gridfile classifies and parses seismic grid point files.

	+----------+     +----------+
	| Detector | --> |  Parser  |
	| (Format) |     | (Lines)  |
	+----------+     +----------+

🎯 Purpose:
- Classifies a file's lines as comma-delimited or fixed-width-columnar
- Converts classified lines into structured records (X, Y, auxiliary fields)
- Re-serializes records preserving the original field layout

🔄 Flow:
1. Sample leading non-comment lines and pick a format for the whole file
2. Parse each line into Header / Comment / Record / Unparsable
3. Render records back out, substituting only the transformed X/Y

⚡ Key Responsibilities:
- Format heuristics that never raise (worst case is Unknown)
- Verbatim retention of auxiliary text spans (no lossy reformatting)
- Depth domain classification of Z values (Time / TVD / SSTVD)

📝 Design Philosophy:
Grid files arrive from many vendors with inconsistent layouts. Preserving the
original text of everything that is not the coordinate pair keeps a
re-serialized line visually equivalent to its input, so a transformed file
diffs cleanly against its source. Non-coordinate content is treated as opaque
retained spans, not as typed data.
*/
package gridfile
