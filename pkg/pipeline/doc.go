/*
Package pipeline streams a single grid file through detection, parsing,
transformation and re-serialization.

	+-----------+   +--------+   +-------------+   +--------+
	| Detection |-->| Parser |-->| Transformer |-->| Writer |
	| (sample)  |   | (line) |   | (X/Y only)  |   | (atomic)|
	+-----------+   +--------+   +-------------+   +--------+

🎯 Purpose:
- Transforms one file line-by-line, never loading it fully into memory
- Preserves headers, comments and malformed lines verbatim, in order
- Reports how many lines were transformed, passed through or failed, and
  which engine tier served the transformed points

🔄 Flow:
1. Buffer just enough leading lines to detect the file format once
2. Ask the caller about overwriting an existing destination (blocking)
3. Parse each line; transform only coordinate records
4. Render output preserving the original field layout, write atomically

⚡ Key Responsibilities:
- Per-file failure isolation (a malformed line never aborts the file)
- Overwrite policy enforcement via an injected confirmation callback
- Method histogram (primary vs fallback) for precision auditing

📝 Design Philosophy:
The pipeline is a pure computational service invoked by a shell (GUI or CLI)
it knows nothing about. The only upward channel is the blocking overwrite
question, injected as a callback. I/O failures are fatal for the file and
reported to the batch coordinator, never raised past it.
*/
package pipeline
