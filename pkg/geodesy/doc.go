/*
Package geodesy implements the two-tier coordinate transformation used by the
grid pipeline.

	+-------------+
	| Transformer |
	| (Strategy)  |
	+------+------+
	       |
	  +----+-----+
	  |          |
	+-v--+   +---v----+
	|Engine|  | Offset |
	|(EPSG)|  | Table  |
	+------+  +--------+

🎯 Purpose:
- Converts an (X, Y) pair from a source CRS to a target CRS
- Tries the primary geodetic engine first, degrades to an approximate
  planar shift when the engine is unavailable or fails
- Always discloses which tier served each point

🔄 Flow:
1. Identity short-circuit when source equals target (no engine call)
2. Primary engine projection (datum-aware)
3. Fallback offset lookup, or identity passthrough with a warning

⚡ Key Responsibilities:
- Engine capability abstraction (the engine is injected, never owned)
- Built-in offset table for known datum pairs
- Method reporting (Primary vs Fallback) for precision auditing

📝 Design Philosophy:
The primary engine is an external dependency that may be missing or broken in
a user's environment. The transformer must degrade to reduced accuracy rather
than halt, and downstream consumers must be able to flag fallback-derived
data. Auxiliary fields never pass through here, only X/Y.
*/
package geodesy
