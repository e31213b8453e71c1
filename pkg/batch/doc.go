/*
Package batch fans the file pipeline out across a set of grid files.

	+-------------+
	| Coordinator |
	+------+------+
	       |
	 +-----+-----+-----+
	 |     |     |     |
	+v-+ +-v+ +--v+ +--v+
	|f1| |f2| |f3 | |...|   (worker pool, size 1 by default)
	+--+ +--+ +---+ +---+

🎯 Purpose:
- Runs the single-file pipeline over every file in a job
- Isolates per-file failures, the batch always continues
- Emits immutable progress snapshots after each file completes
- Supports cooperative cancellation between files

🔄 Flow:
1. Submit one task per file to an errgroup-bounded worker pool
2. Each task runs the pipeline and folds its summary into the aggregate
3. A progress snapshot goes to the sink after every completion
4. Cancellation stops new tasks from starting, in-flight files finish

⚡ Key Responsibilities:
- Aggregate counters (transformed / passed-through / failed, method histogram)
- Per-file failure records with reasons
- Progress ownership: counters are owned here, callers only ever see copies

📝 Design Philosophy:
Within one file, output order matches input order. Across files no ordering is
promised, so the aggregate is built under a single mutex and files may be
parallelized freely. Nothing in this package is allowed to terminate a run
except an explicit cancellation from the caller.
*/
package batch
