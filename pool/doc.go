// Package pool loads delimited training-data files ("pools") into typed
// in-memory datasets.
//
// A pool is a plain-text file with one training example per line and a
// configurable single-character field delimiter. What each column means is
// declared by an optional column description sidecar file; without one, the
// first column is the label and every other column is a numeric feature.
//
// Loading is pipelined: while one block of lines is being parsed, the next
// block is read in the background. Parsed rows stream into a Builder, which
// owns the resulting storage; MemoryBuilder materializes a Pool. An optional
// pairs file adds pairwise preference relations for ranking objectives.
//
// Malformed data rows abort the whole load with a diagnostic carrying the
// absolute row and column position. The pairs file is deliberately more
// lenient; see ReadPairs.
package pool
