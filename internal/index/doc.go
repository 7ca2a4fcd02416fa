// Package index implements the length-partitioned word index that
// backs candidate generation and solvability checks.
//
// Words are partitioned by length into per-length stores. Each store
// keeps three views of the same word list:
//
//   - entries: a slice sorted by descending letter score, scanned by
//     HasSolution and used wherever ranked iteration matters
//   - wordSet: a map for O(1) membership and frequency-score lookup
//   - trie: a prefix tree answering wildcard queries (Solutions)
//
// plus a bounded LRU memo of partial-word solvability results.
//
// KNOWN FLAW (preserved): the partial-word memo is keyed on the
// partial word alone, not on the score minimum in effect when the
// answer was computed. The search loop flushes all memos between
// iterations to compensate; FlushCaches exists for exactly that call.
//
// Loading may run deferred on its own goroutine under the index writer
// lock. Reads that need a complete index call WaitForLoad first.
package index
