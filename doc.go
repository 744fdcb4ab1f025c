// Package arbor indexes a source tree into a queryable graph of code symbols
// and their call and import relationships. It answers structural questions
// over that graph: who calls X, what does X call, is there a path from A to
// B, what code is unreachable from any entry point, and which files import
// each other in a cycle.
//
// # Pipeline
//
// Arbor operates in two phases:
//
//  1. Index: callers feed a [ProjectIndex] one file at a time with the file's
//     symbol tree (produced by a parser such as internal/parser), its raw
//     source text, and its import list. Indexing a file invalidates both
//     derived graphs.
//
//  2. Query: the first query after an invalidation triggers a full rebuild of
//     the call graph and/or the dependency graph. Rebuilds produce complete
//     new graph values that are swapped in atomically; queries never observe
//     a partially built graph.
//
// # Usage
//
// Create a ProjectIndex, feed it files, and query:
//
//	idx := arbor.NewProjectIndex()
//	idx.Index("src/a.ts", tree, source, imports)
//
//	q := idx.Queries()
//	entries, err := q.Trace("entryPoint", arbor.DirectionForward, 5)
//
// # Query API
//
// The [Queries] value returned by [ProjectIndex.Queries] provides:
//
//   - [Queries.Trace] — transitive callers or callees of a symbol, by depth.
//   - [Queries.FindPaths] — all simple call paths between two symbols.
//   - [Queries.FindDeadCode] — functions unreachable from any entry point.
//   - [Queries.FindReferences] — textual, word-bounded identifier references.
//   - [Queries.ImportReport] — file dependency fan-in/fan-out and cycles.
//
// # Heuristic call resolution
//
// Call edges come from syntactic call-site scanning, not type inference.
// Each edge carries a confidence score reflecting how certain the match is:
// bare calls resolve at 0.90, this-method calls at 0.85, and calls through
// an arbitrary receiver at 0.70 (method-name-only resolution). When several
// files define a same-named symbol, resolution picks the first match in
// sorted file order. These limits are by construction; arbor never attempts
// semantic disambiguation.
package arbor
