package arbor

import (
	"runtime"
	"sort"
	"sync"
)

// fileRecord is everything the index holds for one file. The symbol tree is
// owned by the record; callers must not mutate it after indexing.
type fileRecord struct {
	tree    *SymbolTree
	source  string
	imports []ImportInfo
}

// ProjectIndex owns the map of file → symbol tree and the graphs derived
// from it. It is the single source of truth: graphs are pure derived views,
// dropped whenever any indexed file changes and rebuilt in full on the next
// query. A rebuild produces a complete new graph that is swapped in
// atomically, so a query racing a rebuild observes either the old complete
// graph or the new one, never a partial build.
type ProjectIndex struct {
	mu    sync.RWMutex
	files map[string]*fileRecord

	// generation increments on every mutation; a finished build is only
	// swapped in if no mutation happened while it ran.
	generation uint64
	callGraph  *CallGraph
	depGraph   *DependencyGraph
	depReport  *DependencyReport

	workers int
}

// Option configures a ProjectIndex.
type Option func(*ProjectIndex)

// WithWorkers bounds the concurrency of the per-file scan phase during call
// graph rebuilds. Defaults to the number of CPUs.
func WithWorkers(n int) Option {
	return func(idx *ProjectIndex) {
		if n > 0 {
			idx.workers = n
		}
	}
}

// NewProjectIndex creates an empty index.
func NewProjectIndex(opts ...Option) *ProjectIndex {
	idx := &ProjectIndex{
		files:   make(map[string]*fileRecord),
		workers: runtime.NumCPU(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Index inserts or replaces a file's symbol tree, raw source, and import
// list, and invalidates both derived graphs.
func (idx *ProjectIndex) Index(file string, tree *SymbolTree, source string, imports []ImportInfo) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.files[file] = &fileRecord{tree: tree, source: source, imports: imports}
	idx.invalidateLocked()
}

// Remove deletes a file from the index and invalidates both derived graphs.
// Removing an unindexed file is a no-op.
func (idx *ProjectIndex) Remove(file string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, ok := idx.files[file]; !ok {
		return
	}
	delete(idx.files, file)
	idx.invalidateLocked()
}

func (idx *ProjectIndex) invalidateLocked() {
	idx.generation++
	idx.callGraph = nil
	idx.depGraph = nil
	idx.depReport = nil
}

// IsEmpty reports whether any files are indexed.
func (idx *ProjectIndex) IsEmpty() bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.files) == 0
}

// Files returns the indexed file paths in sorted order.
func (idx *ProjectIndex) Files() []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	files := make([]string, 0, len(idx.files))
	for f := range idx.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Source returns the raw source text indexed for a file.
func (idx *ProjectIndex) Source(file string) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	rec, ok := idx.files[file]
	if !ok {
		return "", false
	}
	return rec.source, true
}

// Queries returns the query engine bound to this index.
func (idx *ProjectIndex) Queries() *Queries {
	return &Queries{idx: idx}
}

// BuildCallGraph forces a call graph rebuild if the current one is stale and
// returns the resulting graph. Queries call this implicitly.
func (idx *ProjectIndex) BuildCallGraph() (*CallGraph, error) {
	idx.mu.RLock()
	if len(idx.files) == 0 {
		idx.mu.RUnlock()
		return nil, ErrNotIndexed
	}
	if g := idx.callGraph; g != nil {
		idx.mu.RUnlock()
		return g, nil
	}
	gen := idx.generation
	inputs := make([]buildInput, 0, len(idx.files))
	for file, rec := range idx.files {
		inputs = append(inputs, buildInput{file: file, tree: rec.tree, source: rec.source})
	}
	workers := idx.workers
	idx.mu.RUnlock()

	// Build outside the lock; queries against a previous complete graph (if
	// any) proceed meanwhile.
	sortInputs(inputs)
	g := buildCallGraph(inputs, workers)

	idx.mu.Lock()
	if idx.generation == gen {
		idx.callGraph = g
	} else if idx.callGraph != nil {
		// A concurrent build of a newer generation won; use it.
		g = idx.callGraph
	}
	// Otherwise the index mutated mid-build and nothing newer is in place:
	// hand the stale-but-complete graph to this caller without caching it.
	idx.mu.Unlock()
	return g, nil
}

// BuildDependencyGraph forces a dependency graph rebuild if the current one
// is stale and returns the graph and its report.
func (idx *ProjectIndex) BuildDependencyGraph() (*DependencyGraph, *DependencyReport, error) {
	idx.mu.RLock()
	if len(idx.files) == 0 {
		idx.mu.RUnlock()
		return nil, nil, ErrNotIndexed
	}
	if idx.depGraph != nil {
		g, r := idx.depGraph, idx.depReport
		idx.mu.RUnlock()
		return g, r, nil
	}
	gen := idx.generation
	imports := make(map[string][]ImportInfo, len(idx.files))
	indexed := make(map[string]bool, len(idx.files))
	for file, rec := range idx.files {
		imports[file] = rec.imports
		indexed[file] = true
	}
	idx.mu.RUnlock()

	g := buildDependencyGraph(imports, indexed)
	r := g.report()

	idx.mu.Lock()
	if idx.generation == gen {
		idx.depGraph, idx.depReport = g, r
	} else if idx.depGraph != nil {
		g, r = idx.depGraph, idx.depReport
	}
	idx.mu.Unlock()
	return g, r, nil
}

// CallGraphSnapshot returns the currently built call graph without
// triggering a rebuild. Returns ErrNotBuilt when the graph is stale or has
// never been built.
func (idx *ProjectIndex) CallGraphSnapshot() (*CallGraph, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if len(idx.files) == 0 {
		return nil, ErrNotIndexed
	}
	if idx.callGraph == nil {
		return nil, ErrNotBuilt
	}
	return idx.callGraph, nil
}

// DependencyGraphSnapshot returns the currently built dependency graph
// without triggering a rebuild. Returns ErrNotBuilt when stale or unbuilt.
func (idx *ProjectIndex) DependencyGraphSnapshot() (*DependencyGraph, error) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	if len(idx.files) == 0 {
		return nil, ErrNotIndexed
	}
	if idx.depGraph == nil {
		return nil, ErrNotBuilt
	}
	return idx.depGraph, nil
}

// snapshotSources copies file → source for query code that scans raw text.
func (idx *ProjectIndex) snapshotSources() map[string]string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make(map[string]string, len(idx.files))
	for f, rec := range idx.files {
		out[f] = rec.source
	}
	return out
}

// snapshotTrees copies file → symbol tree for query code that needs symbol
// spans outside the call graph's node subset.
func (idx *ProjectIndex) snapshotTrees() map[string]*SymbolTree {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make(map[string]*SymbolTree, len(idx.files))
	for f, rec := range idx.files {
		out[f] = rec.tree
	}
	return out
}
