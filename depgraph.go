package arbor

import (
	"path"
	"sort"
	"strings"
)

// resolveExtensions is the extension search order for extensionless relative
// specifiers, tried first as direct suffixes and then as "/index" variants.
var resolveExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mts", ".mjs"}

// DependencyGraph is the file-level import graph derived from per-file
// import lists. Only imports that resolve to indexed files appear; bare
// specifiers (no leading ".") are external and excluded.
type DependencyGraph struct {
	Deps       map[string]map[string]bool // file -> files it imports
	Dependents map[string]map[string]bool // file -> files importing it
	Imports    map[string][]ImportInfo    // file -> raw import statements
}

// Cycle is one circular import chain. Files lists the cycle path with the
// first file repeated at the end. ClosingImport is the best-effort specifier
// text of the import that closes the cycle; it may be empty when no import
// in the closing file mentions the target's filename stem.
type Cycle struct {
	Files         []string
	ClosingImport string
	ClosingLine   int
}

// FileDegree pairs a file with an edge count for fan-in/fan-out rankings.
type FileDegree struct {
	File  string
	Count int
}

// DependencyReport summarizes the dependency graph: totals, the ten files
// with the most outgoing and incoming dependencies, and all import cycles.
type DependencyReport struct {
	TotalFiles       int
	TotalImports     int
	MostDependencies []FileDegree
	MostDepended     []FileDegree
	Cycles           []Cycle
	HasCircular      bool
}

// buildDependencyGraph constructs a fresh file-level import graph. A
// specifier that fails to resolve contributes no edge; the build never fails.
func buildDependencyGraph(files map[string][]ImportInfo, indexed map[string]bool) *DependencyGraph {
	g := &DependencyGraph{
		Deps:       make(map[string]map[string]bool),
		Dependents: make(map[string]map[string]bool),
		Imports:    make(map[string][]ImportInfo),
	}
	for file, imports := range files {
		g.Imports[file] = imports
		for _, imp := range imports {
			resolved, ok := resolveSpecifier(file, imp.Source, indexed)
			if !ok {
				continue
			}
			if g.Deps[file] == nil {
				g.Deps[file] = make(map[string]bool)
			}
			g.Deps[file][resolved] = true
			if g.Dependents[resolved] == nil {
				g.Dependents[resolved] = make(map[string]bool)
			}
			g.Dependents[resolved][file] = true
		}
	}
	return g
}

// resolveSpecifier resolves a relative import specifier against the set of
// indexed files. Non-relative specifiers are external. Extensionless
// specifiers try each known extension, then "/index" variants; a ".js"
// specifier additionally tries the sibling ".ts" path (compiled-output
// imports referring back to source).
func resolveSpecifier(fromFile, spec string, indexed map[string]bool) (string, bool) {
	if !strings.HasPrefix(spec, ".") {
		return "", false
	}
	base := path.Join(path.Dir(fromFile), spec)

	if ext := path.Ext(base); ext != "" {
		if indexed[base] {
			return base, true
		}
		if ext == ".js" {
			if ts := strings.TrimSuffix(base, ".js") + ".ts"; indexed[ts] {
				return ts, true
			}
		}
		return "", false
	}
	for _, ext := range resolveExtensions {
		if cand := base + ext; indexed[cand] {
			return cand, true
		}
	}
	for _, ext := range resolveExtensions {
		if cand := base + "/index" + ext; indexed[cand] {
			return cand, true
		}
	}
	return "", false
}

// findCycles detects circular dependencies with a DFS over Deps, keeping an
// explicit recursion stack so each cycle is reported as a concrete path.
// Files are visited in sorted order, making the cycle list deterministic.
func (g *DependencyGraph) findCycles() []Cycle {
	var cycles []Cycle
	state := make(map[string]int) // 0 unvisited, 1 on stack, 2 done
	var stack []string

	files := make([]string, 0, len(g.Imports))
	for f := range g.Imports {
		files = append(files, f)
	}
	sort.Strings(files)

	var visit func(f string)
	visit = func(f string) {
		state[f] = 1
		stack = append(stack, f)

		targets := make([]string, 0, len(g.Deps[f]))
		for t := range g.Deps[f] {
			targets = append(targets, t)
		}
		sort.Strings(targets)

		for _, t := range targets {
			switch state[t] {
			case 0:
				visit(t)
			case 1:
				// t is on the recursion stack: the sub-path from t's first
				// occurrence through f, closed by t again, is a cycle.
				start := 0
				for i, s := range stack {
					if s == t {
						start = i
						break
					}
				}
				cyclePath := append(append([]string{}, stack[start:]...), t)
				spec, line := g.closingImport(f, t)
				cycles = append(cycles, Cycle{Files: cyclePath, ClosingImport: spec, ClosingLine: line})
			}
		}

		stack = stack[:len(stack)-1]
		state[f] = 2
	}

	for _, f := range files {
		if state[f] == 0 {
			visit(f)
		}
	}
	return cycles
}

// closingImport identifies the import statement in fromFile that closes a
// cycle to target: the first import whose specifier mentions the target's
// filename stem. Approximate; multiple candidate imports are not
// disambiguated further.
func (g *DependencyGraph) closingImport(fromFile, target string) (string, int) {
	stem := strings.TrimSuffix(path.Base(target), path.Ext(target))
	for _, imp := range g.Imports[fromFile] {
		if strings.Contains(imp.Source, stem) {
			return imp.Source, imp.Line
		}
	}
	return "", 0
}

// report assembles the dependency summary over the built graph.
func (g *DependencyGraph) report() *DependencyReport {
	r := &DependencyReport{TotalFiles: len(g.Imports)}
	for _, imports := range g.Imports {
		r.TotalImports += len(imports)
	}
	r.MostDependencies = topDegrees(g.Deps, 10)
	r.MostDepended = topDegrees(g.Dependents, 10)
	r.Cycles = g.findCycles()
	r.HasCircular = len(r.Cycles) > 0
	return r
}

// topDegrees ranks files by edge-set size, descending, file path ascending
// on ties, truncated to n. Files with zero edges are omitted.
func topDegrees(m map[string]map[string]bool, n int) []FileDegree {
	out := make([]FileDegree, 0, len(m))
	for f, set := range m {
		if len(set) > 0 {
			out = append(out, FileDegree{File: f, Count: len(set)})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].File < out[j].File
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
