package arbor

import (
	"testing"
)

// sym builds a symbol spanning [startLine, endLine] with optional children.
func sym(name string, kind SymbolKind, startLine, endLine int, children ...*Symbol) *Symbol {
	return &Symbol{
		Name:     name,
		Kind:     kind,
		Span:     Span{StartLine: startLine, EndLine: endLine},
		Children: children,
	}
}

func tree(syms ...*Symbol) *SymbolTree {
	return &SymbolTree{Symbols: syms}
}

// newTestIndex creates an index with a single scan worker so builds are
// easy to reason about in tests.
func newTestIndex(t *testing.T) *ProjectIndex {
	t.Helper()
	return NewProjectIndex(WithWorkers(1))
}

// mustBuild builds the call graph and fails the test on error.
func mustBuild(t *testing.T, idx *ProjectIndex) *CallGraph {
	t.Helper()
	g, err := idx.BuildCallGraph()
	if err != nil {
		t.Fatalf("BuildCallGraph: %s", err)
	}
	return g
}

// edgeBetween returns the edge from → to, or nil.
func edgeBetween(g *CallGraph, from, to NodeID) *CallEdge {
	for _, e := range g.Outgoing[from] {
		if e.To == to {
			return e
		}
	}
	return nil
}
