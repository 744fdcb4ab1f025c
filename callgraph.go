package arbor

import (
	"sort"
	"strings"
)

// NodeID uniquely identifies a call graph node within one build, rendered as
// "file:namePath". IDs are stable for the lifetime of a build but may change
// across rebuilds if file contents change.
type NodeID string

// MakeNodeID renders the (file, namePath) pair as a NodeID.
func MakeNodeID(file, namePath string) NodeID {
	return NodeID(file + ":" + namePath)
}

// GraphNode is a callable or containing symbol exposed in the call graph.
// Only functions, methods, and classes become nodes.
type GraphNode struct {
	ID       NodeID
	Name     string
	NamePath string
	Kind     SymbolKind
	File     string
	Line     int
	Exported bool
}

// CallEdge is a directed caller→callee relationship discovered by call-site
// scanning. Confidence is in [0,1] and reflects how syntactically certain
// the resolution is. At most one edge exists per (From, To) pair per build;
// the first-discovered call site wins.
type CallEdge struct {
	From       NodeID
	To         NodeID
	Line       int
	Confidence float64
}

// CallGraph is the flat node/edge table derived from the project index.
// It is built fully fresh on each rebuild and never mutated by query code.
type CallGraph struct {
	Nodes    map[NodeID]*GraphNode
	Outgoing map[NodeID][]*CallEdge
	Incoming map[NodeID][]*CallEdge

	// sortedIDs caches node IDs in lexicographic order so every "first match
	// in iteration order" rule is deterministic across runs.
	sortedIDs []NodeID
}

// SortedIDs returns all node IDs in lexicographic order.
func (g *CallGraph) SortedIDs() []NodeID {
	return g.sortedIDs
}

// EdgeCount returns the number of edges in the graph.
func (g *CallGraph) EdgeCount() int {
	n := 0
	for _, es := range g.Outgoing {
		n += len(es)
	}
	return n
}

// resolveNode resolves a query name to a node. The name may be a bare symbol
// name, a full name path ("MyClass/myMethod"), or matched as an ID suffix
// (":name"). The first node satisfying any of the three rules in sorted ID
// order wins; ambiguity between same-named symbols is not resolved further.
func (g *CallGraph) resolveNode(name string) *GraphNode {
	suffix := ":" + name
	for _, id := range g.sortedIDs {
		n := g.Nodes[id]
		if n.Name == name || n.NamePath == name || strings.HasSuffix(string(id), suffix) {
			return n
		}
	}
	return nil
}

// finalize populates the sorted ID cache. Called once at the end of a build.
func (g *CallGraph) finalize() {
	g.sortedIDs = make([]NodeID, 0, len(g.Nodes))
	for id := range g.Nodes {
		g.sortedIDs = append(g.sortedIDs, id)
	}
	sort.Slice(g.sortedIDs, func(i, j int) bool { return g.sortedIDs[i] < g.sortedIDs[j] })
}
