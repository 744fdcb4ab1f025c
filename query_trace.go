package arbor

import (
	"fmt"
	"sort"
)

// Queries is the read-only query engine over a ProjectIndex's graphs. Query
// methods trigger graph rebuilds lazily and never mutate shared state, so
// any number may run concurrently against one snapshot.
type Queries struct {
	idx *ProjectIndex
}

// Direction selects which edges a trace follows.
type Direction string

const (
	// DirectionForward follows outgoing edges: what does the symbol call.
	DirectionForward Direction = "forward"
	// DirectionBackward follows incoming edges: who calls the symbol.
	DirectionBackward Direction = "backward"
)

// TraceEntry is one node reached by a trace, with its BFS depth from the
// start symbol.
type TraceEntry struct {
	Node  *GraphNode
	Depth int
}

// Trace walks the call graph from the named symbol, forward over callees or
// backward over callers, visiting each node at most once. Only nodes with
// 0 < depth ≤ maxDepth are returned, sorted by depth then name. The start
// node resolves by exact name, exact name path, or ID suffix, first match in
// sorted ID order.
func (q *Queries) Trace(name string, dir Direction, maxDepth int) ([]TraceEntry, error) {
	if dir != DirectionForward && dir != DirectionBackward {
		return nil, fmt.Errorf("trace: unknown direction %q", dir)
	}
	g, err := q.idx.BuildCallGraph()
	if err != nil {
		return nil, err
	}
	start := g.resolveNode(name)
	if start == nil {
		return nil, &SymbolNotFoundError{Name: name}
	}

	edges := g.Outgoing
	if dir == DirectionBackward {
		edges = g.Incoming
	}

	visited := map[NodeID]int{start.ID: 0}
	type bfsEntry struct {
		id    NodeID
		depth int
	}
	queue := []bfsEntry{{id: start.ID, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		for _, e := range edges[cur.id] {
			next := e.To
			if dir == DirectionBackward {
				next = e.From
			}
			if _, seen := visited[next]; !seen {
				visited[next] = cur.depth + 1
				queue = append(queue, bfsEntry{id: next, depth: cur.depth + 1})
			}
		}
	}

	var out []TraceEntry
	for id, depth := range visited {
		if depth > 0 {
			out = append(out, TraceEntry{Node: g.Nodes[id], Depth: depth})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Depth != out[j].Depth {
			return out[i].Depth < out[j].Depth
		}
		return out[i].Node.Name < out[j].Node.Name
	})
	return out, nil
}
