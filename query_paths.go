package arbor

import "sort"

// maxPathResults caps path enumeration so dense graphs cannot blow up the
// search.
const maxPathResults = 100

// Path is one simple call path between two symbols. Length counts edges,
// always len(Nodes)-1.
type Path struct {
	Nodes  []NodeID
	Length int
}

// FindPaths enumerates all simple paths (no repeated node within one path)
// from one symbol to another, following forward call edges. A path is
// extended only while it has fewer than maxDepth edges, so every result has
// between 1 and maxDepth edges. Discovery stops after 100 paths. An empty
// result is a success; only unresolvable endpoints are errors.
func (q *Queries) FindPaths(fromName, toName string, maxDepth int) ([]Path, error) {
	g, err := q.idx.BuildCallGraph()
	if err != nil {
		return nil, err
	}
	from := g.resolveNode(fromName)
	if from == nil {
		return nil, &SymbolNotFoundError{Name: fromName, Role: "source"}
	}
	to := g.resolveNode(toName)
	if to == nil {
		return nil, &SymbolNotFoundError{Name: toName, Role: "target"}
	}

	var found []Path
	queue := [][]NodeID{{from.ID}}

	for len(queue) > 0 && len(found) < maxPathResults {
		cur := queue[0]
		queue = queue[1:]
		last := cur[len(cur)-1]

		if last == to.ID && len(cur) > 1 {
			found = append(found, Path{Nodes: cur, Length: len(cur) - 1})
			continue
		}
		if len(cur)-1 >= maxDepth {
			continue
		}
		for _, e := range g.Outgoing[last] {
			if pathContains(cur, e.To) {
				continue // simple paths only
			}
			next := make([]NodeID, len(cur), len(cur)+1)
			copy(next, cur)
			queue = append(queue, append(next, e.To))
		}
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].Length < found[j].Length })
	return found, nil
}

func pathContains(path []NodeID, id NodeID) bool {
	for _, n := range path {
		if n == id {
			return true
		}
	}
	return false
}
