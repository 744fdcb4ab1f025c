package arbor

import (
	"fmt"
	"path"
	"sort"
	"strings"
)

// DeadCodeOptions filters dead code detection. FilePattern restricts which
// files are reported (not what counts as reachable): a substring match, or a
// glob when it contains wildcard characters. IncludePrivate also reports
// symbols whose names start with "_" or "#".
type DeadCodeOptions struct {
	FilePattern    string
	IncludePrivate bool
}

// DeadSymbol is one function or method unreachable from every entry point,
// with a human-readable reason.
type DeadSymbol struct {
	Node   *GraphNode
	Reason string
}

// FindDeadCode reports functions and methods not reachable from any entry
// point. Entry points are exported nodes and all classes: instantiation and
// external use are invisible to static call-site scanning, so both are
// assumed live. Reachability runs forward over the full, unfiltered graph —
// the file pattern only limits what is reported, so code in excluded files
// still legitimately keeps other code alive. Test files are never reported.
// Results sort by file then line.
func (q *Queries) FindDeadCode(opts DeadCodeOptions) ([]DeadSymbol, error) {
	g, err := q.idx.BuildCallGraph()
	if err != nil {
		return nil, err
	}

	// Forward BFS from every entry point over the full graph.
	reachable := make(map[NodeID]bool)
	var queue []NodeID
	for _, id := range g.SortedIDs() {
		n := g.Nodes[id]
		if n.Exported || n.Kind == KindClass {
			reachable[id] = true
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.Outgoing[cur] {
			if !reachable[e.To] {
				reachable[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}

	var out []DeadSymbol
	for _, id := range g.SortedIDs() {
		n := g.Nodes[id]
		if n.Kind != KindFunction && n.Kind != KindMethod {
			continue
		}
		if reachable[id] {
			continue
		}
		if isTestFile(n.File) {
			continue
		}
		if !matchFilePattern(opts.FilePattern, n.File) {
			continue
		}
		if !opts.IncludePrivate && isPrivateName(n.Name) {
			continue
		}
		out = append(out, DeadSymbol{Node: n, Reason: deadReason(g, n, reachable)})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Node.File != out[j].Node.File {
			return out[i].Node.File < out[j].Node.File
		}
		return out[i].Node.Line < out[j].Node.Line
	})
	return out, nil
}

// deadReason classifies why an unreachable node is dead. A node here has no
// reachable caller by construction, so nonzero incoming edges all come from
// other dead code.
func deadReason(g *CallGraph, n *GraphNode, reachable map[NodeID]bool) string {
	incoming := g.Incoming[n.ID]
	if len(incoming) == 0 {
		if n.Exported {
			return "Exported but never imported or called"
		}
		return "Never called from anywhere"
	}

	callers := make([]string, 0, len(incoming))
	for _, e := range incoming {
		if caller, ok := g.Nodes[e.From]; ok && !reachable[e.From] {
			callers = append(callers, caller.Name)
		}
	}
	sort.Strings(callers)
	extra := 0
	if len(callers) > 3 {
		extra = len(callers) - 3
		callers = callers[:3]
	}
	reason := "Only called by other dead code: " + strings.Join(callers, ", ")
	if extra > 0 {
		reason += fmt.Sprintf(", and %d more", extra)
	}
	return reason
}

// isTestFile reports whether a path follows test or spec naming conventions.
func isTestFile(file string) bool {
	base := path.Base(file)
	return strings.Contains(base, ".test.") ||
		strings.Contains(base, ".spec.") ||
		strings.Contains(file, "__tests__")
}

// isPrivateName reports private-by-convention names: a leading underscore or
// a TypeScript private field "#".
func isPrivateName(name string) bool {
	return strings.HasPrefix(name, "_") || strings.HasPrefix(name, "#")
}

// matchFilePattern matches a file path against the dead-code file filter.
// An empty pattern matches everything; a pattern with glob metacharacters
// matches via path.Match against the full path or its base; anything else
// is a substring match.
func matchFilePattern(pattern, file string) bool {
	if pattern == "" {
		return true
	}
	if strings.ContainsAny(pattern, "*?[") {
		if ok, _ := path.Match(pattern, file); ok {
			return true
		}
		ok, _ := path.Match(pattern, path.Base(file))
		return ok
	}
	return strings.Contains(file, pattern)
}
