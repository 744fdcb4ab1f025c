package arbor

import (
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Call-site confidence scores by syntactic shape. A this-call names a method
// on the enclosing class; a receiver call resolves by method name only; a
// bare call is the most certain shape.
const (
	confidenceThisCall = 0.85
	confidenceRecvCall = 0.70
	confidenceBareCall = 0.90
)

// reservedTokens are control-flow and declaration keywords that look like
// call sites when followed by "(".
var reservedTokens = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"try": true, "function": true, "return": true, "new": true, "typeof": true,
	"instanceof": true, "async": true, "await": true, "import": true,
	"export": true, "const": true, "let": true, "var": true, "class": true,
	"else": true, "do": true, "delete": true, "void": true, "in": true,
	"of": true, "yield": true, "throw": true, "super": true, "this": true,
}

// callSiteRe matches an identifier immediately followed by an opening paren.
// The receiver (if any) is recovered by inspecting the text before the match.
var callSiteRe = regexp.MustCompile(`([A-Za-z_$][A-Za-z0-9_$]*)\s*\(`)

// exportDeclPatterns capture names introduced by export-prefixed declarations.
var exportDeclPatterns = []*regexp.Regexp{
	regexp.MustCompile(`export\s+(?:default\s+)?(?:async\s+)?function\s*\*?\s*([A-Za-z_$][A-Za-z0-9_$]*)`),
	regexp.MustCompile(`export\s+(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
	regexp.MustCompile(`export\s+(?:const|let|var)\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
	regexp.MustCompile(`export\s+(?:interface|enum|type)\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
	regexp.MustCompile(`export\s+default\s+([A-Za-z_$][A-Za-z0-9_$]*)`),
}

// exportListRe captures "export { a, b as c }" lists.
var exportListRe = regexp.MustCompile(`export\s*\{([^}]*)\}`)

// callCandidate is an unresolved call site found inside a symbol's body.
type callCandidate struct {
	from       NodeID
	callee     string
	line       int
	confidence float64
}

// fileScan is the per-file output of the parallel scan phase: nodes in
// document order plus raw call candidates. Scanning touches only one file's
// data, so files fan out across a worker pool; resolution is serial.
type fileScan struct {
	file       string
	nodes      []*GraphNode
	candidates []callCandidate
}

// buildInput is one indexed file handed to the call graph builder.
type buildInput struct {
	file   string
	tree   *SymbolTree
	source string
}

// buildCallGraph constructs a fresh CallGraph from the given files. Inputs
// must be sorted by file path; the order fixes every tie-break in the build.
func buildCallGraph(inputs []buildInput, workers int) *CallGraph {
	if workers < 1 {
		workers = 1
	}
	if workers > len(inputs) && len(inputs) > 0 {
		workers = len(inputs)
	}

	// Parallel scan phase. Results land in a slice indexed by input
	// position, so output order is independent of goroutine scheduling.
	scans := make([]fileScan, len(inputs))
	workCh := make(chan int, len(inputs))
	for i := range inputs {
		workCh <- i
	}
	close(workCh)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range workCh {
				scans[i] = scanFile(inputs[i])
			}
		}()
	}
	wg.Wait()

	// Serial reduction: assemble the node table, then resolve candidates.
	g := &CallGraph{
		Nodes:    make(map[NodeID]*GraphNode),
		Outgoing: make(map[NodeID][]*CallEdge),
		Incoming: make(map[NodeID][]*CallEdge),
	}
	nodesByFile := make(map[string][]*GraphNode, len(scans))
	fileOrder := make([]string, 0, len(scans))
	for _, s := range scans {
		fileOrder = append(fileOrder, s.file)
		nodesByFile[s.file] = s.nodes
		for _, n := range s.nodes {
			g.Nodes[n.ID] = n
		}
	}

	type edgeKey struct{ from, to NodeID }
	seen := make(map[edgeKey]bool)
	for _, s := range scans {
		for _, c := range s.candidates {
			target := resolveCallee(c.callee, s.file, nodesByFile, fileOrder)
			if target == nil {
				continue // unresolved candidates never become edges
			}
			if target.ID == c.from {
				continue // self-loop
			}
			k := edgeKey{from: c.from, to: target.ID}
			if seen[k] {
				continue // first call site wins
			}
			seen[k] = true
			e := &CallEdge{From: c.from, To: target.ID, Line: c.line, Confidence: c.confidence}
			g.Outgoing[c.from] = append(g.Outgoing[c.from], e)
			g.Incoming[target.ID] = append(g.Incoming[target.ID], e)
		}
	}

	g.finalize()
	return g
}

// scanFile flattens one file's symbol tree into graph nodes and extracts raw
// call candidates from the source text. A file with no tree or no source
// contributes nothing; it never fails the build.
func scanFile(in buildInput) fileScan {
	out := fileScan{file: in.file}
	if in.tree == nil {
		return out
	}

	exports := exportedNames(in.source)
	lines := strings.Split(in.source, "\n")

	for _, fs := range in.tree.flatten() {
		switch fs.sym.Kind {
		case KindFunction, KindMethod, KindClass:
		default:
			continue
		}
		node := &GraphNode{
			ID:       MakeNodeID(in.file, fs.namePath),
			Name:     fs.sym.Name,
			NamePath: fs.namePath,
			Kind:     fs.sym.Kind,
			File:     in.file,
			Line:     fs.sym.Span.StartLine,
			Exported: exports[fs.sym.Name] || exports[fs.namePath],
		}
		out.nodes = append(out.nodes, node)

		if fs.sym.Kind == KindClass {
			continue // edges are extracted per function/method body only
		}
		body := sliceLines(lines, fs.sym.Span.StartLine, fs.sym.Span.EndLine)
		out.candidates = append(out.candidates,
			scanCallSites(body, fs.sym.Span.StartLine, node)...)
	}
	return out
}

// scanCallSites finds call-shaped positions in a symbol's body and classifies
// them by syntax. A position classified as a method call is consumed by that
// classification; the bare-call rule never re-matches the same offset.
func scanCallSites(body string, startLine int, from *GraphNode) []callCandidate {
	var out []callCandidate
	for _, m := range callSiteRe.FindAllStringSubmatchIndex(body, -1) {
		nameStart, nameEnd := m[2], m[3]
		name := body[nameStart:nameEnd]

		if nameStart > 0 && isIdentChar(body[nameStart-1]) {
			continue // mid-identifier artifact
		}

		line := startLine + strings.Count(body[:nameStart], "\n")

		if nameStart > 0 && body[nameStart-1] == '.' {
			recv := receiverBefore(body, nameStart-1)
			if recv == "this" {
				// A this-call naming the enclosing symbol is recursive
				// self-reference, not a cross-symbol edge.
				if name == from.Name {
					continue
				}
				out = append(out, callCandidate{from: from.ID, callee: name, line: line, confidence: confidenceThisCall})
			} else {
				out = append(out, callCandidate{from: from.ID, callee: name, line: line, confidence: confidenceRecvCall})
			}
			continue
		}

		if reservedTokens[name] {
			continue
		}
		out = append(out, callCandidate{from: from.ID, callee: name, line: line, confidence: confidenceBareCall})
	}
	return out
}

// resolveCallee maps a candidate name to a graph node. Same-file nodes match
// first, either by exact name or by a name path ending in the candidate
// (class-nested matches). Otherwise the whole project is scanned in sorted
// file order and the first exact name match wins. No match means no edge.
func resolveCallee(callee, file string, nodesByFile map[string][]*GraphNode, fileOrder []string) *GraphNode {
	suffix := "/" + callee
	for _, n := range nodesByFile[file] {
		if n.Name == callee || strings.HasSuffix(n.NamePath, suffix) {
			return n
		}
	}
	for _, f := range fileOrder {
		if f == file {
			continue
		}
		for _, n := range nodesByFile[f] {
			if n.Name == callee {
				return n
			}
		}
	}
	return nil
}

// exportedNames scans raw source for export-introducing patterns and returns
// the set of exported names.
func exportedNames(source string) map[string]bool {
	names := make(map[string]bool)
	for _, re := range exportDeclPatterns {
		for _, m := range re.FindAllStringSubmatch(source, -1) {
			names[m[1]] = true
		}
	}
	for _, m := range exportListRe.FindAllStringSubmatch(source, -1) {
		for _, entry := range strings.Split(m[1], ",") {
			entry = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(entry), "type "))
			if entry == "" {
				continue
			}
			// "a as b" exports b; plain "a" exports a.
			if fields := strings.Fields(entry); len(fields) == 3 && fields[1] == "as" {
				names[fields[2]] = true
			} else {
				names[fields[0]] = true
			}
		}
	}
	return names
}

// receiverBefore walks backwards from the dot at dotIdx and returns the
// receiver identifier, or "" when the dot follows a non-identifier (for
// example a closing paren in a chained call).
func receiverBefore(s string, dotIdx int) string {
	end := dotIdx
	start := end
	for start > 0 && isIdentChar(s[start-1]) {
		start--
	}
	return s[start:end]
}

func isIdentChar(c byte) bool {
	return c == '_' || c == '$' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// sliceLines returns lines [start, end] (1-based, inclusive) joined by "\n".
func sliceLines(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}

// sortInputs orders build inputs by file path. All "first in indexing order"
// tie-breaks in the build refer to this order.
func sortInputs(inputs []buildInput) {
	sort.Slice(inputs, func(i, j int) bool { return inputs[i].file < inputs[j].file })
}
