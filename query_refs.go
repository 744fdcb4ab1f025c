package arbor

import (
	"regexp"
	"sort"
	"strings"
)

// Reference is one textual occurrence of an identifier. Columns are 1-based.
// IsDefinition marks occurrences on the starting line of a same-named
// symbol's span. The scan is textual, not scope-aware: same-named but
// unrelated bindings are indistinguishable.
type Reference struct {
	File         string
	Line         int
	Column       int
	Context      string
	IsDefinition bool
}

// FindReferences scans every indexed file line by line for word-bounded
// occurrences of the identifier. Definitions sort first, then file and line.
func (q *Queries) FindReferences(name string) ([]Reference, error) {
	if q.idx.IsEmpty() {
		return nil, ErrNotIndexed
	}
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\b`)
	if err != nil {
		return nil, err
	}

	sources := q.idx.snapshotSources()
	trees := q.idx.snapshotTrees()

	files := make([]string, 0, len(sources))
	for f := range sources {
		files = append(files, f)
	}
	sort.Strings(files)

	var out []Reference
	for _, file := range files {
		defLines := definitionLines(trees[file], name)
		for i, lineText := range strings.Split(sources[file], "\n") {
			line := i + 1
			for _, loc := range re.FindAllStringIndex(lineText, -1) {
				out = append(out, Reference{
					File:         file,
					Line:         line,
					Column:       loc[0] + 1,
					Context:      strings.TrimSpace(lineText),
					IsDefinition: defLines[line],
				})
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDefinition != out[j].IsDefinition {
			return out[i].IsDefinition
		}
		if out[i].File != out[j].File {
			return out[i].File < out[j].File
		}
		return out[i].Line < out[j].Line
	})
	return out, nil
}

// definitionLines returns the set of lines on which a symbol with the exact
// name is defined: the span must cover the line and start on it.
func definitionLines(tree *SymbolTree, name string) map[int]bool {
	lines := make(map[int]bool)
	if tree == nil {
		return lines
	}
	for _, fs := range tree.flatten() {
		if fs.sym.Name == name && fs.sym.Span.EndLine >= fs.sym.Span.StartLine {
			lines[fs.sym.Span.StartLine] = true
		}
	}
	return lines
}
