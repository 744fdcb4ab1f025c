package arbor

// SymbolKind classifies a parsed symbol. Only KindFunction, KindMethod, and
// KindClass become call graph nodes; the remaining kinds exist so parsers can
// report a complete file outline.
type SymbolKind string

const (
	KindFunction  SymbolKind = "function"
	KindMethod    SymbolKind = "method"
	KindClass     SymbolKind = "class"
	KindInterface SymbolKind = "interface"
	KindVariable  SymbolKind = "variable"
	KindConstant  SymbolKind = "constant"
	KindProperty  SymbolKind = "property"
	KindEnum      SymbolKind = "enum"
	KindType      SymbolKind = "type"
)

// Span is a half-open source range. Lines are 1-based, columns and byte
// offsets 0-based.
type Span struct {
	StartLine   int
	StartCol    int
	StartOffset int
	EndLine     int
	EndCol      int
	EndOffset   int
}

// Symbol is a named, located code construct. A file's symbols form a tree:
// each Symbol is owned exclusively by its parent (or by the file's root
// list), never shared.
type Symbol struct {
	Name     string
	Kind     SymbolKind
	Span     Span
	Children []*Symbol
	Doc      string
}

// SymbolTree is the ordered forest of symbols for one file.
type SymbolTree struct {
	Symbols []*Symbol
}

// ImportInfo describes one import statement in a file, as reported by the
// parser.
type ImportInfo struct {
	Source     string // specifier text, e.g. "./util" or "react"
	Line       int
	IsTypeOnly bool
}

// flatSymbol pairs a symbol with its slash-joined name path within the file,
// e.g. "MyClass/myMethod". Name paths are unique only together with a file
// path.
type flatSymbol struct {
	sym      *Symbol
	namePath string
}

// flatten walks the tree in document order and returns every symbol paired
// with its name path.
func (t *SymbolTree) flatten() []flatSymbol {
	if t == nil {
		return nil
	}
	var out []flatSymbol
	var walk func(syms []*Symbol, prefix string)
	walk = func(syms []*Symbol, prefix string) {
		for _, s := range syms {
			np := s.Name
			if prefix != "" {
				np = prefix + "/" + s.Name
			}
			out = append(out, flatSymbol{sym: s, namePath: np})
			walk(s.Children, np)
		}
	}
	walk(t.Symbols, "")
	return out
}
