package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/arbor"
)

// Result is the parse output for one file.
type Result struct {
	Language string
	Tree     *arbor.SymbolTree
	Imports  []arbor.ImportInfo
}

// Parse extracts a symbol tree and import list from source text. The
// language is detected from the file extension.
func Parse(ctx context.Context, content []byte, filePath string) (*Result, error) {
	lang, ok := LanguageForFile(filePath)
	if !ok {
		return nil, fmt.Errorf("parse %s: unsupported file extension", filePath)
	}
	grammar, ok := grammarForLanguage(lang)
	if !ok {
		return nil, fmt.Errorf("parse %s: no grammar for language %s", filePath, lang)
	}

	p := sitter.NewParser()
	p.SetLanguage(grammar)
	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filePath, err)
	}
	defer tree.Close()

	res := &Result{Language: lang, Tree: &arbor.SymbolTree{}}
	root := tree.RootNode()
	for i := 0; i < int(root.NamedChildCount()); i++ {
		walkTopLevel(root.NamedChild(i), content, res)
	}
	return res, nil
}

// walkTopLevel dispatches one top-level statement node.
func walkTopLevel(node *sitter.Node, content []byte, res *Result) {
	switch node.Type() {
	case "import_statement":
		if imp, ok := extractImport(node, content); ok {
			res.Imports = append(res.Imports, imp)
		}
	case "export_statement":
		// Re-exports ("export { x } from './y'") pull in the source module
		// like an import does.
		if node.ChildByFieldName("source") != nil {
			if imp, ok := extractImport(node, content); ok {
				res.Imports = append(res.Imports, imp)
			}
		}
		if decl := node.ChildByFieldName("declaration"); decl != nil {
			walkTopLevel(decl, content, res)
			return
		}
		// "export default <expr>" has a value child rather than a declaration.
		for i := 0; i < int(node.NamedChildCount()); i++ {
			child := node.NamedChild(i)
			if isDeclarationType(child.Type()) {
				walkTopLevel(child, content, res)
			}
		}
	default:
		if sym := extractDeclaration(node, content); sym != nil {
			res.Tree.Symbols = append(res.Tree.Symbols, sym)
		}
	}
}

func isDeclarationType(t string) bool {
	switch t {
	case "function_declaration", "generator_function_declaration",
		"class_declaration", "abstract_class_declaration",
		"interface_declaration", "lexical_declaration",
		"variable_declaration", "enum_declaration",
		"type_alias_declaration":
		return true
	}
	return false
}

// extractDeclaration converts a declaration node into a Symbol, or nil for
// node types that do not declare a named symbol.
func extractDeclaration(node *sitter.Node, content []byte) *arbor.Symbol {
	switch node.Type() {
	case "function_declaration", "generator_function_declaration":
		return namedSymbol(node, content, arbor.KindFunction)
	case "class_declaration", "abstract_class_declaration":
		return extractClass(node, content)
	case "interface_declaration":
		return namedSymbol(node, content, arbor.KindInterface)
	case "enum_declaration":
		return namedSymbol(node, content, arbor.KindEnum)
	case "type_alias_declaration":
		return namedSymbol(node, content, arbor.KindType)
	case "lexical_declaration", "variable_declaration":
		return extractVariables(node, content)
	}
	return nil
}

// namedSymbol builds a leaf symbol from a node with a "name" field.
func namedSymbol(node *sitter.Node, content []byte, kind arbor.SymbolKind) *arbor.Symbol {
	name := node.ChildByFieldName("name")
	if name == nil {
		return nil
	}
	return &arbor.Symbol{
		Name: name.Content(content),
		Kind: kind,
		Span: spanOf(node),
		Doc:  docComment(node, content),
	}
}

// docComment returns the text of a comment node immediately preceding the
// declaration, if any.
func docComment(node *sitter.Node, content []byte) string {
	prev := node.PrevNamedSibling()
	if prev == nil && node.Parent() != nil && node.Parent().Type() == "export_statement" {
		prev = node.Parent().PrevNamedSibling()
	}
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	// Only attach when the comment ends on the line directly above.
	if int(node.StartPoint().Row)-int(prev.EndPoint().Row) > 1 {
		return ""
	}
	return prev.Content(content)
}

// extractClass builds a class symbol with its methods and fields as
// children.
func extractClass(node *sitter.Node, content []byte) *arbor.Symbol {
	sym := namedSymbol(node, content, arbor.KindClass)
	if sym == nil {
		return nil
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return sym
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		switch member.Type() {
		case "method_definition":
			if m := namedSymbol(member, content, arbor.KindMethod); m != nil {
				sym.Children = append(sym.Children, m)
			}
		case "public_field_definition":
			name := member.ChildByFieldName("name")
			if name == nil {
				continue
			}
			kind := arbor.KindProperty
			// Arrow-function fields behave like methods for call analysis.
			if v := member.ChildByFieldName("value"); v != nil && isFunctionValue(v.Type()) {
				kind = arbor.KindMethod
			}
			sym.Children = append(sym.Children, &arbor.Symbol{
				Name: name.Content(content),
				Kind: kind,
				Span: spanOf(member),
			})
		}
	}
	return sym
}

// extractVariables flattens a declaration statement's declarators. A single
// declarator yields one symbol; multiple declarators become siblings under
// the first (rare enough that the first wins the statement's span).
func extractVariables(node *sitter.Node, content []byte) *arbor.Symbol {
	isConst := strings.HasPrefix(node.Content(content), "const")

	var first *arbor.Symbol
	for i := 0; i < int(node.NamedChildCount()); i++ {
		decl := node.NamedChild(i)
		if decl.Type() != "variable_declarator" {
			continue
		}
		name := decl.ChildByFieldName("name")
		if name == nil || name.Type() != "identifier" {
			continue // destructuring patterns are not addressable symbols
		}
		kind := arbor.KindVariable
		if isConst {
			kind = arbor.KindConstant
		}
		// A function-valued binding is a function symbol: call sites name
		// the binding, and the call graph needs a node for it.
		if v := decl.ChildByFieldName("value"); v != nil && isFunctionValue(v.Type()) {
			kind = arbor.KindFunction
		}
		sym := &arbor.Symbol{
			Name: name.Content(content),
			Kind: kind,
			Span: spanOf(node),
		}
		if first == nil {
			first = sym
		} else {
			first.Children = append(first.Children, sym)
		}
	}
	return first
}

func isFunctionValue(t string) bool {
	return t == "arrow_function" || t == "function_expression" || t == "function" ||
		t == "generator_function"
}

// extractImport converts an import or re-export statement with a source into
// an ImportInfo.
func extractImport(node *sitter.Node, content []byte) (arbor.ImportInfo, bool) {
	source := node.ChildByFieldName("source")
	if source == nil {
		return arbor.ImportInfo{}, false
	}
	spec := strings.Trim(source.Content(content), `"'`)
	text := node.Content(content)
	return arbor.ImportInfo{
		Source:     spec,
		Line:       int(node.StartPoint().Row) + 1,
		IsTypeOnly: strings.HasPrefix(text, "import type") || strings.HasPrefix(text, "export type"),
	}, true
}

// spanOf converts a node's range to an arbor.Span (1-based lines, 0-based
// columns and offsets).
func spanOf(node *sitter.Node) arbor.Span {
	return arbor.Span{
		StartLine:   int(node.StartPoint().Row) + 1,
		StartCol:    int(node.StartPoint().Column),
		StartOffset: int(node.StartByte()),
		EndLine:     int(node.EndPoint().Row) + 1,
		EndCol:      int(node.EndPoint().Column),
		EndOffset:   int(node.EndByte()),
	}
}
