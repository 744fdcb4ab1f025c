// Package parser turns TypeScript and JavaScript source text into the
// symbol trees and import lists the arbor index consumes. It is adapter glue
// over tree-sitter: deterministic, side-effect free, and safe for concurrent
// use (each Parse call creates its own tree-sitter parser).
package parser

import (
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// extToLanguage maps file extensions to canonical language names.
var extToLanguage = map[string]string{
	".ts":  "typescript",
	".mts": "typescript",
	".tsx": "tsx",
	".js":  "javascript",
	".jsx": "javascript",
	".mjs": "javascript",
}

// LanguageForFile returns the canonical language name for a file path based
// on its extension. Returns ("", false) for unsupported extensions.
func LanguageForFile(path string) (string, bool) {
	lang, ok := extToLanguage[strings.ToLower(filepath.Ext(path))]
	return lang, ok
}

// grammarForLanguage returns the tree-sitter grammar for a canonical
// language name.
func grammarForLanguage(lang string) (*sitter.Language, bool) {
	switch lang {
	case "typescript":
		return typescript.GetLanguage(), true
	case "tsx":
		return tsx.GetLanguage(), true
	case "javascript":
		return javascript.GetLanguage(), true
	}
	return nil, false
}
