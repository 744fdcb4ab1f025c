package main

import "github.com/jward/arbor"

// CLIResult is the top-level JSON envelope for all query commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLINode is a JSON-friendly call graph node.
type CLINode struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	NamePath string `json:"name_path"`
	Kind     string `json:"kind"`
	File     string `json:"file"`
	Line     int    `json:"line"`
	Exported bool   `json:"exported"`
}

// CLITraceEntry pairs a node with its BFS depth from the start symbol.
type CLITraceEntry struct {
	CLINode
	Depth int `json:"depth"`
}

// CLIPath is a call path between two symbols, listed as node IDs.
type CLIPath struct {
	Nodes  []string `json:"nodes"`
	Length int      `json:"length"`
}

// CLIDeadSymbol is an unreachable symbol with the reason it is dead.
type CLIDeadSymbol struct {
	CLINode
	Reason string `json:"reason"`
}

// CLIReference is a textual occurrence of a symbol name.
type CLIReference struct {
	File         string `json:"file"`
	Line         int    `json:"line"`
	Column       int    `json:"column"`
	Context      string `json:"context"`
	IsDefinition bool   `json:"is_definition"`
}

// CLICycle is a circular import chain.
type CLICycle struct {
	Files         []string `json:"files"`
	ClosingImport string   `json:"closing_import"`
	ClosingLine   int      `json:"closing_line"`
}

// CLIFileDegree names a file together with its import fan count.
type CLIFileDegree struct {
	File  string `json:"file"`
	Count int    `json:"count"`
}

// CLIImportReport summarizes the project dependency graph.
type CLIImportReport struct {
	TotalFiles       int             `json:"total_files"`
	TotalImports     int             `json:"total_imports"`
	MostDependencies []CLIFileDegree `json:"most_dependencies"`
	MostDepended     []CLIFileDegree `json:"most_depended"`
	Cycles           []CLICycle      `json:"cycles"`
	HasCircular      bool            `json:"has_circular"`
}

func nodeToCLI(n *arbor.GraphNode) CLINode {
	return CLINode{
		ID:       string(n.ID),
		Name:     n.Name,
		NamePath: n.NamePath,
		Kind:     string(n.Kind),
		File:     n.File,
		Line:     n.Line,
		Exported: n.Exported,
	}
}

func cycleToCLI(c arbor.Cycle) CLICycle {
	return CLICycle{Files: c.Files, ClosingImport: c.ClosingImport, ClosingLine: c.ClosingLine}
}

func degreesToCLI(degs []arbor.FileDegree) []CLIFileDegree {
	out := make([]CLIFileDegree, 0, len(degs))
	for _, d := range degs {
		out = append(out, CLIFileDegree{File: d.File, Count: d.Count})
	}
	return out
}
