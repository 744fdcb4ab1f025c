package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// outputResult marshals a CLIResult to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		return err
	}
	result := CLIResult{
		Command: command,
		Error:   err.Error(),
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type. It writes to os.Stdout.
func outputResultText(result CLIResult) error {
	w := io.Writer(os.Stdout)

	switch v := result.Results.(type) {
	case []CLITraceEntry:
		formatTraceText(w, v)
	case []CLIPath:
		formatPathsText(w, v)
	case []CLIDeadSymbol:
		formatDeadText(w, v)
	case []CLIReference:
		formatReferencesText(w, v)
	case []CLICycle:
		formatCyclesText(w, v)
	case CLIImportReport:
		formatImportReportText(w, v)
	case nil:
		// No output for nil results.
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// formatTraceText formats trace entries as aligned columns.
func formatTraceText(w io.Writer, entries []CLITraceEntry) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DEPTH\tNAME\tKIND\tFILE\tLINE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n", e.Depth, e.NamePath, e.Kind, e.File, e.Line)
	}
	tw.Flush()
}

// formatPathsText formats each path as a single arrow-joined line.
func formatPathsText(w io.Writer, paths []CLIPath) {
	for _, p := range paths {
		fmt.Fprintf(w, "[%d] %s\n", p.Length, strings.Join(p.Nodes, " -> "))
	}
}

// formatDeadText formats dead symbols as aligned columns.
func formatDeadText(w io.Writer, dead []CLIDeadSymbol) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tFILE\tLINE\tREASON")
	for _, d := range dead {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", d.NamePath, d.Kind, d.File, d.Line, d.Reason)
	}
	tw.Flush()
}

// formatReferencesText formats references as "file:line:col" lines with
// the matched line's text.
func formatReferencesText(w io.Writer, refs []CLIReference) {
	for _, r := range refs {
		marker := ""
		if r.IsDefinition {
			marker = " (definition)"
		}
		fmt.Fprintf(w, "%s:%d:%d%s  %s\n", r.File, r.Line, r.Column, marker, strings.TrimSpace(r.Context))
	}
}

// formatCyclesText formats each cycle as an arrow-joined chain.
func formatCyclesText(w io.Writer, cycles []CLICycle) {
	if len(cycles) == 0 {
		fmt.Fprintln(w, "No circular imports found")
		return
	}
	for i, c := range cycles {
		fmt.Fprintf(w, "Cycle %d: %s\n", i+1, strings.Join(c.Files, " -> "))
		fmt.Fprintf(w, "  closed by import %q at line %d\n", c.ClosingImport, c.ClosingLine)
	}
}

// formatImportReportText formats the dependency report as readable text.
func formatImportReportText(w io.Writer, rep CLIImportReport) {
	fmt.Fprintln(w, "Import Report")
	fmt.Fprintln(w, "=============")
	fmt.Fprintf(w, "Files: %d\n", rep.TotalFiles)
	fmt.Fprintf(w, "Imports: %d\n", rep.TotalImports)
	fmt.Fprintln(w)

	if len(rep.MostDependencies) > 0 {
		fmt.Fprintln(w, "Most dependencies:")
		for _, d := range rep.MostDependencies {
			fmt.Fprintf(w, "  %s: %d\n", d.File, d.Count)
		}
		fmt.Fprintln(w)
	}

	if len(rep.MostDepended) > 0 {
		fmt.Fprintln(w, "Most depended on:")
		for _, d := range rep.MostDepended {
			fmt.Fprintf(w, "  %s: %d\n", d.File, d.Count)
		}
		fmt.Fprintln(w)
	}

	if rep.HasCircular {
		formatCyclesText(w, rep.Cycles)
	} else {
		fmt.Fprintln(w, "No circular imports found")
	}
}
