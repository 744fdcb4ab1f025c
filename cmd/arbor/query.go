package main

import (
	"github.com/jward/arbor"
	"github.com/spf13/cobra"
)

var (
	flagTraceDepth int
	flagPathsDepth int
	flagDirection  string
)

var traceCmd = &cobra.Command{
	Use:   "trace <symbol>",
	Short: "Trace calls from or to a symbol",
	Long:  "Breadth-first traversal of the call graph starting at a symbol. Forward direction follows callees, backward follows callers.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, cleanup, err := loadQueries()
		if err != nil {
			return outputError("trace", err)
		}
		defer cleanup()

		entries, err := q.Trace(args[0], arbor.Direction(flagDirection), flagTraceDepth)
		if err != nil {
			return outputError("trace", err)
		}

		results := make([]CLITraceEntry, 0, len(entries))
		for _, e := range entries {
			results = append(results, CLITraceEntry{CLINode: nodeToCLI(e.Node), Depth: e.Depth})
		}
		total := len(results)
		return outputResult(CLIResult{Command: "trace", Results: results, TotalCount: &total})
	},
}

var pathsCmd = &cobra.Command{
	Use:   "paths <from> <to>",
	Short: "Find call paths between two symbols",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, cleanup, err := loadQueries()
		if err != nil {
			return outputError("paths", err)
		}
		defer cleanup()

		paths, err := q.FindPaths(args[0], args[1], flagPathsDepth)
		if err != nil {
			return outputError("paths", err)
		}

		results := make([]CLIPath, 0, len(paths))
		for _, p := range paths {
			nodes := make([]string, 0, len(p.Nodes))
			for _, id := range p.Nodes {
				nodes = append(nodes, string(id))
			}
			results = append(results, CLIPath{Nodes: nodes, Length: p.Length})
		}
		total := len(results)
		return outputResult(CLIResult{Command: "paths", Results: results, TotalCount: &total})
	},
}

var (
	flagFilePattern    string
	flagIncludePrivate bool
)

var deadCodeCmd = &cobra.Command{
	Use:   "dead-code",
	Short: "Find symbols unreachable from any exported entry point",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, cleanup, err := loadQueries()
		if err != nil {
			return outputError("dead-code", err)
		}
		defer cleanup()

		dead, err := q.FindDeadCode(arbor.DeadCodeOptions{
			FilePattern:    flagFilePattern,
			IncludePrivate: flagIncludePrivate,
		})
		if err != nil {
			return outputError("dead-code", err)
		}

		results := make([]CLIDeadSymbol, 0, len(dead))
		for _, d := range dead {
			results = append(results, CLIDeadSymbol{CLINode: nodeToCLI(d.Node), Reason: d.Reason})
		}
		total := len(results)
		return outputResult(CLIResult{Command: "dead-code", Results: results, TotalCount: &total})
	},
}

var refsCmd = &cobra.Command{
	Use:   "refs <symbol>",
	Short: "Find textual references to a symbol name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, cleanup, err := loadQueries()
		if err != nil {
			return outputError("refs", err)
		}
		defer cleanup()

		refs, err := q.FindReferences(args[0])
		if err != nil {
			return outputError("refs", err)
		}

		results := make([]CLIReference, 0, len(refs))
		for _, r := range refs {
			results = append(results, CLIReference{
				File:         r.File,
				Line:         r.Line,
				Column:       r.Column,
				Context:      r.Context,
				IsDefinition: r.IsDefinition,
			})
		}
		total := len(results)
		return outputResult(CLIResult{Command: "refs", Results: results, TotalCount: &total})
	},
}

var flagCyclesOnly bool

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Report the file import graph and circular imports",
	RunE: func(cmd *cobra.Command, args []string) error {
		q, cleanup, err := loadQueries()
		if err != nil {
			return outputError("deps", err)
		}
		defer cleanup()

		if flagCyclesOnly {
			cycles, err := q.Cycles()
			if err != nil {
				return outputError("deps", err)
			}
			results := make([]CLICycle, 0, len(cycles))
			for _, c := range cycles {
				results = append(results, cycleToCLI(c))
			}
			total := len(results)
			return outputResult(CLIResult{Command: "deps", Results: results, TotalCount: &total})
		}

		rep, err := q.ImportReport()
		if err != nil {
			return outputError("deps", err)
		}
		cycles := make([]CLICycle, 0, len(rep.Cycles))
		for _, c := range rep.Cycles {
			cycles = append(cycles, cycleToCLI(c))
		}
		return outputResult(CLIResult{Command: "deps", Results: CLIImportReport{
			TotalFiles:       rep.TotalFiles,
			TotalImports:     rep.TotalImports,
			MostDependencies: degreesToCLI(rep.MostDependencies),
			MostDepended:     degreesToCLI(rep.MostDepended),
			Cycles:           cycles,
			HasCircular:      rep.HasCircular,
		}})
	},
}

func init() {
	traceCmd.Flags().IntVar(&flagTraceDepth, "depth", 3, "maximum traversal depth")
	traceCmd.Flags().StringVar(&flagDirection, "direction", "forward", "traversal direction: forward|backward")
	pathsCmd.Flags().IntVar(&flagPathsDepth, "depth", 5, "maximum path length in edges")
	deadCodeCmd.Flags().StringVar(&flagFilePattern, "files", "", "restrict results to files matching a glob or substring")
	deadCodeCmd.Flags().BoolVar(&flagIncludePrivate, "include-private", false, "include underscore-prefixed symbols")
	depsCmd.Flags().BoolVar(&flagCyclesOnly, "cycles", false, "report only circular imports")
}
