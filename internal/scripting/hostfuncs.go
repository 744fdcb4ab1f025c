package scripting

import (
	"context"

	"github.com/risor-io/risor/object"

	"github.com/jward/arbor"
)

// Host functions return Risor lists of maps with primitive values; scripts
// cannot consume Go structs directly.

func nodeMap(n *arbor.GraphNode, depth int) *object.Map {
	return object.NewMap(map[string]object.Object{
		"id":       object.NewString(string(n.ID)),
		"name":     object.NewString(n.Name),
		"kind":     object.NewString(string(n.Kind)),
		"file":     object.NewString(n.File),
		"line":     object.NewInt(int64(n.Line)),
		"exported": object.NewBool(n.Exported),
		"depth":    object.NewInt(int64(depth)),
	})
}

// trace(name, direction, max_depth) → list of node maps
func makeTraceFn(q *arbor.Queries) *object.Builtin {
	return object.NewBuiltin("trace", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 3 {
			return object.NewArgsError("trace", 3, len(args))
		}
		name, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("trace: name must be a string, got %s", args[0].Type())
		}
		dir, ok := args[1].(*object.String)
		if !ok {
			return object.Errorf("trace: direction must be a string, got %s", args[1].Type())
		}
		depth, ok := args[2].(*object.Int)
		if !ok {
			return object.Errorf("trace: max_depth must be an int, got %s", args[2].Type())
		}

		entries, err := q.Trace(name.Value(), arbor.Direction(dir.Value()), int(depth.Value()))
		if err != nil {
			return object.Errorf("trace: %v", err)
		}
		out := make([]object.Object, 0, len(entries))
		for _, e := range entries {
			out = append(out, nodeMap(e.Node, e.Depth))
		}
		return object.NewList(out)
	})
}

// find_paths(from, to, max_depth) → list of {nodes: [id...], length}
func makeFindPathsFn(q *arbor.Queries) *object.Builtin {
	return object.NewBuiltin("find_paths", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 3 {
			return object.NewArgsError("find_paths", 3, len(args))
		}
		from, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("find_paths: from must be a string, got %s", args[0].Type())
		}
		to, ok := args[1].(*object.String)
		if !ok {
			return object.Errorf("find_paths: to must be a string, got %s", args[1].Type())
		}
		depth, ok := args[2].(*object.Int)
		if !ok {
			return object.Errorf("find_paths: max_depth must be an int, got %s", args[2].Type())
		}

		paths, err := q.FindPaths(from.Value(), to.Value(), int(depth.Value()))
		if err != nil {
			return object.Errorf("find_paths: %v", err)
		}
		out := make([]object.Object, 0, len(paths))
		for _, p := range paths {
			ids := make([]object.Object, 0, len(p.Nodes))
			for _, id := range p.Nodes {
				ids = append(ids, object.NewString(string(id)))
			}
			out = append(out, object.NewMap(map[string]object.Object{
				"nodes":  object.NewList(ids),
				"length": object.NewInt(int64(p.Length)),
			}))
		}
		return object.NewList(out)
	})
}

// dead_code() or dead_code(file_pattern) → list of node maps with reason
func makeDeadCodeFn(q *arbor.Queries) *object.Builtin {
	return object.NewBuiltin("dead_code", func(ctx context.Context, args ...object.Object) object.Object {
		var opts arbor.DeadCodeOptions
		if len(args) > 1 {
			return object.NewArgsError("dead_code", 1, len(args))
		}
		if len(args) == 1 {
			pattern, ok := args[0].(*object.String)
			if !ok {
				return object.Errorf("dead_code: file_pattern must be a string, got %s", args[0].Type())
			}
			opts.FilePattern = pattern.Value()
		}

		dead, err := q.FindDeadCode(opts)
		if err != nil {
			return object.Errorf("dead_code: %v", err)
		}
		out := make([]object.Object, 0, len(dead))
		for _, d := range dead {
			out = append(out, object.NewMap(map[string]object.Object{
				"id":     object.NewString(string(d.Node.ID)),
				"name":   object.NewString(d.Node.Name),
				"kind":   object.NewString(string(d.Node.Kind)),
				"file":   object.NewString(d.Node.File),
				"line":   object.NewInt(int64(d.Node.Line)),
				"reason": object.NewString(d.Reason),
			}))
		}
		return object.NewList(out)
	})
}

// references(name) → list of {file, line, column, context, is_definition}
func makeReferencesFn(q *arbor.Queries) *object.Builtin {
	return object.NewBuiltin("references", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 1 {
			return object.NewArgsError("references", 1, len(args))
		}
		name, ok := args[0].(*object.String)
		if !ok {
			return object.Errorf("references: name must be a string, got %s", args[0].Type())
		}

		refs, err := q.FindReferences(name.Value())
		if err != nil {
			return object.Errorf("references: %v", err)
		}
		out := make([]object.Object, 0, len(refs))
		for _, r := range refs {
			out = append(out, object.NewMap(map[string]object.Object{
				"file":          object.NewString(r.File),
				"line":          object.NewInt(int64(r.Line)),
				"column":        object.NewInt(int64(r.Column)),
				"context":       object.NewString(r.Context),
				"is_definition": object.NewBool(r.IsDefinition),
			}))
		}
		return object.NewList(out)
	})
}

// cycles() → list of {files: [path...], closing_import, closing_line}
func makeCyclesFn(q *arbor.Queries) *object.Builtin {
	return object.NewBuiltin("cycles", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("cycles", 0, len(args))
		}
		cycles, err := q.Cycles()
		if err != nil {
			return object.Errorf("cycles: %v", err)
		}
		out := make([]object.Object, 0, len(cycles))
		for _, c := range cycles {
			files := make([]object.Object, 0, len(c.Files))
			for _, f := range c.Files {
				files = append(files, object.NewString(f))
			}
			out = append(out, object.NewMap(map[string]object.Object{
				"files":          object.NewList(files),
				"closing_import": object.NewString(c.ClosingImport),
				"closing_line":   object.NewInt(int64(c.ClosingLine)),
			}))
		}
		return object.NewList(out)
	})
}

// import_report() → summary map
func makeImportReportFn(q *arbor.Queries) *object.Builtin {
	return object.NewBuiltin("import_report", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 0 {
			return object.NewArgsError("import_report", 0, len(args))
		}
		report, err := q.ImportReport()
		if err != nil {
			return object.Errorf("import_report: %v", err)
		}
		return object.NewMap(map[string]object.Object{
			"total_files":       object.NewInt(int64(report.TotalFiles)),
			"total_imports":     object.NewInt(int64(report.TotalImports)),
			"has_circular":      object.NewBool(report.HasCircular),
			"cycle_count":       object.NewInt(int64(len(report.Cycles))),
			"most_dependencies": degreeList(report.MostDependencies),
			"most_depended":     degreeList(report.MostDepended),
		})
	})
}

func degreeList(degrees []arbor.FileDegree) *object.List {
	out := make([]object.Object, 0, len(degrees))
	for _, d := range degrees {
		out = append(out, object.NewMap(map[string]object.Object{
			"file":  object.NewString(d.File),
			"count": object.NewInt(int64(d.Count)),
		}))
	}
	return object.NewList(out)
}
