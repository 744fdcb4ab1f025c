// Package scripting embeds a Risor VM and exposes the arbor query engine to
// scripts as host functions, so ad-hoc structural checks (CI rules, custom
// reports) can be written without recompiling.
package scripting

import (
	"context"
	"fmt"
	"os"

	"github.com/risor-io/risor"
	"github.com/risor-io/risor/object"

	"github.com/jward/arbor"
)

// Runtime wires a Risor VM to one query engine.
type Runtime struct {
	queries *arbor.Queries
}

// NewRuntime creates a Runtime bound to the given query engine.
func NewRuntime(q *arbor.Queries) *Runtime {
	return &Runtime{queries: q}
}

// RunScript loads and executes a Risor script file.
func (r *Runtime) RunScript(ctx context.Context, scriptPath string) error {
	src, err := os.ReadFile(scriptPath)
	if err != nil {
		return fmt.Errorf("scripting: loading script %s: %w", scriptPath, err)
	}
	return r.RunSource(ctx, string(src), scriptPath)
}

// RunSource executes Risor source code directly. Useful for testing without
// script files.
func (r *Runtime) RunSource(ctx context.Context, source, label string) error {
	var opts []risor.Option
	for name, val := range r.buildGlobals() {
		opts = append(opts, risor.WithGlobal(name, val))
	}
	if _, err := risor.Eval(ctx, source, opts...); err != nil {
		return fmt.Errorf("scripting: script %s: %w", label, err)
	}
	return nil
}

// buildGlobals constructs the host functions exposed to scripts.
func (r *Runtime) buildGlobals() map[string]any {
	return map[string]any{
		"trace":         makeTraceFn(r.queries),
		"find_paths":    makeFindPathsFn(r.queries),
		"dead_code":     makeDeadCodeFn(r.queries),
		"references":    makeReferencesFn(r.queries),
		"cycles":        makeCyclesFn(r.queries),
		"import_report": makeImportReportFn(r.queries),
		"log":           mustProxy(&logObject{prefix: "arbor"}),
	}
}

// logObject provides log.Info/Warn/Error methods for scripts.
type logObject struct {
	prefix string
}

func (l *logObject) Info(msg string) {
	fmt.Printf("[%s] INFO: %s\n", l.prefix, msg)
}

func (l *logObject) Warn(msg string) {
	fmt.Printf("[%s] WARN: %s\n", l.prefix, msg)
}

func (l *logObject) Error(msg string) {
	fmt.Printf("[%s] ERROR: %s\n", l.prefix, msg)
}

func mustProxy(v any) object.Object {
	p, err := object.NewProxy(v)
	if err != nil {
		panic(fmt.Sprintf("scripting: proxy error: %v", err))
	}
	return p
}
