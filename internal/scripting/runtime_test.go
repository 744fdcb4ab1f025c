package scripting

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/arbor"
)

func newTestRuntime(t *testing.T) *Runtime {
	t.Helper()
	idx := arbor.NewProjectIndex(arbor.WithWorkers(1))

	source := `export function entry() {
  helper()
}
function helper() {}
function orphan() {}
`
	idx.Index("main.ts", &arbor.SymbolTree{Symbols: []*arbor.Symbol{
		{Name: "entry", Kind: arbor.KindFunction, Span: arbor.Span{StartLine: 1, EndLine: 3}},
		{Name: "helper", Kind: arbor.KindFunction, Span: arbor.Span{StartLine: 4, EndLine: 4}},
		{Name: "orphan", Kind: arbor.KindFunction, Span: arbor.Span{StartLine: 5, EndLine: 5}},
	}}, source, nil)

	return NewRuntime(idx.Queries())
}

func TestRunSource_TraceGlobal(t *testing.T) {
	t.Parallel()
	rt := newTestRuntime(t)

	script := `
entries := trace("entry", "forward", 3)
assert(len(entries) == 1, "expected one callee")
assert(entries[0]["name"] == "helper")
assert(entries[0]["depth"] == 1)
`
	require.NoError(t, rt.RunSource(context.Background(), script, "trace_test"))
}

func TestRunSource_DeadCodeGlobal(t *testing.T) {
	t.Parallel()
	rt := newTestRuntime(t)

	script := `
dead := dead_code()
assert(len(dead) == 1)
assert(dead[0]["name"] == "orphan")
assert(dead[0]["reason"] == "Never called from anywhere")
`
	require.NoError(t, rt.RunSource(context.Background(), script, "dead_test"))
}

func TestRunSource_FindPathsGlobal(t *testing.T) {
	t.Parallel()
	rt := newTestRuntime(t)

	script := `
paths := find_paths("entry", "helper", 5)
assert(len(paths) == 1)
assert(paths[0]["length"] == 1)
`
	require.NoError(t, rt.RunSource(context.Background(), script, "paths_test"))
}

func TestRunSource_ImportReportGlobal(t *testing.T) {
	t.Parallel()
	rt := newTestRuntime(t)

	script := `
report := import_report()
assert(report["total_files"] == 1)
assert(!report["has_circular"])
`
	require.NoError(t, rt.RunSource(context.Background(), script, "report_test"))
}

func TestRunSource_ErrorsPropagate(t *testing.T) {
	t.Parallel()
	rt := newTestRuntime(t)

	err := rt.RunSource(context.Background(), `trace("missing", "forward", 3)`, "err_test")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "symbol not found")
}

func TestRunSource_BadSyntaxFails(t *testing.T) {
	t.Parallel()
	rt := newTestRuntime(t)

	err := rt.RunSource(context.Background(), `this is not risor ((`, "syntax_test")
	assert.Error(t, err)
}
