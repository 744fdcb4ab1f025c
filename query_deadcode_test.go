package arbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// FindDeadCode
// =============================================================================

func TestFindDeadCode_ReachableFromExportIsLive(t *testing.T) {
	t.Parallel()
	source := `export function entry() {
  used()
}
function used() {}
function unused() {}
`
	idx := newTestIndex(t)
	idx.Index("a.ts", tree(
		sym("entry", KindFunction, 1, 3),
		sym("used", KindFunction, 4, 4),
		sym("unused", KindFunction, 5, 5),
	), source, nil)

	dead, err := idx.Queries().FindDeadCode(DeadCodeOptions{})
	require.NoError(t, err)

	require.Len(t, dead, 1)
	assert.Equal(t, "unused", dead[0].Node.Name)
	assert.Equal(t, "Never called from anywhere", dead[0].Reason)
}

func TestFindDeadCode_ExportedDeadGetsOwnReason(t *testing.T) {
	t.Parallel()
	// Exported symbols are entry points and thus live; an exported name with
	// no node (nothing reachable from it, nothing calling it) never shows up.
	// An unexported function called only by itself via a dead chain does.
	source := `function deadRoot() {
  deadLeaf()
}
function deadLeaf() {}
export function live() {}
`
	idx := newTestIndex(t)
	idx.Index("a.ts", tree(
		sym("deadRoot", KindFunction, 1, 3),
		sym("deadLeaf", KindFunction, 4, 4),
		sym("live", KindFunction, 5, 5),
	), source, nil)

	dead, err := idx.Queries().FindDeadCode(DeadCodeOptions{})
	require.NoError(t, err)

	require.Len(t, dead, 2)
	assert.Equal(t, "deadRoot", dead[0].Node.Name)
	assert.Equal(t, "Never called from anywhere", dead[0].Reason)
	assert.Equal(t, "deadLeaf", dead[1].Node.Name)
	assert.Equal(t, "Only called by other dead code: deadRoot", dead[1].Reason)
}

func TestFindDeadCode_ManyDeadCallersTruncated(t *testing.T) {
	t.Parallel()
	source := `function a1() { shared() }
function a2() { shared() }
function a3() { shared() }
function a4() { shared() }
function a5() { shared() }
function shared() {}
`
	idx := newTestIndex(t)
	idx.Index("a.ts", tree(
		sym("a1", KindFunction, 1, 1),
		sym("a2", KindFunction, 2, 2),
		sym("a3", KindFunction, 3, 3),
		sym("a4", KindFunction, 4, 4),
		sym("a5", KindFunction, 5, 5),
		sym("shared", KindFunction, 6, 6),
	), source, nil)

	dead, err := idx.Queries().FindDeadCode(DeadCodeOptions{})
	require.NoError(t, err)

	reasons := make(map[string]string)
	for _, d := range dead {
		reasons[d.Node.Name] = d.Reason
	}
	assert.Equal(t, "Only called by other dead code: a1, a2, a3, and 2 more", reasons["shared"])
}

func TestFindDeadCode_ClassesAreEntryPoints(t *testing.T) {
	t.Parallel()
	source := `class Svc {
  run() {
    this.helper()
  }
  helper() {}
}
`
	idx := newTestIndex(t)
	idx.Index("a.ts", tree(
		sym("Svc", KindClass, 1, 6,
			sym("run", KindMethod, 2, 4),
			sym("helper", KindMethod, 5, 5)),
	), source, nil)

	dead, err := idx.Queries().FindDeadCode(DeadCodeOptions{})
	require.NoError(t, err)

	// Methods are not reached from the class node itself; run has no callers
	// and helper is only called by dead run.
	require.Len(t, dead, 2)
	assert.Equal(t, "run", dead[0].Node.Name)
	assert.Equal(t, "helper", dead[1].Node.Name)
	assert.Equal(t, "Only called by other dead code: run", dead[1].Reason)
}

func TestFindDeadCode_TestFilesNeverReported(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	idx.Index("a.test.ts", tree(sym("fixture", KindFunction, 1, 1)), "function fixture() {}\n", nil)
	idx.Index("specs/b.spec.ts", tree(sym("helper", KindFunction, 1, 1)), "function helper() {}\n", nil)
	idx.Index("__tests__/c.ts", tree(sym("setup", KindFunction, 1, 1)), "function setup() {}\n", nil)
	idx.Index("real.ts", tree(sym("orphan", KindFunction, 1, 1)), "function orphan() {}\n", nil)

	dead, err := idx.Queries().FindDeadCode(DeadCodeOptions{})
	require.NoError(t, err)

	require.Len(t, dead, 1)
	assert.Equal(t, "orphan", dead[0].Node.Name)
}

func TestFindDeadCode_PrivateNamesSkippedByDefault(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	idx.Index("a.ts", tree(
		sym("_internal", KindFunction, 1, 1),
		sym("orphan", KindFunction, 2, 2),
	), "function _internal() {}\nfunction orphan() {}\n", nil)
	q := idx.Queries()

	dead, err := q.FindDeadCode(DeadCodeOptions{})
	require.NoError(t, err)
	require.Len(t, dead, 1)
	assert.Equal(t, "orphan", dead[0].Node.Name)

	dead, err = q.FindDeadCode(DeadCodeOptions{IncludePrivate: true})
	require.NoError(t, err)
	assert.Len(t, dead, 2)
}

func TestFindDeadCode_FilePatternFiltersReportOnly(t *testing.T) {
	t.Parallel()
	// lib.ts keeps util.ts's helper alive even when the pattern excludes
	// lib.ts from the report.
	idx := newTestIndex(t)
	idx.Index("lib.ts", tree(
		sym("libOrphan", KindFunction, 1, 3),
	), "function libOrphan() {\n  helper()\n}\n", nil)
	idx.Index("util.ts", tree(
		sym("helper", KindFunction, 1, 1),
		sym("utilOrphan", KindFunction, 2, 2),
	), "function helper() {}\nfunction utilOrphan() {}\n", nil)
	q := idx.Queries()

	dead, err := q.FindDeadCode(DeadCodeOptions{FilePattern: "util"})
	require.NoError(t, err)

	names := make([]string, 0, len(dead))
	for _, d := range dead {
		names = append(names, d.Node.Name)
	}
	// helper is dead (only dead libOrphan calls it) and in a util file;
	// libOrphan is dead but filtered out of the report.
	assert.Equal(t, []string{"helper", "utilOrphan"}, names)
}

func TestFindDeadCode_GlobPattern(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	idx.Index("src/a.ts", tree(sym("one", KindFunction, 1, 1)), "function one() {}\n", nil)
	idx.Index("other/b.ts", tree(sym("two", KindFunction, 1, 1)), "function two() {}\n", nil)

	dead, err := idx.Queries().FindDeadCode(DeadCodeOptions{FilePattern: "src/*.ts"})
	require.NoError(t, err)

	require.Len(t, dead, 1)
	assert.Equal(t, "one", dead[0].Node.Name)
}

func TestFindDeadCode_SortedByFileThenLine(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	idx.Index("b.ts", tree(
		sym("late", KindFunction, 10, 10),
		sym("early", KindFunction, 2, 2),
	), "", nil)
	idx.Index("a.ts", tree(sym("first", KindFunction, 1, 1)), "", nil)

	dead, err := idx.Queries().FindDeadCode(DeadCodeOptions{})
	require.NoError(t, err)

	require.Len(t, dead, 3)
	assert.Equal(t, "first", dead[0].Node.Name)
	assert.Equal(t, "early", dead[1].Node.Name)
	assert.Equal(t, "late", dead[2].Node.Name)
}
