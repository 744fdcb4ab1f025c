package arbor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// indexImports indexes a file with only an import list; graph structure
// tests don't need symbols or source.
func indexImports(idx *ProjectIndex, file string, specs ...string) {
	imports := make([]ImportInfo, 0, len(specs))
	for i, s := range specs {
		imports = append(imports, ImportInfo{Source: s, Line: i + 1})
	}
	idx.Index(file, tree(), "", imports)
}

// =============================================================================
// Specifier resolution
// =============================================================================

func TestResolveSpecifier_RelativeWithExtension(t *testing.T) {
	t.Parallel()
	indexed := map[string]bool{"src/util.ts": true}

	resolved, ok := resolveSpecifier("src/main.ts", "./util.ts", indexed)
	require.True(t, ok)
	assert.Equal(t, "src/util.ts", resolved)
}

func TestResolveSpecifier_ExtensionlessTriesKnownExtensions(t *testing.T) {
	t.Parallel()
	indexed := map[string]bool{"src/util.tsx": true}

	resolved, ok := resolveSpecifier("src/main.ts", "./util", indexed)
	require.True(t, ok)
	assert.Equal(t, "src/util.tsx", resolved)
}

func TestResolveSpecifier_ExtensionOrderPrefersTS(t *testing.T) {
	t.Parallel()
	indexed := map[string]bool{"src/util.ts": true, "src/util.js": true}

	resolved, ok := resolveSpecifier("src/main.ts", "./util", indexed)
	require.True(t, ok)
	assert.Equal(t, "src/util.ts", resolved)
}

func TestResolveSpecifier_IndexFile(t *testing.T) {
	t.Parallel()
	indexed := map[string]bool{"src/lib/index.ts": true}

	resolved, ok := resolveSpecifier("src/main.ts", "./lib", indexed)
	require.True(t, ok)
	assert.Equal(t, "src/lib/index.ts", resolved)
}

func TestResolveSpecifier_JSImportFallsBackToTSSibling(t *testing.T) {
	t.Parallel()
	indexed := map[string]bool{"src/util.ts": true}

	resolved, ok := resolveSpecifier("src/main.ts", "./util.js", indexed)
	require.True(t, ok)
	assert.Equal(t, "src/util.ts", resolved)
}

func TestResolveSpecifier_ParentDirectory(t *testing.T) {
	t.Parallel()
	indexed := map[string]bool{"src/util.ts": true}

	resolved, ok := resolveSpecifier("src/sub/main.ts", "../util", indexed)
	require.True(t, ok)
	assert.Equal(t, "src/util.ts", resolved)
}

func TestResolveSpecifier_BareSpecifierIsExternal(t *testing.T) {
	t.Parallel()
	indexed := map[string]bool{"react.ts": true}

	_, ok := resolveSpecifier("src/main.ts", "react", indexed)
	assert.False(t, ok)
}

func TestResolveSpecifier_UnresolvableIsNotAnError(t *testing.T) {
	t.Parallel()
	_, ok := resolveSpecifier("src/main.ts", "./missing", map[string]bool{})
	assert.False(t, ok)
}

// =============================================================================
// Graph construction and cycles
// =============================================================================

func TestBuildDependencyGraph_EdgesAndDependents(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	indexImports(idx, "a.ts", "./b", "react")
	indexImports(idx, "b.ts")

	g, report, err := idx.BuildDependencyGraph()
	require.NoError(t, err)

	assert.True(t, g.Deps["a.ts"]["b.ts"])
	assert.True(t, g.Dependents["b.ts"]["a.ts"])
	assert.Equal(t, 2, report.TotalFiles)
	// External imports count toward the total but never form edges.
	assert.Equal(t, 2, report.TotalImports)
	assert.False(t, report.HasCircular)
}

func TestBuildDependencyGraph_AcyclicHasNoCycles(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	indexImports(idx, "a.ts", "./b", "./c")
	indexImports(idx, "b.ts", "./c")
	indexImports(idx, "c.ts")

	_, report, err := idx.BuildDependencyGraph()
	require.NoError(t, err)

	assert.Empty(t, report.Cycles)
	assert.False(t, report.HasCircular)
}

func TestBuildDependencyGraph_TwoFileCycle(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	indexImports(idx, "a.ts", "./b")
	indexImports(idx, "b.ts", "./a")

	_, report, err := idx.BuildDependencyGraph()
	require.NoError(t, err)

	require.Len(t, report.Cycles, 1)
	c := report.Cycles[0]
	assert.Equal(t, []string{"a.ts", "b.ts", "a.ts"}, c.Files)
	assert.Equal(t, "./a", c.ClosingImport)
	assert.Equal(t, 1, c.ClosingLine)
	assert.True(t, report.HasCircular)
}

func TestBuildDependencyGraph_ThreeFileCycle(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	indexImports(idx, "a.ts", "./b")
	indexImports(idx, "b.ts", "./c")
	indexImports(idx, "c.ts", "./a")

	_, report, err := idx.BuildDependencyGraph()
	require.NoError(t, err)

	require.Len(t, report.Cycles, 1)
	assert.Equal(t, []string{"a.ts", "b.ts", "c.ts", "a.ts"}, report.Cycles[0].Files)
}

func TestDependencyReport_DegreeRankings(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	indexImports(idx, "hub.ts", "./a", "./b", "./c")
	indexImports(idx, "a.ts", "./c")
	indexImports(idx, "b.ts", "./c")
	indexImports(idx, "c.ts")

	_, report, err := idx.BuildDependencyGraph()
	require.NoError(t, err)

	require.NotEmpty(t, report.MostDependencies)
	assert.Equal(t, FileDegree{File: "hub.ts", Count: 3}, report.MostDependencies[0])

	require.NotEmpty(t, report.MostDepended)
	assert.Equal(t, FileDegree{File: "c.ts", Count: 3}, report.MostDepended[0])
}

func TestDependencyQueries_DepsAndDependents(t *testing.T) {
	t.Parallel()
	idx := newTestIndex(t)
	indexImports(idx, "a.ts", "./b")
	indexImports(idx, "b.ts")
	q := idx.Queries()

	deps, err := q.DependenciesOf("a.ts")
	require.NoError(t, err)
	assert.Equal(t, []string{"b.ts"}, deps)

	dependents, err := q.DependentsOf("b.ts")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.ts"}, dependents)
}
