package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "index.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate())
	return s
}

func testFile(path string) *File {
	return &File{
		Path:        path,
		Language:    "typescript",
		Hash:        "abc123",
		Source:      "export function f() {}\n",
		LineCount:   1,
		LastIndexed: time.Now(),
	}
}

// =============================================================================
// Files
// =============================================================================

func TestSaveFile_RoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	f := testFile("src/a.ts")
	imports := []Import{
		{Source: "./b", Line: 1},
		{Source: "react", Line: 2, IsTypeOnly: true},
	}
	require.NoError(t, s.SaveFile(f, imports))
	require.NotZero(t, f.ID)

	got, err := s.FileByPath("src/a.ts")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "typescript", got.Language)
	assert.Equal(t, "abc123", got.Hash)
	assert.Equal(t, f.Source, got.Source)

	imps, err := s.ImportsByFile(got.ID)
	require.NoError(t, err)
	require.Len(t, imps, 2)
	assert.Equal(t, "./b", imps[0].Source)
	assert.Equal(t, 1, imps[0].Line)
	assert.True(t, imps[1].IsTypeOnly)
}

func TestSaveFile_ReplacesPreviousSnapshot(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	f := testFile("a.ts")
	require.NoError(t, s.SaveFile(f, []Import{{Source: "./old", Line: 1}}))
	firstID := f.ID

	f2 := testFile("a.ts")
	f2.Hash = "def456"
	require.NoError(t, s.SaveFile(f2, []Import{{Source: "./new", Line: 1}}))

	got, err := s.FileByPath("a.ts")
	require.NoError(t, err)
	assert.Equal(t, "def456", got.Hash)
	assert.NotEqual(t, firstID, got.ID)

	// Old import rows cascade away with the old file row.
	imps, err := s.ImportsByFile(got.ID)
	require.NoError(t, err)
	require.Len(t, imps, 1)
	assert.Equal(t, "./new", imps[0].Source)
}

func TestFileByPath_MissingReturnsNil(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	got, err := s.FileByPath("nope.ts")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestFiles_OrderedByPath(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.SaveFile(testFile("b.ts"), nil))
	require.NoError(t, s.SaveFile(testFile("a.ts"), nil))

	files, err := s.Files()
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.ts", files[0].Path)
	assert.Equal(t, "b.ts", files[1].Path)
}

func TestDeleteFile(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.SaveFile(testFile("a.ts"), nil))

	require.NoError(t, s.DeleteFile("a.ts"))
	got, err := s.FileByPath("a.ts")
	require.NoError(t, err)
	assert.Nil(t, got)

	// Deleting again is a no-op.
	require.NoError(t, s.DeleteFile("a.ts"))
}

// =============================================================================
// Metadata
// =============================================================================

func TestMetadata_UpsertAndDefault(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	v, err := s.GetMetadata("missing")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	require.NoError(t, s.SetMetadata("k", "v1"))
	require.NoError(t, s.SetMetadata("k", "v2"))
	v, err = s.GetMetadata("k")
	require.NoError(t, err)
	assert.Equal(t, "v2", v)
}

func TestMigrate_SetsSchemaVersionAndIsIdempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Migrate())

	v, err := s.GetMetadata("schema_version")
	require.NoError(t, err)
	assert.Equal(t, SchemaVersion, v)
}
