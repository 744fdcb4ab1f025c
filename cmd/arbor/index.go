package main

import (
	"context"
	"crypto/sha256"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jward/arbor/internal/parser"
	"github.com/jward/arbor/internal/store"
)

var flagForce bool

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a source tree for graph queries",
	Long:  "Parses TypeScript/JavaScript files with tree-sitter and snapshots them into the SQLite database. Unchanged files (same content hash) are skipped.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "delete database and reindex from scratch")
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()

	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return err
	}
	repoRoot := findRepoRoot(targetDir)
	dbPath := resolveDBPath(repoRoot)

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dbPath), err)
	}

	if flagForce {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing database for --force: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Cleared database: %s\n", dbPath)
	}

	s, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer s.Close()
	if err := s.Migrate(); err != nil {
		return err
	}

	paths, err := discoverFiles(targetDir)
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}

	ctx := context.Background()
	indexed, skipped, failed := 0, 0, 0
	for _, path := range paths {
		status, err := indexOne(ctx, s, repoRoot, path)
		if err != nil {
			// A file that cannot be read or parsed contributes nothing; the
			// run continues.
			fmt.Fprintf(os.Stderr, "Skipping %s: %s\n", path, err)
			failed++
			continue
		}
		if status {
			indexed++
		} else {
			skipped++
		}
	}

	fmt.Fprintf(os.Stderr, "Indexed %d file(s) in %s (%d unchanged, %d failed)\n",
		indexed, time.Since(start).Round(time.Millisecond), skipped, failed)
	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)
	return nil
}

// indexOne snapshots a single file. Returns false when the stored hash
// matches and nothing was written.
func indexOne(ctx context.Context, s *store.Store, repoRoot, path string) (bool, error) {
	lang, ok := parser.LanguageForFile(path)
	if !ok {
		return false, nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("read file: %w", err)
	}
	hash := fmt.Sprintf("%x", sha256.Sum256(content))

	rel := relPath(repoRoot, path)
	existing, err := s.FileByPath(rel)
	if err != nil {
		return false, fmt.Errorf("lookup file: %w", err)
	}
	if existing != nil && existing.Hash == hash {
		return false, nil // unchanged
	}

	res, err := parser.Parse(ctx, content, path)
	if err != nil {
		return false, err
	}

	imports := make([]store.Import, 0, len(res.Imports))
	for _, imp := range res.Imports {
		imports = append(imports, store.Import{Source: imp.Source, Line: imp.Line, IsTypeOnly: imp.IsTypeOnly})
	}

	err = s.SaveFile(&store.File{
		Path:        rel,
		Language:    lang,
		Hash:        hash,
		Source:      string(content),
		LineCount:   strings.Count(string(content), "\n") + 1,
		LastIndexed: time.Now(),
	}, imports)
	if err != nil {
		return false, err
	}
	return true, nil
}

// relPath stores paths relative to the repo root with forward slashes so
// import specifier resolution works regardless of platform.
func relPath(repoRoot, path string) string {
	rel, err := filepath.Rel(repoRoot, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
