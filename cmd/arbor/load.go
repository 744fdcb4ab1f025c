package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jward/arbor"
	"github.com/jward/arbor/internal/parser"
	"github.com/jward/arbor/internal/store"
)

// openStore opens the database for the current target directory, failing
// with a hint when no index exists yet.
func openStore(args []string) (*store.Store, error) {
	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return nil, err
	}
	dbPath := resolveDBPath(findRepoRoot(targetDir))

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("database not found: %s (run 'arbor index' first)", dbPath)
	}

	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// loadIndex re-parses every stored snapshot into an in-memory project
// index. Parsing is fast enough that rebuilding per invocation keeps the
// database schema down to sources and imports.
func loadIndex(ctx context.Context, s *store.Store) (*arbor.ProjectIndex, error) {
	files, err := s.Files()
	if err != nil {
		return nil, err
	}

	idx := arbor.NewProjectIndex()
	for _, f := range files {
		res, err := parser.Parse(ctx, []byte(f.Source), f.Path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping %s: %s\n", f.Path, err)
			continue
		}
		idx.Index(f.Path, res.Tree, f.Source, res.Imports)
	}
	if idx.IsEmpty() {
		return nil, fmt.Errorf("database is empty (run 'arbor index' first)")
	}
	return idx, nil
}

// loadQueries is the common preamble for query commands, which resolve
// the database from the current directory.
func loadQueries() (*arbor.Queries, func(), error) {
	s, err := openStore(nil)
	if err != nil {
		return nil, nil, err
	}
	idx, err := loadIndex(context.Background(), s)
	if err != nil {
		s.Close()
		return nil, nil, err
	}
	return idx.Queries(), func() { s.Close() }, nil
}
