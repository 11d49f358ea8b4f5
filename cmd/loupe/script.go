package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jward/loupe/adapter"
	"github.com/jward/loupe/internal/runtime"
	"github.com/jward/loupe/internal/store"
)

var scriptCmd = &cobra.Command{
	Use:   "script <file.risor>",
	Short: "Run a Risor script against the index",
	Long:  "Executes a Risor script with analysis host functions. When the database exists, store-backed functions (index_file, symbols_by_name, ...) are available too.",
	Args:  cobra.ExactArgs(1),
	RunE:  runScript,
}

func runScript(cmd *cobra.Command, args []string) error {
	registry, err := adapter.DefaultRegistry()
	if err != nil {
		return fmt.Errorf("building registry: %w", err)
	}

	// The store is optional for scripts that only analyze sources.
	var s *store.Store
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting cwd: %w", err)
	}
	dbPath := resolveDBPath(findRepoRoot(cwd))
	if _, err := os.Stat(dbPath); err == nil {
		s, err = store.NewStore(dbPath)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.Migrate(); err != nil {
			return err
		}
	}

	scriptPath, err := resolveFilePath(args[0])
	if err != nil {
		return err
	}
	rt := runtime.NewRuntime(registry, s, filepath.Dir(scriptPath),
		runtime.WithLogger(logger))
	return rt.RunScript(context.Background(), scriptPath, nil)
}
