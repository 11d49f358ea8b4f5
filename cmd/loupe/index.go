package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jward/loupe/workspace"
)

var (
	flagForce     bool
	flagLanguages string
	flagSerial    bool
)

var indexCmd = &cobra.Command{
	Use:   "index [path]",
	Short: "Index a directory tree",
	Long:  "Parses source files with tree-sitter and writes symbols, imports, calls, and TODO items to the SQLite database. Unchanged files are skipped.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&flagForce, "force", false, "delete database and reindex from scratch")
	indexCmd.Flags().StringVar(&flagLanguages, "languages", "", "comma-separated language filter (e.g. go,typescript)")
	indexCmd.Flags().BoolVar(&flagSerial, "serial", false, "disable the parallel analysis pool")
}

func runIndex(cmd *cobra.Command, args []string) error {
	start := time.Now()

	targetDir, err := resolveTargetDir(args)
	if err != nil {
		return err
	}

	repoRoot := findRepoRoot(targetDir)
	dbPath := resolveDBPath(repoRoot)

	loupeDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(loupeDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", loupeDir, err)
	}

	if flagForce {
		if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing database for --force: %w", err)
		}
		logger.Info().Str("db", dbPath).Msg("cleared database")
	}

	opts := []workspace.Option{
		workspace.WithLogger(logger),
		workspace.WithParallel(!flagSerial),
	}
	if langs := indexLanguages(); len(langs) > 0 {
		opts = append(opts, workspace.WithLanguages(langs...))
	}
	if len(cfg.Todos.Markers) > 0 {
		opts = append(opts, workspace.WithTodoMarkers(cfg.Todos.Markers...))
	}

	engine, err := workspace.New(dbPath, opts...)
	if err != nil {
		return err
	}
	defer engine.Close()

	stats, err := engine.IndexDirectory(cmd.Context(), targetDir)
	if err != nil {
		return fmt.Errorf("indexing: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Indexed %d files (%d unchanged) in %s\n",
		stats.Indexed, stats.Skipped, time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "Database: %s\n", dbPath)
	return nil
}

// indexLanguages combines the --languages flag with the config file's
// language list. An empty result means no restriction.
func indexLanguages() []string {
	var langs []string
	if flagLanguages != "" {
		for _, lang := range strings.Split(flagLanguages, ",") {
			if lang = strings.TrimSpace(lang); lang != "" && cfg.IndexesLanguage(lang) {
				langs = append(langs, lang)
			}
		}
		return langs
	}
	return cfg.Index.Languages
}
