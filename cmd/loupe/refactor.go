package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/spf13/cobra"
	"go.lsp.dev/uri"

	"github.com/jward/loupe"
	"github.com/jward/loupe/adapter"
	"github.com/jward/loupe/refactor"
)

var (
	flagName  string
	flagWrite bool
)

var refactorCmd = &cobra.Command{
	Use:   "refactor <action> <file> <start-line> <start-col> <end-line> <end-col>",
	Short: "Apply a refactoring to a selection",
	Long: `Runs a refactoring against a selection in a source file. Actions:

  extract-variable  replace the selected expression with a named variable
  extract-method    move the selected statements into a new function
  safe-delete       remove the selected declaration if nothing uses it

Line and column numbers are 0-based. Without --write the rewritten file
is shown as a unified diff and nothing is touched.`,
	Args: cobra.ExactArgs(6),
	RunE: runRefactor,
}

func init() {
	refactorCmd.Flags().StringVar(&flagName, "name", "", "name for the extracted variable or method")
	refactorCmd.Flags().BoolVar(&flagWrite, "write", false, "write the result back to the file")
}

func runRefactor(cmd *cobra.Command, args []string) error {
	action := args[0]
	path, err := resolveFilePath(args[1])
	if err != nil {
		return err
	}

	coords := make([]int, 4)
	names := []string{"start-line", "start-col", "end-line", "end-col"}
	for i, name := range names {
		n, err := strconv.Atoi(args[2+i])
		if err != nil || n < 0 {
			return fmt.Errorf("invalid %s %q: must be a non-negative integer", name, args[2+i])
		}
		coords[i] = n
	}
	sel := loupe.RangeFrom(coords[0], coords[1], coords[2], coords[3])

	registry, err := adapter.DefaultRegistry()
	if err != nil {
		return fmt.Errorf("building registry: %w", err)
	}
	a, found := registry.ForFile(path)
	if !found {
		return fmt.Errorf("unsupported file type: %s", path)
	}

	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	before := string(src)
	ctx := refactor.NewContext(before, string(uri.File(path)), sel, a.LanguageID())

	res, err := refactor.Execute(ctx, action, flagName)
	if err != nil {
		return err
	}
	after := refactor.ApplyEdits(before, res.Edits)

	if !flagWrite {
		edits := myers.ComputeEdits(span.URIFromPath(path), before, after)
		fmt.Fprint(os.Stdout, gotextdiff.ToUnified(path, path+" (refactored)", before, edits))
		fmt.Fprintf(os.Stderr, "%s (use --write to apply)\n", res.Description)
		return nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(after), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "%s\n", res.Description)
	return nil
}
