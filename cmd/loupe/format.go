package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
)

// formatSymbolsText formats CLISymbol results as aligned columns.
func formatSymbolsText(w io.Writer, syms []CLISymbol) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tVISIBILITY\tFILE\tLINE")
	for _, s := range syms {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\n",
			s.QualifiedName, s.Kind, s.Visibility, s.File, s.StartLine)
	}
	tw.Flush()
}

// formatTodosText formats CLITodo results as aligned columns.
func formatTodosText(w io.Writer, todos []CLITodo) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tPRIORITY\tFILE\tLINE\tTEXT")
	for _, t := range todos {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\n",
			t.Kind, t.Priority, t.File, t.Line, t.Text)
	}
	tw.Flush()
}

// formatFilesText formats CLIFile results as aligned columns.
func formatFilesText(w io.Writer, files []CLIFile) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPATH\tLANGUAGE")
	for _, f := range files {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", f.ID, f.Path, f.Language)
	}
	tw.Flush()
}

// formatUnusedText formats CLIUnused results as aligned columns.
func formatUnusedText(w io.Writer, items []CLIUnused) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tKIND\tLINE\tFIX")
	for _, item := range items {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", item.Name, item.Kind, item.Line, item.FixAction)
	}
	tw.Flush()
}

// formatCallsText formats CLICall results as aligned columns.
func formatCallsText(w io.Writer, calls []CLICall) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CALLEE\tQUALIFIED\tFILE\tLINE")
	for _, c := range calls {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", c.Callee, c.Qualified, c.File, c.Line)
	}
	tw.Flush()
}

// outputResultText dispatches to the appropriate text formatter based on
// the result type. It writes to os.Stdout.
func outputResultText(result CLIResult) error {
	w := io.Writer(os.Stdout)

	switch v := result.Results.(type) {
	case []CLISymbol:
		formatSymbolsText(w, v)
	case []CLITodo:
		formatTodosText(w, v)
	case []CLIFile:
		formatFilesText(w, v)
	case []CLIUnused:
		formatUnusedText(w, v)
	case []CLICall:
		formatCallsText(w, v)
	case []string:
		for _, line := range v {
			fmt.Fprintln(w, line)
		}
	case nil:
		// No output for nil results.
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
