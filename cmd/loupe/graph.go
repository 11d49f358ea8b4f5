package main

import (
	"github.com/spf13/cobra"
)

var callsCmd = &cobra.Command{
	Use:   "calls <name>",
	Short: "List call sites of a function or method",
	Long:  "Lists every recorded call whose callee or qualified form matches the given name. Matching is textual, so symbols sharing a name across files are conflated.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalls,
}

var importersCmd = &cobra.Command{
	Use:   "importers <module>",
	Short: "List files importing a module",
	Args:  cobra.ExactArgs(1),
	RunE:  runImporters,
}

func runCalls(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	sites, err := s.CallSites(args[0])
	if err != nil {
		return err
	}
	calls := make([]CLICall, 0, len(sites))
	for _, site := range sites {
		calls = append(calls, CLICall{
			Callee:      site.Callee,
			Qualified:   site.Qualified,
			Constructor: site.Constructor,
			File:        site.Path,
			Line:        site.Range.Start.Line,
		})
	}
	total := len(calls)
	return outputResult(CLIResult{Command: "calls", Results: calls, TotalCount: &total})
}

func runImporters(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	paths, err := s.Importers(args[0])
	if err != nil {
		return err
	}
	total := len(paths)
	return outputResult(CLIResult{Command: "importers", Results: paths, TotalCount: &total})
}
