package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jward/arbor/internal/scripting"
)

var scriptCmd = &cobra.Command{
	Use:   "script <file.risor>",
	Short: "Run a Risor script against the index",
	Long:  "Executes a Risor script with graph queries exposed as globals: trace, find_paths, dead_code, references, cycles, import_report, and log.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		q, cleanup, err := loadQueries()
		if err != nil {
			return outputError("script", err)
		}
		defer cleanup()

		rt := scripting.NewRuntime(q)
		if err := rt.RunScript(context.Background(), args[0]); err != nil {
			return outputError("script", err)
		}
		return nil
	},
}
