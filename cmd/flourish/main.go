// cmd/flourish/main.go
//
// This is the entry point for the flourish CLI.
// Running `flourish` with no subcommand starts the reflection TUI in the
// current directory; `catalog` and `simulate` are headless helpers for
// content authors and QA.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "flourish",
	Short: "A guided reflection for two partners",
	Long: `flourish walks two partners through five relationship dimensions.

Each partner answers on their own, then both discuss the dimensions where
their combined answers were lowest, ending with a short resolution.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runTUI,
}

func init() {
	rootCmd.AddCommand(runCmd, catalogCmd, simulateCmd)
	registerRunFlags(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
