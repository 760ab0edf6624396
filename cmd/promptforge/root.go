package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "promptforge",
	Short: "Recursive prompt generator for complex development tasks",
	Long: `Promptforge decomposes a complex development task into dependency-aware
subtasks, generates an implementation prompt for each one, and composes
the results into a single hierarchical prompt document.

Core capabilities:
- Classifies the task's technology stack
- Picks a decomposition strategy (services, tiers, features, or domains)
- Generates subtask prompts in parallel with per-item error recovery
- Composes results in dependency order with a confidence score`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(knowledgeCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
