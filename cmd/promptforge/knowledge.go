package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/promptforge/promptforge/internal/config"
	"github.com/promptforge/promptforge/internal/knowledge"
)

var knowledgeCmd = &cobra.Command{
	Use:   "knowledge",
	Short: "Manage the technology knowledge base",
	Long: `Manage the per-technology best practices and tooling notes that
enrich template-generated prompts.

Usage:
  promptforge knowledge list                 # List known technologies
  promptforge knowledge list nodejs          # Show notes for a technology
  promptforge knowledge add nodejs practice "Use async/await"
  promptforge knowledge add nodejs tool "jest for testing"`,
}

var knowledgeListCmd = &cobra.Command{
	Use:   "list [technology]",
	Short: "List technologies or the notes for one technology",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openKnowledgeStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if len(args) == 0 {
			return listTechnologies(store)
		}
		return listNotes(store, args[0])
	},
}

var knowledgeAddCmd = &cobra.Command{
	Use:   "add <technology> <practice|tool> <note>",
	Short: "Add a note for a technology",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, err := parseNoteKind(args[1])
		if err != nil {
			return err
		}

		store, err := openKnowledgeStore()
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Add(args[0], kind, args[2]); err != nil {
			return fmt.Errorf("failed to add note: %w", err)
		}
		fmt.Printf("%s Added %s note for %s\n", color.GreenString("✓"), args[1], args[0])
		return nil
	},
}

func init() {
	knowledgeCmd.AddCommand(knowledgeListCmd)
	knowledgeCmd.AddCommand(knowledgeAddCmd)
}

// openKnowledgeStore opens the configured knowledge database.
func openKnowledgeStore() (*knowledge.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	dbPath := cfg.Knowledge.DBPath
	if dbPath == "" {
		dbPath = knowledge.GlobalDBPath()
	}

	store, err := knowledge.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge store: %w", err)
	}
	return store, nil
}

func parseNoteKind(s string) (knowledge.NoteKind, error) {
	switch strings.ToLower(s) {
	case "practice", "best_practice":
		return knowledge.KindBestPractice, nil
	case "tool":
		return knowledge.KindTool, nil
	default:
		return "", fmt.Errorf("unknown note kind %q (want practice or tool)", s)
	}
}

func listTechnologies(store *knowledge.Store) error {
	techs, err := store.Technologies()
	if err != nil {
		return fmt.Errorf("failed to list technologies: %w", err)
	}

	if len(techs) == 0 {
		fmt.Println("No technologies in the knowledge base.")
		return nil
	}
	for _, tech := range techs {
		fmt.Println(tech)
	}
	return nil
}

func listNotes(store *knowledge.Store, tech string) error {
	practices, err := store.BestPractices(tech)
	if err != nil {
		return fmt.Errorf("failed to query best practices: %w", err)
	}
	tools, err := store.Tools(tech)
	if err != nil {
		return fmt.Errorf("failed to query tools: %w", err)
	}

	if len(practices) == 0 && len(tools) == 0 {
		fmt.Printf("No notes for %s.\n", tech)
		return nil
	}

	if len(practices) > 0 {
		fmt.Printf("%s\n", color.CyanString("Best practices:"))
		for _, p := range practices {
			fmt.Printf("  - %s\n", p)
		}
	}
	if len(tools) > 0 {
		fmt.Printf("%s\n", color.CyanString("Tools:"))
		for _, tool := range tools {
			fmt.Printf("  - %s\n", tool)
		}
	}
	return nil
}
