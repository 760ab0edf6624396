package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/promptforge/promptforge/internal/config"
	"github.com/promptforge/promptforge/internal/generate"
	"github.com/promptforge/promptforge/internal/knowledge"
	"github.com/promptforge/promptforge/internal/orchestrator"
	"github.com/promptforge/promptforge/pkg/models"
)

var (
	generateOutput     string
	generateSequential bool
	generateBackend    string
)

var generateCmd = &cobra.Command{
	Use:   "generate <task-file>",
	Short: "Generate a composite prompt from a task definition",
	Long: `Generate a hierarchical prompt document from a YAML task definition.

The task file describes the complex task to decompose:

  name: E-commerce Platform
  description: Build a multi-service e-commerce platform
  technologies: [nodejs, python, postgresql, redis, docker]
  requirements:
    - user authentication
    - product catalog
  target_complexity: complex

The task is decomposed into dependency-aware subtasks, a prompt is
generated for each, and the results are composed in dependency order.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "Write the composite prompt to a file instead of stdout")
	generateCmd.Flags().BoolVar(&generateSequential, "sequential", false, "Generate subtask prompts one at a time")
	generateCmd.Flags().StringVar(&generateBackend, "backend", "", "Generator backend: template or claude (overrides config)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	task, err := loadTaskFile(args[0])
	if err != nil {
		return err
	}

	if generateSequential {
		cfg.Recursive.EnableParallelProcessing = false
	}
	if generateBackend != "" {
		cfg.Generator.Backend = generateBackend
	}

	logger, err := orchestrator.NewDebugLogger(cfg.Debug.LogPath)
	if err != nil {
		return fmt.Errorf("failed to open debug log: %w", err)
	}
	defer logger.Close()

	gen, cleanup, err := buildGenerator(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	emitter := orchestrator.NewEventEmitter(16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for event := range emitter.Events() {
			printEvent(event)
		}
	}()

	sink := orchestrator.MultiSink{emitter, orchestrator.NewLoggerSink(logger)}
	orch := orchestrator.New(gen, cfg.Recursive,
		orchestrator.WithEventSink(sink),
		orchestrator.WithLogger(logger))

	composite, err := orch.GenerateRecursivePrompt(cmd.Context(), *task)
	emitter.Close()
	<-done
	if err != nil {
		return fmt.Errorf("prompt generation failed: %w", err)
	}

	doc := renderComposite(composite)
	if generateOutput != "" {
		if err := os.WriteFile(generateOutput, []byte(doc), 0644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Printf("%s Wrote composite prompt to %s\n", color.GreenString("✓"), generateOutput)
		return nil
	}

	fmt.Println(doc)
	return nil
}

// loadTaskFile reads a YAML task definition into a ComplexTask.
func loadTaskFile(path string) (*models.ComplexTask, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file: %w", err)
	}

	task := &models.ComplexTask{}
	if err := yaml.Unmarshal(data, task); err != nil {
		return nil, fmt.Errorf("failed to parse task file: %w", err)
	}

	if task.Name == "" {
		return nil, fmt.Errorf("task file %s has no name", path)
	}
	if task.TargetComplexity == "" {
		task.TargetComplexity = models.ComplexityModerate
	}
	if !task.TargetComplexity.Valid() {
		return nil, fmt.Errorf("invalid target_complexity %q", task.TargetComplexity)
	}

	return task, nil
}

// buildGenerator constructs the configured generator backend.
// The returned cleanup releases backend resources such as the knowledge store.
func buildGenerator(cfg *config.Config) (generate.Generator, func(), error) {
	switch cfg.Generator.Backend {
	case "", "template":
		dbPath := cfg.Knowledge.DBPath
		if dbPath == "" {
			dbPath = knowledge.GlobalDBPath()
		}
		store, err := knowledge.NewStore(dbPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open knowledge store: %w", err)
		}
		return generate.NewTemplateGenerator(store), func() { store.Close() }, nil

	case "claude":
		gen, err := generate.NewClaudeGenerator(generate.ClaudeConfig{
			Model:         anthropic.Model(cfg.Generator.Model),
			APIKey:        cfg.Anthropic.APIKey,
			MaxTokens:     int64(cfg.Generator.MaxTokens),
			UseAWSBedrock: cfg.Generator.UseAWSBedrock,
			AWSRegion:     cfg.Generator.AWSRegion,
			AWSProfile:    cfg.Generator.AWSProfile,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create claude generator: %w", err)
		}
		return gen, func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown generator backend %q (want template or claude)", cfg.Generator.Backend)
	}
}

// printEvent writes a one-line progress message for a lifecycle event.
func printEvent(event orchestrator.Event) {
	switch event.Type {
	case orchestrator.EventGenerationStarted:
		fmt.Fprintf(os.Stderr, "%s Generating prompt for %q\n", color.CyanString("→"), event.TaskName)
	case orchestrator.EventGenerationCompleted:
		fmt.Fprintf(os.Stderr, "%s Composed %d subtask prompts (confidence %.2f)\n",
			color.GreenString("✓"), event.SubtaskCount, event.ConfidenceScore)
	case orchestrator.EventGenerationFailed:
		fmt.Fprintf(os.Stderr, "%s Generation failed: %s\n", color.RedString("✗"), event.Error)
	}
}

// renderComposite joins the composite prompt sections into one document.
func renderComposite(composite *models.CompositePrompt) string {
	sections := []string{
		composite.MainPrompt,
		composite.ArchitectureOverview,
		composite.IntegrationGuide,
		composite.DeploymentInstructions,
	}

	var out []string
	for _, section := range sections {
		if strings.TrimSpace(section) != "" {
			out = append(out, strings.TrimRight(section, "\n"))
		}
	}
	out = append(out, fmt.Sprintf("Confidence score: %.2f", composite.ConfidenceScore))

	return strings.Join(out, "\n\n")
}
