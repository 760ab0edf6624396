package models

// CompositePrompt is the terminal result of recursive prompt generation.
type CompositePrompt struct {
	// MainPrompt is the merged, dependency-ordered document embedding
	// each subtask's generated content under a heading.
	MainPrompt string `json:"main_prompt"`
	// SubtaskPrompts maps subtask name to its generated text.
	SubtaskPrompts map[string]string `json:"subtask_prompts"`
	// Order lists subtask names in topological order. Go maps carry no
	// insertion order, so the ordering lives here.
	Order []string `json:"order"`
	// IntegrationGuide documents cross-subtask contracts and dependency flow.
	IntegrationGuide string `json:"integration_guide"`
	// DeploymentInstructions enumerates subtasks in deployment order.
	DeploymentInstructions string `json:"deployment_instructions"`
	// ArchitectureOverview summarizes components and the technology stack.
	ArchitectureOverview string `json:"architecture_overview"`
	// ConfidenceScore is a heuristic quality estimate in [0.0, 1.0].
	ConfidenceScore float64 `json:"confidence_score"`
}

// RecursiveConfig controls one invocation of the recursive engine.
// It is read-only once the orchestrator is constructed.
type RecursiveConfig struct {
	// MaxRecursionDepth bounds nested decomposition. The engine currently
	// decomposes one level deep; the field guards future recursion.
	MaxRecursionDepth int `mapstructure:"max_recursion_depth"`
	// EnableParallelProcessing selects the generation driver's mode.
	EnableParallelProcessing bool `mapstructure:"enable_parallel_processing"`
	// MinSubtaskComplexity is an advisory filter threshold.
	MinSubtaskComplexity float64 `mapstructure:"min_subtask_complexity"`
	// CompositionStrategy tags the composition algorithm.
	// Only "dependency_aware" is implemented.
	CompositionStrategy string `mapstructure:"composition_strategy"`
	// EnableIntegrationValidation reserves a post-composition hook.
	EnableIntegrationValidation bool `mapstructure:"enable_integration_validation"`
}

// DefaultRecursiveConfig returns the default engine configuration.
func DefaultRecursiveConfig() RecursiveConfig {
	return RecursiveConfig{
		MaxRecursionDepth:           3,
		EnableParallelProcessing:    true,
		MinSubtaskComplexity:        0.3,
		CompositionStrategy:         "dependency_aware",
		EnableIntegrationValidation: true,
	}
}
