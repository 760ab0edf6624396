// Package compose merges generated subtask content into a composite prompt.
package compose

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/promptforge/promptforge/internal/graph"
	"github.com/promptforge/promptforge/pkg/models"
)

// ErrResultMismatch indicates the results do not pair with the subtasks.
var ErrResultMismatch = errors.New("subtask and result counts differ")

// ErrEmptyBatch indicates composition was asked to merge nothing.
var ErrEmptyBatch = errors.New("empty subtask batch")

// complexityWeights scale per-subtask confidence by complexity tier.
// Harder tiers discount more because generated content is less reliable.
var complexityWeights = map[models.Complexity]float64{
	models.ComplexitySimple:     0.9,
	models.ComplexityModerate:   0.8,
	models.ComplexityComplex:    0.7,
	models.ComplexityEnterprise: 0.6,
}

// Composer builds a CompositePrompt from subtasks and their generated
// content. results[i] must be the content for subtasks[i].
type Composer struct {
	debugLog func(format string, args ...interface{})
}

// New creates a new Composer.
func New() *Composer {
	return &Composer{debugLog: func(format string, args ...interface{}) {}}
}

// SetDebugLog sets the debug logging function.
func (c *Composer) SetDebugLog(fn func(format string, args ...interface{})) {
	if fn != nil {
		c.debugLog = fn
	}
}

// Compose topologically orders the batch, re-pairs each subtask with its
// generated content, and assembles the composite document set.
func (c *Composer) Compose(subtasks []*models.Subtask, results []string) (*models.CompositePrompt, error) {
	if len(subtasks) != len(results) {
		return nil, fmt.Errorf("%w: %d subtasks, %d results", ErrResultMismatch, len(subtasks), len(results))
	}
	if len(subtasks) == 0 {
		return nil, ErrEmptyBatch
	}

	g := graph.New()
	if err := g.Build(subtasks); err != nil {
		return nil, fmt.Errorf("order subtasks: %w", err)
	}
	ordered, err := g.TopologicalSort()
	if err != nil {
		return nil, fmt.Errorf("order subtasks: %w", err)
	}

	// Re-pair ordered subtasks with their original results by index.
	resultByID := make(map[string]string, len(subtasks))
	for i, st := range subtasks {
		resultByID[st.ID] = results[i]
	}
	orderedResults := make([]string, len(ordered))
	for i, st := range ordered {
		orderedResults[i] = resultByID[st.ID]
	}

	subtaskPrompts := make(map[string]string, len(ordered))
	order := make([]string, len(ordered))
	for i, st := range ordered {
		subtaskPrompts[st.Name] = orderedResults[i]
		order[i] = st.Name
	}

	c.debugLog("[compose] composing %d subtasks", len(ordered))

	return &models.CompositePrompt{
		MainPrompt:             mainPrompt(ordered, orderedResults),
		SubtaskPrompts:         subtaskPrompts,
		Order:                  order,
		IntegrationGuide:       integrationGuide(ordered),
		DeploymentInstructions: deploymentInstructions(ordered),
		ArchitectureOverview:   architectureOverview(ordered),
		ConfidenceScore:        ConfidenceScore(ordered, orderedResults),
	}, nil
}

// integrationGuide lists the deduplicated integration points across the
// batch, then the dependency flow by subtask name.
func integrationGuide(subtasks []*models.Subtask) string {
	var guide strings.Builder
	guide.WriteString("# Integration Guide\n\n")
	guide.WriteString("## Integration Points\n\n")

	seen := make(map[string]bool)
	for _, st := range subtasks {
		for _, point := range st.IntegrationPoints {
			if seen[point] {
				continue
			}
			seen[point] = true
			fmt.Fprintf(&guide, "- **%s**: Integration specifications for %s\n", point, point)
		}
	}

	guide.WriteString("\n## Dependency Flow\n\n")
	nameByID := make(map[string]string, len(subtasks))
	for _, st := range subtasks {
		nameByID[st.ID] = st.Name
	}
	for _, st := range subtasks {
		if len(st.Dependencies) == 0 {
			continue
		}
		depNames := make([]string, len(st.Dependencies))
		for i, depID := range st.Dependencies {
			depNames[i] = nameByID[depID]
		}
		fmt.Fprintf(&guide, "- %s depends on: %s\n", st.Name, strings.Join(depNames, ", "))
	}

	return guide.String()
}

// deploymentInstructions enumerates subtasks in topological order.
func deploymentInstructions(subtasks []*models.Subtask) string {
	var instructions strings.Builder
	instructions.WriteString("# Deployment Instructions\n\n")
	instructions.WriteString("## Deployment Order\n\n")

	for i, st := range subtasks {
		fmt.Fprintf(&instructions, "%d. **%s**\n", i+1, st.Name)
		fmt.Fprintf(&instructions, "   - Technologies: %s\n", strings.Join(st.Technologies, ", "))
		fmt.Fprintf(&instructions, "   - Complexity: %s\n\n", st.Complexity)
	}

	instructions.WriteString("## Prerequisites\n\n")
	instructions.WriteString("- Ensure all dependencies are deployed before dependent services\n")
	instructions.WriteString("- Validate integration points between services\n")
	instructions.WriteString("- Monitor deployment progress and health checks\n")

	return instructions.String()
}

// architectureOverview describes each component, then the combined stack.
func architectureOverview(subtasks []*models.Subtask) string {
	var overview strings.Builder
	overview.WriteString("# Architecture Overview\n\n")
	overview.WriteString("## System Components\n\n")

	for _, st := range subtasks {
		fmt.Fprintf(&overview, "### %s\n", st.Name)
		fmt.Fprintf(&overview, "- **Description**: %s\n", st.Description)
		fmt.Fprintf(&overview, "- **Technologies**: %s\n", strings.Join(st.Technologies, ", "))
		fmt.Fprintf(&overview, "- **Integration Points**: %s\n\n", strings.Join(st.IntegrationPoints, ", "))
	}

	overview.WriteString("## Technology Stack\n\n")
	techSet := make(map[string]bool)
	for _, st := range subtasks {
		for _, tech := range st.Technologies {
			techSet[tech] = true
		}
	}
	stack := make([]string, 0, len(techSet))
	for tech := range techSet {
		stack = append(stack, tech)
	}
	sort.Strings(stack)
	for _, tech := range stack {
		fmt.Fprintf(&overview, "- %s\n", tech)
	}

	return overview.String()
}

// mainPrompt concatenates a heading per subtask with its generated
// content, separated by a horizontal rule, in topological order.
func mainPrompt(subtasks []*models.Subtask, results []string) string {
	var prompt strings.Builder
	prompt.WriteString("# Hierarchical System Implementation\n\n")
	prompt.WriteString("This is a comprehensive implementation guide for a complex system broken down into manageable components.\n\n")
	prompt.WriteString("## Implementation Strategy\n\n")
	prompt.WriteString("Follow the dependency order below to implement each component:\n\n")

	for i, st := range subtasks {
		fmt.Fprintf(&prompt, "### %d. %s\n\n", i+1, st.Name)
		prompt.WriteString(results[i])
		prompt.WriteString("\n\n---\n\n")
	}

	return prompt.String()
}

// ConfidenceScore estimates composition quality in [0.0, 1.0].
// Each subtask contributes min(len(result)/1000, 1.0) scaled by its
// complexity weight; the score is the mean. An empty batch scores 0.0.
func ConfidenceScore(subtasks []*models.Subtask, results []string) float64 {
	if len(subtasks) == 0 {
		return 0.0
	}

	var total float64
	for i, st := range subtasks {
		base := float64(len(results[i])) / 1000.0
		if base > 1.0 {
			base = 1.0
		}
		weight, ok := complexityWeights[st.Complexity]
		if !ok {
			weight = 0.5
		}
		total += base * weight
	}

	return total / float64(len(subtasks))
}
