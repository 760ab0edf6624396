// Package models defines the core data types shared across promptforge.
package models

// Complexity represents the complexity tier of a task or subtask.
type Complexity string

const (
	// ComplexitySimple indicates a small, self-contained task.
	ComplexitySimple Complexity = "simple"
	// ComplexityModerate indicates a task with a handful of moving parts.
	ComplexityModerate Complexity = "moderate"
	// ComplexityComplex indicates a task spanning multiple components.
	ComplexityComplex Complexity = "complex"
	// ComplexityEnterprise indicates a large multi-team scale task.
	ComplexityEnterprise Complexity = "enterprise"
)

// Valid returns true if the complexity is a known value.
func (c Complexity) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityModerate, ComplexityComplex, ComplexityEnterprise:
		return true
	default:
		return false
	}
}

// ComplexTask is a high-level task submitted for decomposition.
// It is created by the caller and never mutated by the engine.
type ComplexTask struct {
	// Name is the short identifier for the task.
	Name string `json:"name" yaml:"name"`
	// Description provides detailed information about the task.
	Description string `json:"description" yaml:"description"`
	// Technologies lists the technology identifiers involved.
	// Duplicates are allowed; the engine treats them as a set.
	Technologies []string `json:"technologies" yaml:"technologies"`
	// Requirements lists the functional requirements, in order.
	Requirements []string `json:"requirements" yaml:"requirements"`
	// Constraints holds opaque constraint values (budget, timeline, ...).
	Constraints map[string]string `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	// TargetComplexity is the complexity tier the caller expects.
	TargetComplexity Complexity `json:"target_complexity" yaml:"target_complexity"`
}

// Subtask is one decomposed unit of work with its own dependency set.
type Subtask struct {
	// ID is the unique identifier for this subtask, generated at creation.
	ID string `json:"id"`
	// Name is the short description of the subtask.
	Name string `json:"name"`
	// Description provides detailed information about the subtask.
	Description string `json:"description,omitempty"`
	// Technologies lists the identifiers relevant to this subtask.
	Technologies []string `json:"technologies,omitempty"`
	// Dependencies lists subtask IDs that must complete before this one.
	// They must reference IDs within the same decomposition batch.
	Dependencies []string `json:"dependencies,omitempty"`
	// Complexity is the complexity tier of this subtask.
	Complexity Complexity `json:"complexity"`
	// GenerationConfig is an opaque payload handed unchanged to the
	// content generator. The engine never inspects it.
	GenerationConfig any `json:"-"`
	// IntegrationPoints labels cross-subtask contracts (e.g. "auth").
	IntegrationPoints []string `json:"integration_points,omitempty"`
}

// GenerationRequest is the payload the decomposer places in
// Subtask.GenerationConfig. Only generator implementations look inside.
type GenerationRequest struct {
	// TaskType categorizes the work (e.g. "deployment").
	TaskType string `json:"task_type"`
	// TaskName is the name of the subtask being generated.
	TaskName string `json:"task_name"`
	// TaskDescription describes the work to generate content for.
	TaskDescription string `json:"task_description"`
	// Technologies lists the identifiers the content should cover.
	Technologies []string `json:"technologies"`
	// CodeRequirements carries the parent task's requirements text.
	CodeRequirements string `json:"code_requirements"`
}
