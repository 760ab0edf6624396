// Package decompose breaks complex tasks into dependency-ordered subtasks.
package decompose

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/promptforge/promptforge/internal/graph"
	"github.com/promptforge/promptforge/internal/techstack"
	"github.com/promptforge/promptforge/pkg/models"
)

// Strategy identifies how a complex task is split into subtasks.
type Strategy string

const (
	// StrategyByServices splits along microservice boundaries.
	StrategyByServices Strategy = "by_services"
	// StrategyByTiers splits along application tiers (frontend/backend/database).
	StrategyByTiers Strategy = "by_tiers"
	// StrategyByFeatures splits along requirement-derived features.
	StrategyByFeatures Strategy = "by_features"
	// StrategyByDomains marks domain-driven splitting. Not separately
	// implemented; construction falls back to the services split.
	StrategyByDomains Strategy = "by_domains"
)

// ErrNoSubtasks indicates decomposition produced an empty batch.
var ErrNoSubtasks = errors.New("decomposition produced no subtasks")

// Decomposer breaks down complex tasks using architecture heuristics.
type Decomposer struct {
	debugLog func(format string, args ...interface{})
}

// New creates a new Decomposer.
func New() *Decomposer {
	return &Decomposer{debugLog: func(format string, args ...interface{}) {}}
}

// SetDebugLog sets the debug logging function.
func (d *Decomposer) SetDebugLog(fn func(format string, args ...interface{})) {
	if fn != nil {
		d.debugLog = fn
	}
}

// Decompose splits the task into a batch of subtasks with dependencies.
// The returned batch is validated acyclic; a batch that fails validation
// is discarded, never returned.
func (d *Decomposer) Decompose(task models.ComplexTask) ([]*models.Subtask, error) {
	analysis := techstack.Analyze(task.Technologies)
	strategy := SelectStrategy(task, analysis)
	d.debugLog("[decompose] task=%q strategy=%s", task.Name, strategy)

	var subtasks []*models.Subtask
	switch strategy {
	case StrategyByTiers:
		subtasks = d.byTiers(task, analysis)
	case StrategyByFeatures:
		subtasks = d.byFeatures(task)
	default:
		// StrategyByServices, and StrategyByDomains falling back to it.
		subtasks = d.byServices(task)
	}

	if len(subtasks) == 0 {
		return nil, fmt.Errorf("decompose %q: %w", task.Name, ErrNoSubtasks)
	}

	if err := ValidateNoCycles(subtasks); err != nil {
		return nil, fmt.Errorf("validate dependencies: %w", err)
	}

	d.debugLog("[decompose] task=%q produced %d subtasks", task.Name, len(subtasks))
	return subtasks, nil
}

// SelectStrategy picks the decomposition strategy for a task.
// Rules apply in priority order:
//  1. multiple backends or containerization -> services
//  2. frontend+backend+database without multiple services -> tiers
//  3. more than 5 technologies or enterprise complexity -> domains
//  4. otherwise -> features
func SelectStrategy(task models.ComplexTask, analysis techstack.Analysis) Strategy {
	if analysis.MultiBackend || analysis.Containerized {
		return StrategyByServices
	}
	if analysis.FrontendAndBackend && len(analysis.Database) > 0 && !analysis.MultiBackend {
		return StrategyByTiers
	}
	if analysis.TotalCount > 5 || task.TargetComplexity == models.ComplexityEnterprise {
		return StrategyByDomains
	}
	return StrategyByFeatures
}

// serviceSpec describes one entry of the fixed service catalog.
type serviceSpec struct {
	name         string
	technologies []string
	apis         []string
}

// serviceCatalog is the fixed lookup of known logical services.
// Service identification is heuristic, not a generic algorithm.
var serviceCatalog = []serviceSpec{
	{
		name:         "user",
		technologies: []string{"nodejs", "postgresql"},
		apis:         []string{"auth", "profile"},
	},
	{
		name:         "product",
		technologies: []string{"python", "redis"},
		apis:         []string{"catalog", "inventory"},
	},
}

// byServices creates one subtask per catalog service plus an
// infrastructure subtask that depends on every service.
func (d *Decomposer) byServices(task models.ComplexTask) []*models.Subtask {
	var subtasks []*models.Subtask

	for _, svc := range serviceCatalog {
		subtasks = append(subtasks, &models.Subtask{
			ID:                uuid.New().String(),
			Name:              fmt.Sprintf("%s Service", svc.name),
			Description:       fmt.Sprintf("Implement %s microservice with %s", svc.name, strings.Join(svc.technologies, ", ")),
			Technologies:      svc.technologies,
			Complexity:        models.ComplexityModerate,
			GenerationConfig:  newGenerationRequest(task, fmt.Sprintf("%s Service", svc.name)),
			IntegrationPoints: svc.apis,
		})
	}

	// Infrastructure deploys everything, so it depends on all services.
	serviceIDs := make([]string, len(subtasks))
	for i, st := range subtasks {
		serviceIDs[i] = st.ID
	}
	subtasks = append(subtasks, &models.Subtask{
		ID:                uuid.New().String(),
		Name:              "Infrastructure",
		Description:       "Deploy and orchestrate all services",
		Technologies:      []string{"docker", "kubernetes"},
		Dependencies:      serviceIDs,
		Complexity:        models.ComplexityComplex,
		GenerationConfig:  newGenerationRequest(task, "Infrastructure"),
		IntegrationPoints: []string{"service_discovery", "load_balancing", "monitoring"},
	})

	return subtasks
}

// byTiers creates up to three tier subtasks. Tiers declare no
// dependencies on each other at this decomposition depth.
func (d *Decomposer) byTiers(task models.ComplexTask, analysis techstack.Analysis) []*models.Subtask {
	var subtasks []*models.Subtask

	if len(analysis.Frontend) > 0 {
		subtasks = append(subtasks, &models.Subtask{
			ID:                uuid.New().String(),
			Name:              "Frontend Layer",
			Description:       "Implement user interface and client-side logic",
			Technologies:      filterTechnologies(task.Technologies, techstack.IsFrontend),
			Complexity:        models.ComplexityModerate,
			GenerationConfig:  newGenerationRequest(task, "Frontend Layer"),
			IntegrationPoints: []string{"api_contracts", "authentication"},
		})
	}

	subtasks = append(subtasks, &models.Subtask{
		ID:                uuid.New().String(),
		Name:              "Backend Layer",
		Description:       "Implement business logic and API services",
		Technologies:      filterTechnologies(task.Technologies, techstack.IsBackend),
		Complexity:        models.ComplexityModerate,
		GenerationConfig:  newGenerationRequest(task, "Backend Layer"),
		IntegrationPoints: []string{"database_access", "external_apis"},
	})

	if len(analysis.Database) > 0 {
		subtasks = append(subtasks, &models.Subtask{
			ID:                uuid.New().String(),
			Name:              "Database Layer",
			Description:       "Design and implement data persistence layer",
			Technologies:      filterTechnologies(task.Technologies, techstack.IsDatabase),
			Complexity:        models.ComplexitySimple,
			GenerationConfig:  newGenerationRequest(task, "Database Layer"),
			IntegrationPoints: []string{"schema_design", "migrations", "backup_strategy"},
		})
	}

	return subtasks
}

// byFeatures creates one subtask per requirement-derived feature.
// Authentication is recognized as a distinguished first feature; all
// remaining requirements group into a Core Functionality feature that
// depends on it. Every feature carries the parent task's full stack.
func (d *Decomposer) byFeatures(task models.ComplexTask) []*models.Subtask {
	var subtasks []*models.Subtask

	var authID string
	if hasAuthRequirement(task.Requirements) {
		authID = uuid.New().String()
		subtasks = append(subtasks, &models.Subtask{
			ID:                authID,
			Name:              "Authentication Feature",
			Description:       "User login and registration",
			Technologies:      task.Technologies,
			Complexity:        models.ComplexitySimple,
			GenerationConfig:  newGenerationRequest(task, "Authentication Feature"),
			IntegrationPoints: []string{"session_management", "security"},
		})
	}

	core := &models.Subtask{
		ID:                uuid.New().String(),
		Name:              "Core Functionality Feature",
		Description:       "Main application features",
		Technologies:      task.Technologies,
		Complexity:        models.ComplexitySimple,
		GenerationConfig:  newGenerationRequest(task, "Core Functionality Feature"),
		IntegrationPoints: []string{"data_access", "business_logic"},
	}
	if authID != "" {
		core.Dependencies = []string{authID}
	}
	subtasks = append(subtasks, core)

	return subtasks
}

// hasAuthRequirement reports whether any requirement mentions authentication.
func hasAuthRequirement(requirements []string) bool {
	for _, req := range requirements {
		lower := strings.ToLower(req)
		if strings.Contains(lower, "auth") || strings.Contains(lower, "login") || strings.Contains(lower, "registration") {
			return true
		}
	}
	return false
}

// filterTechnologies returns the technologies matching the predicate.
func filterTechnologies(technologies []string, keep func(string) bool) []string {
	var filtered []string
	for _, tech := range technologies {
		if keep(tech) {
			filtered = append(filtered, tech)
		}
	}
	return filtered
}

// newGenerationRequest builds the opaque generator payload for a subtask.
func newGenerationRequest(task models.ComplexTask, subtaskName string) *models.GenerationRequest {
	return &models.GenerationRequest{
		TaskType:         "deployment",
		TaskName:         subtaskName,
		TaskDescription:  task.Description,
		Technologies:     task.Technologies,
		CodeRequirements: strings.Join(task.Requirements, "; "),
	}
}

// ValidateNoCycles checks that the batch's dependency graph is acyclic.
// The error wraps graph.ErrCycleDetected when a cycle is found.
func ValidateNoCycles(subtasks []*models.Subtask) error {
	g := graph.New()
	return g.Build(subtasks)
}
