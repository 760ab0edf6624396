package decompose

import (
	"errors"
	"testing"

	"github.com/promptforge/promptforge/internal/graph"
	"github.com/promptforge/promptforge/internal/techstack"
	"github.com/promptforge/promptforge/pkg/models"
)

func TestNew(t *testing.T) {
	if New() == nil {
		t.Fatal("New returned nil")
	}
}

func TestSelectStrategy(t *testing.T) {
	tests := []struct {
		name         string
		technologies []string
		complexity   models.Complexity
		want         Strategy
	}{
		{
			name:         "multi backend selects services",
			technologies: []string{"nodejs", "python", "postgresql"},
			complexity:   models.ComplexityModerate,
			want:         StrategyByServices,
		},
		{
			name:         "containerized selects services",
			technologies: []string{"golang", "docker"},
			complexity:   models.ComplexityModerate,
			want:         StrategyByServices,
		},
		{
			name:         "three tier stack selects tiers",
			technologies: []string{"react", "nodejs", "postgresql"},
			complexity:   models.ComplexityModerate,
			want:         StrategyByTiers,
		},
		{
			name:         "enterprise complexity selects domains",
			technologies: []string{"golang"},
			complexity:   models.ComplexityEnterprise,
			want:         StrategyByDomains,
		},
		{
			name:         "many technologies selects domains",
			technologies: []string{"golang", "terraform", "aws", "redis", "kafka", "grpc"},
			complexity:   models.ComplexityModerate,
			want:         StrategyByDomains,
		},
		{
			name:         "small task selects features",
			technologies: []string{"golang"},
			complexity:   models.ComplexitySimple,
			want:         StrategyByFeatures,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := models.ComplexTask{
				Name:             "test",
				Technologies:     tt.technologies,
				TargetComplexity: tt.complexity,
			}
			got := SelectStrategy(task, techstack.Analyze(tt.technologies))
			if got != tt.want {
				t.Errorf("SelectStrategy = %s, want %s", got, tt.want)
			}
		})
	}
}

// Scenario: a multi-backend containerized stack decomposes into the
// service catalog plus a trailing Infrastructure subtask.
func TestDecomposeByServices(t *testing.T) {
	task := models.ComplexTask{
		Name:             "commerce platform",
		Description:      "Build an e-commerce platform",
		Technologies:     []string{"nodejs", "postgresql", "python", "redis", "docker"},
		TargetComplexity: models.ComplexityComplex,
	}

	subtasks, err := New().Decompose(task)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	if len(subtasks) != 3 {
		t.Fatalf("subtask count = %d, want 3", len(subtasks))
	}

	byName := make(map[string]*models.Subtask)
	for _, st := range subtasks {
		byName[st.Name] = st
	}

	user, ok := byName["user Service"]
	if !ok {
		t.Fatal("missing user Service subtask")
	}
	product, ok := byName["product Service"]
	if !ok {
		t.Fatal("missing product Service subtask")
	}
	infra, ok := byName["Infrastructure"]
	if !ok {
		t.Fatal("missing Infrastructure subtask")
	}

	if len(infra.Dependencies) != 2 {
		t.Fatalf("Infrastructure dependencies = %v, want 2 entries", infra.Dependencies)
	}
	wantDeps := map[string]bool{user.ID: true, product.ID: true}
	for _, dep := range infra.Dependencies {
		if !wantDeps[dep] {
			t.Errorf("unexpected Infrastructure dependency %s", dep)
		}
	}

	// Infrastructure must sort last.
	g := graph.New()
	if err := g.Build(subtasks); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	sorted, err := g.TopologicalSort()
	if err != nil {
		t.Fatalf("TopologicalSort failed: %v", err)
	}
	if sorted[len(sorted)-1].Name != "Infrastructure" {
		t.Errorf("last subtask = %s, want Infrastructure", sorted[len(sorted)-1].Name)
	}
}

// Scenario: a single-backend three-tier stack decomposes into
// independent Frontend, Backend, and Database subtasks.
func TestDecomposeByTiers(t *testing.T) {
	task := models.ComplexTask{
		Name:             "web app",
		Description:      "Build a web application",
		Technologies:     []string{"react", "nodejs", "postgresql"},
		TargetComplexity: models.ComplexityModerate,
	}

	subtasks, err := New().Decompose(task)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	if len(subtasks) != 3 {
		t.Fatalf("subtask count = %d, want 3", len(subtasks))
	}

	wantNames := []string{"Frontend Layer", "Backend Layer", "Database Layer"}
	for i, want := range wantNames {
		if subtasks[i].Name != want {
			t.Errorf("subtasks[%d].Name = %q, want %q", i, subtasks[i].Name, want)
		}
		if len(subtasks[i].Dependencies) != 0 {
			t.Errorf("%s should declare no dependencies, got %v", want, subtasks[i].Dependencies)
		}
	}

	// Each tier holds only its own technologies.
	if len(subtasks[0].Technologies) != 1 || subtasks[0].Technologies[0] != "react" {
		t.Errorf("Frontend technologies = %v, want [react]", subtasks[0].Technologies)
	}
	if len(subtasks[1].Technologies) != 1 || subtasks[1].Technologies[0] != "nodejs" {
		t.Errorf("Backend technologies = %v, want [nodejs]", subtasks[1].Technologies)
	}
	if len(subtasks[2].Technologies) != 1 || subtasks[2].Technologies[0] != "postgresql" {
		t.Errorf("Database technologies = %v, want [postgresql]", subtasks[2].Technologies)
	}
}

func TestDecomposeByFeaturesWithAuth(t *testing.T) {
	task := models.ComplexTask{
		Name:             "tool",
		Description:      "Build a small tool",
		Technologies:     []string{"golang"},
		Requirements:     []string{"user authentication", "report export"},
		TargetComplexity: models.ComplexitySimple,
	}

	subtasks, err := New().Decompose(task)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	if len(subtasks) != 2 {
		t.Fatalf("subtask count = %d, want 2", len(subtasks))
	}
	if subtasks[0].Name != "Authentication Feature" {
		t.Errorf("first subtask = %q, want Authentication Feature", subtasks[0].Name)
	}
	core := subtasks[1]
	if core.Name != "Core Functionality Feature" {
		t.Errorf("second subtask = %q, want Core Functionality Feature", core.Name)
	}
	if len(core.Dependencies) != 1 || core.Dependencies[0] != subtasks[0].ID {
		t.Errorf("core dependencies = %v, want [%s]", core.Dependencies, subtasks[0].ID)
	}

	// Features carry the parent's full stack.
	for _, st := range subtasks {
		if len(st.Technologies) != 1 || st.Technologies[0] != "golang" {
			t.Errorf("%s technologies = %v, want [golang]", st.Name, st.Technologies)
		}
	}
}

func TestDecomposeByFeaturesWithoutAuth(t *testing.T) {
	task := models.ComplexTask{
		Name:             "tool",
		Technologies:     []string{"golang"},
		Requirements:     []string{"report export"},
		TargetComplexity: models.ComplexitySimple,
	}

	subtasks, err := New().Decompose(task)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	if len(subtasks) != 1 {
		t.Fatalf("subtask count = %d, want 1", len(subtasks))
	}
	if subtasks[0].Name != "Core Functionality Feature" {
		t.Errorf("subtask = %q, want Core Functionality Feature", subtasks[0].Name)
	}
	if len(subtasks[0].Dependencies) != 0 {
		t.Errorf("dependencies = %v, want none", subtasks[0].Dependencies)
	}
}

// Scenario: a hand-crafted two-subtask cycle must be rejected.
func TestValidateNoCyclesRejectsCycle(t *testing.T) {
	a := &models.Subtask{ID: "a", Name: "A"}
	b := &models.Subtask{ID: "b", Name: "B"}
	a.Dependencies = []string{"b"}
	b.Dependencies = []string{"a"}

	err := ValidateNoCycles([]*models.Subtask{a, b})
	if !errors.Is(err, graph.ErrCycleDetected) {
		t.Fatalf("ValidateNoCycles error = %v, want ErrCycleDetected", err)
	}
}

// Round-trip property: any batch the decomposer accepts is acyclic.
func TestDecomposeAcceptedImpliesAcyclic(t *testing.T) {
	tasks := []models.ComplexTask{
		{Name: "services", Technologies: []string{"nodejs", "python", "docker"}, TargetComplexity: models.ComplexityComplex},
		{Name: "tiers", Technologies: []string{"react", "nodejs", "postgresql"}, TargetComplexity: models.ComplexityModerate},
		{Name: "features", Technologies: []string{"golang"}, Requirements: []string{"authentication"}, TargetComplexity: models.ComplexitySimple},
		{Name: "domains", Technologies: []string{"golang"}, TargetComplexity: models.ComplexityEnterprise},
	}

	for _, task := range tasks {
		subtasks, err := New().Decompose(task)
		if err != nil {
			t.Fatalf("Decompose(%s) failed: %v", task.Name, err)
		}
		if err := ValidateNoCycles(subtasks); err != nil {
			t.Errorf("accepted batch for %s has a cycle: %v", task.Name, err)
		}
		for _, st := range subtasks {
			if st.ID == "" {
				t.Errorf("subtask %q has empty ID", st.Name)
			}
			if st.GenerationConfig == nil {
				t.Errorf("subtask %q has nil GenerationConfig", st.Name)
			}
		}
	}
}

// Per the documented gap, domain decomposition reuses the services split.
func TestDecomposeByDomainsFallsBackToServices(t *testing.T) {
	task := models.ComplexTask{
		Name:             "big system",
		Technologies:     []string{"golang"},
		TargetComplexity: models.ComplexityEnterprise,
	}

	subtasks, err := New().Decompose(task)
	if err != nil {
		t.Fatalf("Decompose failed: %v", err)
	}

	var names []string
	for _, st := range subtasks {
		names = append(names, st.Name)
	}
	if len(subtasks) != 3 || names[2] != "Infrastructure" {
		t.Errorf("domain decomposition = %v, want services split ending in Infrastructure", names)
	}
}
