package compose

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/promptforge/promptforge/pkg/models"
)

func subtask(id, name string, complexity models.Complexity, deps ...string) *models.Subtask {
	return &models.Subtask{
		ID:           id,
		Name:         name,
		Description:  "description of " + name,
		Technologies: []string{"golang"},
		Dependencies: deps,
		Complexity:   complexity,
	}
}

func TestComposeCardinalityMismatch(t *testing.T) {
	subtasks := []*models.Subtask{subtask("a", "A", models.ComplexitySimple)}

	_, err := New().Compose(subtasks, []string{"one", "two"})
	if !errors.Is(err, ErrResultMismatch) {
		t.Fatalf("Compose error = %v, want ErrResultMismatch", err)
	}
}

func TestComposeEmptyBatch(t *testing.T) {
	_, err := New().Compose(nil, nil)
	if !errors.Is(err, ErrEmptyBatch) {
		t.Fatalf("Compose error = %v, want ErrEmptyBatch", err)
	}
}

func TestComposeTopologicalOrder(t *testing.T) {
	// infra depends on both services but appears first in the batch.
	subtasks := []*models.Subtask{
		subtask("infra", "Infrastructure", models.ComplexityComplex, "user", "product"),
		subtask("user", "user Service", models.ComplexityModerate),
		subtask("product", "product Service", models.ComplexityModerate),
	}
	results := []string{"infra content", "user content", "product content"}

	composite, err := New().Compose(subtasks, results)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if len(composite.Order) != 3 {
		t.Fatalf("Order length = %d, want 3", len(composite.Order))
	}
	if composite.Order[len(composite.Order)-1] != "Infrastructure" {
		t.Errorf("last ordered subtask = %s, want Infrastructure", composite.Order[len(composite.Order)-1])
	}

	// Re-pairing: each subtask keeps its own content despite reordering.
	if composite.SubtaskPrompts["Infrastructure"] != "infra content" {
		t.Errorf("Infrastructure content = %q", composite.SubtaskPrompts["Infrastructure"])
	}
	if composite.SubtaskPrompts["user Service"] != "user content" {
		t.Errorf("user Service content = %q", composite.SubtaskPrompts["user Service"])
	}

	// The main prompt embeds content in dependency order.
	userIdx := strings.Index(composite.MainPrompt, "user content")
	infraIdx := strings.Index(composite.MainPrompt, "infra content")
	if userIdx == -1 || infraIdx == -1 || userIdx > infraIdx {
		t.Errorf("main prompt ordering wrong: user at %d, infra at %d", userIdx, infraIdx)
	}
}

func TestComposeRejectsCyclicBatch(t *testing.T) {
	subtasks := []*models.Subtask{
		subtask("a", "A", models.ComplexitySimple, "b"),
		subtask("b", "B", models.ComplexitySimple, "a"),
	}

	if _, err := New().Compose(subtasks, []string{"x", "y"}); err == nil {
		t.Fatal("Compose should reject a cyclic batch")
	}
}

func TestComposeDocuments(t *testing.T) {
	subtasks := []*models.Subtask{
		{
			ID: "db", Name: "Database Layer", Description: "Persistence",
			Technologies:      []string{"postgresql"},
			Complexity:        models.ComplexitySimple,
			IntegrationPoints: []string{"schema_design", "migrations"},
		},
		{
			ID: "api", Name: "Backend Layer", Description: "Business logic",
			Technologies:      []string{"nodejs"},
			Dependencies:      []string{"db"},
			Complexity:        models.ComplexityModerate,
			IntegrationPoints: []string{"schema_design", "external_apis"},
		},
	}
	results := []string{"db content", "api content"}

	composite, err := New().Compose(subtasks, results)
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	// Integration guide: deduplicated points and named dependency flow.
	if strings.Count(composite.IntegrationGuide, "**schema_design**") != 1 {
		t.Errorf("schema_design should appear once in:\n%s", composite.IntegrationGuide)
	}
	if !strings.Contains(composite.IntegrationGuide, "Backend Layer depends on: Database Layer") {
		t.Errorf("integration guide missing dependency flow:\n%s", composite.IntegrationGuide)
	}

	// Deployment instructions enumerate in topological order.
	if !strings.Contains(composite.DeploymentInstructions, "1. **Database Layer**") {
		t.Errorf("deployment missing first entry:\n%s", composite.DeploymentInstructions)
	}
	if !strings.Contains(composite.DeploymentInstructions, "2. **Backend Layer**") {
		t.Errorf("deployment missing second entry:\n%s", composite.DeploymentInstructions)
	}
	if !strings.Contains(composite.DeploymentInstructions, "Complexity: moderate") {
		t.Errorf("deployment missing complexity tier:\n%s", composite.DeploymentInstructions)
	}

	// Architecture overview ends with the sorted technology union.
	stackIdx := strings.Index(composite.ArchitectureOverview, "## Technology Stack")
	if stackIdx == -1 {
		t.Fatalf("architecture overview missing stack section:\n%s", composite.ArchitectureOverview)
	}
	stack := composite.ArchitectureOverview[stackIdx:]
	nodeIdx := strings.Index(stack, "- nodejs")
	pgIdx := strings.Index(stack, "- postgresql")
	if nodeIdx == -1 || pgIdx == -1 || nodeIdx > pgIdx {
		t.Errorf("technology stack not sorted:\n%s", stack)
	}
}

func TestConfidenceScoreBounds(t *testing.T) {
	long := strings.Repeat("x", 5000)
	cases := []struct {
		name     string
		subtasks []*models.Subtask
		results  []string
	}{
		{"empty", nil, nil},
		{"short results", []*models.Subtask{subtask("a", "A", models.ComplexitySimple)}, []string{"hi"}},
		{"long results", []*models.Subtask{subtask("a", "A", models.ComplexityEnterprise)}, []string{long}},
	}

	for _, tc := range cases {
		score := ConfidenceScore(tc.subtasks, tc.results)
		if score < 0.0 || score > 1.0 {
			t.Errorf("%s: score %f out of [0,1]", tc.name, score)
		}
	}

	if score := ConfidenceScore(nil, nil); score != 0.0 {
		t.Errorf("empty batch score = %f, want exactly 0.0", score)
	}
}

func TestConfidenceScoreWeights(t *testing.T) {
	long := strings.Repeat("x", 1000)
	weights := map[models.Complexity]float64{
		models.ComplexitySimple:     0.9,
		models.ComplexityModerate:   0.8,
		models.ComplexityComplex:    0.7,
		models.ComplexityEnterprise: 0.6,
	}

	for complexity, want := range weights {
		subtasks := []*models.Subtask{subtask("a", "A", complexity)}
		got := ConfidenceScore(subtasks, []string{long})
		if diff := got - want; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("%s: score = %f, want %f", complexity, got, want)
		}
	}
}

func TestConfidenceScoreMean(t *testing.T) {
	long := strings.Repeat("x", 1000)
	subtasks := []*models.Subtask{
		subtask("a", "A", models.ComplexitySimple),
		subtask("b", "B", models.ComplexityEnterprise),
	}
	got := ConfidenceScore(subtasks, []string{long, long})
	want := (0.9 + 0.6) / 2
	if fmt.Sprintf("%.6f", got) != fmt.Sprintf("%.6f", want) {
		t.Errorf("score = %f, want %f", got, want)
	}
}
