package generate

import (
	"context"
	"fmt"
	"strings"
	"text/template"
)

// KnowledgeSource supplies per-technology guidance for rendered prompts.
// Reads must be side-effect-free from the engine's perspective.
type KnowledgeSource interface {
	BestPractices(technology string) ([]string, error)
	Tools(technology string) ([]string, error)
}

// promptTemplate is the built-in section template for generated prompts.
const promptTemplate = `# {{.TaskName}}

## Task

{{.TaskDescription}}

## Technologies

{{range .Technologies}}- {{.Name}}{{if .Practices}}
  Best practices:
{{range .Practices}}  - {{.}}
{{end}}{{end}}{{if .Tools}}  Tooling:
{{range .Tools}}  - {{.}}
{{end}}{{end}}{{end}}

## Requirements

{{.CodeRequirements}}

Produce a complete, production-ready implementation plan covering setup,
configuration, validation, and operational concerns for this component.
`

// templateContext is the data rendered into promptTemplate.
type templateContext struct {
	TaskName         string
	TaskDescription  string
	CodeRequirements string
	Technologies     []technologyContext
}

type technologyContext struct {
	Name      string
	Practices []string
	Tools     []string
}

// TemplateGenerator renders subtask prompts from built-in templates,
// enriched with knowledge-store guidance per technology.
type TemplateGenerator struct {
	knowledge KnowledgeSource
	tmpl      *template.Template
}

// NewTemplateGenerator creates a template-backed generator.
// The knowledge source may be nil, in which case prompts render without
// best-practice enrichment.
func NewTemplateGenerator(knowledge KnowledgeSource) *TemplateGenerator {
	return &TemplateGenerator{
		knowledge: knowledge,
		tmpl:      template.Must(template.New("prompt").Parse(promptTemplate)),
	}
}

// Generate renders the prompt for one subtask.
// The config must be a *models.GenerationRequest.
func (g *TemplateGenerator) Generate(ctx context.Context, config any) (string, error) {
	req, err := requestFromConfig(config)
	if err != nil {
		return "", err
	}

	tctx := templateContext{
		TaskName:         req.TaskName,
		TaskDescription:  req.TaskDescription,
		CodeRequirements: req.CodeRequirements,
	}
	if tctx.CodeRequirements == "" {
		tctx.CodeRequirements = "No additional requirements specified."
	}

	for _, tech := range req.Technologies {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
		}

		tc := technologyContext{Name: tech}
		if g.knowledge != nil {
			// Missing knowledge is not an error; the prompt just renders
			// without enrichment for that technology.
			if practices, err := g.knowledge.BestPractices(tech); err == nil {
				tc.Practices = practices
			}
			if tools, err := g.knowledge.Tools(tech); err == nil {
				tc.Tools = tools
			}
		}
		tctx.Technologies = append(tctx.Technologies, tc)
	}

	var out strings.Builder
	if err := g.tmpl.Execute(&out, tctx); err != nil {
		return "", fmt.Errorf("render prompt template: %w", err)
	}
	return out.String(), nil
}
