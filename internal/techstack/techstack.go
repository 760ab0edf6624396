// Package techstack classifies technology identifiers into
// architecture-relevant categories. Classification is a pure lookup
// against fixed sets; unknown identifiers are omitted from all buckets.
package techstack

import "strings"

// Category lookup sets. Matching is case-insensitive.
var (
	frontendTechs = map[string]bool{
		"react": true, "vue": true, "angular": true, "nextjs": true, "svelte": true,
	}
	backendTechs = map[string]bool{
		"nodejs": true, "python": true, "java": true, "golang": true,
		"ruby": true, "php": true, "csharp": true,
	}
	databaseTechs = map[string]bool{
		"postgresql": true, "mysql": true, "mongodb": true, "redis": true,
		"elasticsearch": true,
	}
	containerTechs = map[string]bool{
		"docker": true, "kubernetes": true, "compose": true,
	}
	cloudTechs = map[string]bool{
		"aws": true, "azure": true, "gcp": true, "terraform": true,
	}
)

// Analysis categorizes a technology set and derives architecture signals.
type Analysis struct {
	// Frontend holds identifiers matching known frontend technologies.
	Frontend []string
	// Backend holds identifiers matching known backend technologies.
	Backend []string
	// Database holds identifiers matching known database technologies.
	Database []string
	// Container holds identifiers matching known container technologies.
	Container []string
	// Cloud holds identifiers matching known cloud technologies.
	Cloud []string
	// TotalCount is the number of distinct identifiers analyzed.
	TotalCount int
	// MultiBackend is true when more than one backend technology is present.
	MultiBackend bool
	// FrontendAndBackend is true when both tiers are present.
	FrontendAndBackend bool
	// Containerized is true when any container technology is present.
	Containerized bool
}

// Analyze classifies the given technology identifiers.
// Duplicates are collapsed; first-seen order is preserved within buckets.
func Analyze(technologies []string) Analysis {
	var a Analysis
	seen := make(map[string]bool)

	for _, tech := range technologies {
		key := strings.ToLower(tech)
		if seen[key] {
			continue
		}
		seen[key] = true
		a.TotalCount++

		switch {
		case frontendTechs[key]:
			a.Frontend = append(a.Frontend, tech)
		case backendTechs[key]:
			a.Backend = append(a.Backend, tech)
		case databaseTechs[key]:
			a.Database = append(a.Database, tech)
		case containerTechs[key]:
			a.Container = append(a.Container, tech)
		case cloudTechs[key]:
			a.Cloud = append(a.Cloud, tech)
		}
	}

	a.MultiBackend = len(a.Backend) > 1
	a.FrontendAndBackend = len(a.Frontend) > 0 && len(a.Backend) > 0
	a.Containerized = len(a.Container) > 0

	return a
}

// IsFrontend reports whether tech is a known frontend technology.
func IsFrontend(tech string) bool { return frontendTechs[strings.ToLower(tech)] }

// IsBackend reports whether tech is a known backend technology.
func IsBackend(tech string) bool { return backendTechs[strings.ToLower(tech)] }

// IsDatabase reports whether tech is a known database technology.
func IsDatabase(tech string) bool { return databaseTechs[strings.ToLower(tech)] }
