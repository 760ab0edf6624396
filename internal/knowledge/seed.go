package knowledge

// seedEntry holds the built-in notes for one technology.
type seedEntry struct {
	practices []string
	tools     []string
}

// seedNotes is the starter knowledge base loaded into a fresh database.
// It covers the technologies the decomposer's service catalog uses plus
// the common frontend and infrastructure stacks.
var seedNotes = map[string]seedEntry{
	"nodejs": {
		practices: []string{
			"Use async/await for asynchronous operations",
			"Validate request payloads at the API boundary",
			"Centralize error handling in middleware",
		},
		tools: []string{
			"express for HTTP services",
			"jest for testing",
			"eslint for linting",
		},
	},
	"python": {
		practices: []string{
			"Use type hints on public interfaces",
			"Prefer virtual environments for dependency isolation",
			"Handle exceptions at service boundaries",
		},
		tools: []string{
			"fastapi for HTTP services",
			"pytest for testing",
			"ruff for linting",
		},
	},
	"golang": {
		practices: []string{
			"Return errors explicitly and wrap with context",
			"Accept interfaces, return concrete types",
		},
		tools: []string{
			"golangci-lint for linting",
			"testify or the standard testing package for tests",
		},
	},
	"react": {
		practices: []string{
			"Keep components small and composable",
			"Lift shared state to the nearest common ancestor",
		},
		tools: []string{
			"vite for builds",
			"react-testing-library for component tests",
		},
	},
	"postgresql": {
		practices: []string{
			"Use migrations for all schema changes",
			"Index columns used in WHERE and JOIN clauses",
			"Use connection pooling",
		},
		tools: []string{
			"pgbouncer for connection pooling",
			"flyway or golang-migrate for migrations",
		},
	},
	"redis": {
		practices: []string{
			"Set TTLs on cache entries",
			"Use pipelines for batched commands",
		},
		tools: []string{
			"redis-cli for inspection",
		},
	},
	"mongodb": {
		practices: []string{
			"Design schemas around query patterns",
			"Use indexes to back every frequent query",
		},
		tools: []string{
			"mongosh for inspection",
		},
	},
	"docker": {
		practices: []string{
			"Use multi-stage builds to keep images small",
			"Run containers as a non-root user",
			"Pin base image versions",
		},
		tools: []string{
			"docker compose for local orchestration",
			"hadolint for Dockerfile linting",
		},
	},
	"kubernetes": {
		practices: []string{
			"Define resource requests and limits for every workload",
			"Use liveness and readiness probes",
			"Keep manifests under version control",
		},
		tools: []string{
			"helm for packaging",
			"kustomize for environment overlays",
		},
	},
}
