package generate

import (
	"context"
	"fmt"
	"sync"

	"github.com/promptforge/promptforge/pkg/models"
)

// Driver invokes a Generator once per subtask, either concurrently or
// strictly sequentially. Output length always equals input length and
// position i corresponds to subtasks[i]; a failed call is recovered
// locally as placeholder text, never propagated.
type Driver struct {
	gen      Generator
	debugLog func(format string, args ...interface{})
}

// NewDriver creates a Driver backed by the given generator.
func NewDriver(gen Generator) *Driver {
	return &Driver{
		gen:      gen,
		debugLog: func(format string, args ...interface{}) {},
	}
}

// SetDebugLog sets the debug logging function.
func (d *Driver) SetDebugLog(fn func(format string, args ...interface{})) {
	if fn != nil {
		d.debugLog = fn
	}
}

// Run generates content for every subtask. Parallel mode fans out one
// goroutine per subtask and waits for all to finish; there is no
// cancellation between the calls once fan-out begins. Sequential mode
// issues calls one at a time in batch order. Neither mode reorders.
func (d *Driver) Run(ctx context.Context, subtasks []*models.Subtask, parallel bool) []string {
	if parallel {
		return d.runParallel(ctx, subtasks)
	}
	return d.runSequential(ctx, subtasks)
}

func (d *Driver) runParallel(ctx context.Context, subtasks []*models.Subtask) []string {
	results := make([]string, len(subtasks))

	var wg sync.WaitGroup
	for i, st := range subtasks {
		wg.Add(1)
		go func(i int, st *models.Subtask) {
			defer wg.Done()
			// Each goroutine writes only its own slot, so no locking.
			results[i] = d.generateOne(ctx, st)
		}(i, st)
	}
	wg.Wait()

	return results
}

func (d *Driver) runSequential(ctx context.Context, subtasks []*models.Subtask) []string {
	results := make([]string, len(subtasks))
	for i, st := range subtasks {
		results[i] = d.generateOne(ctx, st)
	}
	return results
}

// generateOne calls the generator for one subtask, substituting
// placeholder text on failure so cardinality is preserved.
func (d *Driver) generateOne(ctx context.Context, st *models.Subtask) string {
	text, err := d.gen.Generate(ctx, st.GenerationConfig)
	if err != nil {
		d.debugLog("[generate] subtask %q failed: %v", st.Name, err)
		return fmt.Sprintf("error generating content for %s: %v", st.Name, err)
	}
	return text
}
