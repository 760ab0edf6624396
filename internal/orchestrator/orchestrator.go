package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/promptforge/promptforge/internal/compose"
	"github.com/promptforge/promptforge/internal/decompose"
	"github.com/promptforge/promptforge/internal/generate"
	"github.com/promptforge/promptforge/pkg/models"
)

// eventSource tags events emitted by this orchestrator.
const eventSource = "recursive_orchestrator"

// Stage names an orchestration phase, used to tag stage failures.
type Stage string

const (
	// StageDecomposing covers task decomposition.
	StageDecomposing Stage = "decomposition"
	// StageGenerating covers per-subtask content generation.
	StageGenerating Stage = "generation"
	// StageComposing covers result composition.
	StageComposing Stage = "composition"
)

// TaskDecomposer breaks a complex task into a validated subtask batch.
type TaskDecomposer interface {
	Decompose(task models.ComplexTask) ([]*models.Subtask, error)
}

// Orchestrator runs the decompose -> generate -> compose pipeline for
// one complex task per invocation. It holds no state across invocations
// and performs no retries; retry policy belongs to the generator.
type Orchestrator struct {
	cfg        models.RecursiveConfig
	decomposer TaskDecomposer
	driver     *generate.Driver
	composer   *compose.Composer
	sink       EventSink
	logger     *DebugLogger
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithEventSink injects the lifecycle event sink.
func WithEventSink(sink EventSink) Option {
	return func(o *Orchestrator) {
		if sink != nil {
			o.sink = sink
		}
	}
}

// WithDecomposer overrides the default task decomposer.
func WithDecomposer(d TaskDecomposer) Option {
	return func(o *Orchestrator) {
		if d != nil {
			o.decomposer = d
		}
	}
}

// WithLogger injects the debug logger.
func WithLogger(logger *DebugLogger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an Orchestrator driving the given generator.
// A recursion depth below 1 is clamped to 1.
func New(gen generate.Generator, cfg models.RecursiveConfig, opts ...Option) *Orchestrator {
	if cfg.MaxRecursionDepth < 1 {
		cfg.MaxRecursionDepth = 1
	}
	o := &Orchestrator{
		cfg:        cfg,
		decomposer: decompose.New(),
		driver:     generate.NewDriver(gen),
		composer:   compose.New(),
		sink:       NopSink{},
		logger:     NopLogger(),
	}

	for _, opt := range opts {
		opt(o)
	}

	if d, ok := o.decomposer.(*decompose.Decomposer); ok {
		d.SetDebugLog(o.logger.Log)
	}
	o.driver.SetDebugLog(o.logger.Log)
	o.composer.SetDebugLog(o.logger.Log)

	return o
}

// GenerateRecursivePrompt decomposes the task, generates content for
// every subtask, and composes the results into a CompositePrompt.
// Any stage failure is terminal: the caller receives either a complete
// composite prompt or a single error tagged with the failing stage.
func (o *Orchestrator) GenerateRecursivePrompt(ctx context.Context, task models.ComplexTask) (*models.CompositePrompt, error) {
	correlationID := uuid.New().String()
	o.logger.Log("[orchestrator] start task=%q correlation=%s", task.Name, correlationID)

	o.publish(Event{
		Type:          EventGenerationStarted,
		Source:        eventSource,
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
		TaskName:      task.Name,
	})

	subtasks, err := o.decomposer.Decompose(task)
	if err != nil {
		return nil, o.fail(correlationID, task.Name, StageDecomposing, err)
	}
	o.logger.Log("[orchestrator] decomposed into %d subtasks", len(subtasks))

	results := o.driver.Run(ctx, subtasks, o.cfg.EnableParallelProcessing)
	if ctx.Err() != nil {
		return nil, o.fail(correlationID, task.Name, StageGenerating, ctx.Err())
	}

	composite, err := o.composer.Compose(subtasks, results)
	if err != nil {
		return nil, o.fail(correlationID, task.Name, StageComposing, err)
	}

	o.publish(Event{
		Type:            EventGenerationCompleted,
		Source:          eventSource,
		CorrelationID:   correlationID,
		Timestamp:       time.Now(),
		TaskName:        task.Name,
		SubtaskCount:    len(subtasks),
		ConfidenceScore: composite.ConfidenceScore,
	})
	o.logger.Log("[orchestrator] done task=%q confidence=%.2f", task.Name, composite.ConfidenceScore)

	return composite, nil
}

// fail emits the terminal failure event and wraps the stage error.
func (o *Orchestrator) fail(correlationID, taskName string, stage Stage, err error) error {
	wrapped := fmt.Errorf("%s: %w", stage, err)
	o.logger.Log("[orchestrator] failed task=%q stage=%s err=%v", taskName, stage, err)

	o.publish(Event{
		Type:          EventGenerationFailed,
		Source:        eventSource,
		CorrelationID: correlationID,
		Timestamp:     time.Now(),
		TaskName:      taskName,
		Error:         wrapped.Error(),
	})

	return wrapped
}

// publish delivers an event to the sink. Sink failures are logged and
// otherwise ignored; they never abort the orchestration.
func (o *Orchestrator) publish(event Event) {
	if err := o.sink.Publish(event); err != nil {
		o.logger.Log("[orchestrator] event sink error: %v", err)
	}
}
