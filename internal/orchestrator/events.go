// Package orchestrator wires decomposition, generation, and composition
// into one recursive prompt generation pipeline.
package orchestrator

import "time"

// EventType represents the kind of lifecycle event.
type EventType string

const (
	// EventGenerationStarted fires when an invocation begins.
	EventGenerationStarted EventType = "prompt_generation_started"
	// EventGenerationCompleted fires when an invocation succeeds.
	EventGenerationCompleted EventType = "prompt_generation_completed"
	// EventGenerationFailed fires when any stage fails.
	EventGenerationFailed EventType = "prompt_generation_failed"
)

// Event is a lifecycle notification emitted by the orchestrator.
// The start and terminal events of one invocation share a correlation ID.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// Source identifies the emitting component.
	Source string
	// CorrelationID ties the start and terminal events together.
	CorrelationID string
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// TaskName is the name of the complex task being processed.
	TaskName string
	// SubtaskCount is the size of the decomposition batch, when known.
	SubtaskCount int
	// ConfidenceScore is the composite confidence, on completion events.
	ConfidenceScore float64
	// Error holds the failure text, on failure events.
	Error string
}

// EventSink receives lifecycle events. Implementations must be safe for
// concurrent use; a sink failure never aborts the orchestration.
type EventSink interface {
	Publish(event Event) error
}

// NopSink discards all events.
type NopSink struct{}

// Publish implements EventSink.
func (NopSink) Publish(Event) error { return nil }

// LoggerSink records each event as one debug log line.
type LoggerSink struct {
	logger *DebugLogger
}

// NewLoggerSink creates a sink writing to the given debug logger.
func NewLoggerSink(logger *DebugLogger) *LoggerSink {
	return &LoggerSink{logger: logger}
}

// Publish implements EventSink.
func (s *LoggerSink) Publish(event Event) error {
	s.logger.Log("[event] type=%s task=%q correlation=%s subtasks=%d confidence=%.2f error=%q",
		event.Type, event.TaskName, event.CorrelationID, event.SubtaskCount, event.ConfidenceScore, event.Error)
	return nil
}

// MultiSink fans one event out to several sinks. The first sink error is
// returned after every sink has been offered the event.
type MultiSink []EventSink

// Publish implements EventSink.
func (m MultiSink) Publish(event Event) error {
	var firstErr error
	for _, sink := range m {
		if err := sink.Publish(event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
