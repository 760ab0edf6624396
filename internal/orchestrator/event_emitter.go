package orchestrator

import (
	"log"
	"sync/atomic"
	"time"
)

// EventEmitter is a channel-backed EventSink for subscribers such as the
// CLI. It never blocks the orchestrator: when the buffer stays full past
// a short grace period, the event is dropped and counted.
type EventEmitter struct {
	events       chan Event
	droppedCount atomic.Uint64
}

// NewEventEmitter creates an EventEmitter with the given buffer size.
func NewEventEmitter(bufferSize int) *EventEmitter {
	return &EventEmitter{
		events: make(chan Event, bufferSize),
	}
}

// Publish sends an event to the events channel.
// If the channel is full, it tries with a timeout before dropping.
func (e *EventEmitter) Publish(event Event) error {
	select {
	case e.events <- event:
		return nil
	default:
	}

	// Give the receiver a chance to drain before dropping.
	select {
	case e.events <- event:
		return nil
	case <-time.After(100 * time.Millisecond):
		count := e.droppedCount.Add(1)
		if count%10 == 1 { // Log every 10th drop to avoid spam
			log.Printf("[orchestrator] WARNING: event channel full, dropped event (total dropped: %d): type=%s", count, event.Type)
		}
		return nil
	}
}

// DroppedCount returns the total number of events that have been dropped.
func (e *EventEmitter) DroppedCount() uint64 {
	return e.droppedCount.Load()
}

// Events returns a read-only channel of events for subscribers.
func (e *EventEmitter) Events() <-chan Event {
	return e.events
}

// Close closes the events channel.
func (e *EventEmitter) Close() {
	close(e.events)
}
