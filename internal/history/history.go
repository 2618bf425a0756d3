// Package history records coverage runs to an external store so past
// sessions can be inspected and aggregated later.
package history

import (
	"context"
	"time"
)

// EventType defines the kind of run event.
type EventType string

const (
	EventRunStart  EventType = "run_start"
	EventRunFinish EventType = "run_finish"
)

// Event describes one coverage run, or the start of one.
type Event struct {
	Type       EventType     `json:"type"`
	OccurredAt time.Time     `json:"occurred_at"`
	Target     string        `json:"target"`                // the test path the run was invoked with
	Command    string        `json:"command"`               // full command sequence
	Success    bool          `json:"success"`               // finish events only
	ExitCode   int           `json:"exit_code"`             // -1 when the failing step never ran
	FailedStep string        `json:"failed_step,omitempty"` // empty on success
	Duration   time.Duration `json:"duration"`              // zero for start events
}

// Sink is a destination for run events. Implementations must be safe for
// concurrent use.
type Sink interface {
	Send(ctx context.Context, e Event) error
	Close() error
}

// NopSink discards all events; used when no history DSN is configured.
type NopSink struct{}

func (NopSink) Send(context.Context, Event) error { return nil }
func (NopSink) Close() error                      { return nil }
