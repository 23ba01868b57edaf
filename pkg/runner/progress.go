package runner

import "time"

// EventKind classifies a progress event.
type EventKind string

const (
	EventStepStarted EventKind = "step-started"
	EventStepOutput  EventKind = "step-output"
	EventStepDone    EventKind = "step-done"
	EventStepFailed  EventKind = "step-failed"
	EventRunComplete EventKind = "run-complete"
	EventRunFailed   EventKind = "run-failed"
)

// ProgressEvent is a single update emitted during a provisioning run.
type ProgressEvent struct {
	Kind      EventKind
	StepID    string
	StepName  string
	Command   string // Rendered command line, when applicable
	Line      string // One line of subprocess output
	Message   string // Human-readable message
	Index     int    // 1-based step index
	Total     int    // Step count in the plan
	IsError   bool
	Timestamp time.Time
}

// ProgressCallback is called with progress updates during a run.
type ProgressCallback func(ProgressEvent)

// NoOpProgress is a progress callback that does nothing.
func NoOpProgress(_ ProgressEvent) {}

// ProgressTracker collects progress events for later review.
type ProgressTracker struct {
	events []ProgressEvent
}

// NewProgressTracker creates a new progress tracker.
func NewProgressTracker() *ProgressTracker {
	return &ProgressTracker{
		events: make([]ProgressEvent, 0),
	}
}

// Callback returns a ProgressCallback that records events.
func (t *ProgressTracker) Callback() ProgressCallback {
	return func(e ProgressEvent) {
		t.events = append(t.events, e)
	}
}

// Events returns all recorded events.
func (t *ProgressTracker) Events() []ProgressEvent {
	return t.events
}

// LastEvent returns the most recent event, or nil if none.
func (t *ProgressTracker) LastEvent() *ProgressEvent {
	if len(t.events) == 0 {
		return nil
	}
	return &t.events[len(t.events)-1]
}

// HasErrors returns true if any error events were recorded.
func (t *ProgressTracker) HasErrors() bool {
	for _, e := range t.events {
		if e.IsError {
			return true
		}
	}
	return false
}

func stepEvent(kind EventKind, stepID, stepName string, index, total int) ProgressEvent {
	return ProgressEvent{
		Kind:      kind,
		StepID:    stepID,
		StepName:  stepName,
		Index:     index,
		Total:     total,
		Timestamp: time.Now(),
	}
}
