package state

import "time"

// StepRecord is the persisted outcome of one step.
type StepRecord struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Status     string `json:"status"`
	ExitCode   int    `json:"exit_code,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// Run is the persisted record of one provisioning run.
type Run struct {
	ID         string       `json:"id"`
	Profile    string       `json:"profile"`
	StartedAt  time.Time    `json:"started_at"`
	DurationMS int64        `json:"duration_ms"`
	Success    bool         `json:"success"`
	FailedStep string       `json:"failed_step,omitempty"`
	ExitCode   int          `json:"exit_code,omitempty"`
	Steps      []StepRecord `json:"steps"`
}
