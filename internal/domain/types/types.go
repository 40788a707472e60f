// Package types contains common types shared by the service and its adapters.
package types

import "time"

// JobState is the lifecycle state of an asynchronous import.
type JobState string

// Job states.
const (
	JobQueued JobState = "queued"
	JobDone   JobState = "done"
	JobFailed JobState = "failed"
)

// JobStatus reports the progress of an asynchronous import.
type JobStatus struct {
	ID          string     `json:"id"`
	State       JobState   `json:"state"`
	Imported    int        `json:"imported"`
	Rejected    int        `json:"rejected"`
	Source      string     `json:"source,omitempty"`
	Error       string     `json:"error,omitempty"`
	SubmittedAt time.Time  `json:"submitted_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
}

// Terminal reports whether the job will not change state again.
func (s JobStatus) Terminal() bool {
	return s.State == JobDone || s.State == JobFailed
}

// ImportOutcome is the synchronous result of storing parsed courses.
type ImportOutcome struct {
	Duplicate bool   `json:"duplicate"`
	Key       string `json:"key"`
	Imported  int    `json:"imported"`
	Rejected  int    `json:"rejected"`
	Source    string `json:"source,omitempty"`
}
