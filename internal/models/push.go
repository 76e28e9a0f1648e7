package models

import "time"

// StatusUpdate is the status_update push payload.
type StatusUpdate struct {
	SubjectID string    `json:"subject_id,omitempty"`
	EventType Field     `json:"event_type"`
	Active    bool      `json:"active"`
	Timestamp time.Time `json:"timestamp"`
}

// StatusBatchUpdate is the status_batch_update push payload.
type StatusBatchUpdate struct {
	SubjectID string    `json:"subject_id,omitempty"`
	Sleep     bool      `json:"sleep"`
	Phone     bool      `json:"phone"`
	Away      bool      `json:"away"`
	Timestamp time.Time `json:"timestamp"`
}
