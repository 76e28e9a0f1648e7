package models

import "time"

// ActivityEvent is a single stored transition on the backend.
type ActivityEvent struct {
	EventID    string     `json:"-"`
	SubjectID  string     `json:"-"`
	EventType  Field      `json:"event_type"`
	Status     Transition `json:"status"`
	OccurredAt time.Time  `json:"timestamp"`
}

// Summary is the daily usage report served by GET /summary/today/{subjectId}.
type Summary struct {
	Date              string `json:"date"`
	Message           string `json:"message,omitempty"`
	SleepMinutes      int    `json:"sleep_minutes"`
	PhoneMinutes      int    `json:"phone_minutes"`
	AwayMinutes       int    `json:"away_minutes"`
	ProductiveMinutes int    `json:"productive_minutes"`
	ProductivityScore int    `json:"productivity_score"`
}
