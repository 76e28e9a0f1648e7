package models

import "time"

// Transition marks whether a timeline event opens or closes an activity.
type Transition string

const (
	TransitionStart Transition = "start"
	TransitionEnd   Transition = "end"
)

// TransitionFor maps an active flag to its transition.
func TransitionFor(active bool) Transition {
	if active {
		return TransitionStart
	}
	return TransitionEnd
}

// TimelineEvent is an immutable entry of the dashboard timeline.
// EventType is usually a tracked Field, but seeded history may carry other values.
type TimelineEvent struct {
	EventType  Field      `json:"event_type"`
	Transition Transition `json:"status"`
	Timestamp  time.Time  `json:"timestamp"`
}
