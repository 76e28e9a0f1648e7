package dashboard

import (
	"iter"
	"slices"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
)

// Chart values per event type. Transition does not affect the value.
const (
	valuePhone   = 3
	valueSleep   = 2
	valueAway    = 1
	valueUnknown = 0
)

// Point is one chart sample of the timeline projection.
type Point struct {
	Index int `json:"index"`
	Value int `json:"value"`
}

// Encode maps an event type to its chart value.
func Encode(f models.Field) int {
	switch f {
	case models.FieldPhone:
		return valuePhone
	case models.FieldSleep:
		return valueSleep
	case models.FieldAway:
		return valueAway
	default:
		return valueUnknown
	}
}

// Timeline is the append-only transition log of the dashboard.
// It is owned by the engine goroutine and is not safe for concurrent use.
type Timeline struct {
	events []models.TimelineEvent
	max    int // 0 means unbounded
}

// NewTimeline returns an empty timeline keeping at most max events (0 = unbounded).
func NewTimeline(max int) *Timeline {
	return &Timeline{max: max}
}

// Append adds e at the end, dropping the oldest entries beyond the bound.
func (t *Timeline) Append(e models.TimelineEvent) {
	t.events = append(t.events, e)
	t.trim()
}

// Seed places history before anything appended so far, keeping the history's own order.
func (t *Timeline) Seed(history []models.TimelineEvent) {
	if len(history) == 0 {
		return
	}
	t.events = append(slices.Clone(history), t.events...)
	t.trim()
}

// trim reallocates on overflow so projections taken earlier keep their view of the log.
func (t *Timeline) trim() {
	if t.max <= 0 || len(t.events) <= t.max {
		return
	}
	t.events = slices.Clone(t.events[len(t.events)-t.max:])
}

// Len returns the number of events in the log.
func (t *Timeline) Len() int { return len(t.events) }

// Events returns a copy of the log.
func (t *Timeline) Events() []models.TimelineEvent { return slices.Clone(t.events) }

// Project returns the chart encoding of the log at the time of the call.
// The sequence can be ranged over any number of times; each pass recomputes from the log.
func (t *Timeline) Project() iter.Seq[Point] {
	events := t.events[:len(t.events):len(t.events)]
	return func(yield func(Point) bool) {
		for i, e := range events {
			if !yield(Point{Index: i, Value: Encode(e.EventType)}) {
				return
			}
		}
	}
}
