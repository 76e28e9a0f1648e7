package service

import (
	"context"
	"time"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/logger"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/repository"
)

// Recorder turns detector observations into stored transitions.
type Recorder interface {
	// HandleEvent records a transition if active differs from the subject's current state.
	// It reports whether an event was written.
	HandleEvent(ctx context.Context, subjectID string, field models.Field, active bool) (bool, error)
}

// Status exposes the live state derived from today's events.
type Status interface {
	Live(ctx context.Context, subjectID string) (models.LiveStatus, error)
}

// EventLog exposes today's stored transitions.
type EventLog interface {
	Today(ctx context.Context, subjectID string) ([]models.ActivityEvent, error)
}

// Summaries builds the daily usage report.
type Summaries interface {
	Summary(ctx context.Context, subjectID string) (models.Summary, error)
}

// Simulator feeds synthetic observations into the Recorder.
// Stop via context cancellation in main() for graceful shutdown.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// Publisher pushes an event to the dashboards watching subjectID.
type Publisher interface {
	Publish(subjectID, event string, data any)
}

// Service aggregates all sub-services.
type Service struct {
	Recorder
	Status
	EventLog
	Summaries
	Simulator
}

// NewService wires the repository layer into concrete services.
// pushMode selects the push payload: delta sends status_update, batch sends status_batch_update.
func NewService(repos *repository.Repository, pub Publisher, pushMode string, subjects []string, log *logger.Logger) *Service {
	recorder := NewRecorderService(repos.EventRepo, pub, pushMode, log)
	return &Service{
		Recorder:  recorder,
		Status:    NewStatusService(repos.EventRepo),
		EventLog:  NewEventLogService(repos.EventRepo),
		Summaries: NewSummaryService(repos.EventRepo),
		Simulator: NewSimulatorService(recorder, subjects, log),
	}
}

// dayBounds returns the local calendar day containing now as [from, to).
func dayBounds(now time.Time) (time.Time, time.Time) {
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 0, 1)
}

// replay folds events in order; the latest start or end per known type wins.
func replay(events []models.ActivityEvent) models.LiveStatus {
	var st models.LiveStatus
	for _, e := range events {
		var active bool
		switch e.Status {
		case models.TransitionStart:
			active = true
		case models.TransitionEnd:
		default:
			continue
		}
		setField(&st, e.EventType, active)
	}
	return st
}

func getField(st models.LiveStatus, f models.Field) bool {
	switch f {
	case models.FieldSleep:
		return st.Sleep
	case models.FieldPhone:
		return st.Phone
	case models.FieldAway:
		return st.Away
	}
	return false
}

func setField(st *models.LiveStatus, f models.Field, active bool) {
	switch f {
	case models.FieldSleep:
		st.Sleep = active
	case models.FieldPhone:
		st.Phone = active
	case models.FieldAway:
		st.Away = active
	}
}
