package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/logger"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/repository"
)

// Push event names, shared with the dashboard's channel client.
const (
	EventStatusUpdate      = "status_update"
	EventStatusBatchUpdate = "status_batch_update"
)

// Push modes.
const (
	PushDelta = "delta"
	PushBatch = "batch"
)

var ErrUnknownField = errors.New("event_type must be sleep, phone or away")

// RecorderService is edge triggered: it writes "start" on a false->true change,
// "end" on true->false and nothing otherwise.
type RecorderService struct {
	eventRepo repository.EventRepo
	pub       Publisher
	pushMode  string
	log       *logger.Logger
	now       func() time.Time

	mu    sync.Mutex
	state map[string]*models.LiveStatus // seeded from today's events on first use
	day   string
}

func NewRecorderService(eventRepo repository.EventRepo, pub Publisher, pushMode string, log *logger.Logger) *RecorderService {
	if pushMode != PushBatch {
		pushMode = PushDelta
	}
	return &RecorderService{
		eventRepo: eventRepo,
		pub:       pub,
		pushMode:  pushMode,
		log:       log,
		now:       time.Now,
		state:     make(map[string]*models.LiveStatus),
	}
}

func (s *RecorderService) HandleEvent(ctx context.Context, subjectID string, field models.Field, active bool) (bool, error) {
	subjectID, err := normalizeSubject(subjectID)
	if err != nil {
		return false, err
	}
	if !field.Valid() {
		return false, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	cur, err := s.current(ctx, subjectID, now)
	if err != nil {
		return false, err
	}
	if getField(*cur, field) == active {
		return false, nil
	}

	ev, err := s.eventRepo.Append(ctx, models.ActivityEvent{
		SubjectID:  subjectID,
		EventType:  field,
		Status:     models.TransitionFor(active),
		OccurredAt: now.UTC(),
	})
	if err != nil {
		return false, err
	}
	setField(cur, field, active)

	s.log.Infow("event_recorded", "subject", subjectID, "event_type", field, "status", ev.Status)
	s.publish(subjectID, field, active, ev.OccurredAt, *cur)
	return true, nil
}

// current returns the cached state of subjectID, loading it from today's events when missing.
// The cache is dropped when the local day changes.
func (s *RecorderService) current(ctx context.Context, subjectID string, now time.Time) (*models.LiveStatus, error) {
	if day := now.Format(time.DateOnly); day != s.day {
		s.day = day
		clear(s.state)
	}
	if st, ok := s.state[subjectID]; ok {
		return st, nil
	}

	from, to := dayBounds(now)
	events, err := s.eventRepo.List(ctx, subjectID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load state of %s: %w", subjectID, err)
	}
	st := replay(events)
	s.state[subjectID] = &st
	return &st, nil
}

func (s *RecorderService) publish(subjectID string, field models.Field, active bool, at time.Time, st models.LiveStatus) {
	if s.pub == nil {
		return
	}
	if s.pushMode == PushBatch {
		s.pub.Publish(subjectID, EventStatusBatchUpdate, models.StatusBatchUpdate{
			SubjectID: subjectID,
			Sleep:     st.Sleep,
			Phone:     st.Phone,
			Away:      st.Away,
			Timestamp: at,
		})
		return
	}
	s.pub.Publish(subjectID, EventStatusUpdate, models.StatusUpdate{
		SubjectID: subjectID,
		EventType: field,
		Active:    active,
		Timestamp: at,
	})
}
