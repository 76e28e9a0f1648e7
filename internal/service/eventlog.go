package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/repository"
)

var ErrNoSubject = errors.New("subject id is required")

type EventLogService struct {
	eventRepo repository.EventRepo
	now       func() time.Time
}

func NewEventLogService(eventRepo repository.EventRepo) *EventLogService {
	return &EventLogService{eventRepo: eventRepo, now: time.Now}
}

// normalizeSubject trims the subject id and rejects an empty one.
func normalizeSubject(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrNoSubject
	}
	return s, nil
}

// Today returns the subject's events of the current local day, oldest first.
func (s *EventLogService) Today(ctx context.Context, subjectID string) ([]models.ActivityEvent, error) {
	subjectID, err := normalizeSubject(subjectID)
	if err != nil {
		return nil, err
	}
	from, to := dayBounds(s.now())
	return s.eventRepo.List(ctx, subjectID, from, to)
}
