package service

import (
	"context"
	"time"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/repository"
)

type StatusService struct {
	eventRepo repository.EventRepo
	now       func() time.Time
}

func NewStatusService(eventRepo repository.EventRepo) *StatusService {
	return &StatusService{eventRepo: eventRepo, now: time.Now}
}

// Live replays today's events. A subject without events today is all false.
func (s *StatusService) Live(ctx context.Context, subjectID string) (models.LiveStatus, error) {
	subjectID, err := normalizeSubject(subjectID)
	if err != nil {
		return models.LiveStatus{}, err
	}
	from, to := dayBounds(s.now())
	events, err := s.eventRepo.List(ctx, subjectID, from, to)
	if err != nil {
		return models.LiveStatus{}, err
	}
	return replay(events), nil
}
