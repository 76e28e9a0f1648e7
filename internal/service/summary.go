package service

import (
	"context"
	"math"
	"time"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/repository"
)

// workday is the length of the day the productivity score is measured against.
const workday = 12 * time.Hour

const msgNoEvents = "No events recorded today"

type SummaryService struct {
	eventRepo repository.EventRepo
	now       func() time.Time
}

func NewSummaryService(eventRepo repository.EventRepo) *SummaryService {
	return &SummaryService{eventRepo: eventRepo, now: time.Now}
}

// Summary reports today's activity minutes and productivity score.
func (s *SummaryService) Summary(ctx context.Context, subjectID string) (models.Summary, error) {
	subjectID, err := normalizeSubject(subjectID)
	if err != nil {
		return models.Summary{}, err
	}
	now := s.now()
	from, to := dayBounds(now)
	events, err := s.eventRepo.List(ctx, subjectID, from, to)
	if err != nil {
		return models.Summary{}, err
	}
	return summarize(now.Format(time.DateOnly), events), nil
}

func summarize(date string, events []models.ActivityEvent) models.Summary {
	if len(events) == 0 {
		return models.Summary{Date: date, Message: msgNoEvents}
	}

	sleep := activeTime(events, models.FieldSleep)
	phone := activeTime(events, models.FieldPhone)
	away := activeTime(events, models.FieldAway)
	productive := max(0, workday-(sleep+phone+away))

	return models.Summary{
		Date:              date,
		SleepMinutes:      minutes(sleep),
		PhoneMinutes:      minutes(phone),
		AwayMinutes:       minutes(away),
		ProductiveMinutes: minutes(productive),
		ProductivityScore: int(float64(productive) / float64(workday) * 100),
	}
}

// activeTime sums start->end spans of f. A start while one is pending restarts the span;
// an end without a start and a trailing open start count nothing.
func activeTime(events []models.ActivityEvent, f models.Field) time.Duration {
	var (
		total time.Duration
		start time.Time
	)
	for _, e := range events {
		if e.EventType != f {
			continue
		}
		switch e.Status {
		case models.TransitionStart:
			start = e.OccurredAt
		case models.TransitionEnd:
			if !start.IsZero() {
				total += e.OccurredAt.Sub(start)
				start = time.Time{}
			}
		}
	}
	return total
}

// minutes rounds half to even.
func minutes(d time.Duration) int {
	return int(math.RoundToEven(d.Minutes()))
}
