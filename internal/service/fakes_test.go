package service

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
)

// fakeEventRepo is an in-memory repository.EventRepo.
type fakeEventRepo struct {
	mu sync.Mutex

	events    []models.ActivityEvent
	appendErr error
	listErr   error

	// captured inputs of the last List
	gotSubject string
	gotFrom    time.Time
	gotTo      time.Time
	listCalls  int
}

func (f *fakeEventRepo) Append(_ context.Context, e models.ActivityEvent) (models.ActivityEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.appendErr != nil {
		return e, f.appendErr
	}
	e.EventID = "ev-" + string(rune('a'+len(f.events)))
	f.events = append(f.events, e)
	return e, nil
}

func (f *fakeEventRepo) List(_ context.Context, subjectID string, from, to time.Time) ([]models.ActivityEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	f.gotSubject, f.gotFrom, f.gotTo = subjectID, from, to
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.ActivityEvent
	for _, e := range f.events {
		if e.SubjectID != subjectID {
			continue
		}
		if !from.IsZero() && e.OccurredAt.Before(from) {
			continue
		}
		if !to.IsZero() && !e.OccurredAt.Before(to) {
			continue
		}
		out = append(out, e)
	}
	slices.SortStableFunc(out, func(a, b models.ActivityEvent) int { return a.OccurredAt.Compare(b.OccurredAt) })
	return out, nil
}

type published struct {
	subject string
	event   string
	data    any
}

// fakePublisher records every Publish call.
type fakePublisher struct {
	mu  sync.Mutex
	got []published
}

func (p *fakePublisher) Publish(subjectID, event string, data any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.got = append(p.got, published{subjectID, event, data})
}

func (p *fakePublisher) all() []published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.got)
}

var day = time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)

func at(h, m, s int) time.Time {
	return day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second)
}

func event(subject string, f models.Field, tr models.Transition, ts time.Time) models.ActivityEvent {
	return models.ActivityEvent{SubjectID: subject, EventType: f, Status: tr, OccurredAt: ts}
}

func fixedClock(t time.Time) func() time.Time { return func() time.Time { return t } }
