package service

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/logger"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
)

// SimulatorService toggles a random field of a random subject on every tick.
type SimulatorService struct {
	recorder Recorder
	subjects []string
	log      *logger.Logger
	rng      *rand.Rand
}

// NewSimulatorService returns a simulator for subjects.
func NewSimulatorService(recorder Recorder, subjects []string, log *logger.Logger) *SimulatorService {
	return &SimulatorService{
		recorder: recorder,
		subjects: subjects,
		log:      log,
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
	}
}

// Run ticks at the given interval until ctx is canceled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	if len(s.subjects) == 0 {
		s.log.Warnw("simulator_not_started", "reason", "no subjects")
		return
	}
	t := time.NewTicker(tick)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.step(ctx)
		}
	}
}

// step feeds one observation. The recorder drops it when nothing changed.
func (s *SimulatorService) step(ctx context.Context) {
	subject := s.subjects[s.rng.IntN(len(s.subjects))]
	field := models.Fields[s.rng.IntN(len(models.Fields))]
	active := s.rng.IntN(2) == 1

	if _, err := s.recorder.HandleEvent(ctx, subject, field, active); err != nil && ctx.Err() == nil {
		s.log.Warnw("simulated_event_failed", "subject", subject, "event_type", field, "active", active, "err", err)
	}
}
