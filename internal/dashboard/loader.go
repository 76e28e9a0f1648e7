package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/logger"
	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
)

// Source is the REST surface of the backend the loader reads from.
type Source interface {
	Live(ctx context.Context, subjectID string) (models.LiveStatus, error)
	Today(ctx context.Context, subjectID string) ([]models.TimelineEvent, error)
	Summary(ctx context.Context, subjectID string) (models.Summary, error)
}

// Loader fetches authoritative state for one subject.
type Loader struct {
	src       Source
	subjectID string
	log       *logger.Logger
	metrics   *Metrics
	now       func() time.Time
}

// NewLoader builds a loader. metrics may be nil.
func NewLoader(src Source, subjectID string, metrics *Metrics, log *logger.Logger) *Loader {
	return &Loader{src: src, subjectID: subjectID, log: log, metrics: metrics, now: time.Now}
}

// Load fetches the live status as a Snapshot stamped with the completion time of the fetch.
func (l *Loader) Load(ctx context.Context) (models.Snapshot, error) {
	live, err := l.src.Live(ctx, l.subjectID)
	if err != nil {
		l.failed("live", err)
		return models.Snapshot{}, fmt.Errorf("load live status: %w", err)
	}
	return models.SnapshotOf(live, l.now().UTC()), nil
}

// LoadToday fetches today's transitions for seeding the timeline.
func (l *Loader) LoadToday(ctx context.Context) ([]models.TimelineEvent, error) {
	events, err := l.src.Today(ctx, l.subjectID)
	if err != nil {
		l.failed("today", err)
		return nil, fmt.Errorf("load today's events: %w", err)
	}
	return events, nil
}

// LoadSummary fetches today's summary.
func (l *Loader) LoadSummary(ctx context.Context) (models.Summary, error) {
	s, err := l.src.Summary(ctx, l.subjectID)
	if err != nil {
		l.failed("summary", err)
		return models.Summary{}, fmt.Errorf("load summary: %w", err)
	}
	return s, nil
}

// Run loads a snapshot every interval and hands each successful one to deliver
// until ctx is canceled. Failures are logged and retried on the next tick.
func (l *Loader) Run(ctx context.Context, interval time.Duration, deliver func(models.Snapshot)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s, err := l.Load(ctx)
			if err != nil {
				continue
			}
			deliver(s)
		}
	}
}

func (l *Loader) failed(endpoint string, err error) {
	if l.metrics != nil {
		l.metrics.fetchFailures.WithLabelValues(endpoint).Inc()
	}
	l.log.Warnw("snapshot_fetch_failed", "endpoint", endpoint, "subject", l.subjectID, "err", err)
}
