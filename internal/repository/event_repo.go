package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
)

// timeLayout is fixed width so stored timestamps compare correctly as text.
const timeLayout = "2006-01-02 15:04:05.000000"

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

// Append inserts a new event. If EventID or OccurredAt are empty, they're set.
func (r *EventSQLite) Append(ctx context.Context, e models.ActivityEvent) (models.ActivityEvent, error) {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activity_events (id, subject_id, event_type, status, occurred_at)
		VALUES (?, ?, ?, ?, ?)
	`,
		e.EventID,
		e.SubjectID,
		strings.ToLower(strings.TrimSpace(string(e.EventType))),
		string(e.Status),
		e.OccurredAt.Format(timeLayout),
	)
	if err != nil {
		return e, fmt.Errorf("insert activity event: %w", err)
	}
	return e, nil
}

// List returns the subject's events in [from, to), ordered by time. Zero bounds are open.
func (r *EventSQLite) List(ctx context.Context, subjectID string, from, to time.Time) ([]models.ActivityEvent, error) {
	conds := []string{"subject_id = ?"}
	args := []any{subjectID}

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC().Format(timeLayout))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at < ?")
		args = append(args, to.UTC().Format(timeLayout))
	}

	q := `SELECT id, subject_id, event_type, status, occurred_at FROM activity_events WHERE ` +
		strings.Join(conds, " AND ") + ` ORDER BY occurred_at ASC, rowid ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query activity events: %w", err)
	}
	defer rows.Close()

	out := make([]models.ActivityEvent, 0, 64)
	for rows.Next() {
		var (
			ev                models.ActivityEvent
			eventType, status string
		)
		if err := rows.Scan(&ev.EventID, &ev.SubjectID, &eventType, &status, &ev.OccurredAt); err != nil {
			return nil, fmt.Errorf("scan activity event: %w", err)
		}
		ev.EventType = models.Field(eventType)
		ev.Status = models.Transition(status)
		ev.OccurredAt = ev.OccurredAt.UTC()
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
