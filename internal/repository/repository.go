package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/PathumRathnayaka/employee-monitoring-system/internal/models"
)

type EventRepo interface {
	Append(ctx context.Context, e models.ActivityEvent) (models.ActivityEvent, error)
	List(ctx context.Context, subjectID string, from, to time.Time) ([]models.ActivityEvent, error)
}

type Repository struct {
	EventRepo EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		EventRepo: NewEventSQLite(db),
	}
}
