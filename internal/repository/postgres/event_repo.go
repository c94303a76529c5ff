package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"peerflow/internal/domain"
	"peerflow/internal/port"
)

type eventRepo struct {
	db *sqlx.DB
}

// NewSubmissionEventRepo creates a new PostgreSQL-backed SubmissionEventRepository.
func NewSubmissionEventRepo(db *sqlx.DB) port.SubmissionEventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) Create(ctx context.Context, event *domain.SubmissionEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO submission_events (id, submission_id, actor_id, type, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		event.ID, event.SubmissionID, event.ActorID, event.Type, event.Detail, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("eventRepo.Create: %w", err)
	}
	return nil
}

func (r *eventRepo) ListBySubmission(ctx context.Context, submissionID uuid.UUID, offset, limit int) ([]domain.SubmissionEvent, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total,
		"SELECT COUNT(*) FROM submission_events WHERE submission_id = $1", submissionID)
	if err != nil {
		return nil, 0, fmt.Errorf("eventRepo.ListBySubmission count: %w", err)
	}

	events := []domain.SubmissionEvent{}
	err = r.db.SelectContext(ctx, &events,
		`SELECT * FROM submission_events WHERE submission_id = $1
		 ORDER BY created_at LIMIT $2 OFFSET $3`,
		submissionID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("eventRepo.ListBySubmission: %w", err)
	}
	return events, total, nil
}
