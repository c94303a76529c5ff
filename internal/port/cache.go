package port

import (
	"context"

	"github.com/google/uuid"

	"peerflow/internal/domain"
)

// SubmissionCache is a read-through cache keyed by submission id. The
// persistence layer remains the authority: entries are invalidated on
// every successful mutation and a miss is never an error condition.
type SubmissionCache interface {
	Get(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error)
	Set(ctx context.Context, s *domain.Submission) error
	Invalidate(ctx context.Context, submissionID uuid.UUID) error
}
