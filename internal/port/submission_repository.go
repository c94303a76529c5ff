package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"peerflow/internal/domain"
)

// SubmissionRepository defines the contract for submission persistence.
// A submission is loaded and stored as an aggregate: the row itself plus
// its assignment sets and reviews.
type SubmissionRepository interface {
	Create(ctx context.Context, s *domain.Submission) error
	GetByID(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error)

	// UpdateWithLock loads the aggregate under a per-row write lock,
	// applies mutate against that authoritative state, and persists the
	// whole aggregate atomically. Concurrent calls on the same submission
	// serialize; the later call observes the earlier call's result. If
	// mutate returns an error nothing is written.
	UpdateWithLock(ctx context.Context, submissionID uuid.UUID, mutate func(s *domain.Submission) error) (*domain.Submission, error)

	// UpdateContent patches content fields with an optimistic precondition
	// on the previously observed UpdatedDate; a lost race yields ErrConflict.
	UpdateContent(ctx context.Context, s *domain.Submission, expectedUpdatedAt time.Time) error

	ListAll(ctx context.Context, offset, limit int) ([]domain.Submission, int, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]domain.Submission, int, error)
	ListByAssignee(ctx context.Context, userID uuid.UUID, role domain.AssignmentRole, offset, limit int) ([]domain.Submission, int, error)
	ListByStatus(ctx context.Context, status domain.SubmissionStatus, offset, limit int) ([]domain.Submission, int, error)
	Delete(ctx context.Context, submissionID uuid.UUID) error

	// Review queries used by the reviewer queue and the reminder worker.
	ListPendingReviews(ctx context.Context, reviewerID uuid.UUID) ([]domain.Review, error)
	ListOverdueReviews(ctx context.Context, asOf time.Time, limit int) ([]domain.Review, error)
	MarkReviewReminded(ctx context.Context, reviewID uuid.UUID, at time.Time) error
}
