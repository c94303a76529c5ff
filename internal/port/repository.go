package port

import (
	"context"

	"github.com/google/uuid"

	"peerflow/internal/domain"
)

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByIDs(ctx context.Context, userIDs []uuid.UUID) ([]domain.User, error)
	List(ctx context.Context, role *domain.UserRole, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, userID uuid.UUID) error
}

// SubmissionEventRepository defines the contract for the append-only
// submission audit trail.
type SubmissionEventRepository interface {
	Create(ctx context.Context, event *domain.SubmissionEvent) error
	ListBySubmission(ctx context.Context, submissionID uuid.UUID, offset, limit int) ([]domain.SubmissionEvent, int, error)
}
