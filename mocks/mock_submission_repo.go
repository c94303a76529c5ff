package mocks

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"peerflow/internal/domain"
)

// MockSubmissionRepo is a mock implementation of port.SubmissionRepository.
//
// UpdateWithLock mimics the real repository: the submission configured via
// Return is treated as the authoritative stored state, the mutate closure
// runs against it, and the mutated aggregate is returned. Expectations can
// therefore assert on the state the closure produced.
type MockSubmissionRepo struct {
	mock.Mock
}

func (m *MockSubmissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubmissionRepo) GetByID(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionRepo) UpdateWithLock(ctx context.Context, submissionID uuid.UUID, mutate func(s *domain.Submission) error) (*domain.Submission, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	s := args.Get(0).(*domain.Submission)
	if err := mutate(s); err != nil {
		return nil, err
	}
	s.UpdatedDate = time.Now().UTC()
	return s, args.Error(1)
}

func (m *MockSubmissionRepo) UpdateContent(ctx context.Context, s *domain.Submission, expectedUpdatedAt time.Time) error {
	args := m.Called(ctx, s, expectedUpdatedAt)
	return args.Error(0)
}

func (m *MockSubmissionRepo) ListAll(ctx context.Context, offset, limit int) ([]domain.Submission, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Submission), args.Int(1), args.Error(2)
}

func (m *MockSubmissionRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]domain.Submission, int, error) {
	args := m.Called(ctx, authorID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Submission), args.Int(1), args.Error(2)
}

func (m *MockSubmissionRepo) ListByAssignee(ctx context.Context, userID uuid.UUID, role domain.AssignmentRole, offset, limit int) ([]domain.Submission, int, error) {
	args := m.Called(ctx, userID, role, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Submission), args.Int(1), args.Error(2)
}

func (m *MockSubmissionRepo) ListByStatus(ctx context.Context, status domain.SubmissionStatus, offset, limit int) ([]domain.Submission, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Submission), args.Int(1), args.Error(2)
}

func (m *MockSubmissionRepo) Delete(ctx context.Context, submissionID uuid.UUID) error {
	args := m.Called(ctx, submissionID)
	return args.Error(0)
}

func (m *MockSubmissionRepo) ListPendingReviews(ctx context.Context, reviewerID uuid.UUID) ([]domain.Review, error) {
	args := m.Called(ctx, reviewerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockSubmissionRepo) ListOverdueReviews(ctx context.Context, asOf time.Time, limit int) ([]domain.Review, error) {
	args := m.Called(ctx, asOf, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *MockSubmissionRepo) MarkReviewReminded(ctx context.Context, reviewID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, reviewID, at)
	return args.Error(0)
}
