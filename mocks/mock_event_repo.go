package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"peerflow/internal/domain"
)

// MockEventRepo is a mock implementation of port.SubmissionEventRepository.
type MockEventRepo struct {
	mock.Mock
}

func (m *MockEventRepo) Create(ctx context.Context, event *domain.SubmissionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventRepo) ListBySubmission(ctx context.Context, submissionID uuid.UUID, offset, limit int) ([]domain.SubmissionEvent, int, error) {
	args := m.Called(ctx, submissionID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.SubmissionEvent), args.Int(1), args.Error(2)
}
