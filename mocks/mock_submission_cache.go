package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"peerflow/internal/domain"
)

// MockSubmissionCache is a mock implementation of port.SubmissionCache.
type MockSubmissionCache struct {
	mock.Mock
}

func (m *MockSubmissionCache) Get(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	args := m.Called(ctx, submissionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionCache) Set(ctx context.Context, s *domain.Submission) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSubmissionCache) Invalidate(ctx context.Context, submissionID uuid.UUID) error {
	args := m.Called(ctx, submissionID)
	return args.Error(0)
}
