package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"peerflow/internal/domain"
	"peerflow/internal/service"
)

// MockSubmissionService is a mock implementation of service.SubmissionService.
type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Create(ctx context.Context, input *service.CreateSubmissionInput) (*domain.Submission, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionService) GetByID(ctx context.Context, submissionID, callerID uuid.UUID, role domain.UserRole) (*domain.Submission, error) {
	args := m.Called(ctx, submissionID, callerID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionService) List(ctx context.Context, callerID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.Submission, int, error) {
	args := m.Called(ctx, callerID, role, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Submission), args.Int(1), args.Error(2)
}

func (m *MockSubmissionService) UpdateContent(ctx context.Context, input *service.UpdateSubmissionInput) (*domain.Submission, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionService) Submit(ctx context.Context, submissionID, callerID uuid.UUID, role domain.UserRole) (*domain.Submission, error) {
	args := m.Called(ctx, submissionID, callerID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionService) Decide(ctx context.Context, input *service.DecideInput) (*domain.Submission, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionService) Resubmit(ctx context.Context, input *service.ResubmitInput) (*domain.Submission, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionService) Publish(ctx context.Context, submissionID, callerID uuid.UUID, role domain.UserRole) (*domain.Submission, error) {
	args := m.Called(ctx, submissionID, callerID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}

func (m *MockSubmissionService) Delete(ctx context.Context, submissionID uuid.UUID, role domain.UserRole) error {
	args := m.Called(ctx, submissionID, role)
	return args.Error(0)
}

func (m *MockSubmissionService) ListEvents(ctx context.Context, submissionID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.SubmissionEvent, int, error) {
	args := m.Called(ctx, submissionID, role, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.SubmissionEvent), args.Int(1), args.Error(2)
}
