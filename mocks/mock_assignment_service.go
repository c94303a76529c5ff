package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"peerflow/internal/domain"
	"peerflow/internal/service"
)

// MockAssignmentService is a mock implementation of service.AssignmentService.
type MockAssignmentService struct {
	mock.Mock
}

func (m *MockAssignmentService) Assign(ctx context.Context, input *service.AssignInput) (*domain.Submission, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Submission), args.Error(1)
}
