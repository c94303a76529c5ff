package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"peerflow/internal/domain"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendReviewAssigned(ctx context.Context, toEmail, toName, title string, dueDate time.Time) error {
	args := m.Called(ctx, toEmail, toName, title, dueDate)
	return args.Error(0)
}

func (m *MockEmailSender) SendReviewReminder(ctx context.Context, toEmail, toName, title string, dueDate time.Time) error {
	args := m.Called(ctx, toEmail, toName, title, dueDate)
	return args.Error(0)
}

func (m *MockEmailSender) SendDecision(ctx context.Context, toEmail, toName, title string, decision domain.EditorDecision, comments string) error {
	args := m.Called(ctx, toEmail, toName, title, decision, comments)
	return args.Error(0)
}

func (m *MockEmailSender) SendPublished(ctx context.Context, toEmail, toName, title string) error {
	args := m.Called(ctx, toEmail, toName, title)
	return args.Error(0)
}
