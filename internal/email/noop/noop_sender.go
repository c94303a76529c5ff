package noop

import (
	"context"
	"log"
	"time"

	"peerflow/internal/domain"
	"peerflow/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs notifications to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendReviewAssigned(_ context.Context, toEmail, toName, title string, dueDate time.Time) error {
	log.Printf("[NOOP EMAIL] Review assignment for %s (%s): %q due %s", toName, toEmail, title, dueDate.Format("2006-01-02"))
	return nil
}

func (s *noopSender) SendReviewReminder(_ context.Context, toEmail, toName, title string, dueDate time.Time) error {
	log.Printf("[NOOP EMAIL] Review reminder for %s (%s): %q was due %s", toName, toEmail, title, dueDate.Format("2006-01-02"))
	return nil
}

func (s *noopSender) SendDecision(_ context.Context, toEmail, toName, title string, decision domain.EditorDecision, comments string) error {
	log.Printf("[NOOP EMAIL] Decision %s for %s (%s) on %q: %s", decision, toName, toEmail, title, comments)
	return nil
}

func (s *noopSender) SendPublished(_ context.Context, toEmail, toName, title string) error {
	log.Printf("[NOOP EMAIL] Publication notice for %s (%s): %q", toName, toEmail, title)
	return nil
}
