package port

import (
	"context"
	"time"

	"peerflow/internal/domain"
)

// EmailSender defines the contract for workflow notification emails.
// Senders are best-effort collaborators: the workflow never fails an
// operation because a notification could not be delivered.
type EmailSender interface {
	SendReviewAssigned(ctx context.Context, toEmail, toName, title string, dueDate time.Time) error
	SendReviewReminder(ctx context.Context, toEmail, toName, title string, dueDate time.Time) error
	SendDecision(ctx context.Context, toEmail, toName, title string, decision domain.EditorDecision, comments string) error
	SendPublished(ctx context.Context, toEmail, toName, title string) error
}
