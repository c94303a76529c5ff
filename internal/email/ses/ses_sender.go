package ses

import (
	"context"
	"fmt"
	"html"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"peerflow/internal/domain"
	"peerflow/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName, frontendURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}, nil
}

func (s *sesSender) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func (s *sesSender) queueURL() string {
	return fmt.Sprintf("%s/reviews/queue", s.frontendURL)
}

func (s *sesSender) SendReviewAssigned(ctx context.Context, toEmail, toName, title string, dueDate time.Time) error {
	subject := fmt.Sprintf("Review invitation: %s", title)
	due := dueDate.Format("January 2, 2006")
	htmlBody := buildNoticeHTML(toName,
		"You have been assigned a new peer review",
		fmt.Sprintf("You have been asked to review <strong>%s</strong>. The review is due by %s.", title, due),
		s.queueURL(), "Open your review queue")
	textBody := fmt.Sprintf("Hi %s,\n\nYou have been asked to review %q. The review is due by %s.\n\nYour review queue: %s\n", toName, title, due, s.queueURL())
	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendReviewReminder(ctx context.Context, toEmail, toName, title string, dueDate time.Time) error {
	subject := fmt.Sprintf("Review overdue: %s", title)
	due := dueDate.Format("January 2, 2006")
	htmlBody := buildNoticeHTML(toName,
		"A review you agreed to is overdue",
		fmt.Sprintf("Your review of <strong>%s</strong> was due on %s. Please submit it at your earliest convenience.", title, due),
		s.queueURL(), "Open your review queue")
	textBody := fmt.Sprintf("Hi %s,\n\nYour review of %q was due on %s. Please submit it at your earliest convenience.\n\nYour review queue: %s\n", toName, title, due, s.queueURL())
	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendDecision(ctx context.Context, toEmail, toName, title string, decision domain.EditorDecision, comments string) error {
	subject := fmt.Sprintf("Editorial decision on %s", title)
	submissionsURL := fmt.Sprintf("%s/submissions", s.frontendURL)
	body := fmt.Sprintf("An editorial decision has been recorded on <strong>%s</strong>: <strong>%s</strong>.", title, decision)
	if comments != "" {
		body += fmt.Sprintf("<br><br>Editor's comments:<br><em>%s</em>", html.EscapeString(comments))
	}
	htmlBody := buildNoticeHTML(toName, "Editorial decision", body, submissionsURL, "View your submissions")
	textBody := fmt.Sprintf("Hi %s,\n\nAn editorial decision has been recorded on %q: %s.\n\nEditor's comments: %s\n\nYour submissions: %s\n", toName, title, decision, comments, submissionsURL)
	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendPublished(ctx context.Context, toEmail, toName, title string) error {
	subject := fmt.Sprintf("Published: %s", title)
	submissionsURL := fmt.Sprintf("%s/submissions", s.frontendURL)
	htmlBody := buildNoticeHTML(toName,
		"Your article has been published",
		fmt.Sprintf("Congratulations, <strong>%s</strong> is now published.", title),
		submissionsURL, "View your submissions")
	textBody := fmt.Sprintf("Hi %s,\n\nCongratulations, %q is now published.\n\nYour submissions: %s\n", toName, title, submissionsURL)
	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func buildNoticeHTML(name, heading, body, linkURL, linkLabel string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">%s</h2>
  <p>Hi %s,</p>
  <p>%s</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">%s</a>
  </p>
  <p style="color: #999; font-size: 12px;">This is an automated message from the editorial system.</p>
</body>
</html>`, heading, name, body, linkURL, linkLabel)
}
