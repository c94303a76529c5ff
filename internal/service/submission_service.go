package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"peerflow/internal/domain"
	"peerflow/internal/port"
	"peerflow/internal/workflow"
)

// CreateSubmissionInput is the DTO for creating a draft submission.
type CreateSubmissionInput struct {
	Title          string                `json:"title" binding:"required"`
	Abstract       string                `json:"abstract" binding:"required"`
	Authors        []string              `json:"authors" binding:"required,min=1"`
	Keywords       []string              `json:"keywords"`
	Category       string                `json:"category" binding:"required"`
	Document       string                `json:"document" binding:"required"`
	CoverLetter    string                `json:"cover_letter"`
	PeerReviewType domain.PeerReviewType `json:"peer_review_type"`

	CallerID uuid.UUID       `json:"-"`
	Role     domain.UserRole `json:"-"`
}

// UpdateSubmissionInput is the DTO for patching draft content. UpdatedDate
// must echo the UpdatedDate the client last read; a mismatch means the
// server state moved on and the patch is refused.
type UpdateSubmissionInput struct {
	Title       *string   `json:"title"`
	Abstract    *string   `json:"abstract"`
	Authors     *[]string `json:"authors"`
	Keywords    *[]string `json:"keywords"`
	Category    *string   `json:"category"`
	Document    *string   `json:"document"`
	CoverLetter *string   `json:"cover_letter"`
	UpdatedDate time.Time `json:"updated_date" binding:"required"`

	SubmissionID uuid.UUID       `json:"-"`
	CallerID     uuid.UUID       `json:"-"`
	Role         domain.UserRole `json:"-"`
}

// DecideInput is the DTO for recording an editorial decision.
type DecideInput struct {
	Decision domain.EditorDecision `json:"decision" binding:"required"`
	Comments string                `json:"comments"`

	SubmissionID uuid.UUID       `json:"-"`
	CallerID     uuid.UUID       `json:"-"`
	Role         domain.UserRole `json:"-"`
}

// ResubmitInput is the DTO for resubmitting a revised manuscript.
type ResubmitInput struct {
	Document            string `json:"document" binding:"required"`
	ResponseToReviewers string `json:"response_to_reviewers" binding:"required"`
	ChangesSummary      string `json:"changes_summary"`

	SubmissionID uuid.UUID       `json:"-"`
	CallerID     uuid.UUID       `json:"-"`
	Role         domain.UserRole `json:"-"`
}

// SubmissionService defines the manuscript lifecycle contract. Every
// status mutation resolves against the server's current row under a
// per-submission lock, so concurrent callers serialize and the later
// caller acts on the earlier caller's result.
type SubmissionService interface {
	Create(ctx context.Context, input *CreateSubmissionInput) (*domain.Submission, error)
	GetByID(ctx context.Context, submissionID, callerID uuid.UUID, role domain.UserRole) (*domain.Submission, error)
	List(ctx context.Context, callerID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.Submission, int, error)
	UpdateContent(ctx context.Context, input *UpdateSubmissionInput) (*domain.Submission, error)
	Submit(ctx context.Context, submissionID, callerID uuid.UUID, role domain.UserRole) (*domain.Submission, error)
	Decide(ctx context.Context, input *DecideInput) (*domain.Submission, error)
	Resubmit(ctx context.Context, input *ResubmitInput) (*domain.Submission, error)
	Publish(ctx context.Context, submissionID, callerID uuid.UUID, role domain.UserRole) (*domain.Submission, error)
	Delete(ctx context.Context, submissionID uuid.UUID, role domain.UserRole) error
	ListEvents(ctx context.Context, submissionID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.SubmissionEvent, int, error)
}

type submissionService struct {
	subRepo   port.SubmissionRepository
	userRepo  port.UserRepository
	eventRepo port.SubmissionEventRepository
	email     port.EmailSender
	machine   *workflow.Machine
}

// NewSubmissionService creates a new SubmissionService implementation.
func NewSubmissionService(
	subRepo port.SubmissionRepository,
	userRepo port.UserRepository,
	eventRepo port.SubmissionEventRepository,
	email port.EmailSender,
	machine *workflow.Machine,
) SubmissionService {
	return &submissionService{
		subRepo:   subRepo,
		userRepo:  userRepo,
		eventRepo: eventRepo,
		email:     email,
		machine:   machine,
	}
}

func (s *submissionService) Create(ctx context.Context, input *CreateSubmissionInput) (*domain.Submission, error) {
	switch input.Role {
	case domain.RoleAuthor, domain.RoleEditor, domain.RoleAdmin:
	default:
		return nil, domain.ErrForbidden
	}

	reviewType := input.PeerReviewType
	if reviewType == "" {
		reviewType = domain.PeerReviewSingleBlind
	}
	if !domain.ValidPeerReviewTypes[reviewType] {
		return nil, fmt.Errorf("%w: unknown peer review type %q", domain.ErrInvalidAssignment, reviewType)
	}

	sub := &domain.Submission{
		ID:                  uuid.New(),
		Title:               input.Title,
		Abstract:            input.Abstract,
		Authors:             input.Authors,
		Keywords:            input.Keywords,
		Category:            input.Category,
		Document:            input.Document,
		CoverLetter:         input.CoverLetter,
		Status:              domain.StatusDraft,
		ManuscriptVersion:   domain.VersionInitial,
		PeerReviewType:      reviewType,
		CorrespondingAuthor: input.CallerID,
	}

	if err := s.subRepo.Create(ctx, sub); err != nil {
		return nil, err
	}
	s.recordEvent(ctx, sub.ID, input.CallerID, domain.EventCreated, "submission created in draft")
	return sub, nil
}

func (s *submissionService) GetByID(ctx context.Context, submissionID, callerID uuid.UUID, role domain.UserRole) (*domain.Submission, error) {
	sub, err := s.subRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if !canView(sub, callerID, role) {
		return nil, domain.ErrNotFound
	}
	return sub, nil
}

// canView implements the role-scoped visibility rules. Unviewable
// submissions are reported as absent, not as forbidden, so their
// existence does not leak.
func canView(sub *domain.Submission, callerID uuid.UUID, role domain.UserRole) bool {
	switch role {
	case domain.RoleAdmin, domain.RoleEditor:
		return true
	case domain.RoleAuthor:
		return sub.CorrespondingAuthor == callerID || sub.Status == domain.StatusPublished
	case domain.RoleReviewer:
		return sub.HasReviewer(callerID) || sub.Status == domain.StatusPublished
	case domain.RoleCopyEditor:
		return containsID(sub.CopyEditors, callerID) || sub.Status == domain.StatusPublished
	case domain.RolePublisher:
		return containsID(sub.Publishers, callerID) || sub.Status == domain.StatusPublished
	default:
		return sub.Status == domain.StatusPublished
	}
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (s *submissionService) List(ctx context.Context, callerID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.Submission, int, error) {
	switch role {
	case domain.RoleAdmin, domain.RoleEditor:
		return s.subRepo.ListAll(ctx, offset, limit)
	case domain.RoleAuthor:
		return s.subRepo.ListByAuthor(ctx, callerID, offset, limit)
	case domain.RoleReviewer:
		return s.subRepo.ListByAssignee(ctx, callerID, domain.AssignReviewer, offset, limit)
	case domain.RoleCopyEditor:
		return s.subRepo.ListByAssignee(ctx, callerID, domain.AssignCopyEditor, offset, limit)
	case domain.RolePublisher:
		return s.subRepo.ListByAssignee(ctx, callerID, domain.AssignPublisher, offset, limit)
	default:
		return s.subRepo.ListByStatus(ctx, domain.StatusPublished, offset, limit)
	}
}

func (s *submissionService) UpdateContent(ctx context.Context, input *UpdateSubmissionInput) (*domain.Submission, error) {
	sub, err := s.subRepo.GetByID(ctx, input.SubmissionID)
	if err != nil {
		return nil, err
	}

	if input.Role != domain.RoleAdmin && sub.CorrespondingAuthor != input.CallerID {
		return nil, domain.ErrForbidden
	}
	if sub.Status != domain.StatusDraft && sub.Status != domain.StatusRevisionRequired {
		return nil, domain.ErrInvalidTransition
	}

	if input.Title != nil {
		sub.Title = *input.Title
	}
	if input.Abstract != nil {
		sub.Abstract = *input.Abstract
	}
	if input.Authors != nil {
		sub.Authors = *input.Authors
	}
	if input.Keywords != nil {
		sub.Keywords = *input.Keywords
	}
	if input.Category != nil {
		sub.Category = *input.Category
	}
	if input.Document != nil {
		sub.Document = *input.Document
	}
	if input.CoverLetter != nil {
		sub.CoverLetter = *input.CoverLetter
	}

	if err := s.subRepo.UpdateContent(ctx, sub, input.UpdatedDate); err != nil {
		return nil, err
	}
	s.recordEvent(ctx, sub.ID, input.CallerID, domain.EventContentUpdated, "content updated")
	return sub, nil
}

func (s *submissionService) Submit(ctx context.Context, submissionID, callerID uuid.UUID, role domain.UserRole) (*domain.Submission, error) {
	sub, err := s.subRepo.UpdateWithLock(ctx, submissionID, func(sub *domain.Submission) error {
		if role != domain.RoleAdmin && sub.CorrespondingAuthor != callerID {
			return domain.ErrForbidden
		}
		next, err := s.machine.Apply(role, sub.Status, workflow.EventSubmit)
		if err != nil {
			return err
		}
		sub.Status = next
		sub.SubmittedDate = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.recordEvent(ctx, sub.ID, callerID, domain.EventSubmitted, "manuscript submitted for editorial screening")
	return sub, nil
}

func (s *submissionService) Decide(ctx context.Context, input *DecideInput) (*domain.Submission, error) {
	if !domain.ValidEditorDecisions[input.Decision] {
		return nil, fmt.Errorf("%w: unknown decision %q", domain.ErrInvalidTransition, input.Decision)
	}

	sub, err := s.subRepo.UpdateWithLock(ctx, input.SubmissionID, func(sub *domain.Submission) error {
		event, err := workflow.DecisionEvent(sub.Status, input.Decision)
		if err != nil {
			return err
		}
		next, err := s.machine.Apply(input.Role, sub.Status, event)
		if err != nil {
			return err
		}
		sub.Status = next
		sub.Decision = &domain.Decision{
			Status:   input.Decision,
			Comments: input.Comments,
			Date:     time.Now().UTC(),
		}
		if input.Role == domain.RoleEditor || input.Role == domain.RoleAdmin {
			sub.EditorID = &input.CallerID
		}
		if next == domain.StatusAccepted {
			sub.ManuscriptVersion = domain.VersionCopyEditing
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordEvent(ctx, sub.ID, input.CallerID, domain.EventDecisionRecorded,
		fmt.Sprintf("decision %s recorded from status %s", input.Decision, sub.Status))
	s.notifyDecision(ctx, sub, input.Decision, input.Comments)
	return sub, nil
}

func (s *submissionService) Resubmit(ctx context.Context, input *ResubmitInput) (*domain.Submission, error) {
	sub, err := s.subRepo.UpdateWithLock(ctx, input.SubmissionID, func(sub *domain.Submission) error {
		if input.Role != domain.RoleAdmin && sub.CorrespondingAuthor != input.CallerID {
			return domain.ErrForbidden
		}
		next, err := s.machine.Apply(input.Role, sub.Status, workflow.EventResubmit)
		if err != nil {
			return err
		}
		// PreviousVersion captures the document reference being replaced.
		sub.ResubmissionDetails = &domain.ResubmissionDetails{
			ResponseToReviewers: input.ResponseToReviewers,
			ChangesSummary:      input.ChangesSummary,
			ResubmissionDate:    time.Now().UTC(),
			PreviousVersion:     sub.Document,
		}
		sub.Document = input.Document
		sub.Status = next
		sub.ManuscriptVersion = domain.VersionReviewing
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.recordEvent(ctx, sub.ID, input.CallerID, domain.EventResubmitted,
		fmt.Sprintf("revised manuscript resubmitted, previous version %s", sub.ResubmissionDetails.PreviousVersion))
	return sub, nil
}

func (s *submissionService) Publish(ctx context.Context, submissionID, callerID uuid.UUID, role domain.UserRole) (*domain.Submission, error) {
	sub, err := s.subRepo.UpdateWithLock(ctx, submissionID, func(sub *domain.Submission) error {
		next, err := s.machine.Apply(role, sub.Status, workflow.EventPublish)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		sub.Status = next
		sub.PublicationDate = &now
		sub.ManuscriptVersion = domain.VersionFinal
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordEvent(ctx, sub.ID, callerID, domain.EventPublished, "submission published")
	s.notifyPublished(ctx, sub)
	return sub, nil
}

func (s *submissionService) Delete(ctx context.Context, submissionID uuid.UUID, role domain.UserRole) error {
	if role != domain.RoleAdmin {
		return domain.ErrForbidden
	}
	return s.subRepo.Delete(ctx, submissionID)
}

func (s *submissionService) ListEvents(ctx context.Context, submissionID uuid.UUID, role domain.UserRole, offset, limit int) ([]domain.SubmissionEvent, int, error) {
	if role != domain.RoleAdmin && role != domain.RoleEditor {
		return nil, 0, domain.ErrForbidden
	}
	if _, err := s.subRepo.GetByID(ctx, submissionID); err != nil {
		return nil, 0, err
	}
	return s.eventRepo.ListBySubmission(ctx, submissionID, offset, limit)
}

// recordEvent appends to the audit trail. Failures are logged but never
// block the operation that already succeeded.
func (s *submissionService) recordEvent(ctx context.Context, submissionID, actorID uuid.UUID, eventType domain.EventType, detail string) {
	event := &domain.SubmissionEvent{
		SubmissionID: submissionID,
		ActorID:      &actorID,
		Type:         eventType,
		Detail:       detail,
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		log.Printf("submissionService.recordEvent: failed to record %s for %s: %v", eventType, submissionID, err)
	}
}

func (s *submissionService) notifyDecision(ctx context.Context, sub *domain.Submission, decision domain.EditorDecision, comments string) {
	author, err := s.userRepo.GetByID(ctx, sub.CorrespondingAuthor)
	if err != nil {
		log.Printf("submissionService.notifyDecision: author lookup failed for %s: %v", sub.ID, err)
		return
	}
	if err := s.email.SendDecision(ctx, author.Email, author.FullName, sub.Title, decision, comments); err != nil {
		log.Printf("submissionService.notifyDecision: send failed for %s: %v", sub.ID, err)
	}
}

func (s *submissionService) notifyPublished(ctx context.Context, sub *domain.Submission) {
	author, err := s.userRepo.GetByID(ctx, sub.CorrespondingAuthor)
	if err != nil {
		log.Printf("submissionService.notifyPublished: author lookup failed for %s: %v", sub.ID, err)
		return
	}
	if err := s.email.SendPublished(ctx, author.Email, author.FullName, sub.Title); err != nil {
		log.Printf("submissionService.notifyPublished: send failed for %s: %v", sub.ID, err)
	}
}
