package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"peerflow/internal/config"
	"peerflow/internal/domain"
	"peerflow/internal/port"
)

// SubmitReviewInput is the DTO for submitting a completed review.
type SubmitReviewInput struct {
	Decision        domain.ReviewDecision `json:"decision" binding:"required"`
	Comments        string                `json:"comments" binding:"required"`
	PrivateComments string                `json:"private_comments"`
	Criteria        domain.Criteria       `json:"criteria" binding:"required"`

	SubmissionID uuid.UUID       `json:"-"`
	CallerID     uuid.UUID       `json:"-"`
	Role         domain.UserRole `json:"-"`
}

// ReviewRound summarizes the state of a submission's current review round.
// Everything here is derived from the review collection on demand; nothing
// is stored.
type ReviewRound struct {
	Total         int  `json:"total"`
	Completed     int  `json:"completed"`
	Pending       int  `json:"pending"`
	RoundComplete bool `json:"round_complete"`
}

// ReviewQueueItem is one entry in a reviewer's work queue.
type ReviewQueueItem struct {
	Review          domain.Review `json:"review"`
	SubmissionTitle string        `json:"submission_title"`
	Overdue         bool          `json:"overdue"`
	DueSoon         bool          `json:"due_soon"`
}

// ReviewService defines the peer review contract.
type ReviewService interface {
	SubmitReview(ctx context.Context, input *SubmitReviewInput) (*domain.Review, error)
	ListReviews(ctx context.Context, submissionID, callerID uuid.UUID, role domain.UserRole) ([]domain.Review, error)
	RoundStatus(ctx context.Context, submissionID, callerID uuid.UUID, role domain.UserRole) (*ReviewRound, error)
	ListQueue(ctx context.Context, reviewerID uuid.UUID) ([]ReviewQueueItem, error)
}

type reviewService struct {
	subRepo   port.SubmissionRepository
	eventRepo port.SubmissionEventRepository
	cfg       config.ReviewConfig
}

// NewReviewService creates a new ReviewService implementation.
func NewReviewService(subRepo port.SubmissionRepository, eventRepo port.SubmissionEventRepository, cfg config.ReviewConfig) ReviewService {
	return &reviewService{
		subRepo:   subRepo,
		eventRepo: eventRepo,
		cfg:       cfg,
	}
}

// validateCriteria enforces the rating contract: the overall criterion is
// mandatory and every rating sits on the 0-5 scale. Extension keys beyond
// the standard set pass through untouched.
func validateCriteria(criteria domain.Criteria) error {
	if _, ok := criteria[domain.CriterionOverall]; !ok {
		return domain.ErrMissingOverall
	}
	for name, rating := range criteria {
		if rating < 0 || rating > 5 {
			return fmt.Errorf("%w: %s = %d", domain.ErrInvalidRating, name, rating)
		}
	}
	return nil
}

func (s *reviewService) SubmitReview(ctx context.Context, input *SubmitReviewInput) (*domain.Review, error) {
	if input.Role != domain.RoleReviewer {
		return nil, domain.ErrForbidden
	}
	if !domain.ValidReviewDecisions[input.Decision] {
		return nil, fmt.Errorf("%w: unknown review decision %q", domain.ErrInvalidRating, input.Decision)
	}
	if err := validateCriteria(input.Criteria); err != nil {
		return nil, err
	}

	var submitted *domain.Review
	sub, err := s.subRepo.UpdateWithLock(ctx, input.SubmissionID, func(sub *domain.Submission) error {
		if !sub.HasReviewer(input.CallerID) {
			return domain.ErrForbidden
		}
		if sub.Status != domain.StatusUnderReview {
			return domain.ErrInvalidTransition
		}

		review := sub.ReviewBy(input.CallerID)
		if review == nil {
			return domain.ErrForbidden
		}
		if review.Completed {
			return domain.ErrAlreadySubmitted
		}

		now := time.Now().UTC()
		decision := input.Decision
		review.Completed = true
		review.Decision = &decision
		review.Comments = input.Comments
		review.PrivateComments = input.PrivateComments
		review.Criteria = input.Criteria
		review.SubmittedDate = &now
		submitted = review
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordSubmitted(ctx, sub, input.CallerID)
	result := *submitted
	return &result, nil
}

func (s *reviewService) recordSubmitted(ctx context.Context, sub *domain.Submission, reviewerID uuid.UUID) {
	round := roundOf(sub)
	event := &domain.SubmissionEvent{
		SubmissionID: sub.ID,
		ActorID:      &reviewerID,
		Type:         domain.EventReviewSubmitted,
		Detail:       fmt.Sprintf("review submitted, %d of %d complete", round.Completed, round.Total),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		log.Printf("reviewService.recordSubmitted: failed for %s: %v", sub.ID, err)
	}
}

func roundOf(sub *domain.Submission) ReviewRound {
	round := ReviewRound{Total: len(sub.Reviews)}
	for _, review := range sub.Reviews {
		if review.Completed {
			round.Completed++
		} else {
			round.Pending++
		}
	}
	round.RoundComplete = round.Total > 0 && round.Pending == 0
	return round
}

func (s *reviewService) ListReviews(ctx context.Context, submissionID, callerID uuid.UUID, role domain.UserRole) ([]domain.Review, error) {
	sub, err := s.subRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if !canView(sub, callerID, role) {
		return nil, domain.ErrNotFound
	}
	return filterReviews(sub, callerID, role), nil
}

// filterReviews applies the role-scoped view of a submission's reviews.
// Editors and admins see everything. A reviewer sees only their own
// review. The corresponding author sees completed reviews with private
// comments stripped and, unless the journal runs open review, reviewer
// identities blanked. Everyone else sees nothing.
func filterReviews(sub *domain.Submission, callerID uuid.UUID, role domain.UserRole) []domain.Review {
	switch role {
	case domain.RoleAdmin, domain.RoleEditor:
		return sub.Reviews
	case domain.RoleReviewer:
		if review := sub.ReviewBy(callerID); review != nil {
			return []domain.Review{*review}
		}
		return []domain.Review{}
	case domain.RoleAuthor:
		if sub.CorrespondingAuthor != callerID {
			return []domain.Review{}
		}
		out := make([]domain.Review, 0, len(sub.Reviews))
		for _, review := range sub.Reviews {
			if !review.Completed {
				continue
			}
			review.PrivateComments = ""
			if sub.PeerReviewType != domain.PeerReviewOpen {
				review.ReviewerID = uuid.Nil
			}
			out = append(out, review)
		}
		return out
	default:
		return []domain.Review{}
	}
}

func (s *reviewService) RoundStatus(ctx context.Context, submissionID, callerID uuid.UUID, role domain.UserRole) (*ReviewRound, error) {
	sub, err := s.subRepo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if !canView(sub, callerID, role) {
		return nil, domain.ErrNotFound
	}
	round := roundOf(sub)
	return &round, nil
}

func (s *reviewService) ListQueue(ctx context.Context, reviewerID uuid.UUID) ([]ReviewQueueItem, error) {
	reviews, err := s.subRepo.ListPendingReviews(ctx, reviewerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	window := time.Duration(s.cfg.DueSoonDays) * 24 * time.Hour
	items := make([]ReviewQueueItem, 0, len(reviews))
	for _, review := range reviews {
		item := ReviewQueueItem{
			Review:  review,
			Overdue: review.IsOverdue(now),
			DueSoon: review.IsDueSoon(now, window),
		}
		if sub, err := s.subRepo.GetByID(ctx, review.SubmissionID); err == nil {
			item.SubmissionTitle = sub.Title
		}
		items = append(items, item)
	}
	return items, nil
}
