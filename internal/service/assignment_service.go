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
	"peerflow/internal/workflow"
)

// AssignInput is the DTO for replacing a submission's assignment set.
// UserIDs is the complete desired set for the role; omitted members are
// removed, present members are kept, and resending the same set is a no-op.
type AssignInput struct {
	AssignmentRole domain.AssignmentRole `json:"role" binding:"required"`
	UserIDs        []uuid.UUID           `json:"user_ids"`

	SubmissionID uuid.UUID       `json:"-"`
	CallerID     uuid.UUID       `json:"-"`
	CallerRole   domain.UserRole `json:"-"`
}

// AssignmentService manages the reviewer, copy editor, and publisher sets
// on a submission and keeps the review collection consistent with the
// reviewer set.
type AssignmentService interface {
	Assign(ctx context.Context, input *AssignInput) (*domain.Submission, error)
}

type assignmentService struct {
	subRepo   port.SubmissionRepository
	userRepo  port.UserRepository
	eventRepo port.SubmissionEventRepository
	email     port.EmailSender
	machine   *workflow.Machine
	cfg       config.ReviewConfig
}

// NewAssignmentService creates a new AssignmentService implementation.
func NewAssignmentService(
	subRepo port.SubmissionRepository,
	userRepo port.UserRepository,
	eventRepo port.SubmissionEventRepository,
	email port.EmailSender,
	machine *workflow.Machine,
	cfg config.ReviewConfig,
) AssignmentService {
	return &assignmentService{
		subRepo:   subRepo,
		userRepo:  userRepo,
		eventRepo: eventRepo,
		email:     email,
		machine:   machine,
		cfg:       cfg,
	}
}

func (s *assignmentService) Assign(ctx context.Context, input *AssignInput) (*domain.Submission, error) {
	if input.CallerRole != domain.RoleEditor && input.CallerRole != domain.RoleAdmin {
		return nil, domain.ErrUnauthorized
	}
	if !domain.ValidAssignmentRoles[input.AssignmentRole] {
		return nil, fmt.Errorf("%w: unknown assignment role %q", domain.ErrInvalidAssignment, input.AssignmentRole)
	}

	desired := dedupeIDs(input.UserIDs)

	assignees, err := s.loadAssignees(ctx, desired, input.AssignmentRole)
	if err != nil {
		return nil, err
	}

	var added []uuid.UUID
	sub, err := s.subRepo.UpdateWithLock(ctx, input.SubmissionID, func(sub *domain.Submission) error {
		added = nil
		switch input.AssignmentRole {
		case domain.AssignReviewer:
			return s.assignReviewers(sub, desired, input.CallerRole, &added)
		default:
			return s.assignProductionRole(sub, input.AssignmentRole, desired, &added)
		}
	})
	if err != nil {
		return nil, err
	}

	s.recordAssignment(ctx, sub.ID, input.CallerID, input.AssignmentRole, desired)
	if input.AssignmentRole == domain.AssignReviewer {
		s.notifyNewReviewers(ctx, sub, assignees, added)
	}
	return sub, nil
}

// assignReviewers replaces the reviewer set and reconciles the review
// collection: a fresh pending review is synthesized per added reviewer,
// uncompleted reviews of removed reviewers are dropped, completed reviews
// always survive, and reviews of retained reviewers are left untouched.
func (s *assignmentService) assignReviewers(sub *domain.Submission, desired []uuid.UUID, callerRole domain.UserRole, added *[]uuid.UUID) error {
	switch sub.Status {
	case domain.StatusSubmitted, domain.StatusUnderReview:
	default:
		return fmt.Errorf("%w: reviewers cannot be assigned in status %s", domain.ErrInvalidAssignment, sub.Status)
	}
	if sub.Status == domain.StatusSubmitted && len(desired) == 0 {
		return fmt.Errorf("%w: cannot open review with an empty reviewer set", domain.ErrInvalidAssignment)
	}

	current := make(map[uuid.UUID]bool, len(sub.Reviewers))
	for _, id := range sub.Reviewers {
		current[id] = true
	}
	keep := make(map[uuid.UUID]bool, len(desired))
	for _, id := range desired {
		keep[id] = true
	}

	now := time.Now().UTC()
	for _, id := range desired {
		if current[id] {
			continue
		}
		*added = append(*added, id)
		// A completed review can outlive its reviewer's removal. If that
		// reviewer returns, the surviving review is theirs again.
		if sub.ReviewBy(id) != nil {
			continue
		}
		sub.Reviews = append(sub.Reviews, domain.Review{
			ID:           uuid.New(),
			SubmissionID: sub.ID,
			ReviewerID:   id,
			Completed:    false,
			Criteria:     domain.Criteria{},
			DueDate:      now.AddDate(0, 0, s.cfg.DueDays),
			CreatedAt:    now,
		})
	}

	kept := sub.Reviews[:0]
	for _, review := range sub.Reviews {
		if keep[review.ReviewerID] || review.Completed {
			kept = append(kept, review)
		}
	}
	sub.Reviews = kept
	sub.Reviewers = desired

	if sub.Status == domain.StatusSubmitted {
		next, err := s.machine.Apply(callerRole, sub.Status, workflow.EventSendToReview)
		if err != nil {
			return err
		}
		sub.Status = next
		sub.ManuscriptVersion = domain.VersionReviewing
	}
	return nil
}

func (s *assignmentService) assignProductionRole(sub *domain.Submission, role domain.AssignmentRole, desired []uuid.UUID, added *[]uuid.UUID) error {
	if sub.Status != domain.StatusAccepted {
		return fmt.Errorf("%w: %s assignments require an accepted submission", domain.ErrInvalidAssignment, role)
	}

	current := make(map[uuid.UUID]bool)
	for _, id := range sub.AssignedSet(role) {
		current[id] = true
	}
	for _, id := range desired {
		if !current[id] {
			*added = append(*added, id)
		}
	}

	switch role {
	case domain.AssignCopyEditor:
		sub.CopyEditors = desired
	case domain.AssignPublisher:
		sub.Publishers = desired
	}
	return nil
}

// loadAssignees verifies every desired assignee exists, is active, and
// holds the user role the assignment set requires.
func (s *assignmentService) loadAssignees(ctx context.Context, ids []uuid.UUID, role domain.AssignmentRole) (map[uuid.UUID]*domain.User, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*domain.User{}, nil
	}

	users, err := s.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*domain.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	required := role.UserRoleFor()
	for _, id := range ids {
		user, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: user %s does not exist", domain.ErrInvalidAssignment, id)
		}
		if !user.IsActive {
			return nil, fmt.Errorf("%w: user %s is inactive", domain.ErrInvalidAssignment, id)
		}
		if user.Role != required {
			return nil, fmt.Errorf("%w: user %s holds role %s, %s required", domain.ErrRoleMismatch, id, user.Role, required)
		}
	}
	return byID, nil
}

func dedupeIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (s *assignmentService) recordAssignment(ctx context.Context, submissionID, actorID uuid.UUID, role domain.AssignmentRole, set []uuid.UUID) {
	event := &domain.SubmissionEvent{
		SubmissionID: submissionID,
		ActorID:      &actorID,
		Type:         domain.EventAssigned,
		Detail:       fmt.Sprintf("%s set replaced, %d assignees", role, len(set)),
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		log.Printf("assignmentService.recordAssignment: failed for %s: %v", submissionID, err)
	}
}

func (s *assignmentService) notifyNewReviewers(ctx context.Context, sub *domain.Submission, assignees map[uuid.UUID]*domain.User, added []uuid.UUID) {
	for _, id := range added {
		user, ok := assignees[id]
		if !ok {
			continue
		}
		review := sub.ReviewBy(id)
		if review == nil {
			continue
		}
		if err := s.email.SendReviewAssigned(ctx, user.Email, user.FullName, sub.Title, review.DueDate); err != nil {
			log.Printf("assignmentService.notifyNewReviewers: send failed for %s: %v", user.Email, err)
		}
	}
}
