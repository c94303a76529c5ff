package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"peerflow/internal/config"
	"peerflow/internal/domain"
	"peerflow/internal/service"
	"peerflow/internal/workflow"
	"peerflow/mocks"
)

func setupAssignmentService() (
	service.AssignmentService,
	*mocks.MockSubmissionRepo,
	*mocks.MockUserRepo,
	*mocks.MockEventRepo,
	*mocks.MockEmailSender,
) {
	subRepo := new(mocks.MockSubmissionRepo)
	userRepo := new(mocks.MockUserRepo)
	eventRepo := new(mocks.MockEventRepo)
	email := new(mocks.MockEmailSender)
	cfg := config.ReviewConfig{DueDays: 14, DueSoonDays: 7}
	svc := service.NewAssignmentService(subRepo, userRepo, eventRepo, email, workflow.New(), cfg)
	return svc, subRepo, userRepo, eventRepo, email
}

func reviewerUser(id uuid.UUID) domain.User {
	return domain.User{
		ID:       id,
		Email:    id.String() + "@journal.test",
		FullName: "R. Viewer",
		Role:     domain.RoleReviewer,
		IsActive: true,
	}
}

func submittedSubmission() *domain.Submission {
	sub := draftSubmission(uuid.New())
	sub.Status = domain.StatusSubmitted
	return sub
}

func TestAssignmentService_Assign_OpensReview(t *testing.T) {
	svc, subRepo, userRepo, eventRepo, email := setupAssignmentService()

	sub := submittedSubmission()
	r1, r2 := uuid.New(), uuid.New()
	userRepo.On("GetByIDs", mock.Anything, []uuid.UUID{r1, r2}).
		Return([]domain.User{reviewerUser(r1), reviewerUser(r2)}, nil)
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)
	eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	email.On("SendReviewAssigned", mock.Anything, mock.Anything, mock.Anything, sub.Title, mock.Anything).Return(nil)

	got, err := svc.Assign(context.Background(), &service.AssignInput{
		AssignmentRole: domain.AssignReviewer,
		UserIDs:        []uuid.UUID{r1, r2},
		SubmissionID:   sub.ID,
		CallerID:       uuid.New(),
		CallerRole:     domain.RoleEditor,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnderReview, got.Status)
	assert.Equal(t, []uuid.UUID{r1, r2}, got.Reviewers)
	require.Len(t, got.Reviews, 2)
	for _, review := range got.Reviews {
		assert.False(t, review.Completed)
		assert.WithinDuration(t, time.Now().AddDate(0, 0, 14), review.DueDate, time.Minute)
	}
	email.AssertNumberOfCalls(t, "SendReviewAssigned", 2)
}

func TestAssignmentService_Assign_EmptySetFromSubmittedInvalid(t *testing.T) {
	svc, subRepo, _, _, _ := setupAssignmentService()

	sub := submittedSubmission()
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)

	_, err := svc.Assign(context.Background(), &service.AssignInput{
		AssignmentRole: domain.AssignReviewer,
		UserIDs:        nil,
		SubmissionID:   sub.ID,
		CallerID:       uuid.New(),
		CallerRole:     domain.RoleEditor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAssignment)
	assert.Equal(t, domain.StatusSubmitted, sub.Status)
}

func TestAssignmentService_Assign_UnknownUserInvalid(t *testing.T) {
	svc, _, userRepo, _, _ := setupAssignmentService()

	known, unknown := uuid.New(), uuid.New()
	userRepo.On("GetByIDs", mock.Anything, []uuid.UUID{known, unknown}).
		Return([]domain.User{reviewerUser(known)}, nil)

	_, err := svc.Assign(context.Background(), &service.AssignInput{
		AssignmentRole: domain.AssignReviewer,
		UserIDs:        []uuid.UUID{known, unknown},
		SubmissionID:   uuid.New(),
		CallerID:       uuid.New(),
		CallerRole:     domain.RoleEditor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAssignment)
}

func TestAssignmentService_Assign_RoleMismatch(t *testing.T) {
	svc, _, userRepo, _, _ := setupAssignmentService()

	authorID := uuid.New()
	author := domain.User{ID: authorID, Role: domain.RoleAuthor, IsActive: true}
	userRepo.On("GetByIDs", mock.Anything, []uuid.UUID{authorID}).Return([]domain.User{author}, nil)

	_, err := svc.Assign(context.Background(), &service.AssignInput{
		AssignmentRole: domain.AssignReviewer,
		UserIDs:        []uuid.UUID{authorID},
		SubmissionID:   uuid.New(),
		CallerID:       uuid.New(),
		CallerRole:     domain.RoleEditor,
	})
	assert.ErrorIs(t, err, domain.ErrRoleMismatch)
}

func TestAssignmentService_Assign_CallerMustBeEditorial(t *testing.T) {
	svc, _, _, _, _ := setupAssignmentService()

	_, err := svc.Assign(context.Background(), &service.AssignInput{
		AssignmentRole: domain.AssignReviewer,
		UserIDs:        []uuid.UUID{uuid.New()},
		SubmissionID:   uuid.New(),
		CallerID:       uuid.New(),
		CallerRole:     domain.RoleReviewer,
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAssignmentService_Assign_ReplaceSetReconcilesReviews(t *testing.T) {
	svc, subRepo, userRepo, eventRepo, email := setupAssignmentService()

	kept, removed, added := uuid.New(), uuid.New(), uuid.New()
	sub := submittedSubmission()
	sub.Status = domain.StatusUnderReview
	sub.Reviewers = []uuid.UUID{kept, removed}

	completedAt := time.Now().Add(-48 * time.Hour)
	keptReview := domain.Review{
		ID: uuid.New(), SubmissionID: sub.ID, ReviewerID: kept,
		Completed: true, SubmittedDate: &completedAt,
	}
	removedReview := domain.Review{
		ID: uuid.New(), SubmissionID: sub.ID, ReviewerID: removed,
		Completed: false,
	}
	sub.Reviews = []domain.Review{keptReview, removedReview}

	userRepo.On("GetByIDs", mock.Anything, []uuid.UUID{kept, added}).
		Return([]domain.User{reviewerUser(kept), reviewerUser(added)}, nil)
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)
	eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	email.On("SendReviewAssigned", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	got, err := svc.Assign(context.Background(), &service.AssignInput{
		AssignmentRole: domain.AssignReviewer,
		UserIDs:        []uuid.UUID{kept, added},
		SubmissionID:   sub.ID,
		CallerID:       uuid.New(),
		CallerRole:     domain.RoleAdmin,
	})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{kept, added}, got.Reviewers)
	require.Len(t, got.Reviews, 2)

	byReviewer := map[uuid.UUID]domain.Review{}
	for _, review := range got.Reviews {
		byReviewer[review.ReviewerID] = review
	}
	// The retained reviewer's review is untouched.
	assert.Equal(t, keptReview.ID, byReviewer[kept].ID)
	assert.True(t, byReviewer[kept].Completed)
	// The added reviewer got a fresh pending review.
	assert.False(t, byReviewer[added].Completed)
	// The removed reviewer's uncompleted review is gone.
	_, stillThere := byReviewer[removed]
	assert.False(t, stillThere)

	// Only the added reviewer is notified.
	email.AssertNumberOfCalls(t, "SendReviewAssigned", 1)
}

func TestAssignmentService_Assign_CompletedReviewSurvivesRemoval(t *testing.T) {
	svc, subRepo, userRepo, eventRepo, _ := setupAssignmentService()

	kept, removed := uuid.New(), uuid.New()
	sub := submittedSubmission()
	sub.Status = domain.StatusUnderReview
	sub.Reviewers = []uuid.UUID{kept, removed}
	done := time.Now()
	sub.Reviews = []domain.Review{
		{ID: uuid.New(), SubmissionID: sub.ID, ReviewerID: kept, Completed: false},
		{ID: uuid.New(), SubmissionID: sub.ID, ReviewerID: removed, Completed: true, SubmittedDate: &done},
	}

	userRepo.On("GetByIDs", mock.Anything, []uuid.UUID{kept}).
		Return([]domain.User{reviewerUser(kept)}, nil)
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)
	eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	got, err := svc.Assign(context.Background(), &service.AssignInput{
		AssignmentRole: domain.AssignReviewer,
		UserIDs:        []uuid.UUID{kept},
		SubmissionID:   sub.ID,
		CallerID:       uuid.New(),
		CallerRole:     domain.RoleEditor,
	})

	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{kept}, got.Reviewers)
	// The completed review of the removed reviewer is preserved.
	require.Len(t, got.Reviews, 2)
}

func TestAssignmentService_Assign_Idempotent(t *testing.T) {
	svc, subRepo, userRepo, eventRepo, email := setupAssignmentService()

	r1 := uuid.New()
	sub := submittedSubmission()
	sub.Status = domain.StatusUnderReview
	sub.Reviewers = []uuid.UUID{r1}
	existing := domain.Review{ID: uuid.New(), SubmissionID: sub.ID, ReviewerID: r1}
	sub.Reviews = []domain.Review{existing}

	userRepo.On("GetByIDs", mock.Anything, []uuid.UUID{r1}).
		Return([]domain.User{reviewerUser(r1)}, nil)
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)
	eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	got, err := svc.Assign(context.Background(), &service.AssignInput{
		AssignmentRole: domain.AssignReviewer,
		UserIDs:        []uuid.UUID{r1},
		SubmissionID:   sub.ID,
		CallerID:       uuid.New(),
		CallerRole:     domain.RoleEditor,
	})

	require.NoError(t, err)
	require.Len(t, got.Reviews, 1)
	assert.Equal(t, existing.ID, got.Reviews[0].ID)
	email.AssertNotCalled(t, "SendReviewAssigned", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignmentService_Assign_CopyEditorsRequireAccepted(t *testing.T) {
	svc, subRepo, userRepo, eventRepo, _ := setupAssignmentService()

	ce := uuid.New()
	ceUser := domain.User{ID: ce, Role: domain.RoleCopyEditor, IsActive: true}
	userRepo.On("GetByIDs", mock.Anything, []uuid.UUID{ce}).Return([]domain.User{ceUser}, nil)
	eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	underReview := submittedSubmission()
	underReview.Status = domain.StatusUnderReview
	subRepo.On("UpdateWithLock", mock.Anything, underReview.ID).Return(underReview, nil)

	_, err := svc.Assign(context.Background(), &service.AssignInput{
		AssignmentRole: domain.AssignCopyEditor,
		UserIDs:        []uuid.UUID{ce},
		SubmissionID:   underReview.ID,
		CallerID:       uuid.New(),
		CallerRole:     domain.RoleEditor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAssignment)

	accepted := submittedSubmission()
	accepted.Status = domain.StatusAccepted
	subRepo.On("UpdateWithLock", mock.Anything, accepted.ID).Return(accepted, nil)

	got, err := svc.Assign(context.Background(), &service.AssignInput{
		AssignmentRole: domain.AssignCopyEditor,
		UserIDs:        []uuid.UUID{ce},
		SubmissionID:   accepted.ID,
		CallerID:       uuid.New(),
		CallerRole:     domain.RoleEditor,
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{ce}, got.CopyEditors)
	assert.Empty(t, got.Reviews)
}
