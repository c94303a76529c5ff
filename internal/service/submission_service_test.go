package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"peerflow/internal/domain"
	"peerflow/internal/service"
	"peerflow/internal/workflow"
	"peerflow/mocks"
)

func setupSubmissionService() (
	service.SubmissionService,
	*mocks.MockSubmissionRepo,
	*mocks.MockUserRepo,
	*mocks.MockEventRepo,
	*mocks.MockEmailSender,
) {
	subRepo := new(mocks.MockSubmissionRepo)
	userRepo := new(mocks.MockUserRepo)
	eventRepo := new(mocks.MockEventRepo)
	email := new(mocks.MockEmailSender)
	svc := service.NewSubmissionService(subRepo, userRepo, eventRepo, email, workflow.New())
	return svc, subRepo, userRepo, eventRepo, email
}

func draftSubmission(authorID uuid.UUID) *domain.Submission {
	return &domain.Submission{
		ID:                  uuid.New(),
		Title:               "Consensus Without Clocks",
		Abstract:            "An abstract.",
		Authors:             []string{"C. Author"},
		Category:            "distributed-systems",
		Document:            "manuscripts/v1/paper.pdf",
		Status:              domain.StatusDraft,
		ManuscriptVersion:   domain.VersionInitial,
		PeerReviewType:      domain.PeerReviewDoubleBlind,
		CorrespondingAuthor: authorID,
	}
}

// --- Create ---

func TestSubmissionService_Create_StartsInDraft(t *testing.T) {
	svc, subRepo, _, eventRepo, _ := setupSubmissionService()

	authorID := uuid.New()
	subRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Submission")).Return(nil)
	eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	sub, err := svc.Create(context.Background(), &service.CreateSubmissionInput{
		Title:    "Consensus Without Clocks",
		Abstract: "An abstract.",
		Authors:  []string{"C. Author"},
		Category: "distributed-systems",
		Document: "manuscripts/v1/paper.pdf",
		CallerID: authorID,
		Role:     domain.RoleAuthor,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusDraft, sub.Status)
	assert.Equal(t, domain.VersionInitial, sub.ManuscriptVersion)
	assert.Equal(t, authorID, sub.CorrespondingAuthor)
	assert.Equal(t, domain.PeerReviewSingleBlind, sub.PeerReviewType)
}

func TestSubmissionService_Create_ReaderForbidden(t *testing.T) {
	svc, _, _, _, _ := setupSubmissionService()

	_, err := svc.Create(context.Background(), &service.CreateSubmissionInput{
		Title:    "x",
		CallerID: uuid.New(),
		Role:     domain.RoleReader,
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

// --- Submit ---

func TestSubmissionService_Submit_DraftBecomesSubmitted(t *testing.T) {
	svc, subRepo, _, eventRepo, _ := setupSubmissionService()

	authorID := uuid.New()
	sub := draftSubmission(authorID)
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)
	eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	got, err := svc.Submit(context.Background(), sub.ID, authorID, domain.RoleAuthor)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSubmitted, got.Status)
	assert.False(t, got.SubmittedDate.IsZero())
}

func TestSubmissionService_Submit_NonOwnerForbidden(t *testing.T) {
	svc, subRepo, _, _, _ := setupSubmissionService()

	sub := draftSubmission(uuid.New())
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)

	_, err := svc.Submit(context.Background(), sub.ID, uuid.New(), domain.RoleAuthor)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, domain.StatusDraft, sub.Status)
}

func TestSubmissionService_Submit_TwiceIsInvalid(t *testing.T) {
	svc, subRepo, _, eventRepo, _ := setupSubmissionService()

	authorID := uuid.New()
	sub := draftSubmission(authorID)
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)
	eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Submit(context.Background(), sub.ID, authorID, domain.RoleAuthor)
	require.NoError(t, err)

	_, err = svc.Submit(context.Background(), sub.ID, authorID, domain.RoleAuthor)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

// --- Decide ---

func TestSubmissionService_Decide_DeskAccept(t *testing.T) {
	svc, subRepo, userRepo, eventRepo, email := setupSubmissionService()

	editorID := uuid.New()
	sub := draftSubmission(uuid.New())
	sub.Status = domain.StatusSubmitted
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)
	eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("GetByID", mock.Anything, sub.CorrespondingAuthor).
		Return(&domain.User{ID: sub.CorrespondingAuthor, Email: "a@uni.edu", FullName: "C. Author"}, nil)
	email.On("SendDecision", mock.Anything, "a@uni.edu", "C. Author", sub.Title, domain.DecisionAccept, "strong desk accept").Return(nil)

	got, err := svc.Decide(context.Background(), &service.DecideInput{
		Decision:     domain.DecisionAccept,
		Comments:     "strong desk accept",
		SubmissionID: sub.ID,
		CallerID:     editorID,
		Role:         domain.RoleEditor,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, got.Status)
	assert.Equal(t, domain.VersionCopyEditing, got.ManuscriptVersion)
	require.NotNil(t, got.Decision)
	assert.Equal(t, domain.DecisionAccept, got.Decision.Status)
	require.NotNil(t, got.EditorID)
	assert.Equal(t, editorID, *got.EditorID)
	email.AssertExpectations(t)
}

func TestSubmissionService_Decide_DeskRevisionInvalid(t *testing.T) {
	svc, subRepo, _, _, _ := setupSubmissionService()

	sub := draftSubmission(uuid.New())
	sub.Status = domain.StatusSubmitted
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)

	_, err := svc.Decide(context.Background(), &service.DecideInput{
		Decision:     domain.DecisionRevision,
		SubmissionID: sub.ID,
		CallerID:     uuid.New(),
		Role:         domain.RoleEditor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSubmissionService_Decide_RequestRevision(t *testing.T) {
	svc, subRepo, userRepo, eventRepo, email := setupSubmissionService()

	sub := draftSubmission(uuid.New())
	sub.Status = domain.StatusUnderReview
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)
	eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("GetByID", mock.Anything, sub.CorrespondingAuthor).
		Return(&domain.User{Email: "a@uni.edu"}, nil)
	email.On("SendDecision", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	got, err := svc.Decide(context.Background(), &service.DecideInput{
		Decision:     domain.DecisionRevision,
		Comments:     "address reviewer 2",
		SubmissionID: sub.ID,
		CallerID:     uuid.New(),
		Role:         domain.RoleEditor,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRevisionRequired, got.Status)
	assert.Equal(t, domain.VersionInitial, got.ManuscriptVersion)
}

func TestSubmissionService_Decide_AuthorUnauthorized(t *testing.T) {
	svc, subRepo, _, _, _ := setupSubmissionService()

	sub := draftSubmission(uuid.New())
	sub.Status = domain.StatusUnderReview
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)

	_, err := svc.Decide(context.Background(), &service.DecideInput{
		Decision:     domain.DecisionAccept,
		SubmissionID: sub.ID,
		CallerID:     sub.CorrespondingAuthor,
		Role:         domain.RoleAuthor,
	})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// --- Resubmit ---

func TestSubmissionService_Resubmit_RecordsPreviousVersion(t *testing.T) {
	svc, subRepo, _, eventRepo, _ := setupSubmissionService()

	authorID := uuid.New()
	sub := draftSubmission(authorID)
	sub.Status = domain.StatusRevisionRequired
	sub.ManuscriptVersion = domain.VersionReviewing
	original := sub.Document
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)
	eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	got, err := svc.Resubmit(context.Background(), &service.ResubmitInput{
		Document:            "manuscripts/v2/paper.pdf",
		ResponseToReviewers: "all points addressed",
		ChangesSummary:      "rewrote section 4",
		SubmissionID:        sub.ID,
		CallerID:            authorID,
		Role:                domain.RoleAuthor,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnderReview, got.Status)
	assert.Equal(t, "manuscripts/v2/paper.pdf", got.Document)
	require.NotNil(t, got.ResubmissionDetails)
	assert.Equal(t, original, got.ResubmissionDetails.PreviousVersion)
	assert.Equal(t, "all points addressed", got.ResubmissionDetails.ResponseToReviewers)
	assert.Equal(t, domain.VersionReviewing, got.ManuscriptVersion)
}

func TestSubmissionService_Resubmit_SecondCycleChainsPreviousVersion(t *testing.T) {
	svc, subRepo, _, eventRepo, _ := setupSubmissionService()

	authorID := uuid.New()
	sub := draftSubmission(authorID)
	sub.Status = domain.StatusRevisionRequired
	sub.ManuscriptVersion = domain.VersionReviewing
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)
	eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	_, err := svc.Resubmit(context.Background(), &service.ResubmitInput{
		Document:            "manuscripts/v2/paper.pdf",
		ResponseToReviewers: "first round addressed",
		SubmissionID:        sub.ID,
		CallerID:            authorID,
		Role:                domain.RoleAuthor,
	})
	require.NoError(t, err)

	// Second revision cycle: the previous version tracks the document the
	// first resubmission installed, not the original upload.
	sub.Status = domain.StatusRevisionRequired
	got, err := svc.Resubmit(context.Background(), &service.ResubmitInput{
		Document:            "manuscripts/v3/paper.pdf",
		ResponseToReviewers: "second round addressed",
		SubmissionID:        sub.ID,
		CallerID:            authorID,
		Role:                domain.RoleAuthor,
	})
	require.NoError(t, err)
	require.NotNil(t, got.ResubmissionDetails)
	assert.Equal(t, "manuscripts/v2/paper.pdf", got.ResubmissionDetails.PreviousVersion)
	assert.Equal(t, "manuscripts/v3/paper.pdf", got.Document)
	assert.Equal(t, "second round addressed", got.ResubmissionDetails.ResponseToReviewers)
}

func TestSubmissionService_Resubmit_OnlyFromRevisionRequired(t *testing.T) {
	svc, subRepo, _, _, _ := setupSubmissionService()

	authorID := uuid.New()
	sub := draftSubmission(authorID)
	sub.Status = domain.StatusUnderReview
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)

	_, err := svc.Resubmit(context.Background(), &service.ResubmitInput{
		Document:            "manuscripts/v2/paper.pdf",
		ResponseToReviewers: "x",
		SubmissionID:        sub.ID,
		CallerID:            authorID,
		Role:                domain.RoleAuthor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Nil(t, sub.ResubmissionDetails)
}

// --- Publish ---

func TestSubmissionService_Publish_SetsPublicationDate(t *testing.T) {
	svc, subRepo, userRepo, eventRepo, email := setupSubmissionService()

	sub := draftSubmission(uuid.New())
	sub.Status = domain.StatusAccepted
	sub.ManuscriptVersion = domain.VersionCopyEditing
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)
	eventRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	userRepo.On("GetByID", mock.Anything, sub.CorrespondingAuthor).
		Return(&domain.User{Email: "a@uni.edu", FullName: "C. Author"}, nil)
	email.On("SendPublished", mock.Anything, "a@uni.edu", "C. Author", sub.Title).Return(nil)

	got, err := svc.Publish(context.Background(), sub.ID, uuid.New(), domain.RolePublisher)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPublished, got.Status)
	assert.Equal(t, domain.VersionFinal, got.ManuscriptVersion)
	require.NotNil(t, got.PublicationDate)
}

func TestSubmissionService_Publish_AdminNotPermitted(t *testing.T) {
	svc, subRepo, _, _, _ := setupSubmissionService()

	sub := draftSubmission(uuid.New())
	sub.Status = domain.StatusAccepted
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)

	_, err := svc.Publish(context.Background(), sub.ID, uuid.New(), domain.RoleAdmin)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestSubmissionService_Publish_UnauthorizedBeforeInvalid(t *testing.T) {
	svc, subRepo, _, _, _ := setupSubmissionService()

	// Draft cannot be published either way; the capability failure must win.
	sub := draftSubmission(uuid.New())
	subRepo.On("UpdateWithLock", mock.Anything, sub.ID).Return(sub, nil)

	_, err := svc.Publish(context.Background(), sub.ID, sub.CorrespondingAuthor, domain.RoleAuthor)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// --- Visibility ---

func TestSubmissionService_GetByID_ReaderSeesOnlyPublished(t *testing.T) {
	svc, subRepo, _, _, _ := setupSubmissionService()

	readerID := uuid.New()
	draft := draftSubmission(uuid.New())
	published := draftSubmission(uuid.New())
	published.Status = domain.StatusPublished

	subRepo.On("GetByID", mock.Anything, draft.ID).Return(draft, nil)
	subRepo.On("GetByID", mock.Anything, published.ID).Return(published, nil)

	_, err := svc.GetByID(context.Background(), draft.ID, readerID, domain.RoleReader)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := svc.GetByID(context.Background(), published.ID, readerID, domain.RoleReader)
	require.NoError(t, err)
	assert.Equal(t, published.ID, got.ID)
}

func TestSubmissionService_GetByID_ReviewerSeesAssigned(t *testing.T) {
	svc, subRepo, _, _, _ := setupSubmissionService()

	reviewerID := uuid.New()
	sub := draftSubmission(uuid.New())
	sub.Status = domain.StatusUnderReview
	sub.Reviewers = []uuid.UUID{reviewerID}
	subRepo.On("GetByID", mock.Anything, sub.ID).Return(sub, nil)

	got, err := svc.GetByID(context.Background(), sub.ID, reviewerID, domain.RoleReviewer)
	require.NoError(t, err)
	assert.Equal(t, sub.ID, got.ID)

	_, err = svc.GetByID(context.Background(), sub.ID, uuid.New(), domain.RoleReviewer)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSubmissionService_List_RoleScoped(t *testing.T) {
	svc, subRepo, _, _, _ := setupSubmissionService()

	callerID := uuid.New()
	subRepo.On("ListByAuthor", mock.Anything, callerID, 0, 20).Return([]domain.Submission{}, 0, nil)
	subRepo.On("ListByAssignee", mock.Anything, callerID, domain.AssignReviewer, 0, 20).Return([]domain.Submission{}, 0, nil)
	subRepo.On("ListByStatus", mock.Anything, domain.StatusPublished, 0, 20).Return([]domain.Submission{}, 0, nil)
	subRepo.On("ListAll", mock.Anything, 0, 20).Return([]domain.Submission{}, 0, nil)

	for _, role := range []domain.UserRole{domain.RoleAuthor, domain.RoleReviewer, domain.RoleReader, domain.RoleEditor} {
		_, _, err := svc.List(context.Background(), callerID, role, 0, 20)
		require.NoError(t, err)
	}

	subRepo.AssertCalled(t, "ListByAuthor", mock.Anything, callerID, 0, 20)
	subRepo.AssertCalled(t, "ListByAssignee", mock.Anything, callerID, domain.AssignReviewer, 0, 20)
	subRepo.AssertCalled(t, "ListByStatus", mock.Anything, domain.StatusPublished, 0, 20)
	subRepo.AssertCalled(t, "ListAll", mock.Anything, 0, 20)
}

// --- UpdateContent ---

func TestSubmissionService_UpdateContent_OnlyDraftOrRevision(t *testing.T) {
	svc, subRepo, _, _, _ := setupSubmissionService()

	authorID := uuid.New()
	sub := draftSubmission(authorID)
	sub.Status = domain.StatusSubmitted
	subRepo.On("GetByID", mock.Anything, sub.ID).Return(sub, nil)

	title := "New Title"
	_, err := svc.UpdateContent(context.Background(), &service.UpdateSubmissionInput{
		Title:        &title,
		UpdatedDate:  sub.UpdatedDate,
		SubmissionID: sub.ID,
		CallerID:     authorID,
		Role:         domain.RoleAuthor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestSubmissionService_UpdateContent_ConflictSurfaces(t *testing.T) {
	svc, subRepo, _, _, _ := setupSubmissionService()

	authorID := uuid.New()
	sub := draftSubmission(authorID)
	stale := sub.UpdatedDate.Add(-time.Minute)
	subRepo.On("GetByID", mock.Anything, sub.ID).Return(sub, nil)
	subRepo.On("UpdateContent", mock.Anything, mock.Anything, stale).Return(domain.ErrConflict)

	title := "New Title"
	_, err := svc.UpdateContent(context.Background(), &service.UpdateSubmissionInput{
		Title:        &title,
		UpdatedDate:  stale,
		SubmissionID: sub.ID,
		CallerID:     authorID,
		Role:         domain.RoleAuthor,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

// --- Delete ---

func TestSubmissionService_Delete_AdminOnly(t *testing.T) {
	svc, subRepo, _, _, _ := setupSubmissionService()

	id := uuid.New()
	subRepo.On("Delete", mock.Anything, id).Return(nil)

	assert.ErrorIs(t, svc.Delete(context.Background(), id, domain.RoleEditor), domain.ErrForbidden)
	assert.NoError(t, svc.Delete(context.Background(), id, domain.RoleAdmin))
}

// --- ListEvents ---

func TestSubmissionService_ListEvents_PaginatedForEditorial(t *testing.T) {
	svc, subRepo, _, eventRepo, _ := setupSubmissionService()

	authorID := uuid.New()
	sub := draftSubmission(authorID)
	events := []domain.SubmissionEvent{
		{ID: uuid.New(), SubmissionID: sub.ID, Type: domain.EventSubmitted},
		{ID: uuid.New(), SubmissionID: sub.ID, Type: domain.EventDecisionRecorded},
	}

	subRepo.On("GetByID", mock.Anything, sub.ID).Return(sub, nil)
	eventRepo.On("ListBySubmission", mock.Anything, sub.ID, 0, 20).Return(events, 5, nil)

	got, total, err := svc.ListEvents(context.Background(), sub.ID, domain.RoleEditor, 0, 20)
	assert.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, 5, total)

	_, _, err = svc.ListEvents(context.Background(), sub.ID, domain.RoleAuthor, 0, 20)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
