package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"peerflow/internal/domain"
	"peerflow/internal/handler"
	"peerflow/internal/middleware"
	"peerflow/internal/service"
	"peerflow/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setAuthContext(c *gin.Context, userID uuid.UUID, role string) {
	c.Set(middleware.ContextKeyUserID, userID)
	c.Set(middleware.ContextKeyRole, role)
}

func newSubmissionHandler() (*handler.SubmissionHandler, *mocks.MockSubmissionService, *mocks.MockAssignmentService) {
	subSvc := new(mocks.MockSubmissionService)
	assignSvc := new(mocks.MockAssignmentService)
	h := handler.NewSubmissionHandler(subSvc, assignSvc)
	return h, subSvc, assignSvc
}

func TestSubmissionCreate_Success(t *testing.T) {
	h, subSvc, _ := newSubmissionHandler()

	authorID := uuid.New()
	created := &domain.Submission{
		ID:                  uuid.New(),
		Title:               "Consensus Under Partial Synchrony",
		Status:              domain.StatusDraft,
		CorrespondingAuthor: authorID,
	}

	subSvc.On("Create", mock.Anything, mock.MatchedBy(func(input *service.CreateSubmissionInput) bool {
		return input.CallerID == authorID && input.Role == domain.RoleAuthor && input.Title == "Consensus Under Partial Synchrony"
	})).Return(created, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"title":    "Consensus Under Partial Synchrony",
		"abstract": "We present a new consensus protocol.",
		"authors":  []string{"Ada Lovelace"},
		"category": "distributed-systems",
		"document": "manuscripts/x/paper.pdf",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/submissions", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, authorID, string(domain.RoleAuthor))

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	subSvc.AssertExpectations(t)
}

func TestSubmissionCreate_MissingTitle(t *testing.T) {
	h, subSvc, _ := newSubmissionHandler()

	body, _ := json.Marshal(map[string]interface{}{
		"abstract": "No title here.",
		"authors":  []string{"Ada Lovelace"},
		"category": "distributed-systems",
		"document": "manuscripts/x/paper.pdf",
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/submissions", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	setAuthContext(c, uuid.New(), string(domain.RoleAuthor))

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	subSvc.AssertNotCalled(t, "Create")
}

func TestSubmissionGetByID_NotFound(t *testing.T) {
	h, subSvc, _ := newSubmissionHandler()

	userID := uuid.New()
	submissionID := uuid.New()

	subSvc.On("GetByID", mock.Anything, submissionID, userID, domain.RoleReader).
		Return(nil, domain.ErrNotFound)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/submissions/"+submissionID.String(), http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: submissionID.String()}}
	setAuthContext(c, userID, string(domain.RoleReader))

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestSubmissionGetByID_InvalidID(t *testing.T) {
	h, subSvc, _ := newSubmissionHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/submissions/not-a-uuid", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
	setAuthContext(c, uuid.New(), string(domain.RoleEditor))

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	subSvc.AssertNotCalled(t, "GetByID")
}

func TestSubmissionDecide_InvalidTransitionMapsToConflict(t *testing.T) {
	h, subSvc, _ := newSubmissionHandler()

	editorID := uuid.New()
	submissionID := uuid.New()

	subSvc.On("Decide", mock.Anything, mock.MatchedBy(func(input *service.DecideInput) bool {
		return input.SubmissionID == submissionID && input.Role == domain.RoleEditor
	})).Return(nil, domain.ErrInvalidTransition)

	body, _ := json.Marshal(map[string]string{"decision": "accept"})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/submissions/"+submissionID.String()+"/decision", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: submissionID.String()}}
	setAuthContext(c, editorID, string(domain.RoleEditor))

	h.Decide(c)

	assert.Equal(t, http.StatusConflict, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_TRANSITION", resp.Error.Code)
}

func TestSubmissionAssign_ForwardsCallerContext(t *testing.T) {
	h, _, assignSvc := newSubmissionHandler()

	editorID := uuid.New()
	submissionID := uuid.New()
	reviewerID := uuid.New()

	updated := &domain.Submission{ID: submissionID, Status: domain.StatusUnderReview}
	assignSvc.On("Assign", mock.Anything, mock.MatchedBy(func(input *service.AssignInput) bool {
		return input.SubmissionID == submissionID &&
			input.CallerID == editorID &&
			input.CallerRole == domain.RoleEditor &&
			input.AssignmentRole == domain.AssignReviewer &&
			len(input.UserIDs) == 1 && input.UserIDs[0] == reviewerID
	})).Return(updated, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"role":     "reviewer",
		"user_ids": []string{reviewerID.String()},
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/submissions/"+submissionID.String()+"/assign", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: submissionID.String()}}
	setAuthContext(c, editorID, string(domain.RoleEditor))

	h.Assign(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assignSvc.AssertExpectations(t)
}

func TestSubmissionList_DefaultsPagination(t *testing.T) {
	h, subSvc, _ := newSubmissionHandler()

	userID := uuid.New()
	subs := []domain.Submission{{ID: uuid.New(), Status: domain.StatusPublished}}

	subSvc.On("List", mock.Anything, userID, domain.RoleReader, 0, 20).
		Return(subs, 1, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/submissions", http.NoBody)
	setAuthContext(c, userID, string(domain.RoleReader))

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 1, resp.Meta.Total)
	assert.Equal(t, 20, resp.Meta.Limit)
}

func TestSubmissionPublish_RoleGateSurfaces(t *testing.T) {
	h, subSvc, _ := newSubmissionHandler()

	adminID := uuid.New()
	submissionID := uuid.New()

	subSvc.On("Publish", mock.Anything, submissionID, adminID, domain.RoleAdmin).
		Return(nil, domain.ErrUnauthorized)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodPost, "/api/v1/submissions/"+submissionID.String()+"/publish", http.NoBody)
	c.Params = gin.Params{{Key: "id", Value: submissionID.String()}}
	setAuthContext(c, adminID, string(domain.RoleAdmin))

	h.Publish(c)

	assert.Equal(t, http.StatusForbidden, w.Code)

	var resp handler.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "UNAUTHORIZED", resp.Error.Code)
}
