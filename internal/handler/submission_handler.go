package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"peerflow/internal/service"
)

// SubmissionHandler handles manuscript submission endpoints.
type SubmissionHandler struct {
	submissionService service.SubmissionService
	assignmentService service.AssignmentService
}

// NewSubmissionHandler creates a new SubmissionHandler.
func NewSubmissionHandler(submissionService service.SubmissionService, assignmentService service.AssignmentService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService, assignmentService: assignmentService}
}

// Create handles POST /api/v1/submissions
// @Summary Create a submission
// @Description Create a new draft submission owned by the caller
// @Tags submissions
// @Accept json
// @Produce json
// @Param request body service.CreateSubmissionInput true "Submission details"
// @Success 201 {object} APIResponse{data=domain.Submission} "Draft created"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 403 {object} APIResponse "Role cannot create submissions"
// @Security BearerAuth
// @Router /submissions [post]
func (h *SubmissionHandler) Create(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var input service.CreateSubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	input.CallerID = userID
	input.Role = role

	sub, err := h.submissionService.Create(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, sub)
}

// List handles GET /api/v1/submissions
// @Summary List submissions
// @Description List submissions visible to the caller's role
// @Tags submissions
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse{data=[]domain.Submission,meta=PagMeta} "List of submissions"
// @Security BearerAuth
// @Router /submissions [get]
func (h *SubmissionHandler) List(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	offset, limit := parsePagination(c)

	subs, total, err := h.submissionService.List(c.Request.Context(), userID, role, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, subs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/submissions/:id
// @Summary Get submission by ID
// @Description Get submission details scoped to the caller's role
// @Tags submissions
// @Produce json
// @Param id path string true "Submission ID (UUID)"
// @Success 200 {object} APIResponse{data=domain.Submission} "Submission details"
// @Failure 400 {object} APIResponse "Invalid ID"
// @Failure 404 {object} APIResponse "Submission not found"
// @Security BearerAuth
// @Router /submissions/{id} [get]
func (h *SubmissionHandler) GetByID(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission ID")
		return
	}

	sub, err := h.submissionService.GetByID(c.Request.Context(), submissionID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sub)
}

// Update handles PUT /api/v1/submissions/:id
// @Summary Update submission content
// @Description Update draft content; updated_date must echo the last read value
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID (UUID)"
// @Param request body service.UpdateSubmissionInput true "Fields to update"
// @Success 200 {object} APIResponse{data=domain.Submission} "Updated submission"
// @Failure 400 {object} APIResponse "Validation error"
// @Failure 404 {object} APIResponse "Submission not found"
// @Failure 409 {object} APIResponse "Concurrent modification or status disallows edits"
// @Security BearerAuth
// @Router /submissions/{id} [put]
func (h *SubmissionHandler) Update(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission ID")
		return
	}

	var input service.UpdateSubmissionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	input.SubmissionID = submissionID
	input.CallerID = userID
	input.Role = role

	sub, err := h.submissionService.UpdateContent(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sub)
}

// Delete handles DELETE /api/v1/submissions/:id
// @Summary Delete a submission
// @Description Delete a submission and its reviews (admin only)
// @Tags submissions
// @Produce json
// @Param id path string true "Submission ID (UUID)"
// @Success 200 {object} APIResponse "Submission deleted"
// @Failure 403 {object} APIResponse "Forbidden - admin only"
// @Failure 404 {object} APIResponse "Submission not found"
// @Security BearerAuth
// @Router /submissions/{id} [delete]
func (h *SubmissionHandler) Delete(c *gin.Context) {
	_, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission ID")
		return
	}

	if err := h.submissionService.Delete(c.Request.Context(), submissionID, role); err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, gin.H{"message": "submission deleted"})
}

// Submit handles POST /api/v1/submissions/:id/submit
// @Summary Submit a draft
// @Description Move a draft submission into the editorial pipeline
// @Tags submissions
// @Produce json
// @Param id path string true "Submission ID (UUID)"
// @Success 200 {object} APIResponse{data=domain.Submission} "Submitted"
// @Failure 403 {object} APIResponse "Not the corresponding author"
// @Failure 404 {object} APIResponse "Submission not found"
// @Failure 409 {object} APIResponse "Status does not allow submit"
// @Security BearerAuth
// @Router /submissions/{id}/submit [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission ID")
		return
	}

	sub, err := h.submissionService.Submit(c.Request.Context(), submissionID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sub)
}

// Assign handles POST /api/v1/submissions/:id/assign
// @Summary Replace an assignment set
// @Description Replace the full reviewer, copy editor, or publisher set for a submission
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID (UUID)"
// @Param request body service.AssignInput true "Role and complete desired user set"
// @Success 200 {object} APIResponse{data=domain.Submission} "Updated submission"
// @Failure 400 {object} APIResponse "Invalid assignee set or role mismatch"
// @Failure 403 {object} APIResponse "Caller cannot manage assignments"
// @Failure 404 {object} APIResponse "Submission not found"
// @Failure 409 {object} APIResponse "Status does not allow this assignment"
// @Security BearerAuth
// @Router /submissions/{id}/assign [post]
func (h *SubmissionHandler) Assign(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission ID")
		return
	}

	var input service.AssignInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	input.SubmissionID = submissionID
	input.CallerID = userID
	input.CallerRole = role

	sub, err := h.assignmentService.Assign(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sub)
}

// Decide handles POST /api/v1/submissions/:id/decision
// @Summary Record an editorial decision
// @Description Record accept, reject, or revision-required for a submission
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID (UUID)"
// @Param request body service.DecideInput true "Decision and comments"
// @Success 200 {object} APIResponse{data=domain.Submission} "Updated submission"
// @Failure 400 {object} APIResponse "Unknown decision"
// @Failure 403 {object} APIResponse "Caller cannot decide"
// @Failure 404 {object} APIResponse "Submission not found"
// @Failure 409 {object} APIResponse "Status does not allow this decision"
// @Security BearerAuth
// @Router /submissions/{id}/decision [post]
func (h *SubmissionHandler) Decide(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission ID")
		return
	}

	var input service.DecideInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	input.SubmissionID = submissionID
	input.CallerID = userID
	input.Role = role

	sub, err := h.submissionService.Decide(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sub)
}

// Resubmit handles POST /api/v1/submissions/:id/resubmit
// @Summary Resubmit a revised manuscript
// @Description Swap in the revised document and return the submission to review
// @Tags submissions
// @Accept json
// @Produce json
// @Param id path string true "Submission ID (UUID)"
// @Param request body service.ResubmitInput true "Revised document and response to reviewers"
// @Success 200 {object} APIResponse{data=domain.Submission} "Updated submission"
// @Failure 403 {object} APIResponse "Not the corresponding author"
// @Failure 404 {object} APIResponse "Submission not found"
// @Failure 409 {object} APIResponse "Status does not allow resubmission"
// @Security BearerAuth
// @Router /submissions/{id}/resubmit [post]
func (h *SubmissionHandler) Resubmit(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission ID")
		return
	}

	var input service.ResubmitInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	input.SubmissionID = submissionID
	input.CallerID = userID
	input.Role = role

	sub, err := h.submissionService.Resubmit(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sub)
}

// Publish handles POST /api/v1/submissions/:id/publish
// @Summary Publish an accepted submission
// @Description Mark an accepted submission as published
// @Tags submissions
// @Produce json
// @Param id path string true "Submission ID (UUID)"
// @Success 200 {object} APIResponse{data=domain.Submission} "Published submission"
// @Failure 403 {object} APIResponse "Caller cannot publish"
// @Failure 404 {object} APIResponse "Submission not found"
// @Failure 409 {object} APIResponse "Status does not allow publishing"
// @Security BearerAuth
// @Router /submissions/{id}/publish [post]
func (h *SubmissionHandler) Publish(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission ID")
		return
	}

	sub, err := h.submissionService.Publish(c.Request.Context(), submissionID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, sub)
}

// ListEvents handles GET /api/v1/submissions/:id/events
// @Summary List submission events
// @Description List the audit trail for a submission (editorial staff only)
// @Tags submissions
// @Produce json
// @Param id path string true "Submission ID (UUID)"
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} APIResponse{data=[]domain.SubmissionEvent,meta=PagMeta} "Event list"
// @Failure 403 {object} APIResponse "Forbidden"
// @Security BearerAuth
// @Router /submissions/{id}/events [get]
func (h *SubmissionHandler) ListEvents(c *gin.Context) {
	_, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission ID")
		return
	}

	offset, limit := parsePagination(c)

	events, total, err := h.submissionService.ListEvents(c.Request.Context(), submissionID, role, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, events, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// parsePagination extracts offset and limit from query params with defaults.
func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
