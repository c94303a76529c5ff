package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"peerflow/internal/service"
)

// ReviewHandler handles peer review endpoints.
type ReviewHandler struct {
	reviewService service.ReviewService
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// SubmitReview handles POST /api/v1/submissions/:id/reviews
// @Summary Submit a review
// @Description Submit the caller's completed review for a submission; reviews are write-once
// @Tags reviews
// @Accept json
// @Produce json
// @Param id path string true "Submission ID (UUID)"
// @Param request body service.SubmitReviewInput true "Review decision, comments, and criteria ratings"
// @Success 200 {object} APIResponse{data=domain.Review} "Completed review"
// @Failure 400 {object} APIResponse "Missing overall rating or rating out of range"
// @Failure 403 {object} APIResponse "Caller is not an assigned reviewer"
// @Failure 404 {object} APIResponse "Submission not found"
// @Failure 409 {object} APIResponse "Review already submitted or submission not under review"
// @Security BearerAuth
// @Router /submissions/{id}/reviews [post]
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission ID")
		return
	}

	var input service.SubmitReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		RespondError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
		return
	}
	input.SubmissionID = submissionID
	input.CallerID = userID
	input.Role = role

	review, err := h.reviewService.SubmitReview(c.Request.Context(), &input)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, review)
}

// ListReviews handles GET /api/v1/submissions/:id/reviews
// @Summary List reviews
// @Description List a submission's reviews, filtered and redacted to the caller's role
// @Tags reviews
// @Produce json
// @Param id path string true "Submission ID (UUID)"
// @Success 200 {object} APIResponse{data=[]domain.Review} "Reviews visible to the caller"
// @Failure 404 {object} APIResponse "Submission not found"
// @Security BearerAuth
// @Router /submissions/{id}/reviews [get]
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission ID")
		return
	}

	reviews, err := h.reviewService.ListReviews(c.Request.Context(), submissionID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, reviews)
}

// RoundStatus handles GET /api/v1/submissions/:id/reviews/round
// @Summary Review round status
// @Description Summarize the current review round: totals, completion, and whether the round is done
// @Tags reviews
// @Produce json
// @Param id path string true "Submission ID (UUID)"
// @Success 200 {object} APIResponse{data=service.ReviewRound} "Round summary"
// @Failure 404 {object} APIResponse "Submission not found"
// @Security BearerAuth
// @Router /submissions/{id}/reviews/round [get]
func (h *ReviewHandler) RoundStatus(c *gin.Context) {
	userID, role, ok := extractAuthContext(c)
	if !ok {
		return
	}

	submissionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid submission ID")
		return
	}

	round, err := h.reviewService.RoundStatus(c.Request.Context(), submissionID, userID, role)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, round)
}

// Queue handles GET /api/v1/reviews/queue
// @Summary Reviewer work queue
// @Description List the caller's pending reviews with due-date flags
// @Tags reviews
// @Produce json
// @Success 200 {object} APIResponse{data=[]service.ReviewQueueItem} "Pending reviews"
// @Security BearerAuth
// @Router /reviews/queue [get]
func (h *ReviewHandler) Queue(c *gin.Context) {
	userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	items, err := h.reviewService.ListQueue(c.Request.Context(), userID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, items)
}
