package handler

import (
	"time"

	"github.com/google/uuid"

	"peerflow/internal/domain"
)

// Swagger type definitions for API documentation.
// These types are used by swag to generate OpenAPI documentation.

// --- Request Types ---

// LoginRequest represents the login request body.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"editor@journal.org"`
	Password string `json:"password" binding:"required" example:"securepassword123"`
}

// RefreshRequest represents the token refresh request body.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
}

// CreateSubmissionRequest represents the create submission request body.
type CreateSubmissionRequest struct {
	Title          string   `json:"title" binding:"required" example:"Consensus Under Partial Synchrony"`
	Abstract       string   `json:"abstract" binding:"required" example:"We present a new consensus protocol..."`
	Authors        []string `json:"authors" binding:"required" example:"Ada Lovelace,Charles Babbage"`
	Keywords       []string `json:"keywords" example:"consensus,distributed systems"`
	Category       string   `json:"category" binding:"required" example:"distributed-systems"`
	Document       string   `json:"document" binding:"required" example:"manuscripts/550e8400-e29b-41d4-a716-446655440000/paper.pdf"`
	CoverLetter    string   `json:"cover_letter" example:"Dear editors, we submit..."`
	PeerReviewType string   `json:"peer_review_type" example:"double_blind"`
}

// AssignRequest represents the assignment replace-set request body.
type AssignRequest struct {
	Role    string      `json:"role" binding:"required" example:"reviewer"`
	UserIDs []uuid.UUID `json:"user_ids" example:"987fcdeb-51a2-3bc4-d567-890123456789"`
}

// DecisionRequest represents the editorial decision request body.
type DecisionRequest struct {
	Decision string `json:"decision" binding:"required" example:"revision_required"`
	Comments string `json:"comments" example:"Please address reviewer 2's concerns about the proof of lemma 3."`
}

// ResubmitRequest represents the resubmission request body.
type ResubmitRequest struct {
	Document            string `json:"document" binding:"required" example:"manuscripts/660e8400-e29b-41d4-a716-446655440001/paper-v2.pdf"`
	ResponseToReviewers string `json:"response_to_reviewers" binding:"required" example:"We have rewritten section 4 as requested..."`
	ChangesSummary      string `json:"changes_summary" example:"Rewrote section 4, added experiment E3."`
}

// SubmitReviewRequest represents the review submission request body.
type SubmitReviewRequest struct {
	Decision        string         `json:"decision" binding:"required" example:"minor_revision"`
	Comments        string         `json:"comments" binding:"required" example:"The contribution is solid but the evaluation is thin."`
	PrivateComments string         `json:"private_comments" example:"I suspect overlap with the authors' earlier workshop paper."`
	Criteria        map[string]int `json:"criteria" binding:"required" example:"overall:4,novelty:3,clarity:5"`
}

// CreateUserRequest represents the create user request body.
type CreateUserRequest struct {
	Email       string          `json:"email" binding:"required" example:"jane.doe@university.edu"`
	Password    string          `json:"password" binding:"required" example:"securepassword123"`
	FullName    string          `json:"full_name" binding:"required" example:"Jane Doe"`
	Affiliation string          `json:"affiliation" example:"University of Example"`
	Role        domain.UserRole `json:"role" binding:"required" example:"reviewer"`
}

// UpdateUserRequest represents the update user request body.
type UpdateUserRequest struct {
	Email       *string          `json:"email" example:"jane.smith@university.edu"`
	FullName    *string          `json:"full_name" example:"Jane Smith"`
	Affiliation *string          `json:"affiliation" example:"Example Institute of Technology"`
	Role        *domain.UserRole `json:"role" example:"editor"`
	IsActive    *bool            `json:"is_active" example:"true"`
}

// --- Response Types ---

// TokenResponse represents the authentication token response.
type TokenResponse struct {
	AccessToken  string    `json:"access_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	RefreshToken string    `json:"refresh_token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	ExpiresAt    time.Time `json:"expires_at" example:"2026-01-15T10:30:00Z"`
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
	Error  string `json:"error,omitempty" example:"database not reachable"`
}

// MessageResponse represents a simple message response.
type MessageResponse struct {
	Message string `json:"message" example:"submission deleted"`
}

// DownloadURLResponse represents a presigned manuscript download URL.
type DownloadURLResponse struct {
	URL string `json:"url" example:"https://s3.amazonaws.com/peerflow-manuscripts/...?X-Amz-Signature=..."`
}

// RoundResponse represents a review round summary.
type RoundResponse struct {
	Total         int  `json:"total" example:"3"`
	Completed     int  `json:"completed" example:"2"`
	Pending       int  `json:"pending" example:"1"`
	RoundComplete bool `json:"round_complete" example:"false"`
}

// --- Generic Response Wrappers ---

// Response wraps a successful response with data.
type Response struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// ErrorResponseBody wraps an error response.
type ErrorResponseBody struct {
	Success bool      `json:"success" example:"false"`
	Error   *APIError `json:"error"`
}
