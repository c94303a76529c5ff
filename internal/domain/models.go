package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an authenticated journal user.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Affiliation  string    `db:"affiliation" json:"affiliation"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Decision is the editor's most recent ruling on a submission.
// It is overwritten, not appended, on each new decision.
type Decision struct {
	Status   EditorDecision `json:"status"`
	Comments string         `json:"comments"`
	Date     time.Time      `json:"date"`
}

// ResubmissionDetails records the latest revise-and-resubmit cycle.
// PreviousVersion always holds the document reference that was active
// immediately before the resubmission replaced it.
type ResubmissionDetails struct {
	ResponseToReviewers string    `json:"response_to_reviewers"`
	ChangesSummary      string    `json:"changes_summary"`
	ResubmissionDate    time.Time `json:"resubmission_date"`
	PreviousVersion     string    `json:"previous_version"`
}

// Criteria holds a review's named numeric ratings on a 0-5 scale,
// where 0 means "not yet rated". The "overall" key is mandatory;
// extension keys beyond the standard set are allowed.
type Criteria map[string]int

// Standard criteria keys.
const (
	CriterionMethodology = "methodology"
	CriterionRelevance   = "relevance"
	CriterionClarity     = "clarity"
	CriterionOriginality = "originality"
	CriterionOverall     = "overall"
)

// StandardCriteria lists the criteria keys every review carries.
var StandardCriteria = []string{
	CriterionMethodology,
	CriterionRelevance,
	CriterionClarity,
	CriterionOriginality,
	CriterionOverall,
}

// Review is one reviewer's evaluation of one submission. At most one review
// exists per (submission, reviewer) pair.
type Review struct {
	ID              uuid.UUID       `json:"id"`
	SubmissionID    uuid.UUID       `json:"submission_id"`
	ReviewerID      uuid.UUID       `json:"reviewer_id"`
	Completed       bool            `json:"completed"`
	Decision        *ReviewDecision `json:"decision,omitempty"`
	Comments        string          `json:"comments"`
	PrivateComments string          `json:"private_comments,omitempty"`
	Criteria        Criteria        `json:"criteria"`
	DueDate         time.Time       `json:"due_date"`
	SubmittedDate   *time.Time      `json:"submitted_date,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

// IsOverdue reports whether the review is uncompleted and past its due date.
func (r *Review) IsOverdue(now time.Time) bool {
	return !r.Completed && r.DueDate.Before(now)
}

// IsDueSoon reports whether the review is uncompleted and due within the window.
func (r *Review) IsDueSoon(now time.Time, window time.Duration) bool {
	return !r.Completed && r.DueDate.Before(now.Add(window)) && !r.DueDate.Before(now)
}

// Submission is the root manuscript entity. Assignment sets and reviews are
// loaded with the submission and persisted together under a single row lock.
type Submission struct {
	ID                  uuid.UUID            `json:"id"`
	Title               string               `json:"title"`
	Abstract            string               `json:"abstract"`
	Authors             []string             `json:"authors"`
	Keywords            []string             `json:"keywords"`
	Category            string               `json:"category"`
	Document            string               `json:"document"`
	CoverLetter         string               `json:"cover_letter,omitempty"`
	Status              SubmissionStatus     `json:"status"`
	ManuscriptVersion   ManuscriptVersion    `json:"manuscript_version"`
	PeerReviewType      PeerReviewType       `json:"peer_review_type"`
	CorrespondingAuthor uuid.UUID            `json:"corresponding_author"`
	EditorID            *uuid.UUID           `json:"editor_id,omitempty"`
	Reviewers           []uuid.UUID          `json:"reviewers,omitempty"`
	CopyEditors         []uuid.UUID          `json:"copyeditors,omitempty"`
	Publishers          []uuid.UUID          `json:"publishers,omitempty"`
	Reviews             []Review             `json:"reviews,omitempty"`
	Decision            *Decision            `json:"decision,omitempty"`
	ResubmissionDetails *ResubmissionDetails `json:"resubmission_details,omitempty"`
	SubmittedDate       time.Time            `json:"submitted_date"`
	UpdatedDate         time.Time            `json:"updated_date"`
	PublicationDate     *time.Time           `json:"publication_date,omitempty"`
}

// HasReviewer reports whether userID is in the submission's reviewer set.
func (s *Submission) HasReviewer(userID uuid.UUID) bool {
	for _, id := range s.Reviewers {
		if id == userID {
			return true
		}
	}
	return false
}

// ReviewBy returns the review authored by reviewerID, or nil.
func (s *Submission) ReviewBy(reviewerID uuid.UUID) *Review {
	for i := range s.Reviews {
		if s.Reviews[i].ReviewerID == reviewerID {
			return &s.Reviews[i]
		}
	}
	return nil
}

// AssignedSet returns the assignment set for the given role.
func (s *Submission) AssignedSet(role AssignmentRole) []uuid.UUID {
	switch role {
	case AssignCopyEditor:
		return s.CopyEditors
	case AssignPublisher:
		return s.Publishers
	default:
		return s.Reviewers
	}
}

// SubmissionEvent is one append-only audit trail entry for a submission.
// The trail preserves decision and resubmission history that the
// latest-only Decision/ResubmissionDetails fields overwrite.
type SubmissionEvent struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	SubmissionID uuid.UUID  `db:"submission_id" json:"submission_id"`
	ActorID      *uuid.UUID `db:"actor_id" json:"actor_id,omitempty"`
	Type         EventType  `db:"type" json:"type"`
	Detail       string     `db:"detail" json:"detail"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}
