package domain

// UserRole is the single role a user holds across the journal.
type UserRole string

const (
	RoleAdmin      UserRole = "admin"
	RoleEditor     UserRole = "editor"
	RoleReviewer   UserRole = "reviewer"
	RoleAuthor     UserRole = "author"
	RoleReader     UserRole = "reader"
	RoleCopyEditor UserRole = "copyeditor"
	RolePublisher  UserRole = "publisher"
)

// ValidUserRoles lists every role accepted at user creation.
var ValidUserRoles = map[UserRole]bool{
	RoleAdmin:      true,
	RoleEditor:     true,
	RoleReviewer:   true,
	RoleAuthor:     true,
	RoleReader:     true,
	RoleCopyEditor: true,
	RolePublisher:  true,
}

// SubmissionStatus is the lifecycle state of a submission.
type SubmissionStatus string

const (
	StatusDraft            SubmissionStatus = "draft"
	StatusSubmitted        SubmissionStatus = "submitted"
	StatusUnderReview      SubmissionStatus = "under_review"
	StatusRevisionRequired SubmissionStatus = "revision_required"
	StatusAccepted         SubmissionStatus = "accepted"
	StatusRejected         SubmissionStatus = "rejected"
	StatusPublished        SubmissionStatus = "published"
	// StatusWithdrawn is part of the status vocabulary but no workflow
	// event currently produces it.
	StatusWithdrawn SubmissionStatus = "withdrawn"
)

// ManuscriptVersion tracks which production stage the manuscript artifact is in.
type ManuscriptVersion string

const (
	VersionInitial     ManuscriptVersion = "initial"
	VersionReviewing   ManuscriptVersion = "reviewing"
	VersionCopyEditing ManuscriptVersion = "copy_editing"
	VersionFinal       ManuscriptVersion = "final"
)

// manuscriptVersionOrder defines the advancement order of manuscript versions.
var manuscriptVersionOrder = []ManuscriptVersion{
	VersionInitial,
	VersionReviewing,
	VersionCopyEditing,
	VersionFinal,
}

// NextManuscriptVersion returns the version one step after v, capped at final.
func NextManuscriptVersion(v ManuscriptVersion) ManuscriptVersion {
	for i, mv := range manuscriptVersionOrder {
		if mv == v && i+1 < len(manuscriptVersionOrder) {
			return manuscriptVersionOrder[i+1]
		}
	}
	return VersionFinal
}

// PeerReviewType is the anonymity policy fixed at submission creation.
type PeerReviewType string

const (
	PeerReviewOpen        PeerReviewType = "open"
	PeerReviewSingleBlind PeerReviewType = "single_blind"
	PeerReviewDoubleBlind PeerReviewType = "double_blind"
)

// ValidPeerReviewTypes lists the accepted peer review policies.
var ValidPeerReviewTypes = map[PeerReviewType]bool{
	PeerReviewOpen:        true,
	PeerReviewSingleBlind: true,
	PeerReviewDoubleBlind: true,
}

// EditorDecision is the editor's ruling on a submission.
type EditorDecision string

const (
	DecisionAccept   EditorDecision = "accept"
	DecisionReject   EditorDecision = "reject"
	DecisionRevision EditorDecision = "revision"
)

// ValidEditorDecisions lists the accepted editor rulings.
var ValidEditorDecisions = map[EditorDecision]bool{
	DecisionAccept:   true,
	DecisionReject:   true,
	DecisionRevision: true,
}

// ReviewDecision is a reviewer's recommendation on a submission.
type ReviewDecision string

const (
	ReviewAccept         ReviewDecision = "accept"
	ReviewMinorRevisions ReviewDecision = "minor_revisions"
	ReviewMajorRevisions ReviewDecision = "major_revisions"
	ReviewReject         ReviewDecision = "reject"
)

// ValidReviewDecisions lists the accepted reviewer recommendations.
var ValidReviewDecisions = map[ReviewDecision]bool{
	ReviewAccept:         true,
	ReviewMinorRevisions: true,
	ReviewMajorRevisions: true,
	ReviewReject:         true,
}

// AssignmentRole identifies which assignment set a user is placed in.
type AssignmentRole string

const (
	AssignReviewer   AssignmentRole = "reviewer"
	AssignCopyEditor AssignmentRole = "copyeditor"
	AssignPublisher  AssignmentRole = "publisher"
)

// ValidAssignmentRoles lists the assignable submission roles.
var ValidAssignmentRoles = map[AssignmentRole]bool{
	AssignReviewer:   true,
	AssignCopyEditor: true,
	AssignPublisher:  true,
}

// UserRoleFor returns the user role an assignee must hold for this assignment role.
func (a AssignmentRole) UserRoleFor() UserRole {
	switch a {
	case AssignCopyEditor:
		return RoleCopyEditor
	case AssignPublisher:
		return RolePublisher
	default:
		return RoleReviewer
	}
}

// EventType labels entries in the submission audit trail.
type EventType string

const (
	EventCreated          EventType = "created"
	EventSubmitted        EventType = "submitted"
	EventAssigned         EventType = "assigned"
	EventReviewSubmitted  EventType = "review_submitted"
	EventDecisionRecorded EventType = "decision_recorded"
	EventResubmitted      EventType = "resubmitted"
	EventPublished        EventType = "published"
	EventContentUpdated   EventType = "content_updated"
)
