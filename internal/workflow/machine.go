// Package workflow implements the manuscript lifecycle state machine:
// a total transition table over (status, event) pairs plus a capability
// table mapping each user role to the events it may trigger. Ownership
// checks (corresponding author, assigned reviewer) are the caller's
// responsibility; the machine answers only "may this role fire this
// event" and "what does this event do from this status".
package workflow

import (
	"peerflow/internal/domain"
)

// Event is a workflow event that moves a submission between statuses.
type Event string

const (
	EventSubmit          Event = "submit"
	EventDeskAccept      Event = "desk_accept"
	EventDeskReject      Event = "desk_reject"
	EventSendToReview    Event = "send_to_review"
	EventAccept          Event = "accept"
	EventReject          Event = "reject"
	EventRequestRevision Event = "request_revision"
	EventResubmit        Event = "resubmit"
	EventPublish         Event = "publish"
)

// Machine validates and resolves submission status transitions.
type Machine struct {
	transitions  map[domain.SubmissionStatus]map[Event]domain.SubmissionStatus
	capabilities map[domain.UserRole]map[Event]bool
}

// New creates the journal's workflow machine. Unlisted (status, event)
// pairs are invalid and unlisted (role, event) pairs are unauthorized;
// nothing is ever silently ignored.
func New() *Machine {
	return &Machine{
		transitions: map[domain.SubmissionStatus]map[Event]domain.SubmissionStatus{
			domain.StatusDraft: {
				EventSubmit: domain.StatusSubmitted,
			},
			domain.StatusSubmitted: {
				EventDeskAccept:   domain.StatusAccepted,
				EventDeskReject:   domain.StatusRejected,
				EventSendToReview: domain.StatusUnderReview,
			},
			domain.StatusUnderReview: {
				EventAccept:          domain.StatusAccepted,
				EventReject:          domain.StatusRejected,
				EventRequestRevision: domain.StatusRevisionRequired,
			},
			domain.StatusRevisionRequired: {
				EventResubmit: domain.StatusUnderReview,
			},
			domain.StatusAccepted: {
				EventPublish: domain.StatusPublished,
			},
			// rejected, published, and withdrawn are terminal.
			domain.StatusRejected:  {},
			domain.StatusPublished: {},
			domain.StatusWithdrawn: {},
		},
		capabilities: map[domain.UserRole]map[Event]bool{
			domain.RoleAuthor: {
				EventSubmit:   true,
				EventResubmit: true,
			},
			domain.RoleEditor: {
				EventDeskAccept:      true,
				EventDeskReject:      true,
				EventSendToReview:    true,
				EventAccept:          true,
				EventReject:          true,
				EventRequestRevision: true,
				EventPublish:         true,
			},
			domain.RoleAdmin: {
				EventDeskAccept:      true,
				EventDeskReject:      true,
				EventSendToReview:    true,
				EventAccept:          true,
				EventReject:          true,
				EventRequestRevision: true,
			},
			domain.RolePublisher: {
				EventPublish: true,
			},
		},
	}
}

// Permitted reports whether the role may trigger the event at all.
func (m *Machine) Permitted(role domain.UserRole, event Event) bool {
	return m.capabilities[role][event]
}

// Next returns the status the event leads to from the given status.
// Returns ErrInvalidTransition when no transition row matches.
func (m *Machine) Next(from domain.SubmissionStatus, event Event) (domain.SubmissionStatus, error) {
	to, ok := m.transitions[from][event]
	if !ok {
		return "", domain.ErrInvalidTransition
	}
	return to, nil
}

// Apply checks the role capability and resolves the transition in one step.
// A capability failure is reported before a transition failure so callers
// surface "unauthorized" rather than leaking state information.
func (m *Machine) Apply(role domain.UserRole, from domain.SubmissionStatus, event Event) (domain.SubmissionStatus, error) {
	if !m.Permitted(role, event) {
		return "", domain.ErrUnauthorized
	}
	return m.Next(from, event)
}

// DecisionEvent maps an editor decision onto the workflow event it fires
// from the given status. Desk decisions fire only from submitted;
// post-review decisions fire only from under_review, and only the latter
// may request a revision.
func DecisionEvent(status domain.SubmissionStatus, decision domain.EditorDecision) (Event, error) {
	switch status {
	case domain.StatusSubmitted:
		switch decision {
		case domain.DecisionAccept:
			return EventDeskAccept, nil
		case domain.DecisionReject:
			return EventDeskReject, nil
		}
	case domain.StatusUnderReview:
		switch decision {
		case domain.DecisionAccept:
			return EventAccept, nil
		case domain.DecisionReject:
			return EventReject, nil
		case domain.DecisionRevision:
			return EventRequestRevision, nil
		}
	}
	return "", domain.ErrInvalidTransition
}
