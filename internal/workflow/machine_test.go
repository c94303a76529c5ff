package workflow_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"peerflow/internal/domain"
	"peerflow/internal/workflow"
)

func TestMachine_ValidTransitions(t *testing.T) {
	m := workflow.New()

	cases := []struct {
		from  domain.SubmissionStatus
		event workflow.Event
		to    domain.SubmissionStatus
	}{
		{domain.StatusDraft, workflow.EventSubmit, domain.StatusSubmitted},
		{domain.StatusSubmitted, workflow.EventDeskAccept, domain.StatusAccepted},
		{domain.StatusSubmitted, workflow.EventDeskReject, domain.StatusRejected},
		{domain.StatusSubmitted, workflow.EventSendToReview, domain.StatusUnderReview},
		{domain.StatusUnderReview, workflow.EventAccept, domain.StatusAccepted},
		{domain.StatusUnderReview, workflow.EventReject, domain.StatusRejected},
		{domain.StatusUnderReview, workflow.EventRequestRevision, domain.StatusRevisionRequired},
		{domain.StatusRevisionRequired, workflow.EventResubmit, domain.StatusUnderReview},
		{domain.StatusAccepted, workflow.EventPublish, domain.StatusPublished},
	}

	for _, tc := range cases {
		to, err := m.Next(tc.from, tc.event)
		assert.NoError(t, err, "%s + %s", tc.from, tc.event)
		assert.Equal(t, tc.to, to)
	}
}

func TestMachine_NoStatusJumps(t *testing.T) {
	m := workflow.New()

	// A draft can never jump straight into review or publication.
	_, err := m.Next(domain.StatusDraft, workflow.EventSendToReview)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	_, err = m.Next(domain.StatusDraft, workflow.EventPublish)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Desk decisions only fire from submitted.
	_, err = m.Next(domain.StatusUnderReview, workflow.EventDeskAccept)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	// Resubmit only fires from revision_required.
	_, err = m.Next(domain.StatusUnderReview, workflow.EventResubmit)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestMachine_TerminalStatuses(t *testing.T) {
	m := workflow.New()

	events := []workflow.Event{
		workflow.EventSubmit, workflow.EventDeskAccept, workflow.EventDeskReject,
		workflow.EventSendToReview, workflow.EventAccept, workflow.EventReject,
		workflow.EventRequestRevision, workflow.EventResubmit, workflow.EventPublish,
	}
	for _, status := range []domain.SubmissionStatus{
		domain.StatusRejected, domain.StatusPublished, domain.StatusWithdrawn,
	} {
		for _, ev := range events {
			_, err := m.Next(status, ev)
			assert.ErrorIs(t, err, domain.ErrInvalidTransition, "%s + %s", status, ev)
		}
	}
}

func TestMachine_Capabilities(t *testing.T) {
	m := workflow.New()

	assert.True(t, m.Permitted(domain.RoleAuthor, workflow.EventSubmit))
	assert.True(t, m.Permitted(domain.RoleAuthor, workflow.EventResubmit))
	assert.False(t, m.Permitted(domain.RoleAuthor, workflow.EventDeskAccept))
	assert.False(t, m.Permitted(domain.RoleAuthor, workflow.EventPublish))

	assert.True(t, m.Permitted(domain.RoleEditor, workflow.EventSendToReview))
	assert.True(t, m.Permitted(domain.RoleEditor, workflow.EventPublish))
	assert.True(t, m.Permitted(domain.RoleAdmin, workflow.EventDeskReject))
	assert.False(t, m.Permitted(domain.RoleAdmin, workflow.EventPublish))

	assert.True(t, m.Permitted(domain.RolePublisher, workflow.EventPublish))
	assert.False(t, m.Permitted(domain.RolePublisher, workflow.EventAccept))

	assert.False(t, m.Permitted(domain.RoleReviewer, workflow.EventSubmit))
	assert.False(t, m.Permitted(domain.RoleReader, workflow.EventSubmit))
	assert.False(t, m.Permitted(domain.RoleCopyEditor, workflow.EventPublish))
}

func TestMachine_Apply_UnauthorizedBeforeInvalid(t *testing.T) {
	m := workflow.New()

	// Reader may not submit, even where the transition itself would exist.
	_, err := m.Apply(domain.RoleReader, domain.StatusDraft, workflow.EventSubmit)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Editor may accept, but not from draft.
	_, err = m.Apply(domain.RoleEditor, domain.StatusDraft, workflow.EventAccept)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	to, err := m.Apply(domain.RoleEditor, domain.StatusSubmitted, workflow.EventSendToReview)
	assert.NoError(t, err)
	assert.Equal(t, domain.StatusUnderReview, to)
}

func TestDecisionEvent(t *testing.T) {
	ev, err := workflow.DecisionEvent(domain.StatusSubmitted, domain.DecisionAccept)
	assert.NoError(t, err)
	assert.Equal(t, workflow.EventDeskAccept, ev)

	ev, err = workflow.DecisionEvent(domain.StatusUnderReview, domain.DecisionRevision)
	assert.NoError(t, err)
	assert.Equal(t, workflow.EventRequestRevision, ev)

	// Desk revision is not a thing: a submission must be in review first.
	_, err = workflow.DecisionEvent(domain.StatusSubmitted, domain.DecisionRevision)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = workflow.DecisionEvent(domain.StatusDraft, domain.DecisionAccept)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestNextManuscriptVersion(t *testing.T) {
	assert.Equal(t, domain.VersionReviewing, domain.NextManuscriptVersion(domain.VersionInitial))
	assert.Equal(t, domain.VersionCopyEditing, domain.NextManuscriptVersion(domain.VersionReviewing))
	assert.Equal(t, domain.VersionFinal, domain.NextManuscriptVersion(domain.VersionCopyEditing))
	assert.Equal(t, domain.VersionFinal, domain.NextManuscriptVersion(domain.VersionFinal))
}
