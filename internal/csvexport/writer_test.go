package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peerflow/internal/domain"
)

func TestWriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	row, err := r.Read()
	require.NoError(t, err)

	assert.Len(t, row, 14)
	assert.Equal(t, "Title", row[0])
	assert.Equal(t, "Published At", row[13])
}

func TestWriteSubmissions(t *testing.T) {
	decided := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	published := time.Date(2026, 4, 2, 12, 0, 0, 0, time.UTC)
	sub := domain.Submission{
		ID:                uuid.New(),
		Title:             "Adaptive Cache Invalidation",
		Category:          "systems",
		Status:            domain.StatusPublished,
		ManuscriptVersion: domain.VersionFinal,
		PeerReviewType:    domain.PeerReviewDoubleBlind,
		Authors:           []string{"A. Author", "B. Author"},
		Keywords:          []string{"caching", "consistency"},
		Reviewers:         []uuid.UUID{uuid.New(), uuid.New()},
		Reviews: []domain.Review{
			{Completed: true},
			{Completed: false},
		},
		Decision: &domain.Decision{
			Status: domain.DecisionAccept,
			Date:   decided,
		},
		SubmittedDate:   time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC),
		UpdatedDate:     published,
		PublicationDate: &published,
	}

	var buf bytes.Buffer
	w := NewWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteSubmissions([]domain.Submission{sub}))
	w.Flush()
	require.NoError(t, w.Error())

	r := csv.NewReader(&buf)
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)

	row := rows[1]
	assert.Equal(t, "Adaptive Cache Invalidation", row[0])
	assert.Equal(t, "published", row[2])
	assert.Equal(t, "A. Author; B. Author", row[5])
	assert.Equal(t, "2", row[7])
	assert.Equal(t, "1", row[8])
	assert.Equal(t, "accept", row[9])
	assert.Equal(t, decided.Format(time.RFC3339), row[10])
	assert.Equal(t, published.Format(time.RFC3339), row[13])
}

func TestSubmissionRow_DraftHasEmptyDecisionColumns(t *testing.T) {
	sub := domain.Submission{
		Title:             "Work in Progress",
		Status:            domain.StatusDraft,
		ManuscriptVersion: domain.VersionInitial,
		SubmittedDate:     time.Now(),
		UpdatedDate:       time.Now(),
	}

	row := SubmissionRow(&sub)
	assert.Equal(t, "", row[9])
	assert.Equal(t, "", row[10])
	assert.Equal(t, "", row[13])
}
