package csvexport

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"peerflow/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row (14 columns).
var columns = []string{
	"Title",
	"Category",
	"Status",
	"Manuscript Version",
	"Peer Review Type",
	"Authors",
	"Keywords",
	"Reviewer Count",
	"Reviews Completed",
	"Decision",
	"Decision Date",
	"Submitted At",
	"Updated At",
	"Published At",
}

// Writer wraps csv.Writer for exporting the submission pipeline as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteSubmissions converts a batch of submissions to CSV rows and writes them.
func (w *Writer) WriteSubmissions(subs []domain.Submission) error {
	for i := range subs {
		if err := w.csv.Write(SubmissionRow(&subs[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// Columns returns the export header row.
func Columns() []string {
	return columns
}

// SubmissionRow converts a single submission to a row matching Columns.
func SubmissionRow(sub *domain.Submission) []string {
	row := make([]string, len(columns))

	completed := 0
	for _, review := range sub.Reviews {
		if review.Completed {
			completed++
		}
	}

	row[0] = sub.Title
	row[1] = sub.Category
	row[2] = string(sub.Status)
	row[3] = string(sub.ManuscriptVersion)
	row[4] = string(sub.PeerReviewType)
	row[5] = strings.Join(sub.Authors, "; ")
	row[6] = strings.Join(sub.Keywords, "; ")
	row[7] = strconv.Itoa(len(sub.Reviewers))
	row[8] = strconv.Itoa(completed)
	if sub.Decision != nil {
		row[9] = string(sub.Decision.Status)
		row[10] = sub.Decision.Date.Format(time.RFC3339)
	}
	row[11] = sub.SubmittedDate.Format(time.RFC3339)
	row[12] = sub.UpdatedDate.Format(time.RFC3339)
	if sub.PublicationDate != nil {
		row[13] = sub.PublicationDate.Format(time.RFC3339)
	}

	return row
}
