package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"peerflow/internal/domain"
	"peerflow/internal/port"
)

type submissionRepo struct {
	db *sqlx.DB
}

// NewSubmissionRepo creates a new PostgreSQL-backed SubmissionRepository.
func NewSubmissionRepo(db *sqlx.DB) port.SubmissionRepository {
	return &submissionRepo{db: db}
}

// submissionRow is the flat database shape of a submission. Nested content
// (author list, keywords, decision, resubmission details) lives in JSONB.
type submissionRow struct {
	ID                  uuid.UUID                `db:"id"`
	Title               string                   `db:"title"`
	Abstract            string                   `db:"abstract"`
	Authors             json.RawMessage          `db:"authors"`
	Keywords            json.RawMessage          `db:"keywords"`
	Category            string                   `db:"category"`
	Document            string                   `db:"document"`
	CoverLetter         string                   `db:"cover_letter"`
	Status              domain.SubmissionStatus  `db:"status"`
	ManuscriptVersion   domain.ManuscriptVersion `db:"manuscript_version"`
	PeerReviewType      domain.PeerReviewType    `db:"peer_review_type"`
	CorrespondingAuthor uuid.UUID                `db:"corresponding_author"`
	EditorID            *uuid.UUID               `db:"editor_id"`
	Decision            json.RawMessage          `db:"decision"`
	ResubmissionDetails json.RawMessage          `db:"resubmission_details"`
	SubmittedDate       time.Time                `db:"submitted_date"`
	UpdatedDate         time.Time                `db:"updated_date"`
	PublicationDate     *time.Time               `db:"publication_date"`
}

type reviewRow struct {
	ID              uuid.UUID              `db:"id"`
	SubmissionID    uuid.UUID              `db:"submission_id"`
	ReviewerID      uuid.UUID              `db:"reviewer_id"`
	Completed       bool                   `db:"completed"`
	Decision        *domain.ReviewDecision `db:"decision"`
	Comments        string                 `db:"comments"`
	PrivateComments string                 `db:"private_comments"`
	Criteria        json.RawMessage        `db:"criteria"`
	DueDate         time.Time              `db:"due_date"`
	SubmittedDate   *time.Time             `db:"submitted_date"`
	LastRemindedAt  *time.Time             `db:"last_reminded_at"`
	CreatedAt       time.Time              `db:"created_at"`
}

type assignmentRow struct {
	SubmissionID uuid.UUID             `db:"submission_id"`
	UserID       uuid.UUID             `db:"user_id"`
	Role         domain.AssignmentRole `db:"role"`
	CreatedAt    time.Time             `db:"created_at"`
}

func (row *submissionRow) toDomain() (*domain.Submission, error) {
	s := &domain.Submission{
		ID:                  row.ID,
		Title:               row.Title,
		Abstract:            row.Abstract,
		Category:            row.Category,
		Document:            row.Document,
		CoverLetter:         row.CoverLetter,
		Status:              row.Status,
		ManuscriptVersion:   row.ManuscriptVersion,
		PeerReviewType:      row.PeerReviewType,
		CorrespondingAuthor: row.CorrespondingAuthor,
		EditorID:            row.EditorID,
		SubmittedDate:       row.SubmittedDate,
		UpdatedDate:         row.UpdatedDate,
		PublicationDate:     row.PublicationDate,
	}
	if len(row.Authors) > 0 {
		if err := json.Unmarshal(row.Authors, &s.Authors); err != nil {
			return nil, fmt.Errorf("decoding authors: %w", err)
		}
	}
	if len(row.Keywords) > 0 {
		if err := json.Unmarshal(row.Keywords, &s.Keywords); err != nil {
			return nil, fmt.Errorf("decoding keywords: %w", err)
		}
	}
	if len(row.Decision) > 0 {
		s.Decision = &domain.Decision{}
		if err := json.Unmarshal(row.Decision, s.Decision); err != nil {
			return nil, fmt.Errorf("decoding decision: %w", err)
		}
	}
	if len(row.ResubmissionDetails) > 0 {
		s.ResubmissionDetails = &domain.ResubmissionDetails{}
		if err := json.Unmarshal(row.ResubmissionDetails, s.ResubmissionDetails); err != nil {
			return nil, fmt.Errorf("decoding resubmission details: %w", err)
		}
	}
	return s, nil
}

func fromDomain(s *domain.Submission) (*submissionRow, error) {
	row := &submissionRow{
		ID:                  s.ID,
		Title:               s.Title,
		Abstract:            s.Abstract,
		Category:            s.Category,
		Document:            s.Document,
		CoverLetter:         s.CoverLetter,
		Status:              s.Status,
		ManuscriptVersion:   s.ManuscriptVersion,
		PeerReviewType:      s.PeerReviewType,
		CorrespondingAuthor: s.CorrespondingAuthor,
		EditorID:            s.EditorID,
		SubmittedDate:       s.SubmittedDate,
		UpdatedDate:         s.UpdatedDate,
		PublicationDate:     s.PublicationDate,
	}
	var err error
	if row.Authors, err = json.Marshal(s.Authors); err != nil {
		return nil, fmt.Errorf("encoding authors: %w", err)
	}
	if row.Keywords, err = json.Marshal(s.Keywords); err != nil {
		return nil, fmt.Errorf("encoding keywords: %w", err)
	}
	if s.Decision != nil {
		if row.Decision, err = json.Marshal(s.Decision); err != nil {
			return nil, fmt.Errorf("encoding decision: %w", err)
		}
	}
	if s.ResubmissionDetails != nil {
		if row.ResubmissionDetails, err = json.Marshal(s.ResubmissionDetails); err != nil {
			return nil, fmt.Errorf("encoding resubmission details: %w", err)
		}
	}
	return row, nil
}

func (row *reviewRow) toDomain() (domain.Review, error) {
	rv := domain.Review{
		ID:              row.ID,
		SubmissionID:    row.SubmissionID,
		ReviewerID:      row.ReviewerID,
		Completed:       row.Completed,
		Decision:        row.Decision,
		Comments:        row.Comments,
		PrivateComments: row.PrivateComments,
		DueDate:         row.DueDate,
		SubmittedDate:   row.SubmittedDate,
		CreatedAt:       row.CreatedAt,
	}
	if len(row.Criteria) > 0 {
		if err := json.Unmarshal(row.Criteria, &rv.Criteria); err != nil {
			return domain.Review{}, fmt.Errorf("decoding criteria: %w", err)
		}
	}
	return rv, nil
}

func (r *submissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	now := time.Now().UTC()
	s.SubmittedDate = now
	s.UpdatedDate = now

	row, err := fromDomain(s)
	if err != nil {
		return fmt.Errorf("submissionRepo.Create: %w", err)
	}

	query := `INSERT INTO submissions
		(id, title, abstract, authors, keywords, category, document, cover_letter,
		 status, manuscript_version, peer_review_type, corresponding_author, editor_id,
		 decision, resubmission_details, submitted_date, updated_date, publication_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)`

	_, err = r.db.ExecContext(ctx, query,
		row.ID, row.Title, row.Abstract, row.Authors, row.Keywords, row.Category,
		row.Document, row.CoverLetter, row.Status, row.ManuscriptVersion,
		row.PeerReviewType, row.CorrespondingAuthor, row.EditorID,
		row.Decision, row.ResubmissionDetails,
		row.SubmittedDate, row.UpdatedDate, row.PublicationDate)
	if err != nil {
		return fmt.Errorf("submissionRepo.Create: %w", err)
	}
	return nil
}

func (r *submissionRepo) GetByID(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	var row submissionRow
	err := r.db.GetContext(ctx, &row, "SELECT * FROM submissions WHERE id = $1", submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("submissionRepo.GetByID: %w", err)
	}
	s, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("submissionRepo.GetByID: %w", err)
	}
	if err := r.attachSets(ctx, r.db, []*domain.Submission{s}); err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateWithLock serializes mutations per submission id: the row is locked
// with SELECT ... FOR UPDATE, so a concurrent call blocks until this one
// commits and then sees its result as the authoritative state.
func (r *submissionRepo) UpdateWithLock(ctx context.Context, submissionID uuid.UUID, mutate func(s *domain.Submission) error) (*domain.Submission, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("submissionRepo.UpdateWithLock begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var row submissionRow
	err = tx.GetContext(ctx, &row, "SELECT * FROM submissions WHERE id = $1 FOR UPDATE", submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("submissionRepo.UpdateWithLock select: %w", err)
	}

	s, err := row.toDomain()
	if err != nil {
		return nil, fmt.Errorf("submissionRepo.UpdateWithLock: %w", err)
	}
	if err := r.attachSets(ctx, tx, []*domain.Submission{s}); err != nil {
		return nil, err
	}

	if err := mutate(s); err != nil {
		return nil, err
	}
	s.UpdatedDate = time.Now().UTC()

	if err := r.persistAggregate(ctx, tx, s); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("submissionRepo.UpdateWithLock commit: %w", err)
	}
	return s, nil
}

func (r *submissionRepo) persistAggregate(ctx context.Context, tx *sqlx.Tx, s *domain.Submission) error {
	row, err := fromDomain(s)
	if err != nil {
		return fmt.Errorf("submissionRepo.persistAggregate: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE submissions SET title=$1, abstract=$2, authors=$3, keywords=$4, category=$5,
			document=$6, cover_letter=$7, status=$8, manuscript_version=$9, editor_id=$10,
			decision=$11, resubmission_details=$12, submitted_date=$13, updated_date=$14,
			publication_date=$15
		 WHERE id=$16`,
		row.Title, row.Abstract, row.Authors, row.Keywords, row.Category,
		row.Document, row.CoverLetter, row.Status, row.ManuscriptVersion, row.EditorID,
		row.Decision, row.ResubmissionDetails, row.SubmittedDate, row.UpdatedDate,
		row.PublicationDate, row.ID)
	if err != nil {
		return fmt.Errorf("submissionRepo.persistAggregate submission: %w", err)
	}

	for role, set := range map[domain.AssignmentRole][]uuid.UUID{
		domain.AssignReviewer:   s.Reviewers,
		domain.AssignCopyEditor: s.CopyEditors,
		domain.AssignPublisher:  s.Publishers,
	} {
		if err := r.replaceAssignments(ctx, tx, s.ID, role, set); err != nil {
			return err
		}
	}

	return r.reconcileReviews(ctx, tx, s)
}

func (r *submissionRepo) replaceAssignments(ctx context.Context, tx *sqlx.Tx, submissionID uuid.UUID, role domain.AssignmentRole, userIDs []uuid.UUID) error {
	if len(userIDs) == 0 {
		_, err := tx.ExecContext(ctx,
			"DELETE FROM submission_assignments WHERE submission_id = $1 AND role = $2",
			submissionID, role)
		if err != nil {
			return fmt.Errorf("submissionRepo.replaceAssignments delete: %w", err)
		}
		return nil
	}

	query, args, err := sqlx.In(
		"DELETE FROM submission_assignments WHERE submission_id = ? AND role = ? AND user_id NOT IN (?)",
		submissionID, role, userIDs)
	if err != nil {
		return fmt.Errorf("submissionRepo.replaceAssignments: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("submissionRepo.replaceAssignments delete: %w", err)
	}

	for _, userID := range userIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO submission_assignments (submission_id, user_id, role, created_at)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (submission_id, user_id, role) DO NOTHING`,
			submissionID, userID, role, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("submissionRepo.replaceAssignments insert: %w", err)
		}
	}
	return nil
}

func (r *submissionRepo) reconcileReviews(ctx context.Context, tx *sqlx.Tx, s *domain.Submission) error {
	keep := make([]uuid.UUID, 0, len(s.Reviews))
	for i := range s.Reviews {
		rv := &s.Reviews[i]
		keep = append(keep, rv.ID)

		criteria, err := json.Marshal(rv.Criteria)
		if err != nil {
			return fmt.Errorf("submissionRepo.reconcileReviews encode criteria: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO reviews
				(id, submission_id, reviewer_id, completed, decision, comments, private_comments,
				 criteria, due_date, submitted_date, created_at)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			 ON CONFLICT (id) DO UPDATE SET
				completed = EXCLUDED.completed,
				decision = EXCLUDED.decision,
				comments = EXCLUDED.comments,
				private_comments = EXCLUDED.private_comments,
				criteria = EXCLUDED.criteria,
				due_date = EXCLUDED.due_date,
				submitted_date = EXCLUDED.submitted_date`,
			rv.ID, rv.SubmissionID, rv.ReviewerID, rv.Completed, rv.Decision,
			rv.Comments, rv.PrivateComments, criteria, rv.DueDate, rv.SubmittedDate, rv.CreatedAt)
		if err != nil {
			return fmt.Errorf("submissionRepo.reconcileReviews upsert: %w", err)
		}
	}

	if len(keep) == 0 {
		_, err := tx.ExecContext(ctx, "DELETE FROM reviews WHERE submission_id = $1", s.ID)
		if err != nil {
			return fmt.Errorf("submissionRepo.reconcileReviews delete: %w", err)
		}
		return nil
	}

	query, args, err := sqlx.In("DELETE FROM reviews WHERE submission_id = ? AND id NOT IN (?)", s.ID, keep)
	if err != nil {
		return fmt.Errorf("submissionRepo.reconcileReviews: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
		return fmt.Errorf("submissionRepo.reconcileReviews delete: %w", err)
	}
	return nil
}

// UpdateContent patches content fields only. The expectedUpdatedAt
// precondition rejects writes racing against a newer server state.
func (r *submissionRepo) UpdateContent(ctx context.Context, s *domain.Submission, expectedUpdatedAt time.Time) error {
	row, err := fromDomain(s)
	if err != nil {
		return fmt.Errorf("submissionRepo.UpdateContent: %w", err)
	}
	s.UpdatedDate = time.Now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE submissions SET title=$1, abstract=$2, authors=$3, keywords=$4, category=$5,
			document=$6, cover_letter=$7, updated_date=$8
		 WHERE id=$9 AND updated_date=$10`,
		row.Title, row.Abstract, row.Authors, row.Keywords, row.Category,
		row.Document, row.CoverLetter, s.UpdatedDate, row.ID, expectedUpdatedAt)
	if err != nil {
		return fmt.Errorf("submissionRepo.UpdateContent: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		var exists bool
		if err := r.db.GetContext(ctx, &exists,
			"SELECT EXISTS (SELECT 1 FROM submissions WHERE id = $1)", s.ID); err != nil {
			return fmt.Errorf("submissionRepo.UpdateContent: %w", err)
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

func (r *submissionRepo) ListAll(ctx context.Context, offset, limit int) ([]domain.Submission, int, error) {
	return r.list(ctx, "", nil, offset, limit)
}

func (r *submissionRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]domain.Submission, int, error) {
	return r.list(ctx, "WHERE corresponding_author = $1", []interface{}{authorID}, offset, limit)
}

func (r *submissionRepo) ListByStatus(ctx context.Context, status domain.SubmissionStatus, offset, limit int) ([]domain.Submission, int, error) {
	return r.list(ctx, "WHERE status = $1", []interface{}{status}, offset, limit)
}

func (r *submissionRepo) ListByAssignee(ctx context.Context, userID uuid.UUID, role domain.AssignmentRole, offset, limit int) ([]domain.Submission, int, error) {
	where := `WHERE id IN (SELECT submission_id FROM submission_assignments WHERE user_id = $1 AND role = $2)`
	return r.list(ctx, where, []interface{}{userID, role}, offset, limit)
}

func (r *submissionRepo) list(ctx context.Context, where string, args []interface{}, offset, limit int) ([]domain.Submission, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM submissions "+where, args...); err != nil {
		return nil, 0, fmt.Errorf("submissionRepo.list count: %w", err)
	}

	query := fmt.Sprintf("SELECT * FROM submissions %s ORDER BY updated_date DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var rows []submissionRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, fmt.Errorf("submissionRepo.list: %w", err)
	}

	subs := make([]domain.Submission, 0, len(rows))
	ptrs := make([]*domain.Submission, 0, len(rows))
	for i := range rows {
		s, err := rows[i].toDomain()
		if err != nil {
			return nil, 0, fmt.Errorf("submissionRepo.list: %w", err)
		}
		subs = append(subs, *s)
		ptrs = append(ptrs, &subs[len(subs)-1])
	}
	if err := r.attachSets(ctx, r.db, ptrs); err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// attachSets loads assignment sets and reviews for the given submissions
// in two batched queries.
func (r *submissionRepo) attachSets(ctx context.Context, q sqlx.QueryerContext, subs []*domain.Submission) error {
	if len(subs) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*domain.Submission, len(subs))
	ids := make([]uuid.UUID, 0, len(subs))
	for _, s := range subs {
		byID[s.ID] = s
		ids = append(ids, s.ID)
	}

	query, args, err := sqlx.In(
		"SELECT * FROM submission_assignments WHERE submission_id IN (?) ORDER BY created_at", ids)
	if err != nil {
		return fmt.Errorf("submissionRepo.attachSets: %w", err)
	}
	var assignments []assignmentRow
	if err := sqlx.SelectContext(ctx, q, &assignments, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return fmt.Errorf("submissionRepo.attachSets assignments: %w", err)
	}
	for _, a := range assignments {
		s := byID[a.SubmissionID]
		switch a.Role {
		case domain.AssignCopyEditor:
			s.CopyEditors = append(s.CopyEditors, a.UserID)
		case domain.AssignPublisher:
			s.Publishers = append(s.Publishers, a.UserID)
		default:
			s.Reviewers = append(s.Reviewers, a.UserID)
		}
	}

	query, args, err = sqlx.In(
		"SELECT * FROM reviews WHERE submission_id IN (?) ORDER BY created_at", ids)
	if err != nil {
		return fmt.Errorf("submissionRepo.attachSets: %w", err)
	}
	var reviews []reviewRow
	if err := sqlx.SelectContext(ctx, q, &reviews, sqlx.Rebind(sqlx.DOLLAR, query), args...); err != nil {
		return fmt.Errorf("submissionRepo.attachSets reviews: %w", err)
	}
	for i := range reviews {
		rv, err := reviews[i].toDomain()
		if err != nil {
			return fmt.Errorf("submissionRepo.attachSets: %w", err)
		}
		s := byID[rv.SubmissionID]
		s.Reviews = append(s.Reviews, rv)
	}
	return nil
}

func (r *submissionRepo) Delete(ctx context.Context, submissionID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM submissions WHERE id = $1", submissionID)
	if err != nil {
		return fmt.Errorf("submissionRepo.Delete: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *submissionRepo) ListPendingReviews(ctx context.Context, reviewerID uuid.UUID) ([]domain.Review, error) {
	var rows []reviewRow
	err := r.db.SelectContext(ctx, &rows,
		"SELECT * FROM reviews WHERE reviewer_id = $1 AND completed = false ORDER BY due_date",
		reviewerID)
	if err != nil {
		return nil, fmt.Errorf("submissionRepo.ListPendingReviews: %w", err)
	}
	reviews := make([]domain.Review, 0, len(rows))
	for i := range rows {
		rv, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("submissionRepo.ListPendingReviews: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, nil
}

func (r *submissionRepo) ListOverdueReviews(ctx context.Context, asOf time.Time, limit int) ([]domain.Review, error) {
	// A reviewer is reminded at most once per day per review.
	var rows []reviewRow
	err := r.db.SelectContext(ctx, &rows,
		`SELECT * FROM reviews
		 WHERE completed = false AND due_date < $1
		   AND (last_reminded_at IS NULL OR last_reminded_at < $1 - INTERVAL '24 hours')
		 ORDER BY due_date LIMIT $2`,
		asOf, limit)
	if err != nil {
		return nil, fmt.Errorf("submissionRepo.ListOverdueReviews: %w", err)
	}
	reviews := make([]domain.Review, 0, len(rows))
	for i := range rows {
		rv, err := rows[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("submissionRepo.ListOverdueReviews: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, nil
}

func (r *submissionRepo) MarkReviewReminded(ctx context.Context, reviewID uuid.UUID, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		"UPDATE reviews SET last_reminded_at = $1 WHERE id = $2", at, reviewID)
	if err != nil {
		return fmt.Errorf("submissionRepo.MarkReviewReminded: %w", err)
	}
	return nil
}
