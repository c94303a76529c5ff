package cache

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"peerflow/internal/domain"
	"peerflow/internal/port"
)

// CachedSubmissionRepo wraps a SubmissionRepository with a read-through
// cache on GetByID. Every mutation invalidates the entry, so the database
// stays the single source of truth and a stale read window is bounded by
// the cache TTL. Cache failures degrade to the underlying repository.
type CachedSubmissionRepo struct {
	repo  port.SubmissionRepository
	cache port.SubmissionCache
}

// NewCachedSubmissionRepo decorates repo with the given cache.
func NewCachedSubmissionRepo(repo port.SubmissionRepository, cache port.SubmissionCache) *CachedSubmissionRepo {
	return &CachedSubmissionRepo{repo: repo, cache: cache}
}

var _ port.SubmissionRepository = (*CachedSubmissionRepo)(nil)

func (r *CachedSubmissionRepo) GetByID(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	if s, err := r.cache.Get(ctx, submissionID); err == nil {
		return s, nil
	}
	s, err := r.repo.GetByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, s); err != nil {
		log.Printf("cachedSubmissionRepo.GetByID: cache set failed: %v", err)
	}
	return s, nil
}

func (r *CachedSubmissionRepo) Create(ctx context.Context, s *domain.Submission) error {
	return r.repo.Create(ctx, s)
}

func (r *CachedSubmissionRepo) UpdateWithLock(ctx context.Context, submissionID uuid.UUID, mutate func(s *domain.Submission) error) (*domain.Submission, error) {
	s, err := r.repo.UpdateWithLock(ctx, submissionID, mutate)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, submissionID)
	return s, nil
}

func (r *CachedSubmissionRepo) UpdateContent(ctx context.Context, s *domain.Submission, expectedUpdatedAt time.Time) error {
	if err := r.repo.UpdateContent(ctx, s, expectedUpdatedAt); err != nil {
		return err
	}
	r.invalidate(ctx, s.ID)
	return nil
}

func (r *CachedSubmissionRepo) Delete(ctx context.Context, submissionID uuid.UUID) error {
	if err := r.repo.Delete(ctx, submissionID); err != nil {
		return err
	}
	r.invalidate(ctx, submissionID)
	return nil
}

func (r *CachedSubmissionRepo) invalidate(ctx context.Context, submissionID uuid.UUID) {
	if err := r.cache.Invalidate(ctx, submissionID); err != nil {
		log.Printf("cachedSubmissionRepo: invalidate failed for %s: %v", submissionID, err)
	}
}

func (r *CachedSubmissionRepo) ListAll(ctx context.Context, offset, limit int) ([]domain.Submission, int, error) {
	return r.repo.ListAll(ctx, offset, limit)
}

func (r *CachedSubmissionRepo) ListByAuthor(ctx context.Context, authorID uuid.UUID, offset, limit int) ([]domain.Submission, int, error) {
	return r.repo.ListByAuthor(ctx, authorID, offset, limit)
}

func (r *CachedSubmissionRepo) ListByAssignee(ctx context.Context, userID uuid.UUID, role domain.AssignmentRole, offset, limit int) ([]domain.Submission, int, error) {
	return r.repo.ListByAssignee(ctx, userID, role, offset, limit)
}

func (r *CachedSubmissionRepo) ListByStatus(ctx context.Context, status domain.SubmissionStatus, offset, limit int) ([]domain.Submission, int, error) {
	return r.repo.ListByStatus(ctx, status, offset, limit)
}

func (r *CachedSubmissionRepo) ListPendingReviews(ctx context.Context, reviewerID uuid.UUID) ([]domain.Review, error) {
	return r.repo.ListPendingReviews(ctx, reviewerID)
}

func (r *CachedSubmissionRepo) ListOverdueReviews(ctx context.Context, asOf time.Time, limit int) ([]domain.Review, error) {
	return r.repo.ListOverdueReviews(ctx, asOf, limit)
}

func (r *CachedSubmissionRepo) MarkReviewReminded(ctx context.Context, reviewID uuid.UUID, at time.Time) error {
	return r.repo.MarkReviewReminded(ctx, reviewID, at)
}
