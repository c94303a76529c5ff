package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"peerflow/internal/domain"
	"peerflow/internal/port"
)

// SubmissionCache caches submission aggregates in Redis with a TTL.
type SubmissionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a Redis-backed SubmissionCache.
func New(client *redis.Client, ttl time.Duration) *SubmissionCache {
	return &SubmissionCache{client: client, ttl: ttl}
}

var _ port.SubmissionCache = (*SubmissionCache)(nil)

func key(submissionID uuid.UUID) string {
	return "submission:" + submissionID.String()
}

// Get returns the cached submission, or ErrNotFound on a miss.
func (c *SubmissionCache) Get(ctx context.Context, submissionID uuid.UUID) (*domain.Submission, error) {
	data, err := c.client.Get(ctx, key(submissionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("submissionCache.Get: %w", err)
	}
	var s domain.Submission
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("submissionCache.Get decode: %w", err)
	}
	return &s, nil
}

func (c *SubmissionCache) Set(ctx context.Context, s *domain.Submission) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("submissionCache.Set encode: %w", err)
	}
	if err := c.client.Set(ctx, key(s.ID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("submissionCache.Set: %w", err)
	}
	return nil
}

func (c *SubmissionCache) Invalidate(ctx context.Context, submissionID uuid.UUID) error {
	if err := c.client.Del(ctx, key(submissionID)).Err(); err != nil {
		return fmt.Errorf("submissionCache.Invalidate: %w", err)
	}
	return nil
}
