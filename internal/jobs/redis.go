package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "mailvet:jobs:"

// RedisStore keeps jobs as JSON values in Redis so multiple API
// instances can share a registry. Every write refreshes the TTL, so a
// job expires only after it has been idle for the configured duration.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a RedisStore. A zero ttl keeps jobs forever.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func redisKey(id string) string {
	return redisKeyPrefix + id
}

// Create stores a new job.
func (s *RedisStore) Create(ctx context.Context, job *Job) error {
	return s.set(ctx, job)
}

// Get returns the stored job. Returns ErrNotFound for unknown or
// expired IDs.
func (s *RedisStore) Get(ctx context.Context, id string) (*Job, error) {
	data, err := s.client.Get(ctx, redisKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("jobs: redis get: %w", err)
	}

	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("jobs: decode job: %w", err)
	}
	return &job, nil
}

// Update replaces the stored job.
func (s *RedisStore) Update(ctx context.Context, job *Job) error {
	return s.set(ctx, job)
}

func (s *RedisStore) set(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("jobs: encode job: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(job.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("jobs: redis set: %w", err)
	}
	return nil
}

// Ping checks Redis connectivity for readiness probes.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
