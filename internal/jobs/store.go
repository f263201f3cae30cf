package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a requested job does not exist.
var ErrNotFound = errors.New("jobs: job not found")

// Store defines the interface for job registries. Update replaces the
// stored job wholesale; callers own read-modify-write sequencing.
type Store interface {
	Create(ctx context.Context, job *Job) error
	Get(ctx context.Context, id string) (*Job, error)
	Update(ctx context.Context, job *Job) error
}

// Config holds configuration for creating a Store.
type Config struct {
	Backend   string // "memory" or "redis"
	RedisAddr string
	RedisDB   int
	TTL       time.Duration
}

// New creates a Store based on the provided configuration. If Backend
// is empty or unsupported, it defaults to the in-memory store and logs
// a warning.
func New(cfg Config, logger zerolog.Logger) (Store, error) {
	switch cfg.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr: cfg.RedisAddr,
			DB:   cfg.RedisDB,
		})
		return NewRedisStore(client, cfg.TTL), nil
	default:
		logger.Warn().
			Str("backend", cfg.Backend).
			Msg("unsupported or empty jobs backend, defaulting to memory")
		return NewMemoryStore(), nil
	}
}
