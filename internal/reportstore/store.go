// Package reportstore persists finished validation reports (the CSV
// export of a batch run) so they can be downloaded after the run.
package reportstore

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
)

// ErrNotFound is returned when a requested report does not exist.
var ErrNotFound = errors.New("reportstore: report not found")

// ReportStore defines the interface for report storage backends.
// Reports are keyed by validation job ID and hold finished CSV bytes.
type ReportStore interface {
	Put(ctx context.Context, jobID string, csv []byte) error
	Get(ctx context.Context, jobID string) ([]byte, error)
	Delete(ctx context.Context, jobID string) error
}

// Config holds configuration for creating a ReportStore.
type Config struct {
	Type       string // "local" or "s3"
	Path       string // base directory for local store
	S3Bucket   string
	S3Prefix   string
	S3Endpoint string
	S3Region   string
}

// New creates a ReportStore based on the provided configuration.
// If Type is empty or unsupported, it defaults to local storage and
// logs a warning.
func New(cfg Config, logger zerolog.Logger) (ReportStore, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStore(cfg.Path)
	case "s3":
		return NewS3StoreFromConfig(cfg)
	default:
		logger.Warn().
			Str("type", cfg.Type).
			Msg("unsupported or empty report store type, defaulting to local")
		return NewLocalStore(cfg.Path)
	}
}
