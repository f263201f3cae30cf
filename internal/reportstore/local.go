package reportstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore keeps reports as .csv files on the local filesystem.
type LocalStore struct {
	basePath string
}

// NewLocalStore creates a LocalStore at the given base path, creating
// the directory if it does not exist.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o750); err != nil {
		return nil, fmt.Errorf("reportstore: create base directory: %w", err)
	}
	return &LocalStore{basePath: basePath}, nil
}

func (s *LocalStore) path(jobID string) string {
	return filepath.Join(s.basePath, jobID+".csv")
}

// Put writes the report using an atomic write pattern so a concurrent
// Get never observes a partially written file.
func (s *LocalStore) Put(_ context.Context, jobID string, csv []byte) error {
	tmp, err := os.CreateTemp(s.basePath, ".tmp-"+jobID+"-*")
	if err != nil {
		return fmt.Errorf("reportstore: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(csv); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("reportstore: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("reportstore: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path(jobID)); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("reportstore: rename temp file: %w", err)
	}
	return nil
}

// Get reads a stored report. Returns ErrNotFound if the report does
// not exist.
func (s *LocalStore) Get(_ context.Context, jobID string) ([]byte, error) {
	data, err := os.ReadFile(s.path(jobID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reportstore: read file: %w", err)
	}
	return data, nil
}

// Delete removes a report file. Returns nil if the report does not
// exist (idempotent).
func (s *LocalStore) Delete(_ context.Context, jobID string) error {
	err := os.Remove(s.path(jobID))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reportstore: remove file: %w", err)
	}
	return nil
}
