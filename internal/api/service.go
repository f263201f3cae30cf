package api

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sungwon/mailvet/internal/config"
	"github.com/sungwon/mailvet/internal/jobs"
	"github.com/sungwon/mailvet/internal/reportstore"
	"github.com/sungwon/mailvet/internal/verify"
)

// persistInterval is how often a running job's progress is flushed to
// the job store.
const persistInterval = 500 * time.Millisecond

// ValidationRequest is the body of POST /api/v1/validations. Sender and
// Workers override the server defaults for this run only.
type ValidationRequest struct {
	Addresses []string `json:"addresses"`
	Blacklist []string `json:"blacklist,omitempty"`
	Sender    string   `json:"sender,omitempty"`
	Workers   int      `json:"workers,omitempty"`
}

// Service runs validation jobs in the background and exposes their
// state and reports to the handlers.
type Service struct {
	cfg     config.VerifyConfig
	store   jobs.Store
	reports reportstore.ReportStore
	log     zerolog.Logger
}

// NewService creates a Service.
func NewService(cfg config.VerifyConfig, store jobs.Store, reports reportstore.ReportStore, log zerolog.Logger) *Service {
	return &Service{
		cfg:     cfg,
		store:   store,
		reports: reports,
		log:     log,
	}
}

// StartValidation registers a job for the request and starts the run
// in the background. The returned job is in StateQueued; callers poll
// GetJob for progress.
func (s *Service) StartValidation(ctx context.Context, req ValidationRequest) (*jobs.Job, error) {
	total := 0
	for _, a := range req.Addresses {
		if strings.TrimSpace(a) != "" {
			total++
		}
	}

	job := &jobs.Job{
		ID:        uuid.New().String(),
		State:     jobs.StateQueued,
		Total:     total,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Create(ctx, job); err != nil {
		return nil, fmt.Errorf("create job: %w", err)
	}

	go s.run(*job, req)
	return job, nil
}

// GetJob returns the current state of a job.
func (s *Service) GetJob(ctx context.Context, id string) (*jobs.Job, error) {
	return s.store.Get(ctx, id)
}

// GetReport returns the finished CSV report for a job.
func (s *Service) GetReport(ctx context.Context, id string) ([]byte, error) {
	return s.reports.Get(ctx, id)
}

// run executes one validation job to completion. It owns its own
// context: a client disconnecting after submission does not cancel the
// run.
func (s *Service) run(job jobs.Job, req ValidationRequest) {
	ctx := context.Background()
	log := s.log.With().Str("job_id", job.ID).Logger()

	persist := func(state jobs.State, completed int, result *verify.BatchResult) {
		snapshot := job
		snapshot.State = state
		snapshot.Completed = completed
		snapshot.Result = result
		if err := s.store.Update(ctx, &snapshot); err != nil {
			log.Error().Err(err).Msg("failed to persist job state")
		}
	}

	sender := req.Sender
	if sender == "" {
		sender = s.cfg.Sender
	}
	workers := req.Workers
	if workers < 1 {
		workers = s.cfg.Workers
	}

	resolver := verify.NewResolver(nil, verify.ResolverOptions{
		MaxAttempts:  s.cfg.DNSMaxAttempts,
		RetryDelay:   s.cfg.DNSRetryDelay,
		QueryTimeout: s.cfg.DNSQueryTimeout,
	}, log)
	prober := verify.NewProber(verify.ProberOptions{
		Sender:      sender,
		HelloDomain: s.cfg.HelloDomain,
		Port:        s.cfg.SMTPPort,
		Timeout:     s.cfg.SMTPTimeout,
	}, log)
	pipeline := verify.NewPipeline(
		verify.NewDomainSet(req.Blacklist...),
		verify.DefaultDisposableDomains(),
		resolver,
		prober,
		log,
	)
	runner := verify.NewRunner(pipeline, workers, log)

	persist(jobs.StateRunning, 0, nil)
	log.Info().Int("addresses", job.Total).Int("workers", workers).Msg("validation job started")

	// Progress callbacks only bump the counter; a ticker goroutine
	// flushes it so job store writes never block the worker pool.
	var completed atomic.Int64
	done := make(chan struct{})
	var flusher sync.WaitGroup
	flusher.Add(1)
	go func() {
		defer flusher.Done()
		ticker := time.NewTicker(persistInterval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				persist(jobs.StateRunning, int(completed.Load()), nil)
			}
		}
	}()

	result := runner.Run(ctx, req.Addresses, func(c, total int) {
		completed.Store(int64(c))
	})
	close(done)
	// Wait out any in-flight flush so a stale running snapshot cannot
	// land after the completed one.
	flusher.Wait()

	// Store the report before marking the job completed so a client
	// that sees the completed state can always fetch the report.
	var buf bytes.Buffer
	if err := result.WriteCSV(&buf); err != nil {
		log.Error().Err(err).Msg("failed to render report")
	} else if err := s.reports.Put(ctx, job.ID, buf.Bytes()); err != nil {
		log.Error().Err(err).Msg("failed to store report")
	}

	persist(jobs.StateCompleted, result.Total, result)
	log.Info().Int("addresses", result.Total).Msg("validation job completed")
}
