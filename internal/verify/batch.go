package verify

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sungwon/mailvet/internal/metrics"
)

// DefaultWorkers is the default worker pool size for batch runs.
const DefaultWorkers = 20

// addressValidator validates one address to completion. *Pipeline
// satisfies it; tests inject fakes.
type addressValidator interface {
	Validate(ctx context.Context, address string) Disposition
}

// ProgressFunc receives batch progress after each completed address:
// completed out of total non-blank addresses. Calls are serialized and
// completed is strictly increasing, reaching total exactly once.
type ProgressFunc func(completed, total int)

// Runner fans a batch of addresses out across a bounded worker pool
// and collects dispositions as invocations complete. Each worker runs
// whole pipeline invocations to completion; DNS retry pauses and SMTP
// round-trips block only the worker executing that invocation.
type Runner struct {
	validator addressValidator
	workers   int
	log       zerolog.Logger
}

// NewRunner creates a Runner with the given pool size. Sizes below 1
// fall back to DefaultWorkers.
func NewRunner(validator addressValidator, workers int, log zerolog.Logger) *Runner {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Runner{
		validator: validator,
		workers:   workers,
		log:       log,
	}
}

// Run validates every non-blank address in the batch and returns the
// collected dispositions. Addresses that are empty after trimming are
// discarded before dispatch and do not appear in the result. Dispatch
// follows input order; collection order is completion order.
//
// progress may be nil. When set, it is invoked once per completed
// invocation while the result lock is held, so implementations should
// be quick.
func (r *Runner) Run(ctx context.Context, addresses []string, progress ProgressFunc) *BatchResult {
	filtered := make([]string, 0, len(addresses))
	for _, a := range addresses {
		if trimmed := strings.TrimSpace(a); trimmed != "" {
			filtered = append(filtered, trimmed)
		}
	}

	total := len(filtered)
	result := &BatchResult{
		Total:        total,
		Dispositions: make([]Disposition, 0, total),
	}
	if total == 0 {
		return result
	}

	metrics.BatchesTotal.Inc()
	metrics.BatchSize.Observe(float64(total))

	workers := min(r.workers, total)
	r.log.Debug().
		Int("addresses", total).
		Int("workers", workers).
		Msg("batch run starting")

	jobs := make(chan string)
	var (
		mu        sync.Mutex
		completed int
		wg        sync.WaitGroup
	)

	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for address := range jobs {
				disp := r.validator.Validate(ctx, address)
				metrics.ValidationsTotal.WithLabelValues(string(disp.Status)).Inc()

				mu.Lock()
				result.Dispositions = append(result.Dispositions, disp)
				completed++
				if progress != nil {
					progress(completed, total)
				}
				mu.Unlock()
			}
		}()
	}

	for _, address := range filtered {
		jobs <- address
	}
	close(jobs)
	wg.Wait()

	r.log.Debug().Int("addresses", total).Msg("batch run complete")
	return result
}
