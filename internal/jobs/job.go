// Package jobs tracks validation runs submitted through the API: their
// lifecycle state, live progress, and the finished result.
package jobs

import (
	"time"

	"github.com/sungwon/mailvet/internal/verify"
)

// State is the lifecycle state of a validation job.
type State string

const (
	StateQueued    State = "queued"
	StateRunning   State = "running"
	StateCompleted State = "completed"
)

// Job is one validation run. Completed and Total drive the progress
// fraction; Result is set only once the job reaches StateCompleted.
type Job struct {
	ID        string              `json:"id"`
	State     State               `json:"state"`
	Total     int                 `json:"total"`
	Completed int                 `json:"completed"`
	CreatedAt time.Time           `json:"created_at"`
	Result    *verify.BatchResult `json:"result,omitempty"`
}

// Progress returns the completion fraction in [0, 1]. It is computed
// from the integer counters, so a finished job reports exactly 1.0.
// Jobs with no addresses report 1.0 once completed and 0 before.
func (j *Job) Progress() float64 {
	if j.Total == 0 {
		if j.State == StateCompleted {
			return 1.0
		}
		return 0
	}
	return float64(j.Completed) / float64(j.Total)
}
