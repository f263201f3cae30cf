// Package verify implements the email deliverability validation
// pipeline: local classification, MX resolution, SMTP recipient
// probing, and concurrent batch orchestration.
package verify

// Status is the terminal classification of one validated address.
type Status string

const (
	StatusValid       Status = "Valid"
	StatusInvalid     Status = "Invalid"
	StatusBlacklisted Status = "Blacklisted"
	StatusDisposable  Status = "Disposable"
	StatusGreylisted  Status = "Greylisted"
)

// Statuses lists every status in reporting order.
var Statuses = []Status{
	StatusValid,
	StatusInvalid,
	StatusGreylisted,
	StatusBlacklisted,
	StatusDisposable,
}

// Disposition is the outcome of validating a single address.
// Message is always non-empty and names the reason for the status.
type Disposition struct {
	Email   string `json:"email"`
	Status  Status `json:"status"`
	Message string `json:"message"`
}

// BatchResult collects the dispositions of one batch run. Total is the
// number of non-blank input addresses; Dispositions are in completion
// order, which is unrelated to input order.
type BatchResult struct {
	Total        int           `json:"total"`
	Dispositions []Disposition `json:"dispositions"`
}

// Summary returns the number of dispositions per status. Statuses with
// no dispositions are present with a zero count so reports always show
// the full breakdown.
func (r *BatchResult) Summary() map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, d := range r.Dispositions {
		counts[d.Status]++
	}
	return counts
}
