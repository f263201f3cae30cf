package verify

import (
	"context"
	"errors"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sungwon/mailvet/internal/metrics"
)

// Resolver defaults. The retry knobs are explicit configuration so
// tests can run with zero delay.
const (
	DefaultDNSMaxAttempts  = 3
	DefaultDNSRetryDelay   = 1 * time.Second
	DefaultDNSQueryTimeout = 5 * time.Second
)

// MXLookuper resolves the MX record set for a domain. *net.Resolver
// satisfies it; tests inject fakes.
type MXLookuper interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// ResolverOptions holds the retry policy for MX resolution.
type ResolverOptions struct {
	// MaxAttempts bounds the total number of lookup attempts made for
	// one domain when queries time out. Zero means the default of 3.
	MaxAttempts int
	// RetryDelay is the pause between attempts. The pause blocks only
	// the worker running the invocation.
	RetryDelay time.Duration
	// QueryTimeout is the per-attempt deadline. The standard resolver
	// has no fixed query timeout of its own, so each attempt runs
	// under this context deadline and its expiry counts as a timeout
	// for the retry policy.
	QueryTimeout time.Duration
}

// Resolver finds the preferred mail exchange for a domain, retrying
// lookups that time out. All other failures are terminal on the first
// occurrence.
type Resolver struct {
	lookup       MXLookuper
	maxAttempts  int
	retryDelay   time.Duration
	queryTimeout time.Duration
	log          zerolog.Logger
}

// NewResolver creates a Resolver. A nil lookup uses net.DefaultResolver.
func NewResolver(lookup MXLookuper, opts ResolverOptions, log zerolog.Logger) *Resolver {
	if lookup == nil {
		lookup = net.DefaultResolver
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultDNSMaxAttempts
	}
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = DefaultDNSQueryTimeout
	}
	return &Resolver{
		lookup:       lookup,
		maxAttempts:  opts.MaxAttempts,
		retryDelay:   opts.RetryDelay,
		queryTimeout: opts.QueryTimeout,
		log:          log,
	}
}

// ResolveMX resolves the mail exchange for domain.
//
// On success it returns the lowest-preference exchange host (ties
// broken by resolver order, trailing root-label dot stripped), a
// provisional Valid disposition naming that host, and proceed=true.
// The provisional disposition becomes the final one if probing is
// skipped downstream.
//
// On failure it returns a terminal disposition and proceed=false. Only
// timeouts are retried; NXDOMAIN and other resolver errors are
// terminal immediately. The returned disposition's Email field is left
// for the caller to fill.
func (r *Resolver) ResolveMX(ctx context.Context, domain string) (host string, disp Disposition, proceed bool) {
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		records, err := r.lookupWithTimeout(ctx, domain)
		if err != nil {
			if isNotFound(err) {
				metrics.DNSLookupsTotal.WithLabelValues("nxdomain").Inc()
				return "", Disposition{
					Status:  StatusInvalid,
					Message: "Domain does not exist.",
				}, false
			}
			if isTimeout(err) {
				metrics.DNSLookupsTotal.WithLabelValues("timeout").Inc()
				r.log.Debug().
					Str("domain", domain).
					Int("attempt", attempt).
					Int("max_attempts", r.maxAttempts).
					Msg("MX lookup timed out")
				if attempt < r.maxAttempts {
					metrics.DNSRetriesTotal.Inc()
					if waitErr := r.pause(ctx); waitErr != nil {
						return "", Disposition{
							Status:  StatusInvalid,
							Message: "DNS error: " + waitErr.Error(),
						}, false
					}
				}
				continue
			}
			metrics.DNSLookupsTotal.WithLabelValues("error").Inc()
			return "", Disposition{
				Status:  StatusInvalid,
				Message: "DNS error: " + err.Error(),
			}, false
		}

		if len(records) == 0 {
			metrics.DNSLookupsTotal.WithLabelValues("empty").Inc()
			return "", Disposition{
				Status:  StatusInvalid,
				Message: "No MX records found for domain.",
			}, false
		}

		metrics.DNSLookupsTotal.WithLabelValues("success").Inc()
		host = preferredExchange(records)
		return host, Disposition{
			Status:  StatusValid,
			Message: "MX records found, prioritized at " + host,
		}, true
	}

	return "", Disposition{
		Status:  StatusInvalid,
		Message: "DNS query failed after multiple retries.",
	}, false
}

// lookupWithTimeout runs one lookup attempt under the per-query deadline.
func (r *Resolver) lookupWithTimeout(ctx context.Context, domain string) ([]*net.MX, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()
	return r.lookup.LookupMX(attemptCtx, domain)
}

// pause sleeps for the retry delay, aborting early if the context is done.
func (r *Resolver) pause(ctx context.Context) error {
	if r.retryDelay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(r.retryDelay):
		return nil
	}
}

// preferredExchange sorts records by preference ascending and returns
// the first host with any trailing root-label dot stripped. The sort
// is stable so ties keep resolver order.
func preferredExchange(records []*net.MX) string {
	sorted := make([]*net.MX, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pref < sorted[j].Pref
	})
	return strings.TrimSuffix(sorted[0].Host, ".")
}

// isNotFound reports whether err is a definitive negative DNS answer.
func isNotFound(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) && dnsErr.IsNotFound
}

// isTimeout reports whether err is a transient timeout eligible for retry.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
