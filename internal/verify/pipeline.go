package verify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// mxResolver is the resolution stage as seen by the pipeline.
type mxResolver interface {
	ResolveMX(ctx context.Context, domain string) (host string, disp Disposition, proceed bool)
}

// rcptProber is the probing stage as seen by the pipeline.
type rcptProber interface {
	Probe(address, mxHost string) Disposition
}

// Pipeline validates one address end to end: classifier, then MX
// resolution, then (when a usable exchange host was found) the SMTP
// probe. Earlier stages are cheaper and gate the expensive probe, so
// an address that fails locally never incurs a network round-trip.
type Pipeline struct {
	blacklist  DomainSet
	disposable DomainSet
	resolver   mxResolver
	prober     rcptProber
	log        zerolog.Logger
}

// NewPipeline creates a Pipeline. Both domain sets are treated as
// read-only for the pipeline's lifetime.
func NewPipeline(blacklist, disposable DomainSet, resolver mxResolver, prober rcptProber, log zerolog.Logger) *Pipeline {
	return &Pipeline{
		blacklist:  blacklist,
		disposable: disposable,
		resolver:   resolver,
		prober:     prober,
		log:        log,
	}
}

// Validate produces exactly one disposition for address. Errors never
// escape: every failure mode, including a panic in a stage, resolves
// to an Invalid disposition for this address only.
func (p *Pipeline) Validate(ctx context.Context, address string) (disp Disposition) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().
				Interface("panic", r).
				Str("email", address).
				Msg("validation panicked")
			disp = Disposition{
				Email:   address,
				Status:  StatusInvalid,
				Message: fmt.Sprintf("Validation error: %v", r),
			}
		}
	}()

	domain, terminal, done := Classify(address, p.blacklist, p.disposable)
	if done {
		return terminal
	}

	host, outcome, proceed := p.resolver.ResolveMX(ctx, domain)
	outcome.Email = address
	if !proceed {
		return outcome
	}
	if host == "" {
		// Resolution nominally succeeded but yielded no usable
		// exchange name (root-label-only records normalize to an
		// empty string). Skip probing and report the provisional
		// DNS outcome as final.
		p.log.Debug().Str("email", address).Msg("no usable MX host, skipping SMTP probe")
		return outcome
	}

	return p.prober.Probe(address, host)
}
