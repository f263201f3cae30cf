package verify

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// DomainSet is a set of lowercase domain names. Sets are built once
// per batch run and never mutated afterwards, so they are shared
// across all concurrent pipeline invocations without locking.
type DomainSet map[string]struct{}

// NewDomainSet builds a DomainSet from the given domains. Entries are
// trimmed and lowercased; blank entries are skipped.
func NewDomainSet(domains ...string) DomainSet {
	set := make(DomainSet, len(domains))
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			set[d] = struct{}{}
		}
	}
	return set
}

// Contains reports whether the set holds the given domain. The lookup
// is case-insensitive.
func (s DomainSet) Contains(domain string) bool {
	_, ok := s[strings.ToLower(domain)]
	return ok
}

// ParseDomainList reads a newline-delimited domain list (the blacklist
// upload format: one domain per line, blank lines and #-comments
// ignored) and returns it as a DomainSet.
func ParseDomainList(r io.Reader) (DomainSet, error) {
	set := make(DomainSet)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[strings.ToLower(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read domain list: %w", err)
	}
	return set, nil
}

// DefaultDisposableDomains returns the built-in set of known
// disposable-email providers. Callers may extend or replace it per
// batch run; it is a default, not hidden global state.
func DefaultDisposableDomains() DomainSet {
	return NewDomainSet(
		"tempmail.com",
		"mailinator.com",
		"guerrillamail.com",
		"10minutemail.com",
		"throwawaymail.com",
		"temp-mail.org",
		"discard.email",
		"emailondeck.com",
		"maildrop.cc",
	)
}
