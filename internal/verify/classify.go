package verify

import (
	"net/mail"
	"strings"
)

// Classify runs the local checks for one address: syntax, blacklist,
// then disposable-provider. It performs no network access.
//
// When a check fails, done is true and terminal holds the final
// disposition. Otherwise done is false and domain holds the validated,
// lowercased domain for the resolution stage.
//
// The blacklist is checked before the disposable set: the blacklist is
// operator-supplied and takes precedence when a domain appears in both.
func Classify(address string, blacklist, disposable DomainSet) (domain string, terminal Disposition, done bool) {
	parsed, err := mail.ParseAddress(address)
	if err != nil {
		return "", Disposition{
			Email:   address,
			Status:  StatusInvalid,
			Message: "Invalid syntax: " + err.Error(),
		}, true
	}

	domain = domainFromAddress(parsed.Address)
	if !isValidDomain(domain) {
		return "", Disposition{
			Email:   address,
			Status:  StatusInvalid,
			Message: "Invalid syntax: malformed domain part",
		}, true
	}

	if blacklist.Contains(domain) {
		return "", Disposition{
			Email:   address,
			Status:  StatusBlacklisted,
			Message: "Domain is blacklisted.",
		}, true
	}

	if disposable.Contains(domain) {
		return "", Disposition{
			Email:   address,
			Status:  StatusDisposable,
			Message: "Domain is a disposable email provider.",
		}, true
	}

	return strings.ToLower(domain), Disposition{}, false
}

// domainFromAddress returns the substring after the last @, or an
// empty string if the address has no @.
func domainFromAddress(address string) string {
	i := strings.LastIndex(address, "@")
	if i < 0 || i == len(address)-1 {
		return ""
	}
	return address[i+1:]
}

// isValidDomain performs basic domain format validation: non-empty,
// no leading or trailing dot, and at least one dot separator.
func isValidDomain(domain string) bool {
	if domain == "" {
		return false
	}
	if strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return false
	}
	return strings.Contains(domain, ".")
}
