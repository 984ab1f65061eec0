package contact

import (
	"net/mail"
	"sort"
	"strings"

	"github.com/baxromumarov/intern-scout/internal/observability"
)

// ValidatedEmail is a syntactically valid address that passed the prefix
// policy. DomainMatch is a confidence signal only: a mismatch never
// rejects a candidate, it just ranks it lower.
type ValidatedEmail struct {
	Address     string
	DomainMatch bool
}

// FilterEmails validates candidate syntax and admits only addresses whose
// local part starts, case-insensitively, with one of the allowed prefixes
// (each prefix carries its own separator, e.g. "careers@"). companyDomain
// is optional; when present it marks candidates whose domain contains it.
// The result is deduplicated; order follows Pick's ranking.
func FilterEmails(candidates []string, allowedPrefixes []string, companyDomain string) []ValidatedEmail {
	companyDomain = strings.ToLower(strings.TrimSpace(companyDomain))

	seen := make(map[string]struct{})
	var out []ValidatedEmail
	for _, candidate := range candidates {
		candidate = strings.TrimSpace(candidate)
		if !validSyntax(candidate) {
			continue
		}
		if !prefixAllowed(candidate, allowedPrefixes) {
			continue
		}
		key := strings.ToLower(candidate)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		out = append(out, ValidatedEmail{
			Address:     candidate,
			DomainMatch: companyDomain != "" && strings.Contains(domainPart(candidate), companyDomain),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].DomainMatch != out[j].DomainMatch {
			return out[i].DomainMatch
		}
		return out[i].Address < out[j].Address
	})

	observability.AddEmailsValidated(len(out))
	return out
}

// Pick returns the single best address: domain-affine candidates first,
// then lexicographically smallest. Deterministic for a given input set.
func Pick(emails []ValidatedEmail) (string, bool) {
	if len(emails) == 0 {
		return "", false
	}
	best := emails[0]
	for _, e := range emails[1:] {
		if e.DomainMatch != best.DomainMatch {
			if e.DomainMatch {
				best = e
			}
			continue
		}
		if e.Address < best.Address {
			best = e
		}
	}
	return best.Address, true
}

// validSyntax checks RFC address shape only; no deliverability or DNS.
func validSyntax(candidate string) bool {
	if candidate == "" || strings.ContainsAny(candidate, " <>") {
		return false
	}
	addr, err := mail.ParseAddress(candidate)
	if err != nil {
		return false
	}
	return addr.Address == candidate
}

func prefixAllowed(candidate string, allowedPrefixes []string) bool {
	lower := strings.ToLower(candidate)
	for _, prefix := range allowedPrefixes {
		if prefix != "" && strings.HasPrefix(lower, strings.ToLower(prefix)) {
			return true
		}
	}
	return false
}

func domainPart(candidate string) string {
	i := strings.LastIndex(candidate, "@")
	if i < 0 {
		return ""
	}
	return strings.ToLower(candidate[i+1:])
}
