package mailscout

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
)

// randomLocalPart builds a local part that is virtually guaranteed not to
// exist: 26 characters of ULID entropy plus a nonsense suffix.
func randomLocalPart() string {
	return strings.ToLower(ulid.Make().String()) + "falan"
}

// CheckEmailCatchall reports whether the domain accepts mail for any local
// part. It probes a randomized nonexistent address; acceptance means every
// individual accepted verdict for this domain is unreliable.
//
// Definite verdicts (accepted or rejected) are cached for the Scout's
// lifetime. An indeterminate probe returns false and is not cached, so a
// later call can retry.
func (s *Scout) CheckEmailCatchall(ctx context.Context, domain string) bool {
	domain, err := normalizeDomain(domain)
	if err != nil {
		return false
	}

	s.mu.RLock()
	verdict, ok := s.catchallCache[domain]
	s.mu.RUnlock()
	if ok {
		return verdict
	}

	hosts := s.mxHosts(ctx, domain)
	res := s.probe(ctx, randomLocalPart()+"@"+domain, hosts)

	switch res.Outcome {
	case OutcomeAccepted:
		verdict = true
	case OutcomeRejected:
		verdict = false
	default:
		// Unknown: report not-catch-all but leave the cache empty.
		return false
	}

	s.mu.Lock()
	s.catchallCache[domain] = verdict
	s.mu.Unlock()

	s.logger.Debug("catch-all verdict", "domain", domain, "catchall", verdict)
	return verdict
}
