package mailscout

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// FindValidEmails discovers deliverable addresses at a domain. With names it
// probes generated name-pattern candidates; without names it brute-forces the
// common role prefixes. The returned list preserves candidate-generation
// priority order regardless of probe completion order, and is empty whenever
// nothing could be verified — an unreachable domain is not an error.
func (s *Scout) FindValidEmails(ctx context.Context, domain string, names NamesInput) []string {
	normalized, err := normalizeDomain(domain)
	if err != nil {
		s.logger.Debug("skipping invalid domain", "domain", domain)
		return nil
	}
	domain = normalized

	candidates := s.buildCandidates(names)
	if len(candidates) == 0 {
		return nil
	}

	hosts := s.mxHosts(ctx, domain)
	if len(hosts) == 0 {
		s.logger.Debug("domain unreachable, no mail hosts", "domain", domain)
		return nil
	}

	if s.config.CheckCatchall && s.CheckEmailCatchall(ctx, domain) {
		return s.catchallFallback(domain, candidates)
	}

	return s.verifyCandidates(ctx, domain, hosts, candidates)
}

// buildCandidates turns the names input into the ordered probe list. Names
// that normalize to zero usable tokens fall back to the role-prefix list,
// gated by CheckPrefixes.
func (s *Scout) buildCandidates(names NamesInput) []Candidate {
	var people [][]string
	if names != nil {
		people = names.people()
		if s.config.Normalize {
			people = normalizePeople(people)
		}
	}

	for _, tokens := range people {
		if len(tokens) > 0 {
			return generateCandidates(people, s.config.CheckVariants)
		}
	}

	if s.config.CheckPrefixes {
		return prefixCandidates()
	}
	return nil
}

// catchallFallback applies the configured policy for a catch-all domain,
// where individual accepted verdicts prove nothing.
func (s *Scout) catchallFallback(domain string, candidates []Candidate) []string {
	switch s.config.CatchAllPolicy {
	case CatchAllReturnAll:
		out := make([]string, 0, len(candidates))
		for _, c := range candidates {
			out = append(out, c.Local+"@"+domain)
		}
		return out
	case CatchAllReturnPrimary:
		var out []string
		for _, c := range candidates {
			if c.primary {
				out = append(out, c.Local+"@"+domain)
			}
		}
		return out
	default:
		return nil
	}
}

// verifyCandidates probes every candidate under the bounded worker pool and
// collects explicit acceptances in generation order.
func (s *Scout) verifyCandidates(ctx context.Context, domain string, hosts []MXHost, candidates []Candidate) []string {
	accepted := make([]atomic.Bool, len(candidates))

	numPeople := 0
	for _, c := range candidates {
		if c.person >= numPeople {
			numPeople = c.person + 1
		}
	}
	personFound := make([]atomic.Bool, numPeople)

	var g errgroup.Group
	g.SetLimit(s.config.NumThreads)

	for i, c := range candidates {
		i, c := i, c
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if s.config.StopOnFirstHit && c.person >= 0 && personFound[c.person].Load() {
				return nil
			}

			res := s.probe(ctx, c.Local+"@"+domain, hosts)
			if res.Outcome == OutcomeAccepted {
				accepted[i].Store(true)
				if c.person >= 0 {
					personFound[c.person].Store(true)
				}
			}
			return nil
		})
	}
	g.Wait()

	var out []string
	for i, c := range candidates {
		if accepted[i].Load() {
			out = append(out, c.Local+"@"+domain)
		}
	}
	return out
}
