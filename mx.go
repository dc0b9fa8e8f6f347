package mailscout

import (
	"context"
	"slices"
	"strings"

	"golang.org/x/net/idna"

	"github.com/batuhanaky/mailscout/dns"
)

// MXHost is one mail-exchange host for a domain. Pref orders probe attempts:
// lowest preference value first, matching SMTP delivery order.
type MXHost struct {
	Host string
	Pref uint16
}

// normalizeDomain validates a hostname and converts internationalized names
// to their ASCII (punycode) form for DNS and SMTP use.
func normalizeDomain(domain string) (string, error) {
	domain = strings.TrimSuffix(strings.TrimSpace(strings.ToLower(domain)), ".")
	if domain == "" {
		return "", ErrInvalidDomain
	}

	ascii, err := idna.Lookup.ToASCII(domain)
	if err != nil {
		return "", ErrInvalidDomain
	}
	return ascii, nil
}

// mxHosts resolves the domain's mail hosts, cached for the Scout's lifetime.
// Hosts are ordered by MX preference. When the domain has no MX records its
// own A/AAAA record serves as the last-resort mail host. Resolution failure
// yields an empty list, which callers treat as "domain unreachable".
//
// Concurrent resolution of the same uncached domain is tolerated rather than
// serialized; the lookups are idempotent and the last writer wins.
func (s *Scout) mxHosts(ctx context.Context, domain string) []MXHost {
	s.mu.RLock()
	hosts, ok := s.mxCache[domain]
	s.mu.RUnlock()
	if ok {
		return hosts
	}

	hosts = s.resolveMX(ctx, domain)

	s.mu.Lock()
	s.mxCache[domain] = hosts
	s.mu.Unlock()

	return hosts
}

func (s *Scout) resolveMX(ctx context.Context, domain string) []MXHost {
	records, err := s.config.Resolver.LookupMX(ctx, domain)
	if err == nil && len(records) > 0 {
		hosts := make([]MXHost, 0, len(records))
		for _, mx := range records {
			host := strings.TrimSuffix(mx.Host, ".")
			if host == "" {
				continue
			}
			hosts = append(hosts, MXHost{Host: host, Pref: mx.Pref})
		}
		slices.SortStableFunc(hosts, func(a, b MXHost) int {
			return int(a.Pref) - int(b.Pref)
		})
		return hosts
	}

	if err != nil && !dns.IsNotFound(err) {
		s.logger.Debug("mx lookup failed", "domain", domain, "error", err)
		return nil
	}

	// No MX records: fall back to the domain's own address record, the
	// implicit mail host of conventional SMTP delivery.
	if _, err := s.config.Resolver.LookupIP(ctx, domain); err != nil {
		s.logger.Debug("address lookup failed", "domain", domain, "error", err)
		return nil
	}

	return []MXHost{{Host: domain, Pref: 0}}
}
