// Package dns resolves the DNS records mailscout needs to find a domain's
// mail servers: MX records, and A/AAAA records for the fallback case where a
// domain receives mail directly on its own address.
package dns

import (
	"context"
	"errors"
	"net"
)

var (
	// ErrNotFound indicates the name does not exist or has no records of the
	// requested type (NXDOMAIN or empty answer).
	ErrNotFound = errors.New("dns: record not found")

	// ErrServFail indicates a temporary server-side failure.
	ErrServFail = errors.New("dns: server failure")

	// ErrTimeout indicates the query timed out.
	ErrTimeout = errors.New("dns: query timed out")
)

// IsNotFound reports whether err means the record definitively does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTemporary reports whether err is worth retrying later.
func IsTemporary(err error) bool {
	return errors.Is(err, ErrServFail) || errors.Is(err, ErrTimeout)
}

// Resolver looks up mail-routing records. Implementations must be safe for
// concurrent use; mailscout shares one resolver across all probe workers.
type Resolver interface {
	// LookupMX returns the domain's MX records, unsorted.
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)

	// LookupIP returns the domain's A and AAAA records.
	LookupIP(ctx context.Context, domain string) ([]net.IP, error)
}
