package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// StdResolver implements the Resolver interface using the standard library
// net package, going through the system resolver.
type StdResolver struct {
	resolver *net.Resolver
}

var _ Resolver = (*StdResolver)(nil)

// NewStdResolver creates a resolver using the standard library.
func NewStdResolver() *StdResolver {
	return &StdResolver{
		resolver: net.DefaultResolver,
	}
}

// NewStdResolverWithDialer creates a resolver using a custom dialer.
// This allows configuring custom DNS servers while using the stdlib interface.
func NewStdResolverWithDialer(dial func(ctx context.Context, network, address string) (net.Conn, error)) *StdResolver {
	return &StdResolver{
		resolver: &net.Resolver{
			PreferGo: true,
			Dial:     dial,
		},
	}
}

// LookupMX retrieves MX records using the standard library.
func (r *StdResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	domain = strings.TrimSuffix(domain, ".")

	records, err := r.resolver.LookupMX(ctx, domain)
	if err != nil {
		return nil, convertError(err)
	}

	if len(records) == 0 {
		return nil, ErrNotFound
	}

	return records, nil
}

// LookupIP retrieves A and AAAA records using the standard library.
func (r *StdResolver) LookupIP(ctx context.Context, domain string) ([]net.IP, error) {
	domain = strings.TrimSuffix(domain, ".")

	ips, err := r.resolver.LookupIP(ctx, "ip", domain)
	if err != nil {
		return nil, convertError(err)
	}

	if len(ips) == 0 {
		return nil, ErrNotFound
	}

	return ips, nil
}

// convertError converts standard library DNS errors to package errors.
func convertError(err error) error {
	if err == nil {
		return nil
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return ErrNotFound
		}
		if dnsErr.IsTimeout {
			return ErrTimeout
		}
		if dnsErr.IsTemporary {
			return ErrServFail
		}
	}

	return fmt.Errorf("dns lookup failed: %w", err)
}
