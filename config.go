package mailscout

import (
	"log/slog"
	"time"

	"github.com/batuhanaky/mailscout/dns"
)

// CatchAllPolicy controls what FindValidEmails reports for domains whose mail
// servers accept every recipient. Individual RCPT TO verdicts are meaningless
// on such domains, so per-candidate probing is suppressed and the policy
// decides the fallback.
type CatchAllPolicy int

const (
	// CatchAllSuppress reports nothing for catch-all domains.
	CatchAllSuppress CatchAllPolicy = iota

	// CatchAllReturnAll reports every generated candidate, unverified.
	CatchAllReturnAll

	// CatchAllReturnPrimary reports only the primary first.last pattern per
	// person, unverified. With no names it behaves like CatchAllSuppress.
	CatchAllReturnPrimary
)

// Config contains configuration options for a Scout.
type Config struct {
	// CheckVariants generates name-pattern candidates (first.last, flast, ...)
	// when names are supplied. When false only the primary first.last pattern
	// per person is probed.
	// Default: true
	CheckVariants bool

	// CheckPrefixes probes the common role prefixes (info, contact, ...) when
	// no names are supplied.
	// Default: true
	CheckPrefixes bool

	// CheckCatchall probes a randomized nonexistent address per domain before
	// trusting any individual accepted verdict. See CatchAllPolicy.
	// Default: true
	CheckCatchall bool

	// Normalize transliterates name tokens to lowercase ASCII before
	// generating candidates ("Şule" -> "sule").
	// Default: true
	Normalize bool

	// CatchAllPolicy selects the fallback behavior for catch-all domains.
	// Only consulted when CheckCatchall is set.
	// Default: CatchAllSuppress
	CatchAllPolicy CatchAllPolicy

	// StopOnFirstHit stops probing a person's remaining patterns once one of
	// them is accepted. A person normally has exactly one business address, so
	// this trades completeness for fewer probes. Role-prefix probing is never
	// short-circuited.
	// Default: false
	StopOnFirstHit bool

	// ---- Concurrency ----

	// NumThreads is the worker pool width for per-domain candidate probing.
	// Default: 5
	NumThreads int

	// NumBulkThreads is the worker pool width for bulk task fan-out.
	// Default: 1
	NumBulkThreads int

	// ---- SMTP ----

	// SMTPTimeout bounds every network operation of a single probe connection
	// (dial, read, write). One unresponsive server can therefore never stall a
	// verification run.
	// Default: 2 seconds
	SMTPTimeout time.Duration

	// Port is the TCP port probed on each mail host.
	// Default: 25
	Port int

	// HelloName is the identity sent with EHLO/HELO.
	// Default: "example.com"
	HelloName string

	// FromEmail is the sender given in MAIL FROM. It is never used to deliver
	// anything; some servers reject RCPT TO without a prior sender.
	// Default: "test@example.com"
	FromEmail string

	// ---- DNS ----

	// Resolver performs MX and address lookups. dns.MockResolver can be
	// substituted in tests.
	// Default: dns.NewStdResolver()
	Resolver dns.Resolver

	// ---- Logging ----

	// Logger is the structured logger for the engine.
	// Default: slog.Default()
	Logger *slog.Logger
}

// DefaultConfig returns a Config with the default settings.
func DefaultConfig() *Config {
	return &Config{
		CheckVariants:  true,
		CheckPrefixes:  true,
		CheckCatchall:  true,
		Normalize:      true,
		CatchAllPolicy: CatchAllSuppress,
		NumThreads:     5,
		NumBulkThreads: 1,
		SMTPTimeout:    2 * time.Second,
		Port:           25,
		HelloName:      "example.com",
		FromEmail:      "test@example.com",
	}
}

// withDefaults fills zero-valued fields that have non-zero defaults. Boolean
// flags are taken as given; use DefaultConfig as the base to get the enabled
// defaults.
func (c *Config) withDefaults() *Config {
	out := *c
	if out.NumThreads <= 0 {
		out.NumThreads = 5
	}
	if out.NumBulkThreads <= 0 {
		out.NumBulkThreads = 1
	}
	if out.SMTPTimeout <= 0 {
		out.SMTPTimeout = 2 * time.Second
	}
	if out.Port <= 0 {
		out.Port = 25
	}
	if out.HelloName == "" {
		out.HelloName = "example.com"
	}
	if out.FromEmail == "" {
		out.FromEmail = "test@example.com"
	}
	if out.Resolver == nil {
		out.Resolver = dns.NewStdResolver()
	}
	if out.Logger == nil {
		out.Logger = slog.Default()
	}
	return &out
}
