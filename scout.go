package mailscout

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/badoux/checkmail"
)

// Scout is the verification engine. It owns the configuration and two caches
// that live for the Scout's lifetime: resolved MX host lists and catch-all
// verdicts, both keyed by domain and shared across all concurrent work. A
// single Scout is safe for concurrent use.
type Scout struct {
	config *Config
	logger *slog.Logger

	mu            sync.RWMutex
	mxCache       map[string][]MXHost
	catchallCache map[string]bool
}

// New creates a Scout. A nil config uses DefaultConfig.
func New(config *Config) *Scout {
	if config == nil {
		config = DefaultConfig()
	}
	config = config.withDefaults()

	return &Scout{
		config:        config,
		logger:        config.Logger,
		mxCache:       make(map[string][]MXHost),
		catchallCache: make(map[string]bool),
	}
}

// CheckSMTP verifies a single fully-formed address via the RCPT TO handshake.
// It returns true only when a mail server explicitly accepted the address;
// rejections, timeouts and unreachable domains all yield false.
func (s *Scout) CheckSMTP(ctx context.Context, email string) bool {
	email = strings.TrimSpace(email)
	if err := checkmail.ValidateFormat(email); err != nil {
		s.logger.Debug("invalid email format", "email", email, "error", err)
		return false
	}

	at := strings.LastIndex(email, "@")
	domain, err := normalizeDomain(email[at+1:])
	if err != nil {
		return false
	}

	hosts := s.mxHosts(ctx, domain)
	res := s.probe(ctx, email, hosts)
	return res.Outcome == OutcomeAccepted
}

// GenerateEmailVariants returns the domain-qualified candidate addresses that
// FindValidEmails would probe for the given names, without probing anything.
// The Normalize and CheckVariants settings apply.
func (s *Scout) GenerateEmailVariants(names NamesInput, domain string) []string {
	if names == nil {
		return nil
	}

	people := names.people()
	if s.config.Normalize {
		people = normalizePeople(people)
	}

	candidates := generateCandidates(people, s.config.CheckVariants)
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Local+"@"+domain)
	}
	return out
}
