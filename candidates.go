package mailscout

import "strings"

// NamesInput is the set of name shapes accepted by FindValidEmails: either
// the tokens of a single person or a list of token lists for multiple people.
// A nil NamesInput means "no names" and triggers role-prefix brute force.
type NamesInput interface {
	people() [][]string
}

// SinglePerson holds the name tokens of one person, e.g.
// SinglePerson{"Jane", "Roe"}. Embedded whitespace inside a token is split,
// so SinglePerson{"Jane Roe"} is equivalent.
type SinglePerson []string

// MultiplePeople holds name tokens for several distinct people.
type MultiplePeople [][]string

func (p SinglePerson) people() [][]string { return [][]string{splitTokens(p)} }

func (p MultiplePeople) people() [][]string {
	out := make([][]string, 0, len(p))
	for _, person := range p {
		out = append(out, splitTokens(person))
	}
	return out
}

// Name canonicalizes a bare free-form name string ("Jane Roe") into a
// SinglePerson token list.
func Name(s string) SinglePerson {
	return SinglePerson(strings.Fields(s))
}

// splitTokens splits embedded whitespace on a per-string basis and discards
// empty tokens, preserving order.
func splitTokens(raw []string) []string {
	var tokens []string
	for _, s := range raw {
		tokens = append(tokens, strings.Fields(s)...)
	}
	return tokens
}

// Candidate is a local-part to probe, tagged with the pattern that produced
// it. The pattern is traceability metadata only.
type Candidate struct {
	Local   string
	Pattern string

	// person indexes the person this candidate belongs to, or -1 for role
	// prefixes. Used for per-person short-circuiting.
	person int

	// primary marks the single most conventional pattern for a person.
	primary bool
}

// commonPrefixes is the fixed role-address enumeration probed when no names
// are given. Each entry is emitted exactly once, in this order.
var commonPrefixes = []string{
	// Business prefixes
	"info", "contact", "sales", "support", "admin",
	"service", "team", "hello", "marketing", "hr",
	"office", "accounts", "billing", "careers", "jobs",
	"press", "help", "enquiries", "management", "staff",
	"webmaster", "administrator", "customer", "tech",
	"finance", "legal", "compliance", "operations", "it",
	"network", "development", "research", "design", "engineering",
	"production", "purchasing", "logistics", "training",
	"ceo", "director", "manager",
	"executive", "agent", "representative", "partner",
	// Website management prefixes
	"blog", "forum", "news", "updates", "events",
	"community", "shop", "store", "feedback",
	"media", "resource", "resources",
	"api", "dev", "developer", "status", "security",
}

// prefixCandidates returns the static role-prefix candidates.
func prefixCandidates() []Candidate {
	out := make([]Candidate, 0, len(commonPrefixes))
	for _, p := range commonPrefixes {
		out = append(out, Candidate{Local: p, Pattern: "prefix:" + p, person: -1})
	}
	return out
}

// GeneratePrefixes returns role-prefix addresses for the domain. When custom
// is non-nil it replaces the built-in enumeration.
func GeneratePrefixes(domain string, custom []string) []string {
	prefixes := commonPrefixes
	if custom != nil {
		prefixes = custom
	}
	out := make([]string, 0, len(prefixes))
	for _, p := range prefixes {
		out = append(out, p+"@"+domain)
	}
	return out
}

// candidateSet builds an ordered, de-duplicated candidate list. Order is
// probe priority: it must be stable so that short-circuit semantics are
// deterministic.
type candidateSet struct {
	seen       map[string]struct{}
	candidates []Candidate
}

func newCandidateSet() *candidateSet {
	return &candidateSet{seen: make(map[string]struct{})}
}

func (cs *candidateSet) add(c Candidate) {
	if c.Local == "" {
		return
	}
	if _, dup := cs.seen[c.Local]; dup {
		return
	}
	cs.seen[c.Local] = struct{}{}
	cs.candidates = append(cs.candidates, c)
}

// generateCandidates produces the ordered candidate list for the given
// people. Tokens are assumed normalized (or intentionally raw when the
// Normalize flag is off). People with no usable tokens contribute nothing.
//
// Per person the order is: first.last joins, reversed joins, initial forms,
// then single tokens. Duplicates across patterns and people collapse to the
// first occurrence.
func generateCandidates(people [][]string, variants bool) []Candidate {
	cs := newCandidateSet()

	for pi, tokens := range people {
		if len(tokens) == 0 {
			continue
		}

		if len(tokens) == 1 {
			cs.add(Candidate{Local: tokens[0], Pattern: "single", person: pi, primary: true})
			continue
		}

		first, last := tokens[0], tokens[len(tokens)-1]

		// The most conventional pattern goes first; it is also the one the
		// CatchAllReturnPrimary policy reports.
		cs.add(Candidate{Local: first + "." + last, Pattern: "first.last", person: pi, primary: true})

		if !variants {
			continue
		}

		for i := 0; i < len(tokens); i++ {
			for j := i + 1; j < len(tokens); j++ {
				a, b := tokens[i], tokens[j]
				cs.add(Candidate{Local: a + "." + b, Pattern: "first.last", person: pi})
				cs.add(Candidate{Local: a + "_" + b, Pattern: "first_last", person: pi})
				cs.add(Candidate{Local: a + b, Pattern: "firstlast", person: pi})
			}
		}

		for i := 0; i < len(tokens); i++ {
			for j := i + 1; j < len(tokens); j++ {
				a, b := tokens[i], tokens[j]
				cs.add(Candidate{Local: b + "." + a, Pattern: "last.first", person: pi})
				cs.add(Candidate{Local: b + "_" + a, Pattern: "last_first", person: pi})
				cs.add(Candidate{Local: b + a, Pattern: "lastfirst", person: pi})
			}
		}

		cs.add(Candidate{Local: first[:1] + "." + last, Pattern: "f.last", person: pi})
		cs.add(Candidate{Local: first[:1] + last, Pattern: "flast", person: pi})
		cs.add(Candidate{Local: first + "." + last[:1], Pattern: "first.l", person: pi})
		cs.add(Candidate{Local: first + last[:1], Pattern: "firstl", person: pi})

		for _, tok := range tokens {
			cs.add(Candidate{Local: tok, Pattern: "single", person: pi})
		}
	}

	return cs.candidates
}

// normalizePeople applies NormalizeName to every token, dropping tokens that
// normalize to nothing.
func normalizePeople(people [][]string) [][]string {
	out := make([][]string, 0, len(people))
	for _, tokens := range people {
		var norm []string
		for _, tok := range tokens {
			if n := NormalizeName(tok); n != "" {
				norm = append(norm, n)
			}
		}
		out = append(out, norm)
	}
	return out
}
