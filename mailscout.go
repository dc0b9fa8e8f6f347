// Mailscout discovers plausible business email addresses for a person (or
// brute-forces common role addresses) at a domain, and verifies deliverability
// by speaking SMTP directly to the domain's mail servers — without ever
// sending a message.
//
// # Engine
//
// All operations hang off a Scout, which owns the configuration and the
// per-run DNS and catch-all caches:
//
//	scout := mailscout.New(nil) // defaults
//	emails := scout.FindValidEmails(ctx, "example.com",
//	    mailscout.SinglePerson{"Batuhan", "Akyazı"})
//
// With no names, the common role prefixes (info, contact, support, ...) are
// probed instead:
//
//	emails := scout.FindValidEmails(ctx, "example.com", nil)
//
// # Bulk
//
// Many (domain, names) tasks can be verified concurrently. Output order always
// matches input order, and MX/catch-all lookups are shared across tasks:
//
//	results := scout.FindValidEmailsBulk(ctx, []mailscout.Task{
//	    {Domain: "example.com", Names: mailscout.SinglePerson{"Jane", "Roe"}},
//	    {Domain: "example.org"},
//	})
//
// # Single-address checks
//
// A fully formed address can be verified on its own, and a domain can be
// tested for catch-all behavior (servers that accept every RCPT TO):
//
//	ok := scout.CheckSMTP(ctx, "jane.roe@example.com")
//	catchall := scout.CheckEmailCatchall(ctx, "example.com")
//
// # Verification semantics
//
// A candidate address is reported only when a mail server explicitly accepted
// it during the RCPT TO handshake. Timeouts, connection failures and temporary
// SMTP responses are treated as "not found", never as errors: the absence of
// an address from the result list is the only failure signal. Catch-all
// domains accept every address, so per-candidate verdicts there are
// meaningless; the CatchAllPolicy configuration decides what to report.
//
// Outbound TCP to port 25 must be reachable. Environments that block it will
// observe every probe resolve to "not found" rather than a hard failure.
package mailscout
