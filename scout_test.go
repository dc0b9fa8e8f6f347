package mailscout

import (
	"context"
	"net"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/batuhanaky/mailscout/dns"
)

func TestFindValidEmailsNamed(t *testing.T) {
	server := newTestSMTPServer(t)
	server.acceptAddr("b.akyazi@example.com")

	scout := testScout(server, nil, "example.com")

	got := scout.FindValidEmails(context.Background(), "example.com",
		SinglePerson{"Batuhan", "Akyazı"})

	want := []string{"b.akyazi@example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindValidEmails = %v, want %v", got, want)
	}
}

func TestFindValidEmailsPrefixBruteForce(t *testing.T) {
	server := newTestSMTPServer(t)
	server.acceptAddr("info@microsoft.com")
	server.acceptAddr("support@microsoft.com")

	scout := testScout(server, nil, "microsoft.com")

	got := scout.FindValidEmails(context.Background(), "microsoft.com", nil)

	// Result preserves prefix-list order: info comes before support.
	want := []string{"info@microsoft.com", "support@microsoft.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindValidEmails = %v, want %v", got, want)
	}
}

func TestFindValidEmailsPreservesGenerationOrder(t *testing.T) {
	server := newTestSMTPServer(t)
	server.acceptAddr("jane.roe@example.com")
	server.acceptAddr("jroe@example.com")
	server.acceptAddr("roe@example.com")

	config := DefaultConfig()
	config.NumThreads = 8
	scout := testScout(server, config, "example.com")

	got := scout.FindValidEmails(context.Background(), "example.com",
		SinglePerson{"Jane", "Roe"})

	// Generation priority, not completion order: jane.roe < jroe < roe.
	want := []string{"jane.roe@example.com", "jroe@example.com", "roe@example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindValidEmails = %v, want %v", got, want)
	}
}

func TestFindValidEmailsCatchAllSuppressed(t *testing.T) {
	server := newTestSMTPServer(t)
	server.setBehavior(true, false)

	scout := testScout(server, nil, "example.com")

	if !scout.CheckEmailCatchall(context.Background(), "example.com") {
		t.Fatal("expected catch-all domain to be detected")
	}

	got := scout.FindValidEmails(context.Background(), "example.com",
		SinglePerson{"Jane", "Roe"})
	if len(got) != 0 {
		t.Errorf("catch-all domain reported addresses: %v", got)
	}
}

func TestFindValidEmailsCatchAllBypassesProbing(t *testing.T) {
	server := newTestSMTPServer(t)
	server.setBehavior(true, false)

	scout := testScout(server, nil, "example.com")
	scout.FindValidEmails(context.Background(), "example.com", SinglePerson{"Jane", "Roe"})

	// Only the catch-all detection probe should have reached the server.
	if got := len(server.seenRcpts()); got != 1 {
		t.Errorf("server saw %d RCPTs, want only the catch-all probe", got)
	}
}

func TestFindValidEmailsCatchAllReturnAll(t *testing.T) {
	server := newTestSMTPServer(t)
	server.setBehavior(true, false)

	config := DefaultConfig()
	config.CatchAllPolicy = CatchAllReturnAll
	scout := testScout(server, config, "example.com")

	got := scout.FindValidEmails(context.Background(), "example.com",
		SinglePerson{"Jane", "Roe"})
	want := scout.GenerateEmailVariants(SinglePerson{"Jane", "Roe"}, "example.com")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindValidEmails = %v, want unverified candidates %v", got, want)
	}
}

func TestFindValidEmailsCatchAllReturnPrimary(t *testing.T) {
	server := newTestSMTPServer(t)
	server.setBehavior(true, false)

	config := DefaultConfig()
	config.CatchAllPolicy = CatchAllReturnPrimary
	scout := testScout(server, config, "example.com")

	got := scout.FindValidEmails(context.Background(), "example.com",
		MultiplePeople{{"Jane", "Roe"}, {"John", "Doe"}})
	want := []string{"jane.roe@example.com", "john.doe@example.com"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FindValidEmails = %v, want %v", got, want)
	}

	// Role prefixes have no primary pattern, so no names means nothing.
	got = scout.FindValidEmails(context.Background(), "example.com", nil)
	if len(got) != 0 {
		t.Errorf("prefix brute force on catch-all returned %v", got)
	}
}

func TestFindValidEmailsCatchAllDisabled(t *testing.T) {
	server := newTestSMTPServer(t)
	server.setBehavior(true, false)

	config := DefaultConfig()
	config.CheckCatchall = false
	scout := testScout(server, config, "example.com")

	got := scout.FindValidEmails(context.Background(), "example.com",
		SinglePerson{"Jane", "Roe"})
	if len(got) == 0 {
		t.Error("with CheckCatchall off, accepted candidates should be reported")
	}
}

func TestFindValidEmailsUnreachableDomain(t *testing.T) {
	server := newTestSMTPServer(t)
	scout := testScout(server, nil) // resolver knows no domains

	got := scout.FindValidEmails(context.Background(), "nowhere.example",
		SinglePerson{"Jane", "Roe"})
	if len(got) != 0 {
		t.Errorf("unreachable domain returned %v", got)
	}
}

func TestFindValidEmailsInvalidDomain(t *testing.T) {
	server := newTestSMTPServer(t)
	scout := testScout(server, nil)

	for _, domain := range []string{"", "   ", "exa mple.com"} {
		if got := scout.FindValidEmails(context.Background(), domain, SinglePerson{"Jane"}); len(got) != 0 {
			t.Errorf("domain %q returned %v", domain, got)
		}
	}
}

func TestFindValidEmailsNoNamesNoPrefixes(t *testing.T) {
	server := newTestSMTPServer(t)
	server.setBehavior(true, false)

	config := DefaultConfig()
	config.CheckPrefixes = false
	config.CheckCatchall = false
	scout := testScout(server, config, "example.com")

	if got := scout.FindValidEmails(context.Background(), "example.com", nil); len(got) != 0 {
		t.Errorf("expected no candidates, got %v", got)
	}
}

func TestCheckSMTP(t *testing.T) {
	server := newTestSMTPServer(t)
	server.acceptAddr("jane.roe@example.com")

	scout := testScout(server, nil, "example.com")
	ctx := context.Background()

	if !scout.CheckSMTP(ctx, "jane.roe@example.com") {
		t.Error("expected accepted address to verify")
	}
	if scout.CheckSMTP(ctx, "ghost@example.com") {
		t.Error("expected rejected address to fail")
	}
	if scout.CheckSMTP(ctx, "not-an-email") {
		t.Error("expected malformed address to fail")
	}
	if scout.CheckSMTP(ctx, "jane@unresolvable.example") {
		t.Error("expected unresolvable domain to fail")
	}
}

func TestMXCacheSharedAcrossCalls(t *testing.T) {
	server := newTestSMTPServer(t)
	server.acceptAddr("info@example.com")

	var lookups atomic.Int32
	config := DefaultConfig()
	config.CheckCatchall = false
	scout := testScout(server, config, "example.com")
	scout.config.Resolver = &countingResolver{inner: scout.config.Resolver, mx: &lookups}

	ctx := context.Background()
	scout.FindValidEmails(ctx, "example.com", nil)
	scout.FindValidEmails(ctx, "example.com", nil)

	if got := lookups.Load(); got != 1 {
		t.Errorf("MX resolved %d times, want 1 (cached)", got)
	}
}

func TestCatchAllVerdictCached(t *testing.T) {
	server := newTestSMTPServer(t)
	server.setBehavior(true, false)

	scout := testScout(server, nil, "example.com")
	ctx := context.Background()

	scout.CheckEmailCatchall(ctx, "example.com")
	scout.CheckEmailCatchall(ctx, "example.com")

	if got := len(server.seenRcpts()); got != 1 {
		t.Errorf("server saw %d catch-all probes, want 1 (cached)", got)
	}
}

func TestStopOnFirstHit(t *testing.T) {
	server := newTestSMTPServer(t)
	server.acceptAddr("jane.roe@example.com")

	config := DefaultConfig()
	config.StopOnFirstHit = true
	config.CheckCatchall = false
	config.NumThreads = 1 // deterministic: candidates probe in order
	scout := testScout(server, config, "example.com")

	got := scout.FindValidEmails(context.Background(), "example.com",
		SinglePerson{"Jane", "Roe"})
	if !reflect.DeepEqual(got, []string{"jane.roe@example.com"}) {
		t.Fatalf("FindValidEmails = %v", got)
	}

	// The first candidate hit, so no other pattern should have been probed.
	if rcpts := server.seenRcpts(); len(rcpts) != 1 {
		t.Errorf("server saw %d RCPTs, want 1: %v", len(rcpts), rcpts)
	}
}

// countingResolver counts MX lookups on the way through.
type countingResolver struct {
	inner dns.Resolver
	mx    *atomic.Int32
}

func (r *countingResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	r.mx.Add(1)
	return r.inner.LookupMX(ctx, domain)
}

func (r *countingResolver) LookupIP(ctx context.Context, domain string) ([]net.IP, error) {
	return r.inner.LookupIP(ctx, domain)
}

func TestNormalizeDisabled(t *testing.T) {
	server := newTestSMTPServer(t)
	server.acceptAddr("Jane.Roe@example.com")

	config := DefaultConfig()
	config.Normalize = false
	config.CheckCatchall = false
	scout := testScout(server, config, "example.com")

	got := scout.FindValidEmails(context.Background(), "example.com",
		SinglePerson{"Jane", "Roe"})
	if !reflect.DeepEqual(got, []string{"Jane.Roe@example.com"}) {
		t.Errorf("FindValidEmails = %v, want raw-token candidate", got)
	}
}

func TestConcurrentScoutUse(t *testing.T) {
	server := newTestSMTPServer(t)
	server.acceptAddr("info@example.com")

	config := DefaultConfig()
	config.CheckCatchall = false
	scout := testScout(server, config, "example.com")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got := scout.FindValidEmails(context.Background(), "example.com", nil)
			if !reflect.DeepEqual(got, []string{"info@example.com"}) {
				t.Errorf("FindValidEmails = %v", got)
			}
		}()
	}
	wg.Wait()
}
