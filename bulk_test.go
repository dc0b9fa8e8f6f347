package mailscout

import (
	"context"
	"reflect"
	"testing"
)

func TestFindValidEmailsBulkOrderPreserved(t *testing.T) {
	server := newTestSMTPServer(t)
	server.acceptAddr("info@alpha.example")
	server.acceptAddr("jane.roe@beta.example")
	server.acceptAddr("info@gamma.example")

	config := DefaultConfig()
	config.NumBulkThreads = 4
	scout := testScout(server, config, "alpha.example", "beta.example", "gamma.example")

	tasks := []Task{
		{Domain: "alpha.example"},
		{Domain: "beta.example", Names: SinglePerson{"Jane", "Roe"}},
		{Domain: "gamma.example"},
	}

	results := scout.FindValidEmailsBulk(context.Background(), tasks)
	if len(results) != len(tasks) {
		t.Fatalf("got %d results, want %d", len(results), len(tasks))
	}

	for i, task := range tasks {
		if results[i].Domain != task.Domain {
			t.Errorf("result %d is for %q, want %q", i, results[i].Domain, task.Domain)
		}
	}

	if !reflect.DeepEqual(results[0].ValidEmails, []string{"info@alpha.example"}) {
		t.Errorf("alpha = %v", results[0].ValidEmails)
	}
	if !reflect.DeepEqual(results[1].ValidEmails, []string{"jane.roe@beta.example"}) {
		t.Errorf("beta = %v", results[1].ValidEmails)
	}
	if !reflect.DeepEqual(results[2].ValidEmails, []string{"info@gamma.example"}) {
		t.Errorf("gamma = %v", results[2].ValidEmails)
	}
}

func TestFindValidEmailsBulkFaultIsolation(t *testing.T) {
	server := newTestSMTPServer(t)
	server.acceptAddr("info@alive.example")

	config := DefaultConfig()
	config.NumBulkThreads = 2
	scout := testScout(server, config, "alive.example") // dead.example unresolvable

	results := scout.FindValidEmailsBulk(context.Background(), []Task{
		{Domain: "dead.example"},
		{Domain: "alive.example"},
	})

	if len(results) != 2 {
		t.Fatalf("got %d results", len(results))
	}
	if len(results[0].ValidEmails) != 0 {
		t.Errorf("dead.example returned %v", results[0].ValidEmails)
	}
	if !reflect.DeepEqual(results[1].ValidEmails, []string{"info@alive.example"}) {
		t.Errorf("alive.example = %v, sibling task affected by failure", results[1].ValidEmails)
	}
}

func TestFindValidEmailsBulkDedupesTasks(t *testing.T) {
	server := newTestSMTPServer(t)
	server.acceptAddr("info@example.com")

	scout := testScout(server, nil, "example.com")

	results := scout.FindValidEmailsBulk(context.Background(), []Task{
		{Domain: "example.com"},
		{Domain: "example.com"},
		{Domain: "example.com", Names: SinglePerson{"Jane", "Roe"}},
	})

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 after dedupe", len(results))
	}
	if results[0].Names != nil || results[1].Names == nil {
		t.Error("dedupe must keep the first occurrence of each distinct task")
	}
}

func TestDedupeTasks(t *testing.T) {
	tasks := []Task{
		{Domain: "a.example"},
		{Domain: "a.example"},
		{Domain: "a.example", Names: SinglePerson{"Jane"}},
		{Domain: "a.example", Names: SinglePerson{"Jane"}},
		{Domain: "b.example"},
	}

	got := dedupeTasks(tasks)
	if len(got) != 3 {
		t.Fatalf("got %d tasks, want 3", len(got))
	}
	if got[0].Domain != "a.example" || got[2].Domain != "b.example" {
		t.Errorf("dedupe broke ordering: %v", got)
	}
}

func TestFindValidEmailsBulkSharesCaches(t *testing.T) {
	server := newTestSMTPServer(t)
	server.setBehavior(true, false)

	config := DefaultConfig()
	config.NumBulkThreads = 1
	scout := testScout(server, config, "example.com")

	scout.FindValidEmailsBulk(context.Background(), []Task{
		{Domain: "example.com", Names: SinglePerson{"Jane", "Roe"}},
		{Domain: "example.com", Names: SinglePerson{"John", "Doe"}},
	})

	// Catch-all is detected once; both tasks then suppress probing.
	if got := len(server.seenRcpts()); got != 1 {
		t.Errorf("server saw %d RCPTs, want 1 shared catch-all probe", got)
	}
}

func TestFindValidEmailsBulkEmpty(t *testing.T) {
	server := newTestSMTPServer(t)
	scout := testScout(server, nil)

	if results := scout.FindValidEmailsBulk(context.Background(), nil); len(results) != 0 {
		t.Errorf("got %v for empty task list", results)
	}
}
