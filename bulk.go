package mailscout

import (
	"context"
	"reflect"

	"golang.org/x/sync/errgroup"
)

// Task is one unit of bulk verification: a domain with optional names.
type Task struct {
	Domain string
	Names  NamesInput
}

// BulkResult echoes a Task back with the addresses that verified.
type BulkResult struct {
	Domain      string
	Names       NamesInput
	ValidEmails []string
}

// FindValidEmailsBulk verifies many tasks concurrently under the bulk worker
// pool. Output order equals input order regardless of completion timing, and
// duplicate tasks are collapsed to their first occurrence. MX and catch-all
// caches are shared across tasks, so a domain repeated across tasks pays its
// DNS and catch-all cost once. A failed task yields an empty list without
// affecting its siblings.
func (s *Scout) FindValidEmailsBulk(ctx context.Context, tasks []Task) []BulkResult {
	tasks = dedupeTasks(tasks)

	results := make([]BulkResult, len(tasks))

	var g errgroup.Group
	g.SetLimit(s.config.NumBulkThreads)

	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			results[i] = BulkResult{
				Domain:      task.Domain,
				Names:       task.Names,
				ValidEmails: s.FindValidEmails(ctx, task.Domain, task.Names),
			}
			return nil
		})
	}
	g.Wait()

	return results
}

// dedupeTasks drops tasks identical to an earlier one, preserving order.
func dedupeTasks(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		dup := false
		for _, seen := range out {
			if t.Domain == seen.Domain && reflect.DeepEqual(t.Names, seen.Names) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, t)
		}
	}
	return out
}
