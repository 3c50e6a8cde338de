package contract

import (
	"context"
	"testing"
)

// Runner executes groups of cases outside of go test.
type Runner struct {
	client     *Client
	filter     Filter
	testLogger TestLogger
}

// RunnerOption customises the Runner.
type RunnerOption func(*Runner)

// WithFilter limits the run to the ids the filter accepts.
func WithFilter(filter Filter) RunnerOption {
	return func(r *Runner) {
		r.filter = filter
	}
}

// WithTestLogger receives progress events.
func WithTestLogger(logger TestLogger) RunnerOption {
	return func(r *Runner) {
		r.testLogger = logger
	}
}

// NewRunner creates a runner sending requests through client.
func NewRunner(client *Client, opts ...RunnerOption) *Runner {
	r := &Runner{client: client}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Run executes every selected case. Group setup runs again before each case
// so cases never observe each other's state. Cases run sequentially.
func (r *Runner) Run(ctx context.Context, groups []Group) Results {
	root := newRootContext(r.filter, r.testLogger)
	root.run(func(c *Context) {
		for _, group := range groups {
			if len(Selected([]Group{group}, r.filter)) == 0 {
				continue
			}
			c.Run(group.Name, func(gc *Context) {
				for _, tc := range group.Cases {
					gc.Run(tc.Name, func(cc *Context) {
						fixture, err := group.Prepare(ctx, r.client)
						if err != nil {
							cc.Errorf("%v", err)
							cc.FailNow()
						}
						Verify(ctx, cc, r.client, fixture, tc)
					})
				}
			})
		}
	})
	return root.env.results
}

// Selected lists the ids of the cases the filter accepts, in run order.
func Selected(groups []Group, filter Filter) []TestID {
	var ids []TestID
	for _, group := range groups {
		groupID := TestID{Path: []string{group.Name}}
		if filter != nil && !filter(groupID) {
			continue
		}
		for _, tc := range group.Cases {
			id := groupID.Plus(tc.Name)
			if filter == nil || filter(id) {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// RunT maps groups and cases onto subtests of t.
func RunT(t *testing.T, client *Client, groups []Group) {
	t.Helper()
	for _, group := range groups {
		t.Run(group.Name, func(t *testing.T) {
			for _, tc := range group.Cases {
				t.Run(tc.Name, func(t *testing.T) {
					ctx := t.Context()
					fixture, err := group.Prepare(ctx, client)
					if err != nil {
						t.Fatal(err)
					}
					Verify(ctx, t, client, fixture, tc)
				})
			}
		})
	}
}
