package contract

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/require"
)

// newStubStore answers a tiny subset of the pet routes with fixed bodies.
func newStubStore(t *testing.T) *Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /pet", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":42,"name":"Fluffy","photoUrls":[],"tags":[]}`))
	})
	mux.HandleFunc("GET /pet/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":1,"type":"error","message":"Pet not found"}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	client, err := NewClient(server.URL)
	require.NoError(t, err)
	return client
}

func stubGroups(setup SetupFunc) []Group {
	return []Group{
		{
			Name:  "create",
			Setup: setup,
			Cases: []Case{
				{
					Name:    "creates",
					Request: Request{Method: http.MethodPost, Path: "/pet", Body: map[string]any{}},
					Status:  http.StatusOK,
					Body:    ObjectContaining(map[string]any{"id": AnyNumber()}),
				},
				{
					Name: "reads fixture",
					FromFixture: func(f Fixture) Request {
						return Request{Method: http.MethodGet, Path: NewEndpoints().MustPet(f.PetID)}
					},
					Status: http.StatusNotFound,
				},
			},
		},
		{
			Name: "get",
			Cases: []Case{
				{
					Name:    "wrong status",
					Request: Request{Method: http.MethodGet, Path: "/pet/1"},
					Status:  http.StatusOK,
				},
				{
					Name:    "wrong body",
					Request: Request{Method: http.MethodGet, Path: "/pet/1"},
					Status:  http.StatusNotFound,
					Body:    EmptyObject(),
				},
			},
		},
	}
}

func recordID(ctx context.Context, client *Client, fixture *Fixture) error {
	resp, err := client.Do(ctx, Request{Method: http.MethodPost, Path: "/pet", Body: map[string]any{}})
	if err != nil {
		return err
	}
	id, _ := resp.PetID()
	fixture.PetID = id
	return nil
}

func failureIDs(results Results) []string {
	var ids []string
	for _, f := range results.Failures {
		ids = append(ids, f.TestID.String())
	}
	return ids
}

func TestRunner_CollectsFailures(t *testing.T) {
	results := NewRunner(newStubStore(t)).Run(context.Background(), stubGroups(recordID))

	require.False(t, results.OK())
	require.Equal(t, []string{"get/wrong status", "get/wrong body"}, failureIDs(results))
	require.Equal(t, 2, results.Passed())
	for _, f := range results.Failures {
		require.NotEmpty(t, f.Errors)
	}
}

func TestRunner_SetupFailureFailsEachCase(t *testing.T) {
	failing := func(context.Context, *Client, *Fixture) error { return errors.New("no pets today") }
	results := NewRunner(newStubStore(t)).Run(context.Background(), stubGroups(failing)[:1])

	require.Equal(t, []string{"create/creates", "create/reads fixture"}, failureIDs(results))
	require.ErrorContains(t, results.Failures[0].Errors[0], "no pets today")
}

func TestRunner_RecoversFromPanics(t *testing.T) {
	panicking := func(context.Context, *Client, *Fixture) error { panic("boom") }
	results := NewRunner(newStubStore(t)).Run(context.Background(), stubGroups(panicking)[:1])

	require.Len(t, results.Failures, 2)
	require.ErrorContains(t, results.Failures[0].Errors[0], "unexpected panic in test: boom")
}

func TestRunner_Filters(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("^create/"))
	require.NoError(t, filters.MustNotMatch.Set("fixture"))

	results := NewRunner(newStubStore(t), WithFilter(filters.AsFilter)).Run(context.Background(), stubGroups(recordID))
	require.True(t, results.OK())
	require.Equal(t, 1, results.Passed())
}

func TestSelected(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("wrong"))

	var ids []string
	for _, id := range Selected(stubGroups(nil), filters.AsFilter) {
		ids = append(ids, id.String())
	}
	require.Equal(t, []string{"get/wrong status", "get/wrong body"}, ids)
	require.Len(t, Selected(stubGroups(nil), nil), 4)
}

func TestRegexList_InvalidPattern(t *testing.T) {
	var list RegexList
	require.Error(t, list.Set("("))
	require.False(t, list.IsDefined())
	require.Equal(t, "regex", list.Type())
}

func TestConsoleTestLogger(t *testing.T) {
	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })
	var out bytes.Buffer
	logger := &ConsoleTestLogger{Out: &out, DebugOutputOnFailure: true}
	results := NewRunner(newStubStore(t), WithTestLogger(logger)).Run(context.Background(), stubGroups(recordID))
	PrintResults(&out, results)

	text := out.String()
	require.Contains(t, text, "create\n")
	require.Contains(t, text, "  PASS creates\n")
	require.Contains(t, text, "  FAIL wrong status\n")
	require.Contains(t, text, "DEBUG")
	require.Contains(t, text, "2 failed, 2 passed")
	require.True(t, strings.HasSuffix(text, "  FAILED: get/wrong body\n"))
}

func TestRunT_AgainstStub(t *testing.T) {
	groups := stubGroups(recordID)
	groups[1].Cases = groups[1].Cases[1:]
	groups[1].Cases[0].Body = ObjectContaining(map[string]any{"message": "Pet not found"})
	RunT(t, newStubStore(t), groups)
}

func TestContext_ImplementsTestingT(t *testing.T) {
	root := newRootContext(nil, nil)
	var ran bool
	root.run(func(c *Context) {
		c.Run("group", func(c *Context) {
			c.Run("case", func(c *Context) {
				ran = true
				c.Errorf("first %d", 1)
				c.Errorf("second")
				c.FailNow()
				t.Fatal("unreachable")
			})
		})
	})
	require.True(t, ran)
	results := root.env.results
	require.Len(t, results.Failures, 1)
	require.Equal(t, "group/case", results.Failures[0].TestID.String())
	require.Len(t, results.Failures[0].Errors, 2)
}

func TestContext_Skip(t *testing.T) {
	root := newRootContext(nil, nil)
	root.run(func(c *Context) {
		c.Run("skipped", func(c *Context) {
			c.SkipWithReason("not today")
		})
	})
	results := root.env.results
	require.True(t, results.OK())
	require.Len(t, results.Tests, 1)
	require.True(t, results.Tests[0].Skipped)
}
