package contract

import (
	"context"
	"fmt"

	"github.com/stretchr/testify/require"
)

// Fixture is the state a group's setup hands to each of its cases.
type Fixture struct {
	// PetID is the id of the pet created by setup, zero when setup creates none.
	PetID int64
}

// Case pairs a request with the status and body it must produce.
type Case struct {
	Name    string
	Request Request
	// FromFixture, when set, builds the request from the group fixture instead of using Request.
	FromFixture func(Fixture) Request
	Status      int
	// Body is optional; nil skips the body assertion.
	Body Matcher
}

// RequestFor resolves the request to send for the given fixture.
func (c Case) RequestFor(f Fixture) Request {
	if c.FromFixture != nil {
		return c.FromFixture(f)
	}
	return c.Request
}

// SetupFunc prepares a fixture before each case of a group.
type SetupFunc func(ctx context.Context, client *Client, fixture *Fixture) error

// Group is a named set of cases sharing a setup step.
type Group struct {
	Name  string
	Setup SetupFunc
	Cases []Case
}

type logger interface {
	Logf(format string, args ...any)
}

type helper interface {
	Helper()
}

// Verify sends the case's request and asserts status and body through t.
// It works with *testing.T, GinkgoT() and *Context alike.
func Verify(ctx context.Context, t require.TestingT, client *Client, fixture Fixture, c Case) *Response {
	if h, ok := t.(helper); ok {
		h.Helper()
	}
	req := c.RequestFor(fixture)
	resp, err := client.Do(ctx, req)
	require.NoError(t, err, "%s", req)

	if l, ok := t.(logger); ok {
		l.Logf("%s -> %d in %s (request id %s): %s", req, resp.StatusCode, resp.Duration, resp.RequestID, resp.Body)
	}
	require.Equal(t, c.Status, resp.StatusCode, "status of %s; body: %s", req, resp.Body)
	if c.Body != nil {
		if err := c.Body.Match(resp.JSON()); err != nil {
			require.Fail(t, fmt.Sprintf("body of %s does not match %s", req, c.Body), "%v\nbody: %s", err, resp.Body)
		}
	}
	return resp
}

// Prepare runs the group's setup, if any, and returns the resulting fixture.
func (g Group) Prepare(ctx context.Context, client *Client) (Fixture, error) {
	var fixture Fixture
	if g.Setup == nil {
		return fixture, nil
	}
	if err := g.Setup(ctx, client, &fixture); err != nil {
		return fixture, fmt.Errorf("setup of %q: %w", g.Name, err)
	}
	return fixture, nil
}
