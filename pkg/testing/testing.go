package testing

import (
	"net/http"
	"strings"
	"testing"

	"github.com/getmockd/expect/pkg/expect"
	"github.com/getmockd/expect/pkg/fixture"
	"github.com/getmockd/expect/pkg/logging"
	"github.com/getmockd/expect/pkg/matching"
)

// New creates an expect client for t. When the test finishes, any pending
// expectation is reported with t.Errorf.
func New(t testing.TB, opts ...expect.Option) *expect.Client {
	t.Helper()

	base := []expect.Option{
		expect.WithName(t.Name()),
		expect.WithLogger(logging.FromEnv(tbWriter{t})),
	}
	c := expect.NewClient(append(base, opts...)...)

	t.Cleanup(func() {
		if err := c.AssertAllRequestsSent(); err != nil {
			t.Errorf("%v", err)
		}
	})
	return c
}

// NewHTTPClient is New plus an *http.Client that sends through the expect client.
func NewHTTPClient(t testing.TB, opts ...expect.Option) (*http.Client, *expect.Client) {
	t.Helper()
	c := New(t, opts...)
	return c.HTTPClient(), c
}

// LoadFixture loads the fixture at path and appends its expectations to c,
// failing the test if it cannot.
func LoadFixture(t testing.TB, c *expect.Client, path string) {
	t.Helper()

	f, err := fixture.LoadFile(path)
	if err != nil {
		t.Fatalf("loading fixture: %v", err)
		return
	}
	if err := f.Apply(c); err != nil {
		t.Fatalf("applying fixture: %v", err)
	}
}

// AssertRequested asserts that at least one dispatched request matched method and uri.
// Method and uri accept the same values as expect.NewExpectation.
func AssertRequested(t testing.TB, c *expect.Client, method, uri any) {
	t.Helper()

	count, ok := countRequests(t, c, method, uri)
	if ok && count == 0 {
		t.Errorf("expected a request with method %s and URI %s, but none was sent",
			describe(method), describe(uri))
	}
}

// AssertRequestedTimes asserts that exactly times dispatched requests matched method and uri.
func AssertRequestedTimes(t testing.TB, c *expect.Client, method, uri any, times int) {
	t.Helper()

	count, ok := countRequests(t, c, method, uri)
	if ok && count != times {
		t.Errorf("expected %d requests with method %s and URI %s, but %d were sent",
			times, describe(method), describe(uri), count)
	}
}

// AssertNotRequested asserts that no dispatched request matched method and uri.
func AssertNotRequested(t testing.TB, c *expect.Client, method, uri any) {
	t.Helper()

	count, ok := countRequests(t, c, method, uri)
	if ok && count > 0 {
		t.Errorf("expected no request with method %s and URI %s, but %d were sent",
			describe(method), describe(uri), count)
	}
}

// AssertNoRequests asserts that nothing was dispatched through c.
func AssertNoRequests(t testing.TB, c *expect.Client) {
	t.Helper()

	if n := c.History().Count(); n > 0 {
		t.Errorf("expected no requests, but %d were sent", n)
	}
}

func countRequests(t testing.TB, c *expect.Client, method, uri any) (int, bool) {
	t.Helper()

	methodMatcher, err := matching.Of(method)
	if err != nil {
		t.Errorf("method: %v", err)
		return 0, false
	}
	uriMatcher, err := matching.Of(uri)
	if err != nil {
		t.Errorf("URI: %v", err)
		return 0, false
	}

	count := 0
	for _, e := range c.Requests() {
		if methodMatcher.Match(e.Method) && uriMatcher.Match(e.URI) {
			count++
		}
	}
	return count, true
}

func describe(v any) string {
	if m, err := matching.Of(v); err == nil {
		return m.String()
	}
	return "?"
}

// tbWriter sends log output to the test log.
type tbWriter struct {
	t testing.TB
}

func (w tbWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
