package testing

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/ohler55/ojg/jp"

	"github.com/getmockd/expect/pkg/expect"
	"github.com/getmockd/expect/pkg/requestlog"
)

// Request is a dispatched request with assertion helpers.
type Request struct {
	*requestlog.Entry
}

// Requests returns the requests dispatched through c, in order.
func Requests(c *expect.Client) []Request {
	entries := c.Requests()
	result := make([]Request, len(entries))
	for i, e := range entries {
		result[i] = Request{Entry: e}
	}
	return result
}

// normalizeJSON decodes expected (JSON text, bytes or a value to encode) into
// the generic form produced by encoding/json.
func normalizeJSON(expected any) (any, error) {
	var data []byte
	switch v := expected.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		var err error
		if data, err = json.Marshal(v); err != nil {
			return nil, err
		}
	}
	var out any
	err := json.Unmarshal(data, &out)
	return out, err
}

// AssertJSONBody asserts that the request body is structurally equal to expected.
// The expected value can be a string, []byte, or any struct/map that will be JSON encoded.
func (r Request) AssertJSONBody(t testing.TB, expected any) {
	t.Helper()

	expectedJSON, err := normalizeJSON(expected)
	if err != nil {
		t.Errorf("failed to parse expected JSON: %v", err)
		return
	}

	var actualJSON any
	if err := json.Unmarshal([]byte(r.Body), &actualJSON); err != nil {
		t.Errorf("request body is not valid JSON: %v\nbody: %s", err, r.Body)
		return
	}

	if diff := cmp.Diff(expectedJSON, actualJSON); diff != "" {
		t.Errorf("request body does not match expected JSON (-expected +actual):\n%s", diff)
	}
}

// AssertBody asserts that the request body exactly matches the expected string.
func (r Request) AssertBody(t testing.TB, expected string) {
	t.Helper()

	if r.Body != expected {
		t.Errorf("request body does not match\nexpected: %q\nactual: %q", expected, r.Body)
	}
}

// AssertBodyContains asserts that the request body contains the expected substring.
func (r Request) AssertBodyContains(t testing.TB, substr string) {
	t.Helper()

	if !strings.Contains(r.Body, substr) {
		t.Errorf("request body does not contain %q\nbody: %s", substr, r.Body)
	}
}

// Header returns the combined value of the named header and whether it was sent.
func (r Request) Header(key string) (string, bool) {
	values := http.Header(r.Headers).Values(key)
	if len(values) == 0 {
		return "", false
	}
	return strings.Join(values, ", "), true
}

// AssertHeader asserts that the request had the specified header with the expected value.
func (r Request) AssertHeader(t testing.TB, key, expected string) {
	t.Helper()

	actual, ok := r.Header(key)
	if !ok {
		t.Errorf("request does not have header %q", key)
		return
	}
	if actual != expected {
		t.Errorf("header %q value mismatch\nexpected: %q\nactual: %q", key, expected, actual)
	}
}

// AssertHeaderExists asserts that the request had the specified header (any value).
func (r Request) AssertHeaderExists(t testing.TB, key string) {
	t.Helper()

	if _, ok := r.Header(key); !ok {
		t.Errorf("request does not have header %q", key)
	}
}

// AssertQueryParam asserts that the request URI had the query parameter with the expected value.
func (r Request) AssertQueryParam(t testing.TB, key, expected string) {
	t.Helper()

	u, err := url.Parse(r.URI)
	if err != nil {
		t.Errorf("request URI %q is not valid: %v", r.URI, err)
		return
	}
	query := u.Query()
	if !query.Has(key) {
		t.Errorf("request does not have query parameter %q", key)
		return
	}
	if actual := query.Get(key); actual != expected {
		t.Errorf("query parameter %q value mismatch\nexpected: %q\nactual: %q", key, expected, actual)
	}
}

// JSONField evaluates a JSONPath expression such as "$.user.name" against the
// request body. It returns nil if the body is not valid JSON or nothing matches.
func (r Request) JSONField(path string) any {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil
	}
	var data any
	if err := json.Unmarshal([]byte(r.Body), &data); err != nil {
		return nil
	}
	results := expr.Get(data)
	if len(results) == 0 {
		return nil
	}
	return results[0]
}

// AssertJSONField asserts that the value at a JSONPath in the request body
// equals expected once both are in JSON form.
func (r Request) AssertJSONField(t testing.TB, path string, expected any) {
	t.Helper()

	actual := r.JSONField(path)
	if actual == nil {
		t.Errorf("JSON field %q not found in request body: %s", path, r.Body)
		return
	}

	want, err := normalizeJSON(expected)
	if _, isString := expected.(string); isString || err != nil {
		// Strings are compared as values, not parsed as JSON text.
		want = expected
	}
	if !cmp.Equal(actual, want) {
		t.Errorf("JSON field %q mismatch\nexpected: %v (%T)\nactual: %v (%T)",
			path, expected, expected, actual, actual)
	}
}
