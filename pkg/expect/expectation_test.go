package expect

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/getmockd/expect/pkg/matching"
)

func newRequest(method, uri, body string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return httptest.NewRequest(method, uri, r)
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func TestExpectation_DefaultOutcome(t *testing.T) {
	e := NewExpectation("GET", "http://example.com/a")

	resp, err := e.Match(newRequest("GET", "http://example.com/a", ""))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "200 OK", resp.Status)
	assert.Empty(t, resp.Header)
	assert.Equal(t, "", readAll(t, resp))
}

func TestExpectation_Descriptions(t *testing.T) {
	e := NewExpectation("GET", matching.Prefix("http://example.com/"))
	assert.Equal(t, "is equal to 'GET'", e.MethodDescription())
	assert.Equal(t, "starts with 'http://example.com/'", e.URIDescription())
	assert.Equal(t, "method is equal to 'GET', URI starts with 'http://example.com/'", e.String())
}

func TestExpectation_CallbackMatchers(t *testing.T) {
	e := NewExpectation(func(m string) bool { return m == "PUT" || m == "PATCH" }, "http://x/")
	_, err := e.Match(newRequest("PATCH", "http://x/", ""))
	assert.NoError(t, err)
	assert.Equal(t, "satisfies callback", e.MethodDescription())
}

func TestExpectation_URICheckedBeforeMethod(t *testing.T) {
	e := NewExpectation("GET", "http://example.com/expected")

	_, err := e.Match(newRequest("POST", "http://example.com/actual", ""))

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.ErrorIs(t, err, ErrUnmatched)
	assert.Equal(t, "URI", ae.Subject)
	assert.Equal(t, "http://example.com/actual", ae.Actual)
	assert.Equal(t, "failed asserting that URI 'http://example.com/actual' is equal to 'http://example.com/expected'", err.Error())
}

func TestExpectation_MethodMismatch(t *testing.T) {
	e := NewExpectation("GET", "http://example.com/")

	_, err := e.Match(newRequest("DELETE", "http://example.com/", ""))

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "method", ae.Subject)
	assert.Equal(t, "is equal to 'GET'", ae.Expected)
	assert.Equal(t, "DELETE", ae.Actual)
}

func TestExpectation_MismatchQuotesTruncatedValue(t *testing.T) {
	e := NewExpectation("POST", "http://x/").Body("short")
	body := strings.Repeat("y", maxQuotedValue*2)

	_, err := e.Match(newRequest("POST", "http://x/", body))

	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, body, ae.Actual)
	assert.Equal(t,
		"failed asserting that body '"+body[:maxQuotedValue]+"...(truncated)' is equal to 'short'",
		err.Error())
}

func TestExpectation_Headers(t *testing.T) {
	tests := []struct {
		name    string
		headers http.Header
		wantErr error
	}{
		{"equal", http.Header{"Foo": {"bar"}}, nil},
		{"missing", http.Header{}, ErrMissingHeader},
		{"unequal", http.Header{"Foo": {"baz"}}, ErrUnmatched},
		{"multi-value joined", http.Header{"Foo": {"b", "ar"}}, ErrUnmatched},
		{"non-canonical key", http.Header{"foo": {"bar"}}, nil},
		{"non-canonical key unequal", http.Header{"FOO": {"baz"}}, ErrUnmatched},
		{"non-canonical keys joined", http.Header{"foo": {"b"}, "fOO": {"ar"}}, ErrUnmatched},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExpectation("GET", "http://x/").Headers(map[string]any{"foo": "bar"})
			req := newRequest("GET", "http://x/", "")
			req.Header = tt.headers

			_, err := e.Match(req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExpectation_HeaderMessages(t *testing.T) {
	e := NewExpectation("GET", "http://x/").Headers(map[string]any{"x-trace": matching.Prefix("abc")})

	_, err := e.Match(newRequest("GET", "http://x/", ""))
	assert.EqualError(t, err, "failed asserting that request has header X-Trace")

	req := newRequest("GET", "http://x/", "")
	req.Header.Add("X-Trace", "one")
	req.Header.Add("X-Trace", "two")
	_, err = e.Match(req)
	assert.EqualError(t, err, "failed asserting that header X-Trace 'one, two' starts with 'abc'")
}

func TestExpectation_HeadersReplaceAndOrder(t *testing.T) {
	e := NewExpectation("GET", "http://x/").
		Headers(map[string]any{"Old": "gone"}).
		Headers(map[string]any{"b-second": "2", "a-first": "1"})

	req := newRequest("GET", "http://x/", "")
	_, err := e.Match(req)

	// Headers are checked in name order, and Old is no longer expected.
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "header A-First", ae.Subject)

	req.Header.Set("A-First", "1")
	req.Header.Set("B-Second", "2")
	_, err = e.Match(req)
	assert.NoError(t, err)
}

func TestExpectation_HostHeader(t *testing.T) {
	e := NewExpectation("GET", "http://api.example.com/").Headers(map[string]any{"Host": "api.example.com"})
	_, err := e.Match(newRequest("GET", "http://api.example.com/", ""))
	assert.NoError(t, err)
}

func TestExpectation_StructuredBody(t *testing.T) {
	e := func() *Expectation {
		return NewExpectation("POST", "http://x/").Body(map[string]any{"foo": "bar"})
	}

	_, err := e().Match(newRequest("POST", "http://x/", `{"foo": "bar"}`))
	assert.NoError(t, err)

	_, err = e().Match(newRequest("POST", "http://x/", `{"foo":"baz"}`))
	assert.ErrorIs(t, err, ErrUnmatched)
	var ae *AssertionError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "body", ae.Subject)
	assert.Contains(t, ae.Detail, "(-expected +actual)")
}

func TestExpectation_StructuredBodyKeyOrderAndUnicode(t *testing.T) {
	e := NewExpectation("POST", "http://x/").Body(map[string]any{"a": 1, "name": "Тело <b>"})
	assert.Equal(t, `matches JSON '{"a":1,"name":"Тело <b>"}'`, e.body.String())

	_, err := e.Match(newRequest("POST", "http://x/", `{"name":"Тело <b>","a":1.0}`))
	assert.NoError(t, err)
}

func TestExpectation_StructuredBodyLargeIntegers(t *testing.T) {
	e := func() *Expectation {
		return NewExpectation("POST", "http://x/").Body(map[string]any{"id": int64(9007199254740993)})
	}

	_, err := e().Match(newRequest("POST", "http://x/", `{"id":9007199254740993}`))
	assert.NoError(t, err)

	_, err = e().Match(newRequest("POST", "http://x/", `{"id":9007199254740992}`))
	assert.ErrorIs(t, err, ErrUnmatched)
}

func TestExpectation_StringBodyIsExact(t *testing.T) {
	e := NewExpectation("POST", "http://x/").Body(`{"foo":"bar"}`)
	_, err := e.Match(newRequest("POST", "http://x/", `{"foo": "bar"}`))
	assert.ErrorIs(t, err, ErrUnmatched)
}

func TestExpectation_BodyReplacedAndCleared(t *testing.T) {
	e := NewExpectation("POST", "http://x/").Body("first").Body("second")
	_, err := e.Match(newRequest("POST", "http://x/", "second"))
	assert.NoError(t, err)

	e.Body(nil)
	_, err = e.Match(newRequest("POST", "http://x/", "anything"))
	assert.NoError(t, err)
}

func TestExpectation_BodyRestoredAfterMatch(t *testing.T) {
	req := newRequest("POST", "http://x/", "payload")
	_, err := NewExpectation("POST", "http://x/").Body("payload").Match(req)
	require.NoError(t, err)

	data, err := io.ReadAll(req.Body)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}

func TestExpectation_WillReturnBodies(t *testing.T) {
	tests := []struct {
		name string
		body any
		want string
	}{
		{"string", "plain text", "plain text"},
		{"nil", nil, ""},
		{"bytes", []byte{0x00, 0xff}, "\x00\xff"},
		{"reader", strings.NewReader("streamed"), "streamed"},
		{"map", map[string]any{"foo": "bar", "a": 1}, `{"a":1,"foo":"bar"}`},
		{"unicode escaped", map[string]string{"t": "\u0422\u0435\u043b\u043e"}, `{"t":"\u0422\u0435\u043b\u043e"}`},
		{"struct order kept", struct {
			Z string `json:"z"`
			A string `json:"a"`
		}{"1", "2"}, `{"z":"1","a":"2"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewExpectation("GET", "http://x/").WillReturn(tt.body)
			require.NoError(t, e.Err())

			resp, err := e.Match(newRequest("GET", "http://x/", ""))
			require.NoError(t, err)
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, tt.want, readAll(t, resp))
			assert.Equal(t, int64(len(tt.want)), resp.ContentLength)
		})
	}
}

func TestExpectation_WillReturnJSONRoundTrip(t *testing.T) {
	e := NewExpectation("GET", "http://x/").WillReturn(map[string]any{"foo": "bar"})
	resp, err := e.Match(newRequest("GET", "http://x/", ""))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, map[string]any{"foo": "bar"}, got)
}

func TestExpectation_WillReturnStatusAndHeaders(t *testing.T) {
	e := NewExpectation("GET", "http://x/").WillReturn("created",
		WithStatus(http.StatusCreated),
		WithHeaders(map[string]string{"Location": "/users/1"}),
		WithHeader("Set-Cookie", "a=1"),
		WithHeader("Set-Cookie", "b=2"),
	)

	req := newRequest("GET", "http://x/", "")
	resp, err := e.Match(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "201 Created", resp.Status)
	assert.Equal(t, "/users/1", resp.Header.Get("Location"))
	assert.Equal(t, []string{"a=1", "b=2"}, resp.Header.Values("Set-Cookie"))
	assert.Same(t, req, resp.Request)
}

func TestExpectation_UnknownStatusText(t *testing.T) {
	resp, err := NewExpectation("GET", "http://x/").WillReturn("", WithStatus(599)).
		Match(newRequest("GET", "http://x/", ""))
	require.NoError(t, err)
	assert.Equal(t, "599", resp.Status)
}

func TestExpectation_FreshResponsePerMatch(t *testing.T) {
	e := NewExpectation("GET", "http://x/").WillReturn("body", WithHeader("X", "1"))

	first, err := e.Match(newRequest("GET", "http://x/", ""))
	require.NoError(t, err)
	assert.Equal(t, "body", readAll(t, first))
	first.Header.Set("X", "changed")

	second, err := e.Match(newRequest("GET", "http://x/", ""))
	require.NoError(t, err)
	assert.Equal(t, "body", readAll(t, second))
	assert.Equal(t, "1", second.Header.Get("X"))
}

func TestExpectation_OutcomeReplaced(t *testing.T) {
	boom := errors.New("boom")
	e := NewExpectation("GET", "http://x/").WillReturnError(boom).WillReturn("ok", WithStatus(202))

	resp, err := e.Match(newRequest("GET", "http://x/", ""))
	require.NoError(t, err)
	assert.Equal(t, 202, resp.StatusCode)

	e.WillReturnError(boom)
	resp, err = e.Match(newRequest("GET", "http://x/", ""))
	assert.Nil(t, resp)
	assert.Same(t, boom, err)
}

func TestExpectation_WillReturnError(t *testing.T) {
	sentinel := errors.New("connection reset by peer")
	e := NewExpectation("GET", "http://x/").WillReturnError(sentinel)

	_, err := e.Match(newRequest("GET", "http://x/", ""))
	assert.Equal(t, sentinel, err)
}

func TestExpectation_ErrorNotReturnedOnMismatch(t *testing.T) {
	e := NewExpectation("GET", "http://x/").WillReturnError(errors.New("boom"))
	_, err := e.Match(newRequest("GET", "http://y/", ""))
	assert.ErrorIs(t, err, ErrUnmatched)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }

func TestExpectation_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Expectation
		want  string
	}{
		{"unsupported method", func() *Expectation { return NewExpectation(42, "http://x/") }, "method: unsupported matcher value: int"},
		{"nil uri", func() *Expectation { return NewExpectation("GET", nil) }, "URI: unsupported matcher value: nil"},
		{"unsupported header", func() *Expectation {
			return NewExpectation("GET", "http://x/").Headers(map[string]any{"a": 1})
		}, "header A: unsupported matcher value: int"},
		{"unencodable body", func() *Expectation {
			return NewExpectation("GET", "http://x/").Body(map[string]any{"c": make(chan int)})
		}, "body: encoding JSON expectation"},
		{"unreadable response", func() *Expectation {
			return NewExpectation("GET", "http://x/").WillReturn(failingReader{})
		}, "response body: disk gone"},
		{"nil error", func() *Expectation {
			return NewExpectation("GET", "http://x/").WillReturnError(nil)
		}, "WillReturnError: error must not be nil"},
		{"negative status", func() *Expectation {
			return NewExpectation("GET", "http://x/").WillReturn("", WithStatus(-5))
		}, "response status -5 out of range"},
		{"status below range", func() *Expectation {
			return NewExpectation("GET", "http://x/").WillReturn("", WithStatus(99))
		}, "response status 99 out of range"},
		{"status above range", func() *Expectation {
			return NewExpectation("GET", "http://x/").WillReturn("", WithStatus(600))
		}, "response status 600 out of range"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := tt.build()
			require.Error(t, e.Err())
			assert.Contains(t, e.Err().Error(), tt.want)

			_, err := e.Match(newRequest("GET", "http://x/", ""))
			assert.ErrorIs(t, err, ErrInvalidExpectation)
		})
	}
}

func TestExpectation_FirstConfigurationErrorWins(t *testing.T) {
	e := NewExpectation(1, 2)
	assert.Contains(t, e.Err().Error(), "method")
	assert.Contains(t, e.URIDescription(), "is a valid matcher")
}

type closeTracker struct {
	io.Reader
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

func TestExpectation_WillReturnClosesReader(t *testing.T) {
	rc := &closeTracker{Reader: strings.NewReader("data")}
	NewExpectation("GET", "http://x/").WillReturn(rc)
	assert.True(t, rc.closed)
}
