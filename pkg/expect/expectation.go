package expect

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"github.com/getmockd/expect/internal/jsonenc"
	"github.com/getmockd/expect/pkg/matching"
)

// Expectation describes one expected request and the outcome it resolves to.
//
// Configuration methods return the same Expectation so calls can be chained.
// Configuration errors do not panic: the first one is recorded, reported by Err,
// and returned by Match wrapped in ErrInvalidExpectation.
type Expectation struct {
	method  matching.Matcher
	uri     matching.Matcher
	headers []headerExpectation
	body    matching.Matcher
	outcome outcome
	err     error // First error encountered during configuration
}

type headerExpectation struct {
	name    string
	matcher matching.Matcher
}

type outcomeKind int

const (
	outcomeRespond outcomeKind = iota
	outcomeFail
)

// outcome is what a matched expectation resolves to: a response or an error.
type outcome struct {
	kind   outcomeKind
	status int
	header http.Header
	body   []byte
	err    error
}

// NewExpectation creates an expectation for a request with the given method and URI.
// Each may be a literal string, a func(string) bool or a matching.Matcher.
// The default outcome is an empty 200 response.
func NewExpectation(method, uri any) *Expectation {
	e := &Expectation{
		outcome: outcome{kind: outcomeRespond, status: http.StatusOK, header: http.Header{}},
	}
	e.method = e.matcherFor("method", method)
	e.uri = e.matcherFor("URI", uri)
	return e
}

// setError records the first error encountered during configuration.
func (e *Expectation) setError(err error) {
	if e.err == nil {
		e.err = err
	}
}

// Err returns the first configuration error, if any.
func (e *Expectation) Err() error {
	return e.err
}

// matcherFor converts v to a matcher, recording an error and substituting a
// matcher that never matches when v is not supported.
func (e *Expectation) matcherFor(subject string, v any) matching.Matcher {
	m, err := matching.Of(v)
	if err != nil {
		e.setError(fmt.Errorf("%s: %w", subject, err))
		return matching.Func(fmt.Sprintf("is a valid matcher (%v)", err), nil)
	}
	return m
}

// Body sets the request body expectation, replacing any previous one.
//
// Strings, byte slices, funcs and matchers are handled as for NewExpectation.
// Any other value is encoded as JSON and compared structurally, so key order
// and whitespace in the actual body do not matter. Body(nil) removes the body check.
func (e *Expectation) Body(v any) *Expectation {
	switch v.(type) {
	case nil:
		e.body = nil
	case matching.Matcher, string, []byte, func(string) bool:
		e.body = e.matcherFor("body", v)
	default:
		m, err := matching.JSONValue(v)
		if err != nil {
			e.setError(fmt.Errorf("body: %w", err))
			m = matching.Func("is valid JSON", nil)
		}
		e.body = m
	}
	return e
}

// Headers sets the expected request headers, replacing any previously set.
// Names are case-insensitive. Values are literals or matchers applied to the
// header's values joined with ", ".
func (e *Expectation) Headers(headers map[string]any) *Expectation {
	e.headers = make([]headerExpectation, 0, len(headers))
	for name, v := range headers {
		canonical := http.CanonicalHeaderKey(name)
		e.headers = append(e.headers, headerExpectation{
			name:    canonical,
			matcher: e.matcherFor("header "+canonical, v),
		})
	}
	slices.SortFunc(e.headers, func(a, b headerExpectation) int {
		return strings.Compare(a.name, b.name)
	})
	return e
}

// ResponseOption configures the response produced by WillReturn.
type ResponseOption func(*outcome)

// WithStatus sets the response status code. The default is 200. Codes outside
// 100-599 are recorded as a configuration error.
func WithStatus(code int) ResponseOption {
	return func(o *outcome) {
		o.status = code
	}
}

// WithHeader adds a response header value.
func WithHeader(key, value string) ResponseOption {
	return func(o *outcome) {
		o.header.Add(key, value)
	}
}

// WithHeaders sets response headers, replacing existing values for the same keys.
func WithHeaders(headers map[string]string) ResponseOption {
	return func(o *outcome) {
		for k, v := range headers {
			o.header.Set(k, v)
		}
	}
}

// WillReturn makes the expectation resolve to a response with the given body,
// replacing any previous outcome.
//
// A string or []byte is used verbatim and nil yields an empty body. An io.Reader
// is read to the end now (and closed if it is an io.Closer). Any other value is
// encoded as JSON with non-ASCII characters escaped.
func (e *Expectation) WillReturn(body any, opts ...ResponseOption) *Expectation {
	o := outcome{kind: outcomeRespond, status: http.StatusOK, header: http.Header{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.status < 100 || o.status > 599 {
		e.setError(fmt.Errorf("response status %d out of range 100-599", o.status))
	}

	data, err := responseBody(body)
	if err != nil {
		e.setError(fmt.Errorf("response body: %w", err))
	}
	o.body = data

	e.outcome = o
	return e
}

func responseBody(body any) ([]byte, error) {
	switch v := body.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return slices.Clone(v), nil
	case io.Reader:
		data, err := io.ReadAll(v)
		if c, ok := v.(io.Closer); ok {
			if cerr := c.Close(); err == nil {
				err = cerr
			}
		}
		return data, err
	default:
		return jsonenc.MarshalASCII(v)
	}
}

// WillReturnError makes the expectation resolve to err, replacing any previous
// outcome. Match returns err unchanged.
func (e *Expectation) WillReturnError(err error) *Expectation {
	if err == nil {
		e.setError(errors.New("WillReturnError: error must not be nil"))
	}
	e.outcome = outcome{kind: outcomeFail, err: err}
	return e
}

// MethodDescription describes the method matcher.
func (e *Expectation) MethodDescription() string {
	return e.method.String()
}

// URIDescription describes the URI matcher.
func (e *Expectation) URIDescription() string {
	return e.uri.String()
}

func (e *Expectation) String() string {
	return fmt.Sprintf("method %s, URI %s", e.MethodDescription(), e.URIDescription())
}

// Match checks req against the expectation and resolves the outcome.
//
// The URI is checked first, then the method, the headers in name order, and
// the body. The first failed check is returned as an *AssertionError. When all
// checks pass, Match returns a new response or the configured error unchanged.
// The request body is restored so it can be read again.
func (e *Expectation) Match(req *http.Request) (*http.Response, error) {
	if err := e.check(req); err != nil {
		return nil, err
	}
	return e.outcome.resolve(req)
}

// check returns nil when req satisfies every configured matcher.
func (e *Expectation) check(req *http.Request) error {
	if e.err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidExpectation, e.err)
	}

	uri := requestURI(req)
	if !e.uri.Match(uri) {
		return mismatch("URI", e.uri, uri)
	}

	method := requestMethod(req)
	if !e.method.Match(method) {
		return mismatch("method", e.method, method)
	}

	for _, h := range e.headers {
		value, ok := headerValue(req, h.name)
		if !ok {
			return missingHeader(h.name, h.matcher)
		}
		if !h.matcher.Match(value) {
			return mismatch("header "+h.name, h.matcher, value)
		}
	}

	if e.body != nil {
		body, err := readBody(req)
		if err != nil {
			return fmt.Errorf("reading request body: %w", err)
		}
		if !e.body.Match(body) {
			return mismatch("body", e.body, body)
		}
	}
	return nil
}

func (o outcome) resolve(req *http.Request) (*http.Response, error) {
	if o.kind == outcomeFail {
		return nil, o.err
	}
	return newResponse(req, o.status, o.header, o.body), nil
}
