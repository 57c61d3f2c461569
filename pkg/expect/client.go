package expect

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/getmockd/expect/pkg/logging"
	"github.com/getmockd/expect/pkg/requestlog"
)

// Client is an HTTP client test double that resolves each request against the
// next pending Expectation.
//
// A Client is not safe for concurrent use.
type Client struct {
	name    string
	pending []*Expectation
	history requestlog.Store
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. Without it the client logs according to
// EXPECT_LOG_LEVEL and EXPECT_LOG_FORMAT, and is silent when both are unset.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithName names the client in log records, which helps when a test uses several.
func WithName(name string) Option {
	return func(c *Client) {
		c.name = name
	}
}

// WithHistory records dispatched requests in store instead of a private MemoryStore.
func WithHistory(store requestlog.Store) Option {
	return func(c *Client) {
		c.history = store
	}
}

// NewClient creates a client with an empty expectation queue.
func NewClient(opts ...Option) *Client {
	c := &Client{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = logging.FromEnv(os.Stderr)
	}
	if c.history == nil {
		c.history = requestlog.NewMemoryStore(requestlog.DefaultCapacity)
	}
	if c.name != "" {
		c.logger = c.logger.With("client", c.name)
	}
	return c
}

// ExpectRequest appends a new expectation to the queue and returns it for
// further configuration. See NewExpectation for the accepted argument types.
func (c *Client) ExpectRequest(method, uri any) *Expectation {
	e := NewExpectation(method, uri)
	c.pending = append(c.pending, e)
	return e
}

// Expect appends already built expectations to the queue.
func (c *Client) Expect(expectations ...*Expectation) {
	c.pending = append(c.pending, expectations...)
}

// Dispatch resolves req against the expectation at the head of the queue.
//
// The head expectation is consumed whether or not req matches it. With an
// empty queue Dispatch returns an ErrUnexpectedRequest failure. A request body
// that cannot be read consumes the head and the read error is returned. The
// error set with WillReturnError is returned unchanged.
func (c *Client) Dispatch(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("expect: nil request")
	}

	method, uri := requestMethod(req), requestURI(req)
	c.logger.Debug("dispatching request", "method", method, "uri", uri, "pending", len(c.pending))

	entry := &requestlog.Entry{
		Method:  method,
		URI:     uri,
		Headers: req.Header.Clone(),
	}
	body, readErr := readBody(req)
	if readErr == nil {
		entry.SetBody(body)
	}

	if len(c.pending) == 0 {
		err := unexpectedRequest(method, uri)
		entry.Outcome = requestlog.OutcomeUnexpected
		entry.Error = err.Error()
		c.history.Log(entry)
		c.logger.Warn("unexpected request", "method", method, "uri", uri)
		return nil, err
	}

	e := c.pending[0]
	c.pending[0] = nil
	c.pending = c.pending[1:]
	entry.Expectation = e.String()

	if readErr != nil {
		err := fmt.Errorf("expect: reading request body: %w", readErr)
		entry.Outcome = requestlog.OutcomeUnreadable
		entry.Error = err.Error()
		c.history.Log(entry)
		c.logger.Warn("request body could not be read",
			"method", method, "uri", uri, "expectation", entry.Expectation, "error", readErr)
		return nil, err
	}

	if err := e.check(req); err != nil {
		entry.Outcome = requestlog.OutcomeMismatch
		entry.Error = err.Error()
		c.history.Log(entry)
		c.logger.Warn("request did not match expectation",
			"method", method, "uri", uri, "expectation", entry.Expectation, "error", err)
		return nil, err
	}

	resp, err := e.outcome.resolve(req)
	if err != nil {
		entry.Outcome = requestlog.OutcomeFailed
		entry.Error = err.Error()
		c.logger.Debug("request matched, returning error", "method", method, "uri", uri, "error", err)
	} else {
		entry.Outcome = requestlog.OutcomeResponded
		entry.ResponseStatus = resp.StatusCode
		c.logger.Debug("request matched", "method", method, "uri", uri, "status", resp.StatusCode)
	}
	c.history.Log(entry)
	return resp, err
}

// Do is Dispatch under the name used by HTTP doer interfaces.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.Dispatch(req)
}

// RoundTrip implements http.RoundTripper. The request is not modified and its
// body is closed.
func (c *Client) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("expect: nil request")
	}
	body := req.Body
	if body != nil {
		defer body.Close()
	}
	return c.Dispatch(req.Clone(req.Context()))
}

// HTTPClient returns an *http.Client that sends every request through c.
// Redirect responses are returned to the caller rather than followed.
func (c *Client) HTTPClient() *http.Client {
	return &http.Client{
		Transport: c,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// AssertAllRequestsSent returns an ErrUnfulfilled failure listing every pending
// expectation in declaration order, or nil when the queue is empty.
// It does not modify the queue.
func (c *Client) AssertAllRequestsSent() error {
	if len(c.pending) == 0 {
		return nil
	}
	c.logger.Warn("expected requests were not sent", "pending", len(c.pending))
	return unfulfilled(c.pending)
}

// Pending returns the number of expectations not yet consumed.
func (c *Client) Pending() int {
	return len(c.pending)
}

// Requests returns the dispatched requests in order.
func (c *Client) Requests() []*requestlog.Entry {
	return c.history.List(nil)
}

// History returns the store dispatched requests are recorded in.
func (c *Client) History() requestlog.Store {
	return c.history
}

// Reset drops all pending expectations and clears the request history.
func (c *Client) Reset() {
	c.pending = nil
	c.history.Clear()
}

var (
	_ http.RoundTripper = (*Client)(nil)
)
