package requestlog

import "time"

// Outcome describes how a dispatched request was resolved.
type Outcome string

// Dispatch outcomes.
const (
	// OutcomeResponded means the request matched and a canned response was returned.
	OutcomeResponded Outcome = "responded"

	// OutcomeFailed means the request matched and the canned error was returned.
	OutcomeFailed Outcome = "failed"

	// OutcomeMismatch means the request did not satisfy the expectation it was checked against.
	OutcomeMismatch Outcome = "mismatch"

	// OutcomeUnexpected means no expectation was pending.
	OutcomeUnexpected Outcome = "unexpected"

	// OutcomeUnreadable means the request body could not be read. The expectation
	// it was dispatched against is still consumed.
	OutcomeUnreadable Outcome = "unreadable"
)

// Entry captures one dispatched request and its resolution.
type Entry struct {
	// ID is a unique identifier for the entry.
	ID string `json:"id"`

	// Timestamp is when the request was dispatched.
	Timestamp time.Time `json:"timestamp"`

	// Sequence is the 1-based position of the request among all requests the client dispatched.
	Sequence int `json:"sequence"`

	// Method is the request method.
	Method string `json:"method"`

	// URI is the request URI as matched against expectations.
	URI string `json:"uri"`

	// Headers are the request headers (multi-value).
	Headers map[string][]string `json:"headers,omitempty"`

	// Body is the request body (truncated for large bodies).
	Body string `json:"body,omitempty"`

	// BodySize is the original body size in bytes.
	BodySize int `json:"bodySize"`

	// Expectation describes the expectation the request was checked against
	// (empty for unexpected requests).
	Expectation string `json:"expectation,omitempty"`

	// Outcome is how the request was resolved.
	Outcome Outcome `json:"outcome"`

	// ResponseStatus is the canned status code (zero unless Outcome is OutcomeResponded).
	ResponseStatus int `json:"responseStatus,omitempty"`

	// Error contains the returned error message, if any.
	Error string `json:"error,omitempty"`
}
