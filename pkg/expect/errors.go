package expect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/getmockd/expect/pkg/matching"
	"github.com/getmockd/expect/pkg/requestlog"
)

// Failure kinds carried by AssertionError.
var (
	// ErrUnmatched is reported when a method, URI, header or body matcher rejects the request.
	ErrUnmatched = errors.New("request did not match expectation")

	// ErrMissingHeader is reported when an expected header is absent from the request.
	ErrMissingHeader = errors.New("expected header is missing")

	// ErrUnexpectedRequest is reported when a request is dispatched with no pending expectation.
	ErrUnexpectedRequest = errors.New("unexpected request")

	// ErrUnfulfilled is reported by AssertAllRequestsSent while expectations are pending.
	ErrUnfulfilled = errors.New("expected requests were not sent")

	// ErrInvalidExpectation wraps configuration errors recorded while building an expectation.
	ErrInvalidExpectation = errors.New("invalid expectation")
)

// maxQuotedValue caps how much of an actual value is quoted in a failure message.
const maxQuotedValue = 2048

// AssertionError is a failed expectation check.
type AssertionError struct {
	// Kind is one of the Err* sentinels and is returned by Unwrap.
	Kind error

	// Subject names what was checked: "URI", "method", "header X-Foo" or "body".
	Subject string

	// Expected is the description of the matcher that was applied.
	Expected string

	// Actual is the value the matcher was applied to.
	Actual string

	// Detail is the matcher's own explanation of the mismatch, when it has one.
	Detail string

	msg string
}

func (e *AssertionError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	var b strings.Builder
	switch e.Kind {
	case ErrMissingHeader:
		fmt.Fprintf(&b, "failed asserting that request has %s", e.Subject)
	default:
		fmt.Fprintf(&b, "failed asserting that %s %s %s",
			e.Subject, matching.Quote(requestlog.Truncate(e.Actual, maxQuotedValue)), e.Expected)
	}
	if e.Detail != "" {
		b.WriteString("\n")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *AssertionError) Unwrap() error {
	return e.Kind
}

func mismatch(subject string, m matching.Matcher, actual string) *AssertionError {
	return &AssertionError{
		Kind:     ErrUnmatched,
		Subject:  subject,
		Expected: m.String(),
		Actual:   actual,
		Detail:   matching.Explain(m, actual),
	}
}

func missingHeader(name string, m matching.Matcher) *AssertionError {
	return &AssertionError{
		Kind:     ErrMissingHeader,
		Subject:  "header " + name,
		Expected: m.String(),
	}
}

func unexpectedRequest(method, uri string) *AssertionError {
	return &AssertionError{
		Kind:    ErrUnexpectedRequest,
		Subject: "request",
		Actual:  method + " " + uri,
		msg:     fmt.Sprintf("unexpected request: no expectation pending for %s %s", method, uri),
	}
}

func unfulfilled(pending []*Expectation) *AssertionError {
	var b strings.Builder
	b.WriteString("expected requests were not sent:")
	for _, e := range pending {
		fmt.Fprintf(&b, "\n\t%s.", e)
	}
	return &AssertionError{
		Kind:    ErrUnfulfilled,
		Subject: "client",
		msg:     b.String(),
	}
}
