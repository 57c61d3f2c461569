// Package expect provides an HTTP client test double driven by an ordered
// queue of request expectations.
//
// A test declares the requests the code under test is expected to send, in
// order, together with the canned response or error each one resolves to.
// Every dispatched request consumes the expectation at the head of the queue,
// whether it matches or not, and at the end of the test AssertAllRequestsSent
// reports the expectations that were never consumed.
//
//	client := expect.NewClient()
//	client.ExpectRequest("POST", "https://api.example.com/users").
//	    Headers(map[string]any{"Content-Type": "application/json"}).
//	    Body(map[string]any{"name": "Alice"}).
//	    WillReturn(map[string]any{"id": 1}, expect.WithStatus(http.StatusCreated))
//	client.ExpectRequest("GET", matching.Prefix("https://api.example.com/users/")).
//	    WillReturnError(io.ErrUnexpectedEOF)
//
//	svc := NewService(client.HTTPClient())
//	// ... exercise svc ...
//	if err := client.AssertAllRequestsSent(); err != nil {
//	    t.Error(err)
//	}
//
// Method, URI and header arguments accept a literal string (exact equality),
// a func(string) bool, or any matching.Matcher. Expectations are checked in a
// fixed order: URI, method, headers, body.
//
// # Concurrency
//
// A Client and its Expectations are owned by a single test goroutine. They are
// not safe for concurrent use; code under test that sends requests in parallel
// should be given its own client per goroutine.
//
// The pkg/testing package wires AssertAllRequestsSent into t.Cleanup.
package expect
