// Package requestlog records the requests an expectation client has dispatched.
//
// The history is for test authors who want to see what the code under test
// actually sent, which expectation each request was matched against, and how
// it was resolved. It is distinct from operational logging (log/slog).
//
// # Core Types
//
// Entry is one dispatched request together with its resolution: a canned
// response, a canned error, a failed match, or an unexpected request.
//
// Store is the history interface; MemoryStore is the bounded in-memory
// implementation every client uses unless another Store is supplied.
//
//	store := requestlog.NewMemoryStore(100)
//	client := expect.NewClient(expect.WithHistory(store))
//	// ... exercise code under test ...
//	for _, e := range store.List(&requestlog.Filter{Method: "POST"}) {
//	    fmt.Println(e.Method, e.URI, e.Outcome)
//	}
//
// # Package Design
//
// This is a leaf package with no internal dependencies, allowing it to be
// imported by any package without creating import cycles.
package requestlog
