// Package testing wires expect clients into Go tests.
//
// New returns a client whose pending expectations are checked when the test
// finishes, so a test only declares what it expects:
//
//	func TestCreateUser(t *testing.T) {
//	    httpClient, c := expecttest.NewHTTPClient(t)
//
//	    c.ExpectRequest("POST", "https://api.example.com/users").
//	        Body(map[string]any{"name": "Alice"}).
//	        WillReturn(map[string]any{"id": 1}, expect.WithStatus(201))
//
//	    svc := users.NewService(httpClient)
//	    if _, err := svc.Create("Alice"); err != nil {
//	        t.Fatal(err)
//	    }
//	}
//
// # Fixtures
//
// Expectations can be loaded from fixture files (see pkg/fixture):
//
//	c := expecttest.New(t)
//	expecttest.LoadFixture(t, c, "testdata/signup.yaml")
//
// # Assertions
//
// Verify what the code under test sent:
//
//	expecttest.AssertRequested(t, c, "POST", "https://api.example.com/users")
//	expecttest.AssertRequestedTimes(t, c, "GET", matching.Prefix("https://api.example.com/"), 2)
//	expecttest.AssertNotRequested(t, c, "DELETE", matching.Any())
//
//	for _, req := range expecttest.Requests(c) {
//	    req.AssertHeader(t, "Content-Type", "application/json")
//	    req.AssertJSONField(t, "$.name", "Alice")
//	}
//
// Client logs are written to the test log when EXPECT_LOG_LEVEL or
// EXPECT_LOG_FORMAT is set.
package testing
