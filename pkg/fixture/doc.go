// Package fixture loads expectation sequences from YAML or JSON files.
//
// A fixture lists expectations in the order the requests are expected:
//
//	expectations:
//	  - request:
//	      method: POST
//	      uri: https://api.example.com/users
//	      headers:
//	        Content-Type: application/json
//	        Authorization: { prefix: "Bearer " }
//	      body: { json: { name: Alice } }
//	    response:
//	      status: 201
//	      headers: { Location: /users/1 }
//	      json: { id: 1 }
//	  - request: { method: GET, uri: { pattern: "^https://api\\.example\\.com/users/\\d+$" } }
//	    error: connection reset by peer
//
// A scalar matcher means equality. A mapping with a single key selects one of
// the matchers in pkg/matching: equals, contains, prefix, pattern, wildcard,
// json, jsonPath, schema, expr, xpath, graphql, any, not, allOf, anyOf.
//
// A response has a status, headers and at most one of body (text), json
// (encoded like expect.Expectation.WillReturn) or file (read from disk,
// relative to the fixture). An error entry makes the request fail with that
// message instead.
//
// ${VAR} and ${VAR:-default} references are replaced from the environment
// before the file is parsed.
package fixture
