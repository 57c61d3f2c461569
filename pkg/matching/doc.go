// Package matching provides the value matchers used by request expectations.
//
// A Matcher checks an actual string (a method, a URI, a header line or a request
// body) and describes itself for failure messages:
//
//	m := matching.Equal("GET")
//	m.Match("GET")  // true
//	m.String()      // is equal to 'GET'
//
// Matchers cover the common cases:
//
//   - Literal values: Equal, Any
//   - Text: Contains, Prefix, Pattern (RE2), Wildcard (*suffix, prefix*, *middle*)
//   - JSON bodies: JSONEqual, JSONValue (structural), JSONPath, JSONSchema
//   - XML bodies: XPath
//   - GraphQL bodies: GraphQLOperation
//   - Expressions: Expr (expr-lang, with the actual value bound to "value")
//   - Composition: Not, AllOf, AnyOf, Func
//
// Matchers that can say more than "did not match" implement Explainer; the
// expectation engine appends that explanation to its failure message.
package matching
