package matching

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/parser"
)

type graphQLMatcher struct {
	operation string
}

// graphQLRequest is the JSON envelope of a GraphQL-over-HTTP request.
type graphQLRequest struct {
	Query         string `json:"query"`
	OperationName string `json:"operationName"`
}

// GraphQLOperation matches GraphQL request bodies that carry the named operation.
// The body may be the standard JSON envelope ({"query": ..., "operationName": ...})
// or a bare GraphQL document. When the envelope names an operation, that name
// must equal operation as well.
func GraphQLOperation(operation string) Matcher {
	return graphQLMatcher{operation: operation}
}

func (m graphQLMatcher) Match(actual string) bool {
	return m.check(actual) == nil
}

func (m graphQLMatcher) String() string {
	return "is GraphQL operation " + Quote(m.operation)
}

// Explain reports parse errors or the operations actually present.
func (m graphQLMatcher) Explain(actual string) string {
	if err := m.check(actual); err != nil {
		return err.Error()
	}
	return ""
}

func (m graphQLMatcher) check(actual string) error {
	req := graphQLRequest{Query: actual}
	var envelope graphQLRequest
	if err := json.Unmarshal([]byte(actual), &envelope); err == nil && envelope.Query != "" {
		req = envelope
	}

	if req.OperationName != "" && req.OperationName != m.operation {
		return fmt.Errorf("request names operation %q", req.OperationName)
	}

	doc, err := parser.ParseQuery(&ast.Source{Name: "request", Input: req.Query})
	if err != nil {
		return fmt.Errorf("invalid GraphQL document: %s", err.Error())
	}
	if doc.Operations.ForName(m.operation) == nil {
		names := make([]string, 0, len(doc.Operations))
		for _, op := range doc.Operations {
			names = append(names, op.Name)
		}
		return errors.New("document has operations " + fmt.Sprintf("%q", names))
	}
	return nil
}
