package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGraphQLOperation(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"json envelope", `{"query":"query GetUser($id: ID!) { user(id: $id) { name } }","variables":{"id":"1"}}`, true},
		{"envelope with operation name", `{"query":"query GetUser { user { name } } query Other { a }","operationName":"GetUser"}`, true},
		{"envelope names another operation", `{"query":"query GetUser { user { name } } query Other { a }","operationName":"Other"}`, false},
		{"bare document", `mutation GetUser { x }`, true},
		{"different operation", `{"query":"query ListUsers { users { name } }"}`, false},
		{"invalid document", `{"query":"query GetUser {"}`, false},
	}

	m := GraphQLOperation("GetUser")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(tt.body))
		})
	}
}

func TestGraphQLOperation_Explain(t *testing.T) {
	m := GraphQLOperation("GetUser")
	assert.Equal(t, "is GraphQL operation 'GetUser'", m.String())
	assert.Contains(t, Explain(m, `query ListUsers { users { name } }`), "ListUsers")
	assert.Empty(t, Explain(m, `query GetUser { user { name } }`))
}
