package matching

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaResource = "expectation.schema.json"

type jsonSchemaMatcher struct {
	schema *jsonschema.Schema
	err    error
}

// JSONSchema matches JSON documents valid against a JSON Schema (draft 2020-12).
// The schema may be given as raw JSON text ([]byte or string) or as a value
// that encodes to one. A schema that fails to compile never matches.
func JSONSchema(schema any) Matcher {
	s, err := compileSchema(schema)
	return jsonSchemaMatcher{schema: s, err: err}
}

func compileSchema(schema any) (*jsonschema.Schema, error) {
	var raw string
	switch v := schema.(type) {
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal schema: %w", err)
		}
		raw = string(data)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaResource, strings.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	return compiler.Compile(schemaResource)
}

func (m jsonSchemaMatcher) Match(actual string) bool {
	return m.validate(actual) == nil
}

func (m jsonSchemaMatcher) String() string {
	if m.err != nil {
		return "matches invalid JSON schema (" + m.err.Error() + ")"
	}
	return "matches JSON schema"
}

// Explain lists the schema violations of actual.
func (m jsonSchemaMatcher) Explain(actual string) string {
	err := m.validate(actual)
	if err == nil {
		return ""
	}
	var verr *jsonschema.ValidationError
	if errors.As(err, &verr) {
		return strings.Join(schemaViolations(verr, nil), "; ")
	}
	return err.Error()
}

func (m jsonSchemaMatcher) validate(actual string) error {
	if m.err != nil {
		return m.err
	}
	var doc any
	if err := json.Unmarshal([]byte(actual), &doc); err != nil {
		return fmt.Errorf("actual value is not valid JSON: %w", err)
	}
	return m.schema.Validate(doc)
}

// schemaViolations flattens a validation error tree into "location: message" lines.
func schemaViolations(err *jsonschema.ValidationError, out []string) []string {
	if len(err.Causes) == 0 {
		location := err.InstanceLocation
		if location == "" {
			location = "/"
		}
		return append(out, location+": "+err.Message)
	}
	for _, cause := range err.Causes {
		out = schemaViolations(cause, out)
	}
	return out
}
