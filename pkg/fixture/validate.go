package fixture

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

//go:embed schema.json
var schemaJSON string

const schemaResource = "fixture.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func fixtureSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(schemaResource, strings.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("failed to add fixture schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaResource)
	})
	return compiledSchema, schemaErr
}

// Problem is a single validation failure.
type Problem struct {
	Path    string // JSON pointer into the fixture, e.g. "/expectations/0/request"
	Message string
}

func (p Problem) String() string {
	if p.Path != "" {
		return fmt.Sprintf("%s: %s", p.Path, p.Message)
	}
	return p.Message
}

// ValidationError lists every problem found in a fixture.
type ValidationError struct {
	Problems []Problem
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return "invalid fixture:\n  " + strings.Join(msgs, "\n  ")
}

// Validate checks fixture data against the fixture schema and then builds
// every expectation. Schema problems are reported as a *ValidationError.
func Validate(data []byte) error {
	if err := validateSchema(data); err != nil {
		return err
	}
	f, err := Parse(data)
	if err != nil {
		return err
	}
	_, err = f.Expectations()
	return err
}

// ValidateFile is Validate for a file on disk; response files are resolved
// relative to it.
func ValidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}
	if err := validateSchema(data); err != nil {
		return err
	}
	f, err := LoadFile(path)
	if err != nil {
		return err
	}
	_, err = f.Expectations()
	return err
}

func validateSchema(data []byte) error {
	var doc any
	if err := yaml.Unmarshal([]byte(ExpandEnvVars(string(data))), &doc); err != nil {
		return fmt.Errorf("parsing YAML: %w", err)
	}
	if doc == nil {
		return errors.New("fixture is empty")
	}

	// Round-trip through JSON so the validator sees JSON types.
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("converting to JSON: %w", err)
	}
	var instance any
	if err := json.Unmarshal(raw, &instance); err != nil {
		return fmt.Errorf("converting to JSON: %w", err)
	}

	schema, err := fixtureSchema()
	if err != nil {
		return err
	}
	if err := schema.Validate(instance); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return err
		}
		result := &ValidationError{}
		collectProblems(verr, result)
		return result
	}
	return nil
}

func collectProblems(err *jsonschema.ValidationError, result *ValidationError) {
	if len(err.Causes) == 0 {
		result.Problems = append(result.Problems, Problem{Path: err.InstanceLocation, Message: err.Message})
		return
	}
	for _, cause := range err.Causes {
		collectProblems(cause, result)
	}
}
