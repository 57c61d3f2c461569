package fixture

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/getmockd/expect/pkg/matching"
)

// ErrInvalidMatcher is returned for matcher specs that cannot be built.
var ErrInvalidMatcher = errors.New("invalid matcher")

// Build converts the spec into a matcher.
func (m MatcherSpec) Build() (matching.Matcher, error) {
	return buildMatcher(m.value)
}

func buildMatcher(v any) (matching.Matcher, error) {
	switch t := v.(type) {
	case nil:
		return nil, fmt.Errorf("%w: empty", ErrInvalidMatcher)
	case string:
		return matching.Equal(t), nil
	case int, int64, float64, bool:
		return matching.Equal(scalarString(t)), nil
	case map[string]any:
		if len(t) != 1 {
			return nil, fmt.Errorf("%w: expected exactly one of %v, got %d keys", ErrInvalidMatcher, matcherNames(), len(t))
		}
		for name, arg := range t {
			build, ok := matcherBuilders[name]
			if !ok {
				return nil, fmt.Errorf("%w: unknown matcher %q", ErrInvalidMatcher, name)
			}
			m, err := build(arg)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			return m, nil
		}
	}
	return nil, fmt.Errorf("%w: unsupported value %T", ErrInvalidMatcher, v)
}

func scalarString(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

var matcherBuilders map[string]func(arg any) (matching.Matcher, error)

func init() {
	matcherBuilders = map[string]func(arg any) (matching.Matcher, error){
		"equals":   stringMatcher(matching.Equal),
		"contains": stringMatcher(matching.Contains),
		"prefix":   stringMatcher(matching.Prefix),
		"pattern":  stringMatcher(matching.Pattern),
		"wildcard": stringMatcher(matching.Wildcard),
		"expr":     stringMatcher(matching.Expr),
		"graphql":  stringMatcher(matching.GraphQLOperation),
		"json":     buildJSON,
		"jsonPath": buildJSONPath,
		"schema": func(arg any) (matching.Matcher, error) {
			return matching.JSONSchema(arg), nil
		},
		"xpath": buildXPath,
		"any": func(any) (matching.Matcher, error) {
			return matching.Any(), nil
		},
		"not": func(arg any) (matching.Matcher, error) {
			inner, err := buildMatcher(arg)
			if err != nil {
				return nil, err
			}
			return matching.Not(inner), nil
		},
		"allOf": listMatcher(matching.AllOf),
		"anyOf": listMatcher(matching.AnyOf),
	}
}

func matcherNames() []string {
	names := make([]string, 0, len(matcherBuilders))
	for name := range matcherBuilders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func stringMatcher(fn func(string) matching.Matcher) func(any) (matching.Matcher, error) {
	return func(arg any) (matching.Matcher, error) {
		switch t := arg.(type) {
		case string:
			return fn(t), nil
		case int, int64, float64, bool:
			return fn(scalarString(t)), nil
		default:
			return nil, fmt.Errorf("%w: expected a string, got %T", ErrInvalidMatcher, arg)
		}
	}
}

func listMatcher(fn func(...matching.Matcher) matching.Matcher) func(any) (matching.Matcher, error) {
	return func(arg any) (matching.Matcher, error) {
		items, ok := arg.([]any)
		if !ok {
			return nil, fmt.Errorf("%w: expected a list, got %T", ErrInvalidMatcher, arg)
		}
		matchers := make([]matching.Matcher, 0, len(items))
		for i, item := range items {
			m, err := buildMatcher(item)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			matchers = append(matchers, m)
		}
		return fn(matchers...), nil
	}
}

// buildJSON treats a string as JSON text and anything else as a structured document.
func buildJSON(arg any) (matching.Matcher, error) {
	if s, ok := arg.(string); ok {
		return matching.JSONEqual(s), nil
	}
	return matching.JSONValue(arg)
}

func buildJSONPath(arg any) (matching.Matcher, error) {
	conditions, ok := arg.(map[string]any)
	if !ok || len(conditions) == 0 {
		return nil, fmt.Errorf("%w: expected a mapping of paths to values", ErrInvalidMatcher)
	}
	return matching.JSONPath(conditions), nil
}

func buildXPath(arg any) (matching.Matcher, error) {
	spec, ok := arg.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected {path, value}", ErrInvalidMatcher)
	}
	path, _ := spec["path"].(string)
	if path == "" {
		return nil, fmt.Errorf("%w: xpath requires a path", ErrInvalidMatcher)
	}
	value, ok := spec["value"]
	if !ok {
		return nil, fmt.Errorf("%w: xpath requires a value", ErrInvalidMatcher)
	}
	return matching.XPath(path, scalarString(value)), nil
}
