package matching

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/ohler55/ojg/jp"
)

type jsonPathCondition struct {
	path     string
	expr     jp.Expr
	expected any
	err      error
}

type jsonPathMatcher struct {
	conditions []jsonPathCondition
}

// JSONPath matches JSON documents where every path yields the expected value.
//
// An expected value of the form map[string]any{"exists": true} (or false) checks
// presence instead of a value. Wildcard paths match when any selected value is
// equal. Numbers compare by value, so 1 and 1.0 are equal. Invalid paths never match.
func JSONPath(conditions map[string]any) Matcher {
	m := jsonPathMatcher{conditions: make([]jsonPathCondition, 0, len(conditions))}
	for path, expected := range conditions {
		expr, err := jp.ParseString(path)
		m.conditions = append(m.conditions, jsonPathCondition{
			path:     path,
			expr:     expr,
			expected: expected,
			err:      err,
		})
	}
	sort.Slice(m.conditions, func(i, j int) bool {
		return m.conditions[i].path < m.conditions[j].path
	})
	return m
}

func (m jsonPathMatcher) Match(actual string) bool {
	return m.firstFailure(actual) == ""
}

func (m jsonPathMatcher) String() string {
	parts := make([]string, len(m.conditions))
	for i, c := range m.conditions {
		parts[i] = fmt.Sprintf("%s = %v", c.path, c.expected)
	}
	return "matches JSONPath {" + strings.Join(parts, ", ") + "}"
}

// Explain names the first condition the document does not satisfy.
func (m jsonPathMatcher) Explain(actual string) string {
	return m.firstFailure(actual)
}

func (m jsonPathMatcher) firstFailure(actual string) string {
	var data any
	if err := json.Unmarshal([]byte(actual), &data); err != nil {
		return "actual value is not valid JSON: " + err.Error()
	}
	for _, c := range m.conditions {
		if c.err != nil {
			return fmt.Sprintf("invalid JSONPath expression %q: %v", c.path, c.err)
		}
		if !matchJSONPathCondition(c, data) {
			return fmt.Sprintf("%s: expected %v, got %v", c.path, c.expected, describeResults(c.expr.Get(data)))
		}
	}
	return ""
}

func matchJSONPathCondition(c jsonPathCondition, data any) bool {
	results := c.expr.Get(data)

	if exists, ok := existenceCheck(c.expected); ok {
		return exists == (len(results) > 0)
	}

	for _, result := range results {
		if valuesEqual(result, c.expected) {
			return true
		}
	}
	return false
}

// existenceCheck reports whether expected is {"exists": bool} and returns the flag.
func existenceCheck(expected any) (bool, bool) {
	m, ok := expected.(map[string]any)
	if !ok || len(m) != 1 {
		return false, false
	}
	exists, ok := m["exists"].(bool)
	return exists, ok
}

func describeResults(results []any) string {
	switch len(results) {
	case 0:
		return "nothing"
	case 1:
		return fmt.Sprintf("%v", results[0])
	default:
		return fmt.Sprintf("%v", results)
	}
}

// valuesEqual compares a decoded JSON value with an expected value, treating all
// numeric types as comparable.
func valuesEqual(actual, expected any) bool {
	if actual == nil || expected == nil {
		return actual == nil && expected == nil
	}
	if reflect.DeepEqual(actual, expected) {
		return true
	}

	actualNum, actualIsNum := toFloat64(actual)
	expectedNum, expectedIsNum := toFloat64(expected)
	if actualIsNum && expectedIsNum {
		return actualNum == expectedNum
	}

	// Structured values (objects, arrays) compare after a JSON round trip so that
	// typed expectations such as []string match decoded []any.
	expectedJSON, err := json.Marshal(expected)
	if err != nil {
		return false
	}
	var normalized any
	if err := json.Unmarshal(expectedJSON, &normalized); err != nil {
		return false
	}
	return reflect.DeepEqual(actual, normalized)
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int16:
		return float64(n), true
	case int8:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint8:
		return float64(n), true
	default:
		return 0, false
	}
}
