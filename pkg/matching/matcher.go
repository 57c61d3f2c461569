package matching

import (
	"errors"
	"fmt"
	"strings"
)

// Matcher evaluates an actual value and describes the condition it checks.
type Matcher interface {
	// Match reports whether actual satisfies the condition.
	Match(actual string) bool

	// String renders the condition for failure messages, e.g. "is equal to 'GET'".
	String() string
}

// Explainer is implemented by matchers that can describe why a value did not match.
type Explainer interface {
	Explain(actual string) string
}

// ErrUnsupportedValue is returned by Of for values that are neither literals nor matchers.
var ErrUnsupportedValue = errors.New("unsupported matcher value")

// Explain returns the mismatch explanation of m for actual, or "" when m does not
// implement Explainer.
func Explain(m Matcher, actual string) string {
	if e, ok := m.(Explainer); ok {
		return e.Explain(actual)
	}
	return ""
}

// Of converts a literal or a matcher into a Matcher.
// Strings and byte slices become Equal matchers, func(string) bool becomes a Func
// matcher, and Matcher values are returned unchanged.
func Of(v any) (Matcher, error) {
	switch t := v.(type) {
	case Matcher:
		return t, nil
	case string:
		return Equal(t), nil
	case []byte:
		return Equal(string(t)), nil
	case func(string) bool:
		return Func("satisfies callback", t), nil
	case nil:
		return nil, fmt.Errorf("%w: nil", ErrUnsupportedValue)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, v)
	}
}

type equalMatcher struct {
	expected string
}

// Equal matches values equal to expected.
func Equal(expected string) Matcher {
	return equalMatcher{expected: expected}
}

func (m equalMatcher) Match(actual string) bool {
	return actual == m.expected
}

func (m equalMatcher) String() string {
	return "is equal to " + Quote(m.expected)
}

type funcMatcher struct {
	description string
	fn          func(string) bool
}

// Func adapts a predicate function into a Matcher with the given description.
func Func(description string, fn func(actual string) bool) Matcher {
	return funcMatcher{description: description, fn: fn}
}

func (m funcMatcher) Match(actual string) bool {
	if m.fn == nil {
		return false
	}
	return m.fn(actual)
}

func (m funcMatcher) String() string {
	return m.description
}

type anyMatcher struct{}

// Any matches every value.
func Any() Matcher {
	return anyMatcher{}
}

func (anyMatcher) Match(string) bool { return true }

func (anyMatcher) String() string { return "is anything" }

type notMatcher struct {
	inner Matcher
}

// Not inverts m.
func Not(m Matcher) Matcher {
	return notMatcher{inner: m}
}

func (m notMatcher) Match(actual string) bool {
	return !m.inner.Match(actual)
}

func (m notMatcher) String() string {
	return "not (" + m.inner.String() + ")"
}

type allOfMatcher struct {
	matchers []Matcher
}

// AllOf matches when every matcher matches. An empty AllOf matches everything.
func AllOf(matchers ...Matcher) Matcher {
	return allOfMatcher{matchers: matchers}
}

func (m allOfMatcher) Match(actual string) bool {
	for _, inner := range m.matchers {
		if !inner.Match(actual) {
			return false
		}
	}
	return true
}

func (m allOfMatcher) String() string {
	return join(m.matchers, " and ")
}

func (m allOfMatcher) Explain(actual string) string {
	for _, inner := range m.matchers {
		if !inner.Match(actual) {
			if detail := Explain(inner, actual); detail != "" {
				return inner.String() + ": " + detail
			}
			return "failed: " + inner.String()
		}
	}
	return ""
}

type anyOfMatcher struct {
	matchers []Matcher
}

// AnyOf matches when at least one matcher matches. An empty AnyOf matches nothing.
func AnyOf(matchers ...Matcher) Matcher {
	return anyOfMatcher{matchers: matchers}
}

func (m anyOfMatcher) Match(actual string) bool {
	for _, inner := range m.matchers {
		if inner.Match(actual) {
			return true
		}
	}
	return false
}

func (m anyOfMatcher) String() string {
	return join(m.matchers, " or ")
}

func join(matchers []Matcher, sep string) string {
	parts := make([]string, len(matchers))
	for i, m := range matchers {
		parts[i] = m.String()
	}
	return strings.Join(parts, sep)
}

// Quote renders a value the way matcher descriptions show literals.
func Quote(s string) string {
	return "'" + s + "'"
}
