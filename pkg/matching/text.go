package matching

import (
	"regexp"
	"strings"
)

type containsMatcher struct {
	substr string
}

// Contains matches values containing substr.
func Contains(substr string) Matcher {
	return containsMatcher{substr: substr}
}

func (m containsMatcher) Match(actual string) bool {
	return strings.Contains(actual, m.substr)
}

func (m containsMatcher) String() string {
	return "contains " + Quote(m.substr)
}

type prefixMatcher struct {
	prefix string
}

// Prefix matches values starting with prefix.
func Prefix(prefix string) Matcher {
	return prefixMatcher{prefix: prefix}
}

func (m prefixMatcher) Match(actual string) bool {
	return strings.HasPrefix(actual, m.prefix)
}

func (m prefixMatcher) String() string {
	return "starts with " + Quote(m.prefix)
}

type patternMatcher struct {
	pattern string
	re      *regexp.Regexp
	err     error
}

// Pattern matches values against an RE2 regular expression.
// An invalid pattern never matches; its compile error shows up in the description.
func Pattern(pattern string) Matcher {
	re, err := regexp.Compile(pattern)
	return patternMatcher{pattern: pattern, re: re, err: err}
}

func (m patternMatcher) Match(actual string) bool {
	if m.re == nil {
		return false
	}
	return m.re.MatchString(actual)
}

func (m patternMatcher) String() string {
	if m.err != nil {
		return "matches invalid pattern " + Quote(m.pattern) + " (" + m.err.Error() + ")"
	}
	return "matches pattern " + Quote(m.pattern)
}

type wildcardMatcher struct {
	pattern string
}

// Wildcard matches simple glob patterns: "prefix*", "*suffix" and "*middle*".
// A pattern without "*" is an exact match.
func Wildcard(pattern string) Matcher {
	return wildcardMatcher{pattern: pattern}
}

func (m wildcardMatcher) Match(actual string) bool {
	pattern := m.pattern
	if !strings.Contains(pattern, "*") {
		return actual == pattern
	}

	hasPrefix := strings.HasPrefix(pattern, "*")
	hasSuffix := strings.HasSuffix(pattern, "*")
	switch {
	case hasSuffix && !hasPrefix:
		return strings.HasPrefix(actual, strings.TrimSuffix(pattern, "*"))
	case hasPrefix && !hasSuffix:
		return strings.HasSuffix(actual, strings.TrimPrefix(pattern, "*"))
	case hasPrefix && hasSuffix:
		return strings.Contains(actual, strings.Trim(pattern, "*"))
	}
	return false
}

func (m wildcardMatcher) String() string {
	return "matches wildcard " + Quote(m.pattern)
}
