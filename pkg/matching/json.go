package matching

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/getmockd/expect/internal/jsonenc"
)

type jsonEqualMatcher struct {
	raw      string
	expected any
	err      error
}

// JSONEqual matches JSON documents structurally equal to expected: object key
// order, whitespace and escaping differences are ignored, numbers compare by value.
// An expected document that is not valid JSON never matches.
func JSONEqual(expected string) Matcher {
	m := jsonEqualMatcher{raw: expected}
	m.expected, m.err = decodeJSON(expected)
	return m
}

// JSONValue encodes v as JSON (keeping non-ASCII characters readable) and
// returns a JSONEqual matcher for it.
func JSONValue(v any) (Matcher, error) {
	raw, err := jsonenc.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encoding JSON expectation: %w", err)
	}
	return JSONEqual(raw), nil
}

func (m jsonEqualMatcher) Match(actual string) bool {
	if m.err != nil {
		return false
	}
	got, err := decodeJSON(actual)
	if err != nil {
		return false
	}
	return cmp.Equal(m.expected, got, numberComparer)
}

func (m jsonEqualMatcher) String() string {
	if m.err != nil {
		return "matches invalid JSON " + Quote(m.raw)
	}
	return "matches JSON " + Quote(m.raw)
}

// Explain returns a diff between the expected and actual documents.
func (m jsonEqualMatcher) Explain(actual string) string {
	if m.err != nil {
		return "expected value is not valid JSON: " + m.err.Error()
	}
	got, err := decodeJSON(actual)
	if err != nil {
		return "actual value is not valid JSON: " + err.Error()
	}
	diff := cmp.Diff(m.expected, got, numberComparer)
	if diff == "" {
		return ""
	}
	return "(-expected +actual):\n" + strings.TrimRight(diff, "\n")
}

// decodeJSON decodes a single JSON document keeping numbers as json.Number so
// integers beyond float64 precision are compared exactly.
func decodeJSON(s string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("invalid character after top-level value")
	}
	return v, nil
}

// numberComparer compares JSON numbers by exact value, so 1, 1.0 and 1e0 are
// equal while 9007199254740992 and 9007199254740993 are not.
var numberComparer = cmp.Comparer(func(a, b json.Number) bool {
	x, okX := new(big.Rat).SetString(string(a))
	y, okY := new(big.Rat).SetString(string(b))
	if !okX || !okY {
		return a == b
	}
	return x.Cmp(y) == 0
})
