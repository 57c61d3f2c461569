package matching

import (
	"strings"

	"github.com/beevik/etree"
)

type xpathMatcher struct {
	path     string
	expected string
}

// XPath matches XML documents whose value at path equals expected.
//
// Supported paths are those of etree: /path/to/element, //element,
// /path/to/element[1], plus a trailing /@attr to select an attribute value.
// Element text is compared with surrounding whitespace trimmed.
func XPath(path, expected string) Matcher {
	return xpathMatcher{path: path, expected: expected}
}

func (m xpathMatcher) Match(actual string) bool {
	value, ok := extractXPath(actual, m.path)
	return ok && value == m.expected
}

func (m xpathMatcher) String() string {
	return "has XML value " + Quote(m.expected) + " at " + m.path
}

// Explain reports what was found at the path.
func (m xpathMatcher) Explain(actual string) string {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(actual); err != nil {
		return "actual value is not valid XML: " + err.Error()
	}
	value, ok := extractXPath(actual, m.path)
	if !ok {
		return "nothing found at " + m.path
	}
	return "found " + Quote(value)
}

// extractXPath returns the trimmed text (or attribute value) at xpath.
func extractXPath(document, xpath string) (string, bool) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(document); err != nil {
		return "", false
	}

	if elemPath, attrName, ok := strings.Cut(xpath, "/@"); ok {
		elem := doc.FindElement(elemPath)
		if elem == nil {
			return "", false
		}
		attr := elem.SelectAttr(attrName)
		if attr == nil {
			return "", false
		}
		return attr.Value, true
	}

	elem := doc.FindElement(xpath)
	if elem == nil {
		return "", false
	}
	return strings.TrimSpace(elem.Text()), true
}
