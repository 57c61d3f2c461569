package fixture

import (
	"gopkg.in/yaml.v3"
)

// File is a parsed fixture.
type File struct {
	// Path is the file the fixture was loaded from, empty for Parse.
	Path string `yaml:"-"`

	// BaseDir resolves response file references.
	BaseDir string `yaml:"-"`

	Name    string  `yaml:"name,omitempty"`
	Entries []Entry `yaml:"expectations"`
}

// Entry is one expected request and its outcome.
type Entry struct {
	Name     string    `yaml:"name,omitempty"`
	Request  Request   `yaml:"request"`
	Response *Response `yaml:"response,omitempty"`
	Error    string    `yaml:"error,omitempty"`
}

// Request holds the matchers for a request.
type Request struct {
	Method  MatcherSpec            `yaml:"method"`
	URI     MatcherSpec            `yaml:"uri"`
	Headers map[string]MatcherSpec `yaml:"headers,omitempty"`
	Body    *MatcherSpec           `yaml:"body,omitempty"`
}

// Response describes a canned response.
type Response struct {
	Status  int               `yaml:"status,omitempty"`
	Headers map[string]string `yaml:"headers,omitempty"`
	Body    *string           `yaml:"body,omitempty"`
	JSON    any               `yaml:"json,omitempty"`
	File    string            `yaml:"file,omitempty"`
}

// MatcherSpec is a matcher as written in a fixture: a scalar or a single-key mapping.
type MatcherSpec struct {
	value any
}

// UnmarshalYAML keeps the decoded node for Build.
func (m *MatcherSpec) UnmarshalYAML(node *yaml.Node) error {
	return node.Decode(&m.value)
}

// IsZero reports whether the spec was left empty.
func (m MatcherSpec) IsZero() bool {
	return m.value == nil
}
