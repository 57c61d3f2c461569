package fixture

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/expect/pkg/expect"
)

// Parse decodes fixture data after expanding environment references.
func Parse(data []byte) (*File, error) {
	if len(data) == 0 {
		return nil, errors.New("fixture is empty")
	}
	var f File
	if err := yaml.Unmarshal([]byte(ExpandEnvVars(string(data))), &f); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	return &f, nil
}

// LoadFile reads and parses the fixture at path. Response files are resolved
// relative to the fixture's directory.
func LoadFile(path string) (*File, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		if os.IsPermission(err) {
			return nil, fmt.Errorf("permission denied: %s", path)
		}
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	f.Path = path
	f.BaseDir = filepath.Dir(path)
	return f, nil
}

// LoadGlob loads every fixture matching pattern, in lexical path order.
// Relative patterns are resolved against baseDir; ** matches any number of
// directories. No match is not an error.
func LoadGlob(pattern, baseDir string) ([]*File, error) {
	matches, err := Glob(pattern, baseDir)
	if err != nil {
		return nil, err
	}

	files := make([]*File, 0, len(matches))
	for _, match := range matches {
		f, err := LoadFile(match)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// Glob expands pattern relative to baseDir and returns the sorted matches.
func Glob(pattern, baseDir string) ([]string, error) {
	if !filepath.IsAbs(pattern) && baseDir != "" {
		pattern = filepath.Join(baseDir, pattern)
	}
	matches, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return nil, fmt.Errorf("expanding glob pattern: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

// Expectations builds the fixture's expectations in order. Building stops at
// the first entry that cannot be built.
func (f *File) Expectations() ([]*expect.Expectation, error) {
	out := make([]*expect.Expectation, 0, len(f.Entries))
	for i := range f.Entries {
		e, err := f.build(&f.Entries[i])
		if err != nil {
			return nil, fmt.Errorf("expectations[%d]: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// Apply appends the fixture's expectations to c. Nothing is appended if any
// expectation fails to build.
func (f *File) Apply(c *expect.Client) error {
	exps, err := f.Expectations()
	if err != nil {
		if f.Path != "" {
			return fmt.Errorf("loading %s: %w", f.Path, err)
		}
		return err
	}
	c.Expect(exps...)
	return nil
}

func (f *File) build(entry *Entry) (*expect.Expectation, error) {
	if entry.Request.Method.IsZero() {
		return nil, errors.New("request.method is required")
	}
	if entry.Request.URI.IsZero() {
		return nil, errors.New("request.uri is required")
	}
	if entry.Response != nil && entry.Error != "" {
		return nil, errors.New("response and error are mutually exclusive")
	}

	method, err := entry.Request.Method.Build()
	if err != nil {
		return nil, fmt.Errorf("request.method: %w", err)
	}
	uri, err := entry.Request.URI.Build()
	if err != nil {
		return nil, fmt.Errorf("request.uri: %w", err)
	}
	e := expect.NewExpectation(method, uri)

	if len(entry.Request.Headers) > 0 {
		headers := make(map[string]any, len(entry.Request.Headers))
		for name, spec := range entry.Request.Headers {
			m, err := spec.Build()
			if err != nil {
				return nil, fmt.Errorf("request.headers.%s: %w", name, err)
			}
			headers[name] = m
		}
		e.Headers(headers)
	}

	if entry.Request.Body != nil {
		m, err := entry.Request.Body.Build()
		if err != nil {
			return nil, fmt.Errorf("request.body: %w", err)
		}
		e.Body(m)
	}

	switch {
	case entry.Error != "":
		e.WillReturnError(errors.New(entry.Error))
	case entry.Response != nil:
		if err := f.applyResponse(e, entry.Response); err != nil {
			return nil, fmt.Errorf("response: %w", err)
		}
	}

	if err := e.Err(); err != nil {
		return nil, err
	}
	return e, nil
}

func (f *File) applyResponse(e *expect.Expectation, r *Response) error {
	opts := []expect.ResponseOption{}
	if r.Status != 0 {
		if r.Status < 100 || r.Status > 599 {
			return fmt.Errorf("status %d out of range", r.Status)
		}
		opts = append(opts, expect.WithStatus(r.Status))
	}
	if len(r.Headers) > 0 {
		opts = append(opts, expect.WithHeaders(r.Headers))
	}

	set := 0
	for _, ok := range []bool{r.Body != nil, r.JSON != nil, r.File != ""} {
		if ok {
			set++
		}
	}
	if set > 1 {
		return errors.New("only one of body, json and file may be set")
	}

	switch {
	case r.Body != nil:
		e.WillReturn(*r.Body, opts...)
	case r.JSON != nil:
		e.WillReturn(r.JSON, opts...)
	case r.File != "":
		path, err := resolveFile(f.BaseDir, r.File)
		if err != nil {
			return err
		}
		body, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening response file: %w", err)
		}
		e.WillReturn(body, opts...)
	default:
		e.WillReturn(nil, opts...)
	}
	return nil
}

// Describe returns one line per expectation in the form used by
// expect.Client.AssertAllRequestsSent.
func (f *File) Describe() ([]string, error) {
	exps, err := f.Expectations()
	if err != nil {
		return nil, err
	}
	lines := make([]string, len(exps))
	for i, e := range exps {
		lines[i] = e.String()
	}
	return lines, nil
}

// resolveFile resolves a response file name against the fixture directory.
// Absolute names are used as given; any ".." segment is rejected.
func resolveFile(baseDir, name string) (string, error) {
	if name == "" {
		return "", errors.New("empty file name")
	}
	for _, seg := range strings.FieldsFunc(name, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return "", fmt.Errorf("file %q escapes the fixture directory", name)
		}
	}
	path := filepath.Clean(name)
	if !filepath.IsAbs(path) {
		path = filepath.Join(baseDir, path)
	}
	return path, nil
}
