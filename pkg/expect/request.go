package expect

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
)

func requestURI(req *http.Request) string {
	if req.URL == nil {
		return ""
	}
	return req.URL.String()
}

// requestMethod returns the request method; an empty method means GET.
func requestMethod(req *http.Request) string {
	if req.Method == "" {
		return http.MethodGet
	}
	return req.Method
}

// headerValue returns the combined value of the named header. Host is taken
// from the request itself since net/http removes it from the header map.
func headerValue(req *http.Request, name string) (string, bool) {
	if name == "Host" {
		if req.Host != "" {
			return req.Host, true
		}
		if req.URL != nil && req.URL.Host != "" {
			return req.URL.Host, true
		}
	}
	values := req.Header.Values(name)
	if len(values) == 0 {
		values = foldedValues(req.Header, name)
	}
	if len(values) == 0 {
		return "", false
	}
	return strings.Join(values, ", "), true
}

// foldedValues collects the values of header keys that equal name ignoring
// case. Callers may set non-canonical keys directly on the map.
func foldedValues(h http.Header, name string) []string {
	var keys []string
	for k := range h {
		if strings.EqualFold(k, name) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var values []string
	for _, k := range keys {
		values = append(values, h[k]...)
	}
	return values
}

// readBody reads the request body in full and replaces it with an equivalent
// reader so the body can be read again.
func readBody(req *http.Request) (string, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return "", nil
	}
	data, err := io.ReadAll(req.Body)
	if err != nil {
		return "", err
	}
	req.Body = io.NopCloser(bytes.NewReader(data))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}
	return string(data), nil
}

func newResponse(req *http.Request, status int, header http.Header, body []byte) *http.Response {
	h := header.Clone()
	if h == nil {
		h = http.Header{}
	}
	return &http.Response{
		Status:        statusLine(status),
		StatusCode:    status,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}

func statusLine(code int) string {
	if text := http.StatusText(code); text != "" {
		return fmt.Sprintf("%d %s", code, text)
	}
	return strconv.Itoa(code)
}
