// Package jsonenc holds the two JSON encodings used for expectation bodies.
//
// Request body expectations are encoded readably, keeping non-ASCII characters
// and HTML-sensitive characters as they are. Canned response bodies are encoded
// ASCII-safe so the bytes a client receives do not depend on its charset handling.
package jsonenc

import (
	"bytes"
	"encoding/json"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// Marshal encodes v as compact JSON without escaping non-ASCII or HTML characters.
func Marshal(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimSuffix(buf.Bytes(), []byte("\n"))), nil
}

// MarshalASCII encodes v as compact JSON in which every non-ASCII rune is written
// as a \uXXXX escape (a surrogate pair outside the Basic Multilingual Plane).
func MarshalASCII(v any) ([]byte, error) {
	s, err := Marshal(v)
	if err != nil {
		return nil, err
	}
	return EscapeNonASCII([]byte(s)), nil
}

// EscapeNonASCII rewrites the non-ASCII runes of an encoded JSON document as
// \uXXXX escapes. Non-ASCII runes can only appear inside JSON strings, so the
// result is an equivalent document.
func EscapeNonASCII(data []byte) []byte {
	out := make([]byte, 0, len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		data = data[size:]
		if r < utf8.RuneSelf {
			out = append(out, byte(r))
			continue
		}
		if r1, r2 := utf16.EncodeRune(r); r1 != utf8.RuneError {
			out = appendEscape(out, r1)
			out = appendEscape(out, r2)
			continue
		}
		out = appendEscape(out, r)
	}
	return out
}

func appendEscape(out []byte, r rune) []byte {
	return fmt.Appendf(out, `\u%04x`, int(r))
}
