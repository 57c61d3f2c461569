package requestlog

import "unicode/utf8"

// MaxBodySize is the number of body bytes kept in an Entry.
const MaxBodySize = 10 * 1024

// TruncatedSuffix marks a value cut by Truncate.
const TruncatedSuffix = "...(truncated)"

// SetBody records body on the entry. BodySize keeps the full length while Body
// holds at most MaxBodySize bytes.
func (e *Entry) SetBody(body string) {
	e.BodySize = len(body)
	e.Body = Truncate(body, MaxBodySize)
}

// Truncate cuts s to at most n bytes and appends TruncatedSuffix when it does.
// The cut is moved back to a rune boundary so multi-byte characters are never
// split. A non-positive n means MaxBodySize.
func Truncate(s string, n int) string {
	if n <= 0 {
		n = MaxBodySize
	}
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + TruncatedSuffix
}
