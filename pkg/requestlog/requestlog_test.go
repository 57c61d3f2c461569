package requestlog

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ── Entry tests ──────────────────────────────────────────────────────────────

func TestOutcomeConstants(t *testing.T) {
	outcomes := []Outcome{OutcomeResponded, OutcomeFailed, OutcomeMismatch, OutcomeUnexpected, OutcomeUnreadable}
	seen := make(map[Outcome]bool)
	for _, o := range outcomes {
		if o == "" {
			t.Fatal("outcome constant must not be empty")
		}
		if seen[o] {
			t.Fatalf("duplicate outcome constant: %s", o)
		}
		seen[o] = true
	}
}

func TestEntry_JSONOmitsEmptyOptionalFields(t *testing.T) {
	e := Entry{ID: "x", Method: "GET", URI: "/a", Outcome: OutcomeUnexpected}
	data, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"headers", "body", "expectation", "responseStatus", "error"} {
		if _, ok := m[key]; ok {
			t.Errorf("field %q should be omitted when empty", key)
		}
	}
	for _, key := range []string{"id", "timestamp", "sequence", "method", "uri", "bodySize", "outcome"} {
		if _, ok := m[key]; !ok {
			t.Errorf("required field %q should be present", key)
		}
	}
}

// ── Filter tests ─────────────────────────────────────────────────────────────

func TestFilter_NilAcceptsEverything(t *testing.T) {
	var f *Filter
	if !f.accepts(&Entry{Method: "DELETE"}) {
		t.Fatal("nil filter should accept every entry")
	}
}

func TestFilter_Fields(t *testing.T) {
	yes, no := true, false
	e := &Entry{Method: "POST", URI: "/api/users/1", Outcome: OutcomeFailed, Error: "boom"}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"method match", Filter{Method: "POST"}, true},
		{"method mismatch", Filter{Method: "GET"}, false},
		{"uri prefix match", Filter{URIPrefix: "/api/"}, true},
		{"uri prefix mismatch", Filter{URIPrefix: "/admin"}, false},
		{"outcome match", Filter{Outcome: OutcomeFailed}, true},
		{"outcome mismatch", Filter{Outcome: OutcomeResponded}, false},
		{"has error", Filter{HasError: &yes}, true},
		{"has no error", Filter{HasError: &no}, false},
		{"combined", Filter{Method: "POST", URIPrefix: "/api", Outcome: OutcomeFailed, HasError: &yes}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.accepts(e); got != tt.want {
				t.Errorf("accepts() = %v, want %v", got, tt.want)
			}
		})
	}
}

// ── MemoryStore tests ────────────────────────────────────────────────────────

func TestStore_LogAssignsIdentity(t *testing.T) {
	s := NewMemoryStore(10)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	e := &Entry{Method: "GET", URI: "/a"}
	s.Log(e)

	if _, err := uuid.Parse(e.ID); err != nil {
		t.Errorf("ID %q is not a UUID: %v", e.ID, err)
	}
	if e.Sequence != 1 {
		t.Errorf("Sequence = %d, want 1", e.Sequence)
	}
	if !e.Timestamp.Equal(fixed) {
		t.Errorf("Timestamp = %v, want %v", e.Timestamp, fixed)
	}
}

func TestStore_LogKeepsProvidedIdentity(t *testing.T) {
	s := NewMemoryStore(10)
	ts := time.Unix(100, 0)
	e := &Entry{ID: "custom", Sequence: 42, Timestamp: ts}
	s.Log(e)
	if e.ID != "custom" || e.Sequence != 42 || !e.Timestamp.Equal(ts) {
		t.Errorf("provided identity was overwritten: %+v", e)
	}
}

func TestStore_LogAndGet(t *testing.T) {
	s := NewMemoryStore(10)
	s.Log(&Entry{ID: "one", Method: "GET"})
	got := s.Get("one")
	if got == nil || got.Method != "GET" {
		t.Fatalf("Get(one) = %+v", got)
	}
	if s.Get("missing") != nil {
		t.Error("Get should return nil for unknown ID")
	}
}

func TestStore_CountAndClear(t *testing.T) {
	s := NewMemoryStore(10)
	for i := 0; i < 3; i++ {
		s.Log(&Entry{})
	}
	if s.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", s.Count())
	}
	s.Clear()
	if s.Count() != 0 {
		t.Fatalf("Count() after Clear = %d, want 0", s.Count())
	}

	// Sequence numbering continues across Clear.
	e := &Entry{}
	s.Log(e)
	if e.Sequence != 4 {
		t.Errorf("Sequence after Clear = %d, want 4", e.Sequence)
	}
}

func TestStore_ListOrderLimitOffset(t *testing.T) {
	s := NewMemoryStore(10)
	for i := 0; i < 5; i++ {
		s.Log(&Entry{URI: fmt.Sprintf("/%d", i)})
	}

	all := s.List(nil)
	if len(all) != 5 {
		t.Fatalf("List(nil) returned %d entries, want 5", len(all))
	}
	for i, e := range all {
		if e.URI != fmt.Sprintf("/%d", i) {
			t.Errorf("entry %d URI = %s, want dispatch order", i, e.URI)
		}
	}

	page := s.List(&Filter{Offset: 1, Limit: 2})
	if len(page) != 2 || page[0].URI != "/1" || page[1].URI != "/2" {
		t.Errorf("unexpected page: %+v", page)
	}

	if got := s.List(&Filter{Offset: 10}); len(got) != 0 {
		t.Errorf("offset past end returned %d entries", len(got))
	}
}

func TestStore_ListFilterByOutcome(t *testing.T) {
	s := NewMemoryStore(10)
	s.Log(&Entry{Outcome: OutcomeResponded})
	s.Log(&Entry{Outcome: OutcomeUnexpected})
	s.Log(&Entry{Outcome: OutcomeResponded})

	got := s.List(&Filter{Outcome: OutcomeResponded})
	if len(got) != 2 {
		t.Errorf("got %d responded entries, want 2", len(got))
	}
}

func TestStore_CapacityEvictsOldest(t *testing.T) {
	s := NewMemoryStore(2)
	s.Log(&Entry{ID: "a"})
	s.Log(&Entry{ID: "b"})
	s.Log(&Entry{ID: "c"})

	if s.Count() != 2 {
		t.Fatalf("Count() = %d, want 2", s.Count())
	}
	if s.Get("a") != nil {
		t.Error("oldest entry should have been evicted")
	}
	if s.Get("c") == nil {
		t.Error("newest entry should be present")
	}
}

func TestStore_DefaultCapacity(t *testing.T) {
	s := NewMemoryStore(0)
	if s.capacity != DefaultCapacity {
		t.Errorf("capacity = %d, want %d", s.capacity, DefaultCapacity)
	}
}

func TestStore_ConcurrentLogAndRead(t *testing.T) {
	s := NewMemoryStore(50)
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				s.Log(&Entry{})
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = s.List(nil)
				_ = s.Count()
			}
		}()
	}
	wg.Wait()
	if s.Count() != 50 {
		t.Errorf("Count() = %d, want 50", s.Count())
	}
}

func TestLoggerInterface_AcceptsStore(t *testing.T) {
	var l Logger = NewMemoryStore(1)
	l.Log(&Entry{})
}

// ── Body tests ───────────────────────────────────────────────────────────────

func TestEntry_SetBody(t *testing.T) {
	var small Entry
	small.SetBody(`{"name":"Alice"}`)
	if small.Body != `{"name":"Alice"}` || small.BodySize != 16 {
		t.Fatalf("small body: got %q (%d)", small.Body, small.BodySize)
	}

	large := strings.Repeat("x", MaxBodySize+100)
	var e Entry
	e.SetBody(large)
	if e.BodySize != MaxBodySize+100 {
		t.Fatalf("BodySize = %d, want %d", e.BodySize, MaxBodySize+100)
	}
	if want := large[:MaxBodySize] + TruncatedSuffix; e.Body != want {
		t.Fatalf("Body has length %d, want %d", len(e.Body), len(want))
	}
}

func TestTruncate_KeepsRuneBoundaries(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"plain", 10, "plain"},
		{"abcdef", 3, "abc" + TruncatedSuffix},
		{"Привет", 3, "П" + TruncatedSuffix},
		{"Привет", 4, "Пр" + TruncatedSuffix},
		{"😀😀", 5, "😀" + TruncatedSuffix},
		{"😀", 2, TruncatedSuffix},
		{"short", 0, "short"},
	}
	for _, tt := range tests {
		got := Truncate(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("Truncate(%q, %d) produced invalid UTF-8", tt.in, tt.n)
		}
	}
}
