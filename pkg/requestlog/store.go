package requestlog

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is the number of entries a MemoryStore keeps when no capacity is given.
const DefaultCapacity = 1000

// Logger is the minimal interface for recording entries.
type Logger interface {
	Log(entry *Entry)
}

// Store defines the interface for request history storage.
// Store embeds Logger, so any Store implementation can be used where Logger is expected.
type Store interface {
	Logger

	// Get retrieves an entry by ID.
	Get(id string) *Entry

	// List returns entries in dispatch order, optionally filtered.
	List(filter *Filter) []*Entry

	// Clear removes all entries.
	Clear()

	// Count returns the number of entries.
	Count() int
}

// Filter defines criteria for filtering entries.
type Filter struct {
	// Method filters by request method.
	Method string

	// URIPrefix filters by URI prefix.
	URIPrefix string

	// Outcome filters by resolution.
	Outcome Outcome

	// HasError filters by error presence.
	HasError *bool

	// Limit is the maximum number of entries to return.
	Limit int

	// Offset is the number of entries to skip.
	Offset int
}

func (f *Filter) accepts(e *Entry) bool {
	if f == nil {
		return true
	}
	if f.Method != "" && e.Method != f.Method {
		return false
	}
	if f.URIPrefix != "" && !strings.HasPrefix(e.URI, f.URIPrefix) {
		return false
	}
	if f.Outcome != "" && e.Outcome != f.Outcome {
		return false
	}
	if f.HasError != nil && (e.Error != "") != *f.HasError {
		return false
	}
	return true
}

// MemoryStore is a bounded in-memory Store. When full, the oldest entry is evicted.
// It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	entries  []*Entry
	capacity int
	sequence int
	now      func() time.Time
}

// NewMemoryStore creates a store holding at most capacity entries.
// A capacity <= 0 uses DefaultCapacity.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{
		entries:  make([]*Entry, 0),
		capacity: capacity,
		now:      time.Now,
	}
}

// Log records entry, assigning its ID, Sequence and Timestamp when unset.
func (s *MemoryStore) Log(entry *Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sequence++
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Sequence == 0 {
		entry.Sequence = s.sequence
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}

	if len(s.entries) >= s.capacity {
		s.entries = s.entries[1:]
	}
	s.entries = append(s.entries, entry)
}

// Get retrieves an entry by ID, or nil.
func (s *MemoryStore) Get(id string) *Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// List returns the entries accepted by filter, oldest first.
func (s *MemoryStore) List(filter *Filter) []*Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		if filter.accepts(e) {
			result = append(result, e)
		}
	}

	if filter != nil && filter.Offset > 0 {
		if filter.Offset >= len(result) {
			return []*Entry{}
		}
		result = result[filter.Offset:]
	}
	if filter != nil && filter.Limit > 0 && filter.Limit < len(result) {
		result = result[:filter.Limit]
	}
	return result
}

// Clear removes all entries. Sequence numbering continues.
func (s *MemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = s.entries[:0]
}

// Count returns the number of entries held.
func (s *MemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ Store = (*MemoryStore)(nil)
