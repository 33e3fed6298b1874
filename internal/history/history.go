// Package history provides the in-memory clipboard history collection.
// It enforces dedup-by-content, most-recent-first ordering, pin-exempt
// capacity eviction, and raises a change signal on every accepted mutation.
package history

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultCapacity is the default limit on the non-pinned entry count.
const DefaultCapacity = 100

// Entry is one captured clipboard text snippet.
type Entry struct {
	// ID is the unique identifier for this entry, assigned at creation
	// and never reused for reappearing content.
	ID string `json:"id"`

	// Text is the normalized snippet content. It is never empty and never
	// whitespace-only.
	Text string `json:"text"`

	// RecordedAt is refreshed whenever the same content reappears. It is
	// used for display only; list position defines recency ordering.
	RecordedAt time.Time `json:"recorded_at"`

	// Pinned entries are exempt from capacity eviction.
	Pinned bool `json:"pinned"`
}

// Snapshot is the full ordered history at a point in time, most-recent-first.
// It is the unit of serialization for the persistence layer.
type Snapshot struct {
	Entries []Entry `json:"entries"`
}

// Normalize collapses runs of whitespace into single spaces and trims the
// result. An empty return value means the input carried no storable content.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(raw), " ")
}

// Store is the in-memory history collection. All mutation is serialized
// through a single mutex, so each public operation is atomic with respect
// to every other. Change listeners are invoked after the mutation commits,
// outside the lock.
type Store struct {
	mu        sync.Mutex
	entries   []Entry // most-recent-first
	capacity  int
	listeners []func()
}

// NewStore creates an empty store capping the non-pinned subset at capacity.
// A capacity of zero or less falls back to DefaultCapacity.
func NewStore(capacity int) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Store{capacity: capacity}
}

// OnChange registers a listener invoked after every accepted mutation.
// Registration must happen during wiring, before concurrent use begins.
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Seed replaces the store contents from a previously persisted snapshot.
// Entries that fail normalization or duplicate earlier content are dropped,
// and the eviction policy is applied. Seeding emits no change signal.
func (s *Store) Seed(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = s.entries[:0]
	seen := make(map[string]struct{}, len(snap.Entries))
	for _, e := range snap.Entries {
		text := Normalize(e.Text)
		if text == "" {
			continue
		}
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		e.Text = text
		s.entries = append(s.entries, e)
	}
	s.evictLocked()
}

// AddItem records a snippet. The raw input is normalized; empty results are
// rejected with no change signal. If the normalized text already exists the
// entry keeps its id, refreshes its timestamp, and moves to the front.
// Otherwise a new entry is front-inserted and eviction runs. Returns true
// if the store changed.
func (s *Store) AddItem(raw string) bool {
	text := Normalize(raw)
	if text == "" {
		return false
	}

	s.mu.Lock()
	now := time.Now()
	if i := s.indexOfText(text); i >= 0 {
		e := s.entries[i]
		e.RecordedAt = now
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		s.entries = append([]Entry{e}, s.entries...)
	} else {
		e := Entry{
			ID:         uuid.New().String(),
			Text:       text,
			RecordedAt: now,
		}
		s.entries = append([]Entry{e}, s.entries...)
		s.evictLocked()
	}
	s.mu.Unlock()

	s.notify()
	return true
}

// TogglePin flips the pinned flag of the entry with the given id. Unpinning
// re-runs eviction, since the newly unpinned entry can push the non-pinned
// subset over capacity. Unknown ids are a silent no-op with no signal.
// Returns true if the store changed.
func (s *Store) TogglePin(id string) bool {
	s.mu.Lock()
	i := s.indexOfID(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.entries[i].Pinned = !s.entries[i].Pinned
	if !s.entries[i].Pinned {
		s.evictLocked()
	}
	s.mu.Unlock()

	s.notify()
	return true
}

// DeleteItem removes the entry with the given id. Returns true, and signals,
// only if a removal occurred.
func (s *Store) DeleteItem(id string) bool {
	s.mu.Lock()
	i := s.indexOfID(id)
	if i < 0 {
		s.mu.Unlock()
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	s.mu.Unlock()

	s.notify()
	return true
}

// Clear removes all non-pinned entries, or every entry when includePinned
// is set. It always signals.
func (s *Store) Clear(includePinned bool) {
	s.mu.Lock()
	if includePinned {
		s.entries = s.entries[:0]
	} else {
		kept := s.entries[:0]
		for _, e := range s.entries {
			if e.Pinned {
				kept = append(kept, e)
			}
		}
		s.entries = kept
	}
	s.mu.Unlock()

	s.notify()
}

// Snapshot returns a value copy of the current history, most-recent-first.
// Callers may retain or mutate the result freely.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := make([]Entry, len(s.entries))
	copy(entries, s.entries)
	return Snapshot{Entries: entries}
}

// Len returns the total entry count, pinned included.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// evictLocked trims the non-pinned subset to capacity, removing from the
// tail (least recently promoted). Caller must hold s.mu.
func (s *Store) evictLocked() {
	unpinned := 0
	for _, e := range s.entries {
		if !e.Pinned {
			unpinned++
		}
	}
	for i := len(s.entries) - 1; i >= 0 && unpinned > s.capacity; i-- {
		if s.entries[i].Pinned {
			continue
		}
		s.entries = append(s.entries[:i], s.entries[i+1:]...)
		unpinned--
	}
}

// indexOfText returns the position of the entry with the given normalized
// text, or -1. Caller must hold s.mu.
func (s *Store) indexOfText(text string) int {
	for i := range s.entries {
		if s.entries[i].Text == text {
			return i
		}
	}
	return -1
}

// indexOfID returns the position of the entry with the given id, or -1.
// Caller must hold s.mu.
func (s *Store) indexOfID(id string) int {
	for i := range s.entries {
		if s.entries[i].ID == id {
			return i
		}
	}
	return -1
}

// notify invokes change listeners outside the store lock.
func (s *Store) notify() {
	s.mu.Lock()
	listeners := s.listeners
	s.mu.Unlock()
	for _, fn := range listeners {
		fn()
	}
}
