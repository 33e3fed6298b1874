package history

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

// TestNormalize tests whitespace collapsing and trimming.
func TestNormalize(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"  a   b  ", "a b"},
		{"a b", "a b"},
		{"\tline one\n line two\n", "line one line two"},
		{"   ", ""},
		{"", ""},
		{"single", "single"},
	}

	for _, tt := range tests {
		if got := Normalize(tt.input); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

// TestStore_AddItem tests basic insertion and ordering.
func TestStore_AddItem(t *testing.T) {
	s := NewStore(10)

	if !s.AddItem("first") {
		t.Fatal("AddItem(first) rejected")
	}
	if !s.AddItem("second") {
		t.Fatal("AddItem(second) rejected")
	}

	snap := s.Snapshot()
	if len(snap.Entries) != 2 {
		t.Fatalf("entry count = %d, want 2", len(snap.Entries))
	}
	if snap.Entries[0].Text != "second" || snap.Entries[1].Text != "first" {
		t.Errorf("order = [%q %q], want [second first]",
			snap.Entries[0].Text, snap.Entries[1].Text)
	}
	if snap.Entries[0].ID == snap.Entries[1].ID {
		t.Error("entries share an id")
	}
}

// TestStore_AddItemNormalizes tests that raw input is normalized on entry.
func TestStore_AddItemNormalizes(t *testing.T) {
	s := NewStore(10)
	s.AddItem("  a   b  ")

	snap := s.Snapshot()
	if len(snap.Entries) != 1 {
		t.Fatalf("entry count = %d, want 1", len(snap.Entries))
	}
	if snap.Entries[0].Text != "a b" {
		t.Errorf("text = %q, want %q", snap.Entries[0].Text, "a b")
	}
}

// TestStore_AddItemRejectsEmpty tests that empty and whitespace-only input
// produces no entry and no change signal.
func TestStore_AddItemRejectsEmpty(t *testing.T) {
	s := NewStore(10)
	signals := 0
	s.OnChange(func() { signals++ })

	for _, input := range []string{"", "   ", "\t\n "} {
		if s.AddItem(input) {
			t.Errorf("AddItem(%q) accepted, want rejected", input)
		}
	}

	if s.Len() != 0 {
		t.Errorf("entry count = %d, want 0", s.Len())
	}
	if signals != 0 {
		t.Errorf("change signals = %d, want 0", signals)
	}
}

// TestStore_AddItemDedup tests that a reappearing value keeps its id,
// refreshes its timestamp, and moves to the front without duplication.
func TestStore_AddItemDedup(t *testing.T) {
	s := NewStore(10)

	s.AddItem("a")
	firstID := s.Snapshot().Entries[0].ID
	firstAt := s.Snapshot().Entries[0].RecordedAt

	s.AddItem("b")
	time.Sleep(time.Millisecond)
	s.AddItem("a")

	snap := s.Snapshot()
	if len(snap.Entries) != 2 {
		t.Fatalf("entry count = %d, want 2", len(snap.Entries))
	}
	if snap.Entries[0].Text != "a" {
		t.Errorf("front entry = %q, want %q", snap.Entries[0].Text, "a")
	}
	if snap.Entries[0].ID != firstID {
		t.Errorf("id changed on reappearance: %q -> %q", firstID, snap.Entries[0].ID)
	}
	if !snap.Entries[0].RecordedAt.After(firstAt) {
		t.Error("timestamp not refreshed on reappearance")
	}
}

// TestStore_Eviction tests tail eviction of the non-pinned subset.
func TestStore_Eviction(t *testing.T) {
	s := NewStore(2)

	s.AddItem("x")
	s.AddItem("y")
	s.AddItem("z")

	snap := s.Snapshot()
	if len(snap.Entries) != 2 {
		t.Fatalf("entry count = %d, want 2", len(snap.Entries))
	}
	if snap.Entries[0].Text != "z" || snap.Entries[1].Text != "y" {
		t.Errorf("order = [%q %q], want [z y]",
			snap.Entries[0].Text, snap.Entries[1].Text)
	}
}

// TestStore_PinExemption tests that pinned entries survive eviction at any
// position and only the non-pinned subset is capped.
func TestStore_PinExemption(t *testing.T) {
	s := NewStore(1)

	s.AddItem("x")
	s.TogglePin(s.Snapshot().Entries[0].ID)
	s.AddItem("y")
	s.AddItem("z")

	snap := s.Snapshot()
	if len(snap.Entries) != 2 {
		t.Fatalf("entry count = %d, want 2", len(snap.Entries))
	}

	texts := map[string]bool{}
	for _, e := range snap.Entries {
		texts[e.Text] = true
	}
	if !texts["x"] {
		t.Error("pinned entry x was evicted")
	}
	if !texts["z"] {
		t.Error("newest entry z missing")
	}
	if texts["y"] {
		t.Error("y should have been evicted from the non-pinned subset")
	}
}

// TestStore_TogglePinUnpinEvicts tests that unpinning re-runs eviction.
func TestStore_TogglePinUnpinEvicts(t *testing.T) {
	s := NewStore(1)

	s.AddItem("x")
	id := s.Snapshot().Entries[0].ID
	s.TogglePin(id)
	s.AddItem("y")

	if s.Len() != 2 {
		t.Fatalf("entry count = %d, want 2", s.Len())
	}

	// Unpinning x puts two entries in the non-pinned subset; the tail one
	// must go immediately.
	s.TogglePin(id)

	snap := s.Snapshot()
	if len(snap.Entries) != 1 {
		t.Fatalf("entry count after unpin = %d, want 1", len(snap.Entries))
	}
	if snap.Entries[0].Text != "y" {
		t.Errorf("surviving entry = %q, want %q", snap.Entries[0].Text, "y")
	}
}

// TestStore_TogglePinUnknownID tests the silent no-op contract.
func TestStore_TogglePinUnknownID(t *testing.T) {
	s := NewStore(10)
	s.AddItem("a")

	signals := 0
	s.OnChange(func() { signals++ })

	if s.TogglePin("no-such-id") {
		t.Error("TogglePin(unknown) reported a change")
	}
	if signals != 0 {
		t.Errorf("change signals = %d, want 0", signals)
	}
}

// TestStore_DeleteItem tests deletion and its signaling contract.
func TestStore_DeleteItem(t *testing.T) {
	s := NewStore(10)
	s.AddItem("a")
	id := s.Snapshot().Entries[0].ID

	signals := 0
	s.OnChange(func() { signals++ })

	if !s.DeleteItem(id) {
		t.Fatal("DeleteItem(known) reported no change")
	}
	if s.Len() != 0 {
		t.Errorf("entry count = %d, want 0", s.Len())
	}
	if signals != 1 {
		t.Errorf("change signals = %d, want 1", signals)
	}

	if s.DeleteItem(id) {
		t.Error("DeleteItem(absent) reported a change")
	}
	if signals != 1 {
		t.Errorf("change signals after absent delete = %d, want 1", signals)
	}
}

// TestStore_Clear tests both clear modes.
func TestStore_Clear(t *testing.T) {
	s := NewStore(10)
	s.AddItem("keep")
	s.TogglePin(s.Snapshot().Entries[0].ID)
	s.AddItem("drop")

	s.Clear(false)
	snap := s.Snapshot()
	if len(snap.Entries) != 1 || snap.Entries[0].Text != "keep" {
		t.Fatalf("after Clear(false): %+v, want only the pinned entry", snap.Entries)
	}

	s.Clear(true)
	if s.Len() != 0 {
		t.Errorf("after Clear(true): count = %d, want 0", s.Len())
	}
}

// TestStore_SnapshotIsolation tests that the returned snapshot is a value
// copy detached from internal state.
func TestStore_SnapshotIsolation(t *testing.T) {
	s := NewStore(10)
	s.AddItem("a")

	snap := s.Snapshot()
	snap.Entries[0].Text = "mutated"
	snap.Entries = append(snap.Entries, Entry{ID: "x", Text: "x"})

	fresh := s.Snapshot()
	if len(fresh.Entries) != 1 || fresh.Entries[0].Text != "a" {
		t.Errorf("store state leaked through snapshot: %+v", fresh.Entries)
	}
}

// TestStore_Seed tests seeding from a persisted snapshot.
func TestStore_Seed(t *testing.T) {
	s := NewStore(2)
	signals := 0
	s.OnChange(func() { signals++ })

	s.Seed(Snapshot{Entries: []Entry{
		{ID: "1", Text: "a", Pinned: true},
		{ID: "2", Text: "  a  "}, // duplicate after normalization
		{ID: "3", Text: "b"},
		{ID: "4", Text: "   "}, // empty after normalization
		{ID: "5", Text: "c"},
		{ID: "6", Text: "d"},
	}})

	snap := s.Snapshot()
	// a is pinned; b and c fill the non-pinned capacity; d is evicted.
	if len(snap.Entries) != 3 {
		t.Fatalf("seeded count = %d, want 3: %+v", len(snap.Entries), snap.Entries)
	}
	if signals != 0 {
		t.Errorf("seed emitted %d change signals, want 0", signals)
	}
}

// TestStore_ConcurrentAdds tests that concurrent mutation never corrupts
// the invariants.
func TestStore_ConcurrentAdds(t *testing.T) {
	s := NewStore(50)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.AddItem(fmt.Sprintf("worker-%d-item-%d", n, j%25))
			}
		}(i)
	}
	wg.Wait()

	snap := s.Snapshot()
	if len(snap.Entries) > 50 {
		t.Errorf("entry count = %d, exceeds capacity 50", len(snap.Entries))
	}
	seen := map[string]bool{}
	for _, e := range snap.Entries {
		if seen[e.Text] {
			t.Errorf("duplicate text %q after concurrent adds", e.Text)
		}
		seen[e.Text] = true
	}
}
