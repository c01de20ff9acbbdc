package store

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/inkboard/inkboard/internal/domain"
)

func TestMemoryStoreInsertionOrder(t *testing.T) {
	s := NewMemoryStore(10)
	for i := 0; i < 5; i++ {
		s.Upsert(domain.Shape{ID: fmt.Sprintf("s%d", i)})
	}
	// Updating an existing shape must not move it.
	s.Upsert(domain.Shape{ID: "s1", X: 99})

	var got []string
	for _, shape := range s.All() {
		got = append(got, shape.ID)
	}
	want := []string{"s0", "s1", "s2", "s3", "s4"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("iteration order (-want +got):\n%s", diff)
	}
}

func TestMemoryStoreRemove(t *testing.T) {
	s := NewMemoryStore(10)
	s.Upsert(domain.Shape{ID: "a"})
	s.Upsert(domain.Shape{ID: "b"})
	s.Remove("a")
	s.Remove("missing")

	if _, ok := s.Get("a"); ok {
		t.Fatal("removed shape still present")
	}
	if len(s.All()) != 1 {
		t.Fatalf("store has %d shapes, want 1", len(s.All()))
	}
}

func TestMemoryStoreReplaceResetsSelection(t *testing.T) {
	s := NewMemoryStore(10)
	s.Upsert(domain.Shape{ID: "a"})
	s.Select([]string{"a"})

	s.Replace([]domain.Shape{{ID: "b"}})
	if len(s.Selection()) != 0 {
		t.Fatal("Replace must reset the selection")
	}
	if _, ok := s.Get("b"); !ok {
		t.Fatal("replaced shapes missing")
	}
}

func TestMemoryStoreHistoryEviction(t *testing.T) {
	s := NewMemoryStore(3)
	for i := 0; i < 5; i++ {
		s.PushHistory([]domain.Shape{{ID: fmt.Sprintf("snap%d", i)}})
	}

	// Only the newest three snapshots survive, popped newest first.
	for _, want := range []string{"snap4", "snap3", "snap2"} {
		snapshot, ok := s.PopHistory()
		if !ok || snapshot[0].ID != want {
			t.Fatalf("PopHistory = (%v, %v), want %s", snapshot, ok, want)
		}
	}
	if _, ok := s.PopHistory(); ok {
		t.Fatal("history should be empty after eviction")
	}
}

func TestMemoryStoreHistorySnapshotIsolation(t *testing.T) {
	s := NewMemoryStore(10)
	live := []domain.Shape{{ID: "a", X: 1}}
	s.PushHistory(live)
	live[0].X = 42

	snapshot, _ := s.PopHistory()
	if snapshot[0].X != 1 {
		t.Fatalf("snapshot mutated through caller slice: X = %v", snapshot[0].X)
	}
}

func TestMemoryStoreSelectionCopies(t *testing.T) {
	s := NewMemoryStore(10)
	ids := []string{"a", "b"}
	s.Select(ids)
	ids[0] = "mutated"

	if got := s.Selection(); got[0] != "a" {
		t.Fatalf("selection aliased caller slice: %v", got)
	}
}
