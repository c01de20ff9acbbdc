package persist

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/inkboard/inkboard/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "board.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	shapes := []domain.Shape{
		{
			ID: "a", Type: domain.ShapeCircle, X: 10, Y: 20, W: 140, H: 140,
			Rotation: 45, Color: "#ef4444", Stroke: "#000000", StrokeWidth: 2,
			UpdatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), UpdatedBy: "tester",
		},
		{
			ID: "b", Type: domain.ShapeText, X: 0, Y: 0, W: 80, H: 21.6,
			Text: "hello", FontSize: 18, Group: "g1",
			UpdatedAt: time.Date(2026, 3, 1, 12, 0, 1, 0, time.UTC),
		},
	}
	if err := store.UpsertShapes(ctx, shapes); err != nil {
		t.Fatalf("UpsertShapes() error = %v", err)
	}

	loaded, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error = %v", err)
	}
	if diff := cmp.Diff(shapes, loaded); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestSQLiteUpsertPreservesFirstWriteOrder(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertShapes(ctx, []domain.Shape{{ID: "first"}, {ID: "second"}}); err != nil {
		t.Fatal(err)
	}
	// Updating the first shape must not reorder it.
	if err := store.UpsertShapes(ctx, []domain.Shape{{ID: "first", X: 99}}); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 2 || loaded[0].ID != "first" || loaded[1].ID != "second" {
		t.Fatalf("order = %v", loaded)
	}
	if loaded[0].X != 99 {
		t.Fatalf("update lost: %+v", loaded[0])
	}
}

func TestSQLiteDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.UpsertShapes(ctx, []domain.Shape{{ID: "a"}, {ID: "b"}}); err != nil {
		t.Fatal(err)
	}
	if err := store.DeleteShape(ctx, "a"); err != nil {
		t.Fatalf("DeleteShape() error = %v", err)
	}

	loaded, err := store.LoadAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 1 || loaded[0].ID != "b" {
		t.Fatalf("remaining = %v", loaded)
	}
}

func TestSQLiteLoadAllEmpty(t *testing.T) {
	store := newTestStore(t)
	loaded, err := store.LoadAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded) != 0 {
		t.Fatalf("fresh database returned %d shapes", len(loaded))
	}
}
