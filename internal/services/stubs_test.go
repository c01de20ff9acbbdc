package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/infrastructure/store"
	"github.com/inkboard/inkboard/internal/pkg/logger"
	"github.com/inkboard/inkboard/internal/ports"
)

// stubBroadcaster records every event sent, in order.
type stubBroadcaster struct {
	events   []string
	payloads []any
	trace    *[]string
	err      error
}

func (b *stubBroadcaster) Send(event string, payload any) error {
	b.events = append(b.events, event)
	b.payloads = append(b.payloads, payload)
	if b.trace != nil {
		*b.trace = append(*b.trace, "broadcast")
	}
	return b.err
}

// stubPersister records durable writes and deletes, in order.
type stubPersister struct {
	upserts [][]domain.Shape
	deletes []string
	trace   *[]string
	err     error
}

func (p *stubPersister) UpsertShapes(_ context.Context, shapes []domain.Shape) error {
	p.upserts = append(p.upserts, shapes)
	if p.trace != nil {
		*p.trace = append(*p.trace, "persist")
	}
	return p.err
}

func (p *stubPersister) DeleteShape(_ context.Context, id string) error {
	p.deletes = append(p.deletes, id)
	if p.trace != nil {
		*p.trace = append(*p.trace, "persist")
	}
	return p.err
}

func (p *stubPersister) LoadAll(context.Context) ([]domain.Shape, error) { return nil, nil }
func (p *stubPersister) Close() error                                    { return nil }

// tracingStore wraps the real store to record mutation ordering.
type tracingStore struct {
	ports.ShapeStore
	trace *[]string
}

func (s *tracingStore) Upsert(shape domain.Shape) {
	*s.trace = append(*s.trace, "mutate")
	s.ShapeStore.Upsert(shape)
}

func (s *tracingStore) Remove(id string) {
	*s.trace = append(*s.trace, "mutate")
	s.ShapeStore.Remove(id)
}

func (s *tracingStore) PushHistory(snapshot []domain.Shape) {
	*s.trace = append(*s.trace, "snapshot")
	s.ShapeStore.PushHistory(snapshot)
}

var testCanvas = domain.CanvasSettings{Width: 1920, Height: 1080, HistoryDepth: 50}

// newTestToolbox builds a toolbox on a real in-memory store with recording
// collaborators and a deterministic clock and id sequence.
func newTestToolbox(t *testing.T) (*Toolbox, *store.MemoryStore, *stubBroadcaster, *stubPersister) {
	t.Helper()
	mem := store.NewMemoryStore(testCanvas.HistoryDepth)
	bc := &stubBroadcaster{}
	persister := &stubPersister{}
	tools := NewToolbox(mem, bc, persister, logger.NewStd(false), "tester", testCanvas)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	tools.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	seq := 0
	tools.newID = func() string {
		seq++
		return fmt.Sprintf("id-%d", seq)
	}
	return tools, mem, bc, persister
}

// seedShape inserts a shape directly, bypassing the contract.
func seedShape(mem *store.MemoryStore, shape domain.Shape) domain.Shape {
	if shape.UpdatedAt.IsZero() {
		shape.UpdatedAt = time.Date(2026, 3, 1, 11, 0, 0, 0, time.UTC)
	}
	mem.Upsert(shape)
	return shape
}
