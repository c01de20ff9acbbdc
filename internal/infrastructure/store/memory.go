// Package store provides the canonical in-memory shape store: the shape map,
// the selection set and the bounded undo history stack.
package store

import (
	"sync"

	"github.com/inkboard/inkboard/internal/domain"
	"github.com/inkboard/inkboard/internal/ports"
)

// DefaultHistoryDepth bounds the undo stack when no depth is configured.
const DefaultHistoryDepth = 50

// MemoryStore keeps shapes in insertion order. Iteration order is part of
// the port contract: hint-based target resolution takes the first match in
// store order.
//
// The engine itself is single-flight, but the HTTP server and the realtime
// hub touch the store from their own goroutines, so access is guarded.
type MemoryStore struct {
	mu        sync.RWMutex
	order     []string
	shapes    map[string]domain.Shape
	selection []string
	history   [][]domain.Shape
	depth     int
}

// NewMemoryStore creates a store with the given undo depth.
func NewMemoryStore(historyDepth int) *MemoryStore {
	if historyDepth <= 0 {
		historyDepth = DefaultHistoryDepth
	}
	return &MemoryStore{
		shapes: make(map[string]domain.Shape),
		depth:  historyDepth,
	}
}

// All returns every shape in insertion order.
func (m *MemoryStore) All() []domain.Shape {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.Shape, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.shapes[id])
	}
	return out
}

// Get looks one shape up by id.
func (m *MemoryStore) Get(id string) (domain.Shape, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	shape, ok := m.shapes[id]
	return shape, ok
}

// Upsert inserts or replaces a shape, preserving insertion order.
func (m *MemoryStore) Upsert(shape domain.Shape) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.shapes[shape.ID]; !exists {
		m.order = append(m.order, shape.ID)
	}
	m.shapes[shape.ID] = shape
}

// Remove deletes a shape from the map and the order index.
func (m *MemoryStore) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.shapes[id]; !exists {
		return
	}
	delete(m.shapes, id)
	for i, existing := range m.order {
		if existing == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

// Replace swaps the whole shape map, used by undo and boot hydration.
// The selection is reset: restored snapshots may not contain selected ids.
func (m *MemoryStore) Replace(shapes []domain.Shape) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shapes = make(map[string]domain.Shape, len(shapes))
	m.order = m.order[:0]
	for _, shape := range shapes {
		m.shapes[shape.ID] = shape
		m.order = append(m.order, shape.ID)
	}
	m.selection = nil
}

// Selection returns a copy of the selected ids.
func (m *MemoryStore) Selection() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, len(m.selection))
	copy(out, m.selection)
	return out
}

// Select replaces the selection set.
func (m *MemoryStore) Select(ids []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selection = make([]string, len(ids))
	copy(m.selection, ids)
}

// PushHistory stores an undo snapshot, evicting the oldest entry once the
// depth cap is exceeded.
func (m *MemoryStore) PushHistory(snapshot []domain.Shape) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := make([]domain.Shape, len(snapshot))
	copy(kept, snapshot)
	m.history = append(m.history, kept)
	if len(m.history) > m.depth {
		m.history = m.history[1:]
	}
}

// PopHistory removes and returns the most recent snapshot.
func (m *MemoryStore) PopHistory() ([]domain.Shape, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.history) == 0 {
		return nil, false
	}
	snapshot := m.history[len(m.history)-1]
	m.history = m.history[:len(m.history)-1]
	return snapshot, true
}

var _ ports.ShapeStore = (*MemoryStore)(nil)
