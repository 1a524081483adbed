package workitems

import (
	"context"
	"sync"

	"github.com/NancyCima/Azure-Dashboard/internal/shared/apperr"
)

// MemorySource is an in-memory Source for local runs and tests.
type MemorySource struct {
	mu    sync.RWMutex
	items []WorkItem
}

// NewMemorySource seeds a source with items.
func NewMemorySource(items []WorkItem) *MemorySource {
	cp := make([]WorkItem, len(items))
	copy(cp, items)
	return &MemorySource{items: cp}
}

// List returns a copy of the stored items.
func (m *MemorySource) List(ctx context.Context) ([]WorkItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]WorkItem, len(m.items))
	copy(out, m.items)
	return out, nil
}

// AddTag appends tag to the item's "; " separated tags.
func (m *MemorySource) AddTag(ctx context.Context, id int, tag string) error {
	return m.update(id, func(w *WorkItem) {
		existing := ""
		if w.Tags != nil {
			existing = *w.Tags
		}
		merged := mergeTag(existing, tag)
		w.Tags = &merged
	})
}

// UpdateAcceptanceCriteria replaces the item's acceptance criteria.
func (m *MemorySource) UpdateAcceptanceCriteria(ctx context.Context, id int, criteria string) error {
	return m.update(id, func(w *WorkItem) { w.AcceptanceCriteria = criteria })
}

func (m *MemorySource) update(id int, fn func(*WorkItem)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.items {
		if m.items[i].ID == id {
			fn(&m.items[i])
			return nil
		}
	}
	return apperr.NotFound("work item not found")
}
