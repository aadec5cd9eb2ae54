package automation

import (
	"context"
	"slices"
	"sync"
)

// MemoryHistory is an in-process History holding a bounded number of
// executions. The zero value is not usable; use NewMemoryHistory.
type MemoryHistory struct {
	mu       sync.Mutex
	entries  []Execution
	capacity int
}

// NewMemoryHistory creates a history that keeps at most capacity executions,
// discarding the oldest. A capacity <= 0 keeps maxRecentLimit entries.
func NewMemoryHistory(capacity int) *MemoryHistory {
	if capacity <= 0 {
		capacity = maxRecentLimit
	}
	return &MemoryHistory{capacity: capacity}
}

// Record stores a copy of exec.
func (h *MemoryHistory) Record(_ context.Context, exec Execution) error {
	exec.Statuses = slices.Clone(exec.Statuses)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.entries = append(h.entries, exec)
	if over := len(h.entries) - h.capacity; over > 0 {
		h.entries = slices.Delete(h.entries, 0, over)
	}
	return nil
}

// Recent returns up to limit executions, newest first.
func (h *MemoryHistory) Recent(_ context.Context, routine string, limit int) ([]Execution, error) {
	limit = clampLimit(limit)

	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]Execution, 0, min(limit, len(h.entries)))
	for i := len(h.entries) - 1; i >= 0 && len(out) < limit; i-- {
		e := h.entries[i]
		if routine != "" && e.Routine != routine {
			continue
		}
		e.Statuses = slices.Clone(e.Statuses)
		out = append(out, e)
	}
	return out, nil
}
