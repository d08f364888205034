package memory

import (
	"context"
	"sync"

	"github.com/itayyoh/k8s-questions-gen/internal/app"
)

// HistoryRepository keeps practice history in process memory.
type HistoryRepository struct {
	mu      sync.RWMutex
	entries []app.HistoryEntry
}

func NewHistoryRepository() *HistoryRepository {
	return &HistoryRepository{}
}

func (r *HistoryRepository) Save(_ context.Context, entry app.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *HistoryRepository) Recent(_ context.Context, limit int) ([]app.HistoryEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]app.HistoryEntry, 0, limit)
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.entries[i])
	}
	return out, nil
}
