package portfolio

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository keeps entries in process memory. Used by tests and the
// development store backend.
type MemoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]Entry
	now     func() time.Time
}

// NewMemoryRepository constructs an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{entries: make(map[string][]Entry), now: time.Now}
}

func (r *MemoryRepository) Create(_ context.Context, uid string, entry NewEntry) (string, error) {
	if uid == "" {
		return "", errors.New("uid is required")
	}
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[uid] = append(r.entries[uid], Entry{
		ID:        id,
		AssetType: entry.AssetType,
		Value:     entry.Value,
		Month:     entry.Month,
		CreatedAt: r.now().UTC(),
		CreatedBy: entry.CreatedBy,
	})
	return id, nil
}

// Entries returns a copy of uid's entries in insertion order.
func (r *MemoryRepository) Entries(uid string) []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Entry, len(r.entries[uid]))
	copy(out, r.entries[uid])
	return out
}

// Count returns the number of entries across all users.
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, list := range r.entries {
		n += len(list)
	}
	return n
}
