package memory

import (
	"context"
	"sync"

	"line-relay/internal/domain/model"
	"line-relay/internal/domain/ports/repository"
)

var _ repository.UserRegistry = (*UserRegistry)(nil)

// UserRegistry keeps user ids for the lifetime of the process only.
// Listing follows insertion order.
type UserRegistry struct {
	mu    sync.RWMutex
	seen  map[model.UserID]struct{}
	order []model.UserID
}

func NewUserRegistry() *UserRegistry {
	return &UserRegistry{seen: make(map[model.UserID]struct{})}
}

func (r *UserRegistry) Contains(_ context.Context, id model.UserID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.seen[id]
	return ok, nil
}

func (r *UserRegistry) RecordIfNew(_ context.Context, id model.UserID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.seen[id]; ok {
		return false, nil
	}
	r.seen[id] = struct{}{}
	r.order = append(r.order, id)
	return true, nil
}

func (r *UserRegistry) List(_ context.Context) ([]model.UserID, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.UserID, len(r.order))
	copy(out, r.order)
	return out, nil
}
