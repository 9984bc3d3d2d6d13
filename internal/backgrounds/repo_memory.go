package backgrounds

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	data  map[string]Background
	order []string // insertion order of ids
	now   func() time.Time
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string]Background),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// FindByID returns the background with id.
func (r *MemoryRepo) FindByID(ctx context.Context, id string) (Background, error) {
	if err := ctx.Err(); err != nil {
		return Background{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	bg, ok := r.data[id]
	if !ok {
		return Background{}, ErrNotFound
	}
	return bg, nil
}

// FindAll returns all backgrounds in insertion order.
func (r *MemoryRepo) FindAll(ctx context.Context) ([]Background, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Background, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.data[id])
	}
	return out, nil
}

// Insert stores a new background under a fresh id.
func (r *MemoryRepo) Insert(ctx context.Context, bg Background) (Background, error) {
	if err := ctx.Err(); err != nil {
		return Background{}, err
	}
	now := r.now()
	bg.ID = uuid.NewString()
	bg.CreatedAt = now
	bg.UpdatedAt = now

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[bg.ID] = bg
	r.order = append(r.order, bg.ID)
	return bg, nil
}

// ReplaceByID overwrites an existing background, keeping id and creation time.
func (r *MemoryRepo) ReplaceByID(ctx context.Context, id string, bg Background) (Background, error) {
	if err := ctx.Err(); err != nil {
		return Background{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.data[id]
	if !ok {
		return Background{}, ErrNotFound
	}
	bg.ID = id
	bg.CreatedAt = existing.CreatedAt
	bg.UpdatedAt = r.now()
	r.data[id] = bg
	return bg, nil
}

// DeleteByID removes the background and returns it.
func (r *MemoryRepo) DeleteByID(ctx context.Context, id string) (Background, error) {
	if err := ctx.Err(); err != nil {
		return Background{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	bg, ok := r.data[id]
	if !ok {
		return Background{}, ErrNotFound
	}
	delete(r.data, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return bg, nil
}

var _ Repo = (*MemoryRepo)(nil)
