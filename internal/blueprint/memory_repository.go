package blueprint

import (
	"context"
	"fmt"
	"sync"
)

// MemoryRepository implements Repository with a mutex-guarded map. Stored
// values are never mutated in place: AppendPoint swaps in a fresh copy.
type MemoryRepository struct {
	mu    sync.RWMutex
	items map[Key]*Blueprint
}

// NewMemoryRepository creates an empty in-memory Repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{items: make(map[Key]*Blueprint)}
}

// Save stores a copy of bp.
func (r *MemoryRepository) Save(_ context.Context, bp *Blueprint) error {
	key := bp.Key()

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[key]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyExists, key)
	}
	r.items[key] = bp.Clone()
	return nil
}

// Get returns a copy of the blueprint stored under author/name.
func (r *MemoryRepository) Get(_ context.Context, author, name string) (*Blueprint, error) {
	key := Key{Author: author, Name: name}

	r.mu.RLock()
	defer r.mu.RUnlock()

	bp, ok := r.items[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return bp.Clone(), nil
}

// GetByAuthor returns copies of every blueprint owned by author.
func (r *MemoryRepository) GetByAuthor(_ context.Context, author string) ([]Blueprint, error) {
	r.mu.RLock()
	var out []Blueprint
	for key, bp := range r.items {
		if key.Author == author {
			out = append(out, *bp.Clone())
		}
	}
	r.mu.RUnlock()

	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no blueprints for author %q", ErrNotFound, author)
	}
	SortByKey(out)
	return out, nil
}

// GetAll returns copies of every stored blueprint.
func (r *MemoryRepository) GetAll(_ context.Context) ([]Blueprint, error) {
	r.mu.RLock()
	out := make([]Blueprint, 0, len(r.items))
	for _, bp := range r.items {
		out = append(out, *bp.Clone())
	}
	r.mu.RUnlock()

	SortByKey(out)
	return out, nil
}

// AppendPoint replaces the stored blueprint with one carrying p at the tail.
func (r *MemoryRepository) AppendPoint(_ context.Context, author, name string, p Point) error {
	key := Key{Author: author, Name: name}

	r.mu.Lock()
	defer r.mu.Unlock()

	bp, ok := r.items[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}

	pts := make([]Point, len(bp.Points), len(bp.Points)+1)
	copy(pts, bp.Points)
	r.items[key] = &Blueprint{Author: bp.Author, Name: bp.Name, Points: append(pts, p)}
	return nil
}

// Ping always succeeds.
func (r *MemoryRepository) Ping(_ context.Context) error {
	return nil
}
